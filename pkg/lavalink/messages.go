package lavalink

// Outbound op names.
const (
	opConfigureResuming = "configureResuming"
	opDestroy           = "destroy"
	opPlay              = "play"
	opStop              = "stop"
	opPause             = "pause"
	opSeek              = "seek"
	opVoiceUpdate       = "voiceUpdate"
)

// Inbound op names the client routes itself. Everything else is only
// forwarded raw to the event handler.
const (
	opStats        = "stats"
	opPlayerUpdate = "playerUpdate"
	opEvent        = "event"
)

// Each outbound command gets an explicit request type so the wire contract
// stays statically checkable.

type configureResumingMessage struct {
	Op      string `json:"op"`
	Key     string `json:"key"`
	Timeout int64  `json:"timeout"` // seconds
}

type destroyMessage struct {
	Op      string `json:"op"`
	GuildID string `json:"guildId"`
}

type playMessage struct {
	Op        string `json:"op"`
	GuildID   string `json:"guildId"`
	Track     string `json:"track"`
	StartTime int64  `json:"startTime,omitempty"`
	EndTime   int64  `json:"endTime,omitempty"`
	NoReplace bool   `json:"noReplace,omitempty"`
}

type stopMessage struct {
	Op      string `json:"op"`
	GuildID string `json:"guildId"`
}

type pauseMessage struct {
	Op      string `json:"op"`
	GuildID string `json:"guildId"`
	Pause   bool   `json:"pause"`
}

type seekMessage struct {
	Op       string `json:"op"`
	GuildID  string `json:"guildId"`
	Position int64  `json:"position"`
}

type voiceUpdateMessage struct {
	Op        string `json:"op"`
	GuildID   string `json:"guildId"`
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
	Endpoint  string `json:"endpoint"`
}

// inboundEnvelope is the first-pass parse of every inbound frame; the full
// payload is re-parsed per op.
type inboundEnvelope struct {
	Op      string `json:"op"`
	GuildID string `json:"guildId"`
}

// eventMessage is the envelope of op=event frames; only TrackEndEvent gets
// in-core bookkeeping, everything else is the event handler's business.
type eventMessage struct {
	Op      string `json:"op"`
	Type    string `json:"type"`
	GuildID string `json:"guildId"`
	Reason  string `json:"reason"`
}

// Track end reasons, as reported by the node.
const (
	TrackEndFinished   = "FINISHED"
	TrackEndLoadFailed = "LOAD_FAILED"
	TrackEndStopped    = "STOPPED"
	TrackEndReplaced   = "REPLACED"
	TrackEndCleanup    = "CLEANUP"
)

type playerUpdateMessage struct {
	Op      string      `json:"op"`
	GuildID string      `json:"guildId"`
	State   PlayerState `json:"state"`
}

// PlayOptions carries the optional fields of a play command.
type PlayOptions struct {
	StartTime int64 // milliseconds
	EndTime   int64 // milliseconds
	NoReplace bool
}
