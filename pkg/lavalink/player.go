package lavalink

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Player is the per-guild playback state machine. It is bound to exactly one
// node at a time, referenced by id through the client registry; the binding
// changes only via MoveNode.
type Player struct {
	client *Client
	guild  string
	log    *zap.Logger

	mu     sync.Mutex
	nodeID string

	channelID     string
	textChannelID string
	selfDeaf      bool
	selfMute      bool

	playing     bool
	paused      bool
	trackRepeat bool
	queueRepeat bool

	current    *Track
	queue      *Queue
	position   int64 // milliseconds, authoritative as of positionAt
	positionAt time.Time

	state     ConnectionState
	moving    bool
	destroyed bool

	voiceSessionID string
	voiceToken     string
	voiceEndpoint  string
}

func newPlayer(client *Client, guildID, nodeID string) *Player {
	return &Player{
		client: client,
		guild:  guildID,
		log:    client.log.With(zap.String("guild", guildID)),
		nodeID: nodeID,
		queue:  NewQueue(),
	}
}

// GuildID returns the guild this player belongs to.
func (p *Player) GuildID() string { return p.guild }

// Queue returns the player's track queue.
func (p *Player) Queue() *Queue { return p.queue }

// Node resolves the player's current node through the client registry.
func (p *Player) Node() *Node {
	p.mu.Lock()
	id := p.nodeID
	p.mu.Unlock()
	return p.client.Node(id)
}

// State returns the player's transport state.
func (p *Player) State() ConnectionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Current returns the track being played, or nil.
func (p *Player) Current() *Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	t := *p.current
	return &t
}

// Playing reports whether the player considers itself playing.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Paused reports the local pause flag.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Moving reports whether a node migration is in progress.
func (p *Player) Moving() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.moving
}

// TrackRepeat reports the track-repeat flag.
func (p *Player) TrackRepeat() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trackRepeat
}

// QueueRepeat reports the queue-repeat flag.
func (p *Player) QueueRepeat() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queueRepeat
}

// SetVoiceChannel sets the target voice channel for Connect.
func (p *Player) SetVoiceChannel(channelID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channelID = channelID
}

// SetTextChannel sets the text channel associated with this player.
func (p *Player) SetTextChannel(channelID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.textChannelID = channelID
}

// TextChannel returns the associated text channel id.
func (p *Player) TextChannel() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.textChannelID
}

// SetSelfDeaf sets the self-deaf flag used on the next Connect.
func (p *Player) SetSelfDeaf(deaf bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selfDeaf = deaf
}

// SetSelfMute sets the self-mute flag used on the next Connect.
func (p *Player) SetSelfMute(mute bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selfMute = mute
}

// SetTrackLoop toggles repeating the current track.
func (p *Player) SetTrackLoop(state bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trackRepeat = state
}

// SetQueueLoop toggles re-queueing finished tracks.
func (p *Player) SetQueueLoop(state bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queueRepeat = state
}

// Connect asks the upstream gateway to join the configured voice channel.
// The transition to connected is driven by the node's player updates once
// the gateway confirms, not synchronously here. No-op when already
// connected.
func (p *Player) Connect() error {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return ErrPlayerDestroyed
	}
	if p.state == StateConnected {
		p.mu.Unlock()
		return nil
	}
	if p.client.Node(p.nodeID) == nil {
		p.mu.Unlock()
		return ErrNoNodeAssigned
	}
	if p.channelID == "" {
		p.mu.Unlock()
		return ErrNoVoiceChannel
	}
	p.state = StateConnecting
	channelID := p.channelID
	mute, deaf := p.selfMute, p.selfDeaf
	p.mu.Unlock()

	if err := p.client.cfg.Dispatcher.UpdateVoiceState(p.guild, channelID, mute, deaf); err != nil {
		p.mu.Lock()
		p.state = StateDisconnected
		p.mu.Unlock()
		return err
	}
	return nil
}

// Disconnect asks the gateway to leave voice and transitions to disconnected
// immediately, without waiting for confirmation. No-op when already
// disconnected.
func (p *Player) Disconnect() error {
	p.mu.Lock()
	if p.state == StateDisconnected {
		p.mu.Unlock()
		return nil
	}
	mute, deaf := p.selfMute, p.selfDeaf
	p.state = StateDisconnected
	p.playing = false
	p.mu.Unlock()

	return p.client.cfg.Dispatcher.UpdateVoiceState(p.guild, "", mute, deaf)
}

// Destroy disconnects voice, tells the owning node to discard server-side
// state for this guild, and removes the player from the registry. Terminal:
// no further operations are valid.
func (p *Player) Destroy() error {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return nil
	}
	p.destroyed = true
	p.mu.Unlock()

	err := p.Disconnect()

	if node := p.Node(); node != nil {
		node.Send(destroyMessage{Op: opDestroy, GuildID: p.guild})
	}
	p.client.removePlayer(p.guild)
	p.log.Info("player destroyed")
	return err
}

// Play starts the next track. When there is no current track, or the current
// one is not being repeated, the front of the queue becomes current;
// track-repeat only has effect while a current track exists. Fails when
// there is nothing to advance to.
func (p *Player) Play(opts *PlayOptions) error {
	node := p.Node()
	if node == nil {
		return ErrNoNodeAssigned
	}

	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return ErrPlayerDestroyed
	}
	if p.current == nil && p.queue.Size() == 0 {
		p.mu.Unlock()
		return ErrNothingToPlay
	}
	if p.current == nil || !p.trackRepeat {
		if next, ok := p.queue.Next(); ok {
			p.current = &next
		} else if p.current == nil {
			p.mu.Unlock()
			return ErrNothingToPlay
		}
	}

	msg := playMessage{
		Op:      opPlay,
		GuildID: p.guild,
		Track:   p.current.Encoded,
	}
	if opts != nil {
		msg.StartTime = opts.StartTime
		msg.EndTime = opts.EndTime
		msg.NoReplace = opts.NoReplace
	}

	p.playing = true
	p.paused = false
	p.position = msg.StartTime
	p.positionAt = time.Now()
	title := p.current.Info.Title
	p.mu.Unlock()

	p.log.Debug("playing track", zap.String("title", title))
	node.Send(msg)
	return nil
}

// Skip drops up to amount tracks from the front of the queue and stops the
// current one; the resulting track-end notification from the node is what
// triggers the next Play. Amounts below one count as one. No-op while not
// playing.
func (p *Player) Skip(amount int) error {
	node := p.Node()

	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return ErrPlayerDestroyed
	}
	if !p.playing {
		p.mu.Unlock()
		return nil
	}
	if amount < 1 {
		amount = 1
	}
	p.queue.DropFirst(amount)
	p.mu.Unlock()

	if node != nil {
		node.Send(stopMessage{Op: opStop, GuildID: p.guild})
	}
	return nil
}

// Pause sets the pause state locally and on the node.
func (p *Player) Pause(state bool) error {
	node := p.Node()
	if node == nil {
		return ErrNoNodeAssigned
	}

	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return ErrPlayerDestroyed
	}
	p.paused = state
	p.mu.Unlock()

	node.Send(pauseMessage{Op: opPause, GuildID: p.guild, Pause: state})
	return nil
}

// Seek moves playback to position (milliseconds). A position past the end of
// the current track skips it instead. No-op while not playing or without a
// current track.
func (p *Player) Seek(position int64) error {
	node := p.Node()

	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return ErrPlayerDestroyed
	}
	if !p.playing || p.current == nil {
		p.mu.Unlock()
		return nil
	}
	if position < 0 {
		p.mu.Unlock()
		return ErrInvalidSeekPosition
	}
	if position > p.current.Info.Length {
		p.mu.Unlock()
		return p.Skip(1)
	}
	p.mu.Unlock()

	if node != nil {
		node.Send(seekMessage{Op: opSeek, GuildID: p.guild, Position: position})
	}
	return nil
}

// SendVoiceUpdate forwards the player's voice credentials to its node. Must
// be re-issued whenever credentials change or after a migration.
func (p *Player) SendVoiceUpdate() error {
	node := p.Node()
	if node == nil {
		return ErrNoNodeAssigned
	}

	p.mu.Lock()
	if p.voiceSessionID == "" || p.voiceToken == "" || p.voiceEndpoint == "" {
		p.mu.Unlock()
		return ErrNoVoiceCredentials
	}
	msg := voiceUpdateMessage{
		Op:        opVoiceUpdate,
		GuildID:   p.guild,
		SessionID: p.voiceSessionID,
		Token:     p.voiceToken,
		Endpoint:  p.voiceEndpoint,
	}
	p.mu.Unlock()

	node.Send(msg)
	return nil
}

// SetVoiceSession stores the gateway voice session id. Once both credential
// halves are present the node is (re)informed.
func (p *Player) SetVoiceSession(sessionID string) {
	p.mu.Lock()
	p.voiceSessionID = sessionID
	ready := p.voiceToken != "" && p.voiceEndpoint != ""
	p.mu.Unlock()

	if ready {
		if err := p.SendVoiceUpdate(); err != nil {
			p.log.Warn("voice update not sent", zap.Error(err))
		}
	}
}

// SetVoiceServer stores the gateway voice token and endpoint. Once both
// credential halves are present the node is (re)informed.
func (p *Player) SetVoiceServer(token, endpoint string) {
	p.mu.Lock()
	p.voiceToken = token
	p.voiceEndpoint = endpoint
	ready := p.voiceSessionID != ""
	p.mu.Unlock()

	if ready {
		if err := p.SendVoiceUpdate(); err != nil {
			p.log.Warn("voice update not sent", zap.Error(err))
		}
	}
}

// UpdatePlayer applies a playback status report from the node. This is the
// only path that advances the player from connecting to connected.
func (p *Player) UpdatePlayer(state PlayerState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if state.Position != nil {
		p.position = *state.Position
		p.positionAt = time.Now()
	}
	if state.Connected && p.state != StateConnected {
		p.state = StateConnected
	} else if !state.Connected && p.state != StateDisconnected {
		p.state = StateDisconnected
	}
}

// handleTrackEnd keeps local bookkeeping consistent when the node reports
// the current track ended. What (and whether) to play next stays with the
// application, which observes the same event through OnRawMessage.
func (p *Player) handleTrackEnd(reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// A replace means a new play command already took over.
	if reason == TrackEndReplaced {
		return
	}

	p.playing = false
	if !p.trackRepeat {
		if p.queueRepeat && p.current != nil {
			p.queue.Add(*p.current)
		}
		p.current = nil
	}
}

// ExactPosition extrapolates the playback position (milliseconds) from the
// last authoritative report. It is an estimate between updates, not itself
// authoritative, and is monotone non-decreasing between them.
func (p *Player) ExactPosition() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exactPositionLocked()
}

func (p *Player) exactPositionLocked() int64 {
	pos := p.position
	if p.playing && !p.paused && !p.positionAt.IsZero() {
		pos += time.Since(p.positionAt).Milliseconds()
	}
	if p.current != nil && pos > p.current.Info.Length {
		pos = p.current.Info.Length
	}
	return pos
}

// MoveNode migrates the player to target, preserving queue, current track
// and position. The old node is told to discard its state, the voice update
// is re-sent to the new node, and if the player was actively playing the
// current track is restarted there from the position recorded at migration
// time. No-op when target is already the current node.
func (p *Player) MoveNode(target *Node) error {
	if target == nil || target.State() != StateConnected {
		return ErrNodeUnavailable
	}

	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return ErrPlayerDestroyed
	}
	if p.nodeID == target.ID() {
		p.mu.Unlock()
		return nil
	}

	p.moving = true
	oldID := p.nodeID
	p.nodeID = target.ID()

	haveVoice := p.voiceSessionID != "" && p.voiceToken != "" && p.voiceEndpoint != ""
	replay := p.playing && p.current != nil
	var resume playMessage
	if replay {
		resume = playMessage{
			Op:      opPlay,
			GuildID: p.guild,
			Track:   p.current.Encoded,
			// Position captured now, not when the new node confirms
			// readiness; a slow migration can audibly jump.
			StartTime: p.exactPositionLocked(),
		}
	}
	p.mu.Unlock()

	p.log.Info("moving player",
		zap.String("from", oldID),
		zap.String("to", target.ID()),
	)

	if old := p.client.Node(oldID); old != nil {
		old.Send(destroyMessage{Op: opDestroy, GuildID: p.guild})
	}

	if haveVoice {
		p.mu.Lock()
		p.state = StateConnecting
		p.mu.Unlock()

		if err := p.SendVoiceUpdate(); err != nil {
			p.mu.Lock()
			p.moving = false
			p.mu.Unlock()
			return err
		}

		p.mu.Lock()
		p.state = StateConnected
		p.mu.Unlock()
	}

	if replay {
		target.Send(resume)
	}

	p.mu.Lock()
	p.moving = false
	p.mu.Unlock()
	return nil
}
