package lavalink

import "time"

// ConnectionState represents the transport state of a node or player.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Track is an opaque encoded payload handed out by a node, plus the metadata
// the node decoded for it. The client never interprets Encoded.
type Track struct {
	Encoded string    `json:"track"`
	Info    TrackInfo `json:"info"`
}

// TrackInfo is the decoded metadata for a track. Length and positions are in
// milliseconds throughout, matching the wire format.
type TrackInfo struct {
	Identifier string `json:"identifier"`
	Author     string `json:"author"`
	Length     int64  `json:"length"`
	IsStream   bool   `json:"isStream"`
	IsSeekable bool   `json:"isSeekable"`
	Title      string `json:"title"`
	URI        string `json:"uri"`
}

// Duration returns the track length as a time.Duration.
func (i TrackInfo) Duration() time.Duration {
	return time.Duration(i.Length) * time.Millisecond
}

// NodeStats is the load report a node pushes periodically. Players is the
// statistic node selection minimizes.
type NodeStats struct {
	Players        int   `json:"players"`
	PlayingPlayers int   `json:"playingPlayers"`
	Uptime         int64 `json:"uptime"`

	Memory struct {
		Free       int64 `json:"free"`
		Used       int64 `json:"used"`
		Allocated  int64 `json:"allocated"`
		Reservable int64 `json:"reservable"`
	} `json:"memory"`

	CPU struct {
		Cores        int     `json:"cores"`
		SystemLoad   float64 `json:"systemLoad"`
		LavalinkLoad float64 `json:"lavalinkLoad"`
	} `json:"cpu"`
}

// PlayerState is the playback status a node reports for one guild. Position
// is optional; Connected reflects the node's view of the voice connection.
type PlayerState struct {
	Time      int64  `json:"time"`
	Position  *int64 `json:"position,omitempty"`
	Connected bool   `json:"connected"`
}
