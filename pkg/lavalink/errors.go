package lavalink

import "errors"

// Configuration errors
var (
	ErrNoUserID          = errors.New("client user id is not set")
	ErrNoNodesConfigured = errors.New("no nodes configured")
	ErrInvalidHost       = errors.New("invalid node host")
	ErrInvalidPort       = errors.New("invalid node port")
	ErrNoPassword        = errors.New("node password is not set")
	ErrDuplicateNodeID   = errors.New("duplicate node id")
)

// Player precondition errors
var (
	ErrNoNodeAssigned       = errors.New("player has no node assigned")
	ErrNoNodesAvailable     = errors.New("no nodes available")
	ErrNodeUnavailable      = errors.New("target node is not available")
	ErrNoVoiceChannel       = errors.New("no voice channel set")
	ErrNoVoiceCredentials   = errors.New("voice credentials not established")
	ErrNothingToPlay        = errors.New("nothing to play")
	ErrInvalidSeekPosition  = errors.New("invalid seek position")
	ErrPlayerDestroyed      = errors.New("player has been destroyed")
	ErrQueueIndexOutOfRange = errors.New("queue index out of range")
)

// REST errors
var (
	ErrLoadFailed = errors.New("track loading failed")
)
