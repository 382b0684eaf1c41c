package lavalink

// EventHandler receives node lifecycle notifications and raw inbound frames.
// Implementations must not block; they are called from the connection's read
// loop. Embed NopEventHandler to implement only the methods you care about.
type EventHandler interface {
	// OnNodeConnect fires when a node transitions to connected.
	OnNodeConnect(node *Node)
	// OnNodeResume fires before OnNodeConnect when the node reports that the
	// previous session was resumed.
	OnNodeResume(node *Node)
	// OnNodeDisconnect fires on a clean, application-initiated disconnect.
	OnNodeDisconnect(node *Node, reason string)
	// OnNodeError fires on transport errors and unclean closes. The node
	// handles retrying itself; this is notification, not escalation.
	OnNodeError(node *Node, err error)
	// OnRawMessage receives every inbound frame before any routing.
	OnRawMessage(node *Node, data []byte)
}

// NopEventHandler is an EventHandler that ignores everything.
type NopEventHandler struct{}

func (NopEventHandler) OnNodeConnect(*Node)            {}
func (NopEventHandler) OnNodeResume(*Node)             {}
func (NopEventHandler) OnNodeDisconnect(*Node, string) {}
func (NopEventHandler) OnNodeError(*Node, error)       {}
func (NopEventHandler) OnRawMessage(*Node, []byte)     {}

// VoiceDispatcher sends voice-state updates to the upstream gateway on behalf
// of players. An empty channelID means leave the voice channel.
type VoiceDispatcher interface {
	UpdateVoiceState(guildID, channelID string, selfMute, selfDeaf bool) error
}
