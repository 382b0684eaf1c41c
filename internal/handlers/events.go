package handlers

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/latoulicious/Yotei/pkg/lavalink"
)

// LavalinkHandler reacts to node lifecycle events: it advances guild queues
// when tracks finish and migrates players away from nodes that have
// exhausted their retry budget.
type LavalinkHandler struct {
	lavalink.NopEventHandler

	log    *zap.Logger
	client *lavalink.Client
}

func NewLavalinkHandler(log *zap.Logger) *LavalinkHandler {
	return &LavalinkHandler{log: log.With(zap.String("component", "lavalink_handler"))}
}

// SetClient must be called once the client exists; the handler is needed to
// construct the client, so the reference arrives late.
func (h *LavalinkHandler) SetClient(c *lavalink.Client) {
	h.client = c
}

func (h *LavalinkHandler) OnNodeConnect(node *lavalink.Node) {
	h.log.Info("node connected", zap.String("node", node.ID()))
}

func (h *LavalinkHandler) OnNodeResume(node *lavalink.Node) {
	h.log.Info("node session resumed", zap.String("node", node.ID()))
}

func (h *LavalinkHandler) OnNodeDisconnect(node *lavalink.Node, reason string) {
	h.log.Info("node disconnected", zap.String("node", node.ID()), zap.String("reason", reason))
}

// OnNodeError fires on every transport failure. The node retries on its own;
// only when it has given up do we move its players elsewhere.
func (h *LavalinkHandler) OnNodeError(node *lavalink.Node, err error) {
	h.log.Warn("node error", zap.String("node", node.ID()), zap.Error(err))

	if h.client == nil || node.State() != lavalink.StateDisconnected || node.RetryScheduled() {
		return
	}

	for _, player := range h.client.Players() {
		current := player.Node()
		if current == nil || current.ID() != node.ID() {
			continue
		}
		target, err := h.client.BestNode()
		if err != nil {
			h.log.Error("no healthy node to migrate to", zap.String("guild", player.GuildID()))
			continue
		}
		if err := player.MoveNode(target); err != nil {
			h.log.Error("player migration failed",
				zap.String("guild", player.GuildID()),
				zap.String("target", target.ID()),
				zap.Error(err))
		} else {
			h.log.Info("player migrated",
				zap.String("guild", player.GuildID()),
				zap.String("from", node.ID()),
				zap.String("to", target.ID()))
		}
	}
}

// OnRawMessage watches for track-end events and starts the next track.
func (h *LavalinkHandler) OnRawMessage(node *lavalink.Node, data []byte) {
	if h.client == nil {
		return
	}

	var event struct {
		Op      string `json:"op"`
		Type    string `json:"type"`
		GuildID string `json:"guildId"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(data, &event); err != nil {
		return
	}
	if event.Op != "event" || event.Type != "TrackEndEvent" {
		return
	}
	if event.Reason != lavalink.TrackEndFinished && event.Reason != lavalink.TrackEndStopped && event.Reason != lavalink.TrackEndLoadFailed {
		return
	}

	player := h.client.Player(event.GuildID)
	if player == nil {
		return
	}
	if err := player.Play(nil); err != nil {
		if errors.Is(err, lavalink.ErrNothingToPlay) {
			h.log.Debug("queue finished", zap.String("guild", event.GuildID))
			return
		}
		h.log.Warn("failed to advance queue", zap.String("guild", event.GuildID), zap.Error(err))
	}
}
