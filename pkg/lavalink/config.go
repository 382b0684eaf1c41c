package lavalink

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultClientName = "Yotei/1.0.0"

// NodeConfig describes one remote audio-processing node.
type NodeConfig struct {
	// ID identifies the node in logs and lookups. Defaults to "host:port".
	ID string

	Host     string
	Port     int
	Secure   bool
	Password string

	// ResumeKey lets the node re-attach a preserved session after a brief
	// disconnect. Defaults to a generated key, which survives reconnects but
	// not process restarts; set it explicitly if you need the latter.
	ResumeKey string
	// ResumeTimeout is how long the node preserves session state after an
	// unclean disconnect. Defaults to 60 seconds.
	ResumeTimeout time.Duration

	// MaxRetryAttempts bounds connection attempts over the node's lifetime.
	// Defaults to 10.
	MaxRetryAttempts int
	// RetryDelay is the wait before a scheduled reconnect. Defaults to 5s.
	RetryDelay time.Duration
}

func (c *NodeConfig) applyDefaults() {
	if c.ID == "" {
		c.ID = fmt.Sprintf("%s:%d", c.Host, c.Port)
	}
	if c.ResumeKey == "" {
		c.ResumeKey = uuid.NewString()
	}
	if c.ResumeTimeout <= 0 {
		c.ResumeTimeout = 60 * time.Second
	}
	if c.MaxRetryAttempts <= 0 {
		c.MaxRetryAttempts = 10
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 5 * time.Second
	}
}

// Validate checks the fields that have no usable default.
func (c *NodeConfig) Validate() error {
	if c.Host == "" {
		return ErrInvalidHost
	}
	if c.Port <= 0 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if c.Password == "" {
		return ErrNoPassword
	}
	return nil
}

// ClientConfig configures the client and its node registry.
type ClientConfig struct {
	// UserID is the application's client identifier, sent on every handshake.
	UserID string
	// ClientName is the name/version string sent on every handshake.
	// Defaults to "Yotei/1.0.0".
	ClientName string

	// Nodes lists the cluster, in priority order for selection tie-breaks.
	Nodes []NodeConfig

	// Dispatcher forwards voice-state updates to the upstream gateway.
	// Required before any player can connect to voice.
	Dispatcher VoiceDispatcher

	// Handler receives lifecycle events. Defaults to NopEventHandler.
	Handler EventHandler

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

func (c *ClientConfig) applyDefaults() {
	if c.ClientName == "" {
		c.ClientName = defaultClientName
	}
	if c.Handler == nil {
		c.Handler = NopEventHandler{}
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// Validate checks the client configuration and every node in it.
func (c *ClientConfig) Validate() error {
	if c.UserID == "" {
		return ErrNoUserID
	}
	if len(c.Nodes) == 0 {
		return ErrNoNodesConfigured
	}
	for i := range c.Nodes {
		if err := c.Nodes[i].Validate(); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
	}
	return nil
}
