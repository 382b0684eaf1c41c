package lavalink

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// socket is the subset of *websocket.Conn the node uses. Narrowed so tests
// can substitute the transport.
type socket interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Node owns the persistent connection to one remote audio-processing node.
// It connects and retries autonomously; the zero value is not usable, nodes
// are created by the Client from its configuration.
type Node struct {
	cfg    NodeConfig
	client *Client
	log    *zap.Logger

	mu          sync.Mutex
	state       ConnectionState
	conn        socket
	resumed     bool
	attempts    int
	retryTimer  *time.Timer
	closing     bool
	closeReason string
	stats       NodeStats

	// writeMu serializes writes so sends on one connection stay ordered.
	writeMu sync.Mutex

	rest *http.Client
}

func newNode(client *Client, cfg NodeConfig) *Node {
	return &Node{
		cfg:    cfg,
		client: client,
		log:    client.log.With(zap.String("node", cfg.ID)),
		rest:   &http.Client{Timeout: 10 * time.Second},
	}
}

// ID returns the node's identifier.
func (n *Node) ID() string {
	return n.cfg.ID
}

// State returns the current connection state.
func (n *Node) State() ConnectionState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Attempts returns the number of connection attempts made over the node's
// lifetime. It never decreases.
func (n *Node) Attempts() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.attempts
}

// Stats returns the last load report received from the node.
func (n *Node) Stats() NodeStats {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stats
}

func (n *Node) wsAddr() string {
	scheme := "ws"
	if n.cfg.Secure {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, n.cfg.Host, n.cfg.Port)
}

func (n *Node) restAddr() string {
	scheme := "http"
	if n.cfg.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, n.cfg.Host, n.cfg.Port)
}

// Connect opens the transport and performs the authentication handshake. It
// is a no-op unless the node is disconnected, which also guards against
// concurrent duplicate attempts. Dial failures are not returned: they are
// reported through the event handler and feed the retry policy.
func (n *Node) Connect() {
	n.mu.Lock()
	if n.state != StateDisconnected {
		n.mu.Unlock()
		return
	}
	n.cancelRetryLocked()
	n.attempts++
	attempt := n.attempts
	n.state = StateConnecting
	n.mu.Unlock()

	headers := http.Header{}
	headers.Set("Authorization", n.cfg.Password)
	headers.Set("User-Id", n.client.cfg.UserID)
	headers.Set("Client-Name", n.client.cfg.ClientName)
	if n.cfg.ResumeKey != "" {
		headers.Set("Resume-Key", n.cfg.ResumeKey)
	}

	n.log.Info("connecting to node",
		zap.String("addr", n.wsAddr()),
		zap.Int("attempt", attempt),
	)

	conn, resp, err := websocket.DefaultDialer.Dial(n.wsAddr(), headers)
	if err != nil {
		n.mu.Lock()
		n.state = StateDisconnected
		n.mu.Unlock()

		n.client.handler.OnNodeError(n, fmt.Errorf("dial %s: %w", n.wsAddr(), err))
		n.scheduleRetry()
		return
	}

	// The handshake response tells us whether the previous session was
	// resumed, and must be observed before deciding to re-issue the resume
	// configuration.
	resumed := resp != nil && strings.EqualFold(resp.Header.Get("Session-Resumed"), "true")

	n.mu.Lock()
	n.conn = conn
	n.state = StateConnected
	n.resumed = resumed
	n.mu.Unlock()

	if resumed {
		n.log.Info("session resumed by node")
		n.client.handler.OnNodeResume(n)
	}
	n.client.handler.OnNodeConnect(n)

	if !resumed {
		n.Send(configureResumingMessage{
			Op:      opConfigureResuming,
			Key:     n.cfg.ResumeKey,
			Timeout: int64(n.cfg.ResumeTimeout / time.Second),
		})
	}

	n.mu.Lock()
	n.resumed = false
	n.mu.Unlock()

	go n.readLoop(conn)
}

// Disconnect closes the transport cleanly with the given reason. No retry is
// scheduled, and any pending one is cancelled. No-op when already
// disconnected.
func (n *Node) Disconnect(reason string) {
	n.mu.Lock()
	n.cancelRetryLocked()
	if n.state == StateDisconnected || n.conn == nil {
		n.mu.Unlock()
		return
	}
	n.closing = true
	n.closeReason = reason
	conn := n.conn
	n.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		n.log.Debug("close frame write failed", zap.Error(err))
	}
	conn.Close()
}

// Send marshals and writes one command. It is a deliberate at-most-once,
// fire-and-forget send: while the node is not connected the payload is
// silently dropped, and delivery is never confirmed.
func (n *Node) Send(v interface{}) {
	n.mu.Lock()
	if n.state != StateConnected || n.conn == nil {
		n.mu.Unlock()
		n.log.Debug("dropped send while not connected")
		return
	}
	conn := n.conn
	n.mu.Unlock()

	n.writeMu.Lock()
	defer n.writeMu.Unlock()
	if err := conn.WriteJSON(v); err != nil {
		n.log.Warn("write failed", zap.Error(err))
	}
}

func (n *Node) readLoop(conn socket) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			n.handleClose(conn, err)
			return
		}
		n.handleMessage(data)
	}
}

// handleClose owns the CONNECTED -> DISCONNECTED transition. A clean,
// application-initiated close stops here; an unclean close reports the error
// and schedules a retry while the attempt budget lasts.
func (n *Node) handleClose(conn socket, err error) {
	n.mu.Lock()
	if n.conn != conn {
		// A stale read loop from a transport that was already replaced.
		n.mu.Unlock()
		return
	}
	n.conn = nil
	n.state = StateDisconnected
	clean := n.closing
	reason := n.closeReason
	n.closing = false
	n.closeReason = ""
	n.mu.Unlock()

	conn.Close()

	if clean {
		n.log.Info("disconnected", zap.String("reason", reason))
		n.client.handler.OnNodeDisconnect(n, reason)
		return
	}

	n.log.Warn("connection closed uncleanly", zap.Error(err))
	n.client.handler.OnNodeError(n, fmt.Errorf("connection to %s closed: %w", n.cfg.ID, err))
	n.scheduleRetry()
}

// scheduleRetry arms the reconnect timer iff the lifetime attempt count is
// still below the configured maximum. The timer is cancellable and keyed to
// this node; a newer schedule replaces a pending one.
func (n *Node) scheduleRetry() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.attempts >= n.cfg.MaxRetryAttempts {
		n.log.Error("retry attempts exhausted, not reconnecting",
			zap.Int("attempts", n.attempts),
			zap.Int("max", n.cfg.MaxRetryAttempts),
		)
		return
	}

	n.cancelRetryLocked()
	n.log.Info("scheduling reconnect",
		zap.Duration("delay", n.cfg.RetryDelay),
		zap.Int("attempts", n.attempts),
	)
	n.retryTimer = time.AfterFunc(n.cfg.RetryDelay, n.Connect)
}

func (n *Node) cancelRetryLocked() {
	if n.retryTimer != nil {
		n.retryTimer.Stop()
		n.retryTimer = nil
	}
}

// RetryScheduled reports whether a reconnect is pending. A disconnected node
// with no pending retry has exhausted its budget and stays down until the
// application reacts, e.g. by migrating players away.
func (n *Node) RetryScheduled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.retryTimer != nil
}

// handleMessage forwards every frame raw to the event handler, then routes
// the two ops the client consumes itself: load stats and player updates.
func (n *Node) handleMessage(data []byte) {
	n.client.handler.OnRawMessage(n, data)

	var env inboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		n.log.Warn("invalid message format", zap.Error(err))
		return
	}

	switch env.Op {
	case opStats:
		var stats NodeStats
		if err := json.Unmarshal(data, &stats); err != nil {
			n.log.Warn("invalid stats payload", zap.Error(err))
			return
		}
		n.mu.Lock()
		n.stats = stats
		n.mu.Unlock()

	case opEvent:
		var event eventMessage
		if err := json.Unmarshal(data, &event); err != nil {
			n.log.Warn("invalid event payload", zap.Error(err))
			return
		}
		if event.Type == "TrackEndEvent" {
			if player := n.client.Player(event.GuildID); player != nil {
				player.handleTrackEnd(event.Reason)
			}
		}

	case opPlayerUpdate:
		var update playerUpdateMessage
		if err := json.Unmarshal(data, &update); err != nil {
			n.log.Warn("invalid player update payload", zap.Error(err))
			return
		}
		if player := n.client.Player(update.GuildID); player != nil {
			player.UpdatePlayer(update.State)
		}
	}
}
