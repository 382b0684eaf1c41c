package lavalink

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeSocket records everything written to it; ReadMessage blocks until the
// socket is closed, like an idle connection would.
type fakeSocket struct {
	mu     sync.Mutex
	writes []interface{}
	done   chan struct{}
	once   sync.Once
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{done: make(chan struct{})}
}

func (f *fakeSocket) ReadMessage() (int, []byte, error) {
	<-f.done
	return 0, nil, errors.New("fake socket closed")
}

func (f *fakeSocket) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, v)
	return nil
}

func (f *fakeSocket) WriteControl(messageType int, data []byte, deadline time.Time) error {
	return nil
}

func (f *fakeSocket) Close() error {
	f.once.Do(func() { close(f.done) })
	return nil
}

func (f *fakeSocket) sent() []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]interface{}, len(f.writes))
	copy(result, f.writes)
	return result
}

// voiceCall records one dispatched voice-state update.
type voiceCall struct {
	GuildID   string
	ChannelID string
	SelfMute  bool
	SelfDeaf  bool
}

type fakeDispatcher struct {
	mu    sync.Mutex
	calls []voiceCall
	err   error
}

func (d *fakeDispatcher) UpdateVoiceState(guildID, channelID string, selfMute, selfDeaf bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.calls = append(d.calls, voiceCall{guildID, channelID, selfMute, selfDeaf})
	return nil
}

func (d *fakeDispatcher) dispatched() []voiceCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	result := make([]voiceCall, len(d.calls))
	copy(result, d.calls)
	return result
}

// newTestClient builds a client over n offline nodes and a recording
// dispatcher.
func newTestClient(t *testing.T, n int) (*Client, *fakeDispatcher) {
	t.Helper()

	dispatcher := &fakeDispatcher{}
	nodes := make([]NodeConfig, n)
	for i := range nodes {
		nodes[i] = NodeConfig{Host: "localhost", Port: 2333 + i, Password: "secret"}
	}

	client, err := New(ClientConfig{
		UserID:     "9000",
		Nodes:      nodes,
		Dispatcher: dispatcher,
	})
	if err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}
	return client, dispatcher
}

// markConnected attaches a fake socket and forces the node into the
// connected state, without starting a read loop.
func markConnected(n *Node) *fakeSocket {
	sock := newFakeSocket()
	n.mu.Lock()
	n.conn = sock
	n.state = StateConnected
	n.mu.Unlock()
	return sock
}

func setPlayers(n *Node, players int) {
	n.mu.Lock()
	n.stats.Players = players
	n.mu.Unlock()
}
