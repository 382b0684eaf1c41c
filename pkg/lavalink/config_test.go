package lavalink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  NodeConfig
		wantErr error
	}{
		{
			name:   "valid config",
			config: NodeConfig{Host: "localhost", Port: 2333, Password: "secret"},
		},
		{
			name:    "missing host",
			config:  NodeConfig{Port: 2333, Password: "secret"},
			wantErr: ErrInvalidHost,
		},
		{
			name:    "port out of range",
			config:  NodeConfig{Host: "localhost", Port: 70000, Password: "secret"},
			wantErr: ErrInvalidPort,
		},
		{
			name:    "zero port",
			config:  NodeConfig{Host: "localhost", Password: "secret"},
			wantErr: ErrInvalidPort,
		},
		{
			name:    "missing password",
			config:  NodeConfig{Host: "localhost", Port: 2333},
			wantErr: ErrNoPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNodeConfigDefaults(t *testing.T) {
	cfg := NodeConfig{Host: "localhost", Port: 2333, Password: "secret"}
	cfg.applyDefaults()

	assert.Equal(t, "localhost:2333", cfg.ID)
	assert.NotEmpty(t, cfg.ResumeKey)
	assert.Equal(t, 60*time.Second, cfg.ResumeTimeout)
	assert.Equal(t, 10, cfg.MaxRetryAttempts)
	assert.Equal(t, 5*time.Second, cfg.RetryDelay)
}

func TestClientConfigValidate(t *testing.T) {
	node := NodeConfig{Host: "localhost", Port: 2333, Password: "secret"}

	err := (&ClientConfig{Nodes: []NodeConfig{node}}).Validate()
	assert.ErrorIs(t, err, ErrNoUserID)

	err = (&ClientConfig{UserID: "123"}).Validate()
	assert.ErrorIs(t, err, ErrNoNodesConfigured)

	err = (&ClientConfig{UserID: "123", Nodes: []NodeConfig{{Host: "localhost"}}}).Validate()
	assert.ErrorIs(t, err, ErrInvalidPort)
}

func TestNewRejectsDuplicateNodeIDs(t *testing.T) {
	_, err := New(ClientConfig{
		UserID: "123",
		Nodes: []NodeConfig{
			{ID: "main", Host: "a", Port: 2333, Password: "x"},
			{ID: "main", Host: "b", Port: 2333, Password: "x"},
		},
	})
	require.ErrorIs(t, err, ErrDuplicateNodeID)
}
