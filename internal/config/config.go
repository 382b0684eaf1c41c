package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/latoulicious/Yotei/pkg/lavalink"
	"github.com/latoulicious/Yotei/pkg/logging"
)

var (
	ErrDiscordTokenNotSet = errors.New("DISCORD_TOKEN is not set")
	ErrNodesNotSet        = errors.New("YOTEI_NODES is not set")
	ErrInvalidNodeEntry   = errors.New("invalid node entry")
)

type Config struct {
	DiscordToken string
	Nodes        []lavalink.NodeConfig
	Logging      logging.Config
}

// LoadConfig reads the bot configuration from the environment, loading a
// .env file first if one is present.
func LoadConfig() (*Config, error) {
	// A missing .env file is fine in deployment; real env vars win anyway.
	_ = godotenv.Load()

	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return nil, ErrDiscordTokenNotSet
	}

	nodes, err := parseNodes(os.Getenv("YOTEI_NODES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DiscordToken: token,
		Nodes:        nodes,
		Logging: logging.Config{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     14,
		},
	}

	if val := os.Getenv("YOTEI_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("YOTEI_LOG_PATH"); val != "" {
		cfg.Logging.OutputPath = val
	}
	if val := os.Getenv("YOTEI_NODE_RETRY_DELAY"); val != "" {
		if delay, err := time.ParseDuration(val); err == nil {
			for i := range cfg.Nodes {
				cfg.Nodes[i].RetryDelay = delay
			}
		}
	}
	if val := os.Getenv("YOTEI_NODE_MAX_RETRIES"); val != "" {
		if retries, err := strconv.Atoi(val); err == nil {
			for i := range cfg.Nodes {
				cfg.Nodes[i].MaxRetryAttempts = retries
			}
		}
	}
	if val := os.Getenv("YOTEI_RESUME_KEY"); val != "" {
		for i := range cfg.Nodes {
			cfg.Nodes[i].ResumeKey = val
		}
	}

	return cfg, nil
}

// parseNodes parses a comma-separated list of "host:port:password" entries,
// with an optional trailing ":secure" marking a TLS node.
func parseNodes(raw string) ([]lavalink.NodeConfig, error) {
	if raw == "" {
		return nil, ErrNodesNotSet
	}

	var nodes []lavalink.NodeConfig
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		if len(parts) < 3 || len(parts) > 4 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNodeEntry, entry)
		}
		port, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q: bad port", ErrInvalidNodeEntry, entry)
		}

		node := lavalink.NodeConfig{
			Host:     parts[0],
			Port:     port,
			Password: parts[2],
		}
		if len(parts) == 4 {
			if parts[3] != "secure" {
				return nil, fmt.Errorf("%w: %q: unknown flag %q", ErrInvalidNodeEntry, entry, parts[3])
			}
			node.Secure = true
		}
		nodes = append(nodes, node)
	}

	if len(nodes) == 0 {
		return nil, ErrNodesNotSet
	}
	return nodes, nil
}
