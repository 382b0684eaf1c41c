package lavalink

import (
	"sync"

	"go.uber.org/zap"
)

// Client is the registry of configured nodes and live players. Nodes are
// created once at construction and persist for the client's lifetime;
// players come and go per guild. Registry state is guarded by one RWMutex:
// selection and lookups read, player creation/removal writes.
type Client struct {
	cfg     ClientConfig
	log     *zap.Logger
	handler EventHandler

	mu      sync.RWMutex
	nodes   []*Node // configuration order, which breaks selection ties
	players map[string]*Player
}

// New builds a client from the given configuration. The nodes are created
// but not connected; call Connect.
func New(cfg ClientConfig) (*Client, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:     cfg,
		log:     cfg.Logger,
		handler: cfg.Handler,
		players: make(map[string]*Player),
	}

	seen := make(map[string]bool, len(cfg.Nodes))
	for i := range cfg.Nodes {
		nodeCfg := cfg.Nodes[i]
		nodeCfg.applyDefaults()
		if seen[nodeCfg.ID] {
			return nil, ErrDuplicateNodeID
		}
		seen[nodeCfg.ID] = true
		c.nodes = append(c.nodes, newNode(c, nodeCfg))
	}

	return c, nil
}

// Connect starts every node's connection attempt. Each node progresses
// independently; failures surface through the event handler.
func (c *Client) Connect() {
	for _, node := range c.nodes {
		go node.Connect()
	}
}

// Close destroys every player and disconnects every node. Meant for process
// shutdown.
func (c *Client) Close() {
	c.mu.RLock()
	players := make([]*Player, 0, len(c.players))
	for _, p := range c.players {
		players = append(players, p)
	}
	c.mu.RUnlock()

	for _, p := range players {
		if err := p.Destroy(); err != nil {
			c.log.Warn("destroying player on close", zap.String("guild", p.GuildID()), zap.Error(err))
		}
	}
	for _, node := range c.nodes {
		node.Disconnect("client closed")
	}
}

// Nodes returns the configured nodes in configuration order.
func (c *Client) Nodes() []*Node {
	result := make([]*Node, len(c.nodes))
	copy(result, c.nodes)
	return result
}

// Node returns the node with the given id, or nil.
func (c *Client) Node(id string) *Node {
	for _, node := range c.nodes {
		if node.ID() == id {
			return node
		}
	}
	return nil
}

// BestNode returns the connected node with the fewest active players, ties
// broken by configuration order. It never falls back to a disconnected node:
// when nothing is connected it fails with ErrNoNodesAvailable.
func (c *Client) BestNode() (*Node, error) {
	var best *Node
	bestLoad := 0
	for _, node := range c.nodes {
		if node.State() != StateConnected {
			continue
		}
		load := node.Stats().Players
		if best == nil || load < bestLoad {
			best = node
			bestLoad = load
		}
	}
	if best == nil {
		return nil, ErrNoNodesAvailable
	}
	return best, nil
}

// Player returns the live player for the guild, or nil.
func (c *Client) Player(guildID string) *Player {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.players[guildID]
}

// NewPlayer returns the guild's player, creating one bound to the best
// available node if none exists. At most one live player exists per guild.
func (c *Client) NewPlayer(guildID string) (*Player, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.players[guildID]; ok {
		return p, nil
	}

	node, err := c.BestNode()
	if err != nil {
		return nil, err
	}

	p := newPlayer(c, guildID, node.ID())
	c.players[guildID] = p
	c.log.Info("player created",
		zap.String("guild", guildID),
		zap.String("node", node.ID()),
	)
	return p, nil
}

// removePlayer drops the guild's registry entry. Called by Player.Destroy.
func (c *Client) removePlayer(guildID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.players, guildID)
}

// Players returns a snapshot of the live players.
func (c *Client) Players() []*Player {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*Player, 0, len(c.players))
	for _, p := range c.players {
		result = append(result, p)
	}
	return result
}
