package lavalink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestNodePicksLeastLoadedConnected(t *testing.T) {
	client, _ := newTestClient(t, 3)
	nodes := client.Nodes()

	// Loads 5, 2, 8 — but the least loaded node is not connected.
	markConnected(nodes[0])
	setPlayers(nodes[0], 5)
	setPlayers(nodes[1], 2)
	markConnected(nodes[2])
	setPlayers(nodes[2], 8)

	best, err := client.BestNode()
	require.NoError(t, err)
	assert.Equal(t, nodes[0].ID(), best.ID(), "selection must ignore disconnected nodes")
}

func TestBestNodeTieBreaksByConfigurationOrder(t *testing.T) {
	client, _ := newTestClient(t, 3)
	nodes := client.Nodes()

	for _, n := range nodes {
		markConnected(n)
		setPlayers(n, 4)
	}

	best, err := client.BestNode()
	require.NoError(t, err)
	assert.Equal(t, nodes[0].ID(), best.ID())
}

func TestBestNodeFailsWhenNothingConnected(t *testing.T) {
	client, _ := newTestClient(t, 2)

	_, err := client.BestNode()
	assert.ErrorIs(t, err, ErrNoNodesAvailable)
}

func TestNewPlayerBindsToBestNode(t *testing.T) {
	client, _ := newTestClient(t, 2)
	nodes := client.Nodes()
	markConnected(nodes[1])

	player, err := client.NewPlayer("guild-1")
	require.NoError(t, err)
	assert.Equal(t, nodes[1].ID(), player.Node().ID())

	// A second call returns the same live player.
	again, err := client.NewPlayer("guild-1")
	require.NoError(t, err)
	assert.Same(t, player, again)
}

func TestNewPlayerFailsWithoutConnectedNodes(t *testing.T) {
	client, _ := newTestClient(t, 2)

	_, err := client.NewPlayer("guild-1")
	assert.ErrorIs(t, err, ErrNoNodesAvailable)
	assert.Nil(t, client.Player("guild-1"))
}

func TestDestroyRemovesPlayerFromRegistry(t *testing.T) {
	client, _ := newTestClient(t, 1)
	node := client.Nodes()[0]
	sock := markConnected(node)

	player, err := client.NewPlayer("guild-1")
	require.NoError(t, err)

	require.NoError(t, player.Destroy())
	assert.Nil(t, client.Player("guild-1"))

	// The node was told to discard server-side state for the guild.
	sent := sock.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, destroyMessage{Op: opDestroy, GuildID: "guild-1"}, sent[0])

	// Destroy is terminal.
	assert.ErrorIs(t, player.Play(nil), ErrPlayerDestroyed)
	assert.ErrorIs(t, player.Connect(), ErrPlayerDestroyed)
}

func TestNodeLookup(t *testing.T) {
	client, _ := newTestClient(t, 2)
	nodes := client.Nodes()

	assert.Same(t, nodes[0], client.Node(nodes[0].ID()))
	assert.Nil(t, client.Node("missing"))
}
