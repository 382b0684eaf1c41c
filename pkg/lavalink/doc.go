// Package lavalink provides a client for a cluster of remote audio-processing
// nodes that play audio on behalf of many independent guilds. The client keeps
// a persistent websocket connection to every configured node, picks the least
// loaded node for each new player, tracks per-guild playback state, and can
// move a player to another node when its current node fails.
//
// # Core Components
//
//   - Node: the connection state machine for one remote worker, including
//     authentication, bounded reconnection and session resumption
//   - Client: the registry of configured nodes and live players, plus
//     load-aware node selection
//   - Player: per-guild playback state (queue, current track, transport
//     state) bound to exactly one node at a time
//   - EventHandler: the sink for node lifecycle notifications and raw
//     inbound frames
//
// # Usage Example
//
//	client, err := lavalink.New(lavalink.ClientConfig{
//		UserID:     botUserID,
//		Dispatcher: lavalink.NewDiscordDispatcher(session),
//		Nodes: []lavalink.NodeConfig{
//			{Host: "localhost", Port: 2333, Password: "youshallnotpass"},
//		},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	client.Connect()
//
//	player, err := client.NewPlayer(guildID)
//	if err != nil {
//		log.Fatal(err)
//	}
//	player.SetVoiceChannel(channelID)
//	if err := player.Connect(); err != nil {
//		log.Fatal(err)
//	}
//	player.Queue().Add(track)
//	player.Play(nil)
//
// Playback commands are fire-and-forget: sending while a node is not
// connected is a deliberate silent no-op, not an error. Transport failures
// are never returned from calls; they are reported through the EventHandler
// and handled by the bounded retry policy.
package lavalink
