package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

func QueueCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	player := livePlayer(s, m)
	if player == nil {
		return
	}

	var sb strings.Builder
	if current := player.Current(); current != nil {
		fmt.Fprintf(&sb, "Now playing: **%s**\n", current.Info.Title)
	}

	tracks := player.Queue().List()
	if len(tracks) == 0 {
		sb.WriteString("The queue is empty.")
	} else {
		for i, track := range tracks {
			if i >= 10 {
				fmt.Fprintf(&sb, "...and %d more", len(tracks)-i)
				break
			}
			fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, track.Info.Title, track.Info.Duration())
		}
	}

	s.ChannelMessageSend(m.ChannelID, sb.String())
}

func ShuffleCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	player := livePlayer(s, m)
	if player == nil {
		return
	}
	player.Queue().Shuffle()
	s.ChannelMessageSend(m.ChannelID, "Queue shuffled.")
}

func LoopCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	player := livePlayer(s, m)
	if player == nil {
		return
	}

	mode := "track"
	if len(args) > 0 {
		mode = args[0]
	}

	switch mode {
	case "track":
		player.SetTrackLoop(!player.TrackRepeat())
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Track loop: %v", player.TrackRepeat()))
	case "queue":
		player.SetQueueLoop(!player.QueueRepeat())
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Queue loop: %v", player.QueueRepeat()))
	default:
		s.ChannelMessageSend(m.ChannelID, "Usage: !loop [track|queue]")
	}
}

func NodesCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	var sb strings.Builder
	for _, node := range lavaClient.Nodes() {
		stats := node.Stats()
		fmt.Fprintf(&sb, "%s — %s, %d players (%d playing)\n",
			node.ID(), node.State(), stats.Players, stats.PlayingPlayers)
	}
	s.ChannelMessageSend(m.ChannelID, sb.String())
}
