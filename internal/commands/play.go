package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/Yotei/pkg/lavalink"
)

func PlayCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Usage: !play <url or search terms>")
		return
	}

	channelID := userVoiceChannel(s, m.GuildID, m.Author.ID)
	if channelID == "" {
		s.ChannelMessageSend(m.ChannelID, "You must be in a voice channel to play music.")
		return
	}

	player, err := lavaClient.NewPlayer(m.GuildID)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Cannot play right now: %v", err))
		return
	}

	identifier := strings.Join(args, " ")
	if !strings.HasPrefix(identifier, "http://") && !strings.HasPrefix(identifier, "https://") {
		// Let the node run the search for us.
		identifier = "ytsearch:" + identifier
	}

	node := player.Node()
	if node == nil {
		s.ChannelMessageSend(m.ChannelID, "No node available for this server.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := node.LoadTracks(ctx, identifier)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to load tracks: %v", err))
		return
	}

	switch result.LoadType {
	case lavalink.LoadTypeNoMatches:
		s.ChannelMessageSend(m.ChannelID, "No matches found.")
		return
	case lavalink.LoadTypePlaylistLoaded:
		player.Queue().Add(result.Tracks...)
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Queued playlist **%s** (%d tracks)", result.PlaylistInfo.Name, len(result.Tracks)))
	default:
		if len(result.Tracks) == 0 {
			s.ChannelMessageSend(m.ChannelID, "No matches found.")
			return
		}
		track := result.Tracks[0]
		player.Queue().Add(track)
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Queued **%s**", track.Info.Title))
	}

	player.SetVoiceChannel(channelID)
	player.SetTextChannel(m.ChannelID)
	player.SetSelfDeaf(true)

	if err := player.Connect(); err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to join voice: %v", err))
		return
	}

	if !player.Playing() {
		if err := player.Play(nil); err != nil {
			s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to start playback: %v", err))
		}
	}
}
