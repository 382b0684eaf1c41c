package commands

import (
	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/Yotei/pkg/lavalink"
)

var lavaClient *lavalink.Client

// SetClient wires the lavalink client into the commands package.
func SetClient(c *lavalink.Client) {
	lavaClient = c
}

// livePlayer returns the guild's existing player, replying to the channel
// when there is none.
func livePlayer(s *discordgo.Session, m *discordgo.MessageCreate) *lavalink.Player {
	player := lavaClient.Player(m.GuildID)
	if player == nil {
		s.ChannelMessageSend(m.ChannelID, "Nothing is playing in this server.")
		return nil
	}
	return player
}

// userVoiceChannel finds the voice channel the message author is in.
func userVoiceChannel(s *discordgo.Session, guildID, userID string) string {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return ""
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID
		}
	}
	return ""
}
