package lavalink

import (
	"github.com/bwmarrin/discordgo"
)

// DiscordDispatcher implements VoiceDispatcher on a discordgo session by
// sending the gateway op 4 voice-state update.
type DiscordDispatcher struct {
	session *discordgo.Session
}

// NewDiscordDispatcher wraps a discordgo session as a VoiceDispatcher.
func NewDiscordDispatcher(session *discordgo.Session) *DiscordDispatcher {
	return &DiscordDispatcher{session: session}
}

// UpdateVoiceState joins or moves to channelID, or leaves voice entirely
// when channelID is empty.
func (d *DiscordDispatcher) UpdateVoiceState(guildID, channelID string, selfMute, selfDeaf bool) error {
	return d.session.ChannelVoiceJoinManual(guildID, channelID, selfMute, selfDeaf)
}

// HandleVoiceStateUpdate feeds the bot's own voice session id to the guild's
// player. Register it as a discordgo handler.
func (c *Client) HandleVoiceStateUpdate(s *discordgo.Session, e *discordgo.VoiceStateUpdate) {
	if e.UserID != c.cfg.UserID {
		return
	}
	player := c.Player(e.GuildID)
	if player == nil {
		return
	}
	if e.ChannelID != "" {
		player.SetVoiceSession(e.SessionID)
	}
}

// HandleVoiceServerUpdate feeds voice server credentials to the guild's
// player. Register it as a discordgo handler.
func (c *Client) HandleVoiceServerUpdate(s *discordgo.Session, e *discordgo.VoiceServerUpdate) {
	player := c.Player(e.GuildID)
	if player == nil {
		return
	}
	player.SetVoiceServer(e.Token, e.Endpoint)
}
