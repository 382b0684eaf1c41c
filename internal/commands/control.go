package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
)

func PauseCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	player := livePlayer(s, m)
	if player == nil {
		return
	}
	if err := player.Pause(true); err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to pause: %v", err))
		return
	}
	s.ChannelMessageSend(m.ChannelID, "Paused.")
}

func ResumeCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	player := livePlayer(s, m)
	if player == nil {
		return
	}
	if err := player.Pause(false); err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to resume: %v", err))
		return
	}
	s.ChannelMessageSend(m.ChannelID, "Resumed.")
}

func SkipCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	player := livePlayer(s, m)
	if player == nil {
		return
	}

	amount := 1
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			amount = n
		}
	}

	if err := player.Skip(amount); err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to skip: %v", err))
		return
	}
	s.ChannelMessageSend(m.ChannelID, "Skipped.")
}

func SeekCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	player := livePlayer(s, m)
	if player == nil {
		return
	}
	if len(args) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Usage: !seek <position, e.g. 1m30s>")
		return
	}

	pos, err := time.ParseDuration(args[0])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Invalid position. Try something like 1m30s.")
		return
	}

	if err := player.Seek(pos.Milliseconds()); err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to seek: %v", err))
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Seeked to %s.", args[0]))
}

func StopCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	player := livePlayer(s, m)
	if player == nil {
		return
	}
	if err := player.Destroy(); err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to stop: %v", err))
		return
	}
	s.ChannelMessageSend(m.ChannelID, "Stopped and left the channel.")
}
