package handlers

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/Yotei/internal/commands"
)

func MessageHandler(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore all messages created by the bot itself
	if m.Author.ID == s.State.User.ID {
		return
	}

	if !strings.HasPrefix(m.Content, "!") {
		return
	}

	args := strings.Fields(m.Content)
	command := strings.TrimPrefix(args[0], "!")

	switch command {
	case "play":
		commands.PlayCommand(s, m, args[1:])
	case "pause":
		commands.PauseCommand(s, m)
	case "resume":
		commands.ResumeCommand(s, m)
	case "skip":
		commands.SkipCommand(s, m, args[1:])
	case "seek":
		commands.SeekCommand(s, m, args[1:])
	case "stop":
		commands.StopCommand(s, m)
	case "queue":
		commands.QueueCommand(s, m)
	case "shuffle":
		commands.ShuffleCommand(s, m)
	case "loop":
		commands.LoopCommand(s, m, args[1:])
	case "nodes":
		commands.NodesCommand(s, m)
	default:
		s.ChannelMessageSend(m.ChannelID, "Unknown command. Try !play, !pause, !resume, !skip, !seek, !stop, !queue, !shuffle, !loop or !nodes.")
	}
}
