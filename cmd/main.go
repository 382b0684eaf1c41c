package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/latoulicious/Yotei/internal/commands"
	"github.com/latoulicious/Yotei/internal/config"
	"github.com/latoulicious/Yotei/internal/handlers"
	"github.com/latoulicious/Yotei/pkg/lavalink"
	"github.com/latoulicious/Yotei/pkg/logging"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Create a new Discord session using the provided token
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Fatal("failed to create Discord session", zap.Error(err))
	}

	// Open a websocket connection to Discord and begin listening.
	if err := dg.Open(); err != nil {
		logger.Fatal("failed to open Discord session", zap.Error(err))
	}

	// The lavalink client needs the bot's own user id for its handshakes.
	lavaHandler := handlers.NewLavalinkHandler(logger)
	client, err := lavalink.New(lavalink.ClientConfig{
		UserID:     dg.State.User.ID,
		Nodes:      cfg.Nodes,
		Dispatcher: lavalink.NewDiscordDispatcher(dg),
		Handler:    lavaHandler,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to create lavalink client", zap.Error(err))
	}
	lavaHandler.SetClient(client)
	commands.SetClient(client)

	// Register the message handler and the voice event forwarding the
	// client needs for its credentials.
	dg.AddHandler(handlers.MessageHandler)
	dg.AddHandler(client.HandleVoiceStateUpdate)
	dg.AddHandler(client.HandleVoiceServerUpdate)

	// Connect every configured node; each retries on its own.
	client.Connect()

	logger.Info("bot is running, press CTRL-C to exit")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	client.Close()
	dg.Close()
}
