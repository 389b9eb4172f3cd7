package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/sync/errgroup"

	"circlenote-bot/internal/chat"
	"circlenote-bot/internal/config"
	"circlenote-bot/internal/handlers"
	"circlenote-bot/internal/services"
	"circlenote-bot/internal/workspace"
)

func main() {
	// Set up logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetPrefix("[circlenote] ")
	log.Println("🚀 Starting circlenote bot...")

	// Load configuration
	cfg := config.Load()
	if cfg.BotToken == "" {
		log.Fatal("❌ BOT_TOKEN is required")
	}

	// Connect to Telegram
	client, err := chat.NewBotClient(cfg.BotToken, cfg.Debug)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Telegram: %v", err)
	}
	log.Printf("🤖 Authorized as @%s", client.Username())

	// Build the conversion pipeline
	ws := workspace.New(cfg.TempDir)
	transcoder := services.NewTranscoder(services.TranscodeSpec{
		Binary:       cfg.FFmpegBin,
		Size:         cfg.VideoSize,
		Fit:          cfg.VideoFit,
		Preset:       cfg.Preset,
		KeepAudio:    cfg.KeepAudio,
		AudioBitrate: cfg.AudioBitrate,
		Timeout:      cfg.TranscodeTimeout,
	})
	pipeline := services.NewPipeline(client, ws, transcoder, services.Limits{
		MaxDuration: cfg.MaxDuration,
		MaxFileSize: cfg.MaxFileSize,
	})
	dispatcher := handlers.NewDispatcher(client.Updates(), client, pipeline, cfg.MaxDuration)

	// Liveness listener for the hosting platform
	httpHandler := handlers.NewHTTPHandler(pipeline.Stats(), cfg.FFmpegBin)
	app := fiber.New(fiber.Config{
		ServerHeader: "circlenote-bot",
		AppName:      "Circlenote Bot",
	})
	app.Get("/", httpHandler.Live)
	app.Get("/api/health", httpHandler.Health)
	app.Get("/api/stats", httpHandler.Stats)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("📡 Polling for updates (max duration %ds, max size %d bytes, fit=%s)",
			cfg.MaxDuration, cfg.MaxFileSize, cfg.VideoFit)
		return dispatcher.Run(ctx)
	})

	g.Go(func() error {
		log.Printf("🌐 Liveness listener on port %s", cfg.Port)
		return app.Listen(":" + cfg.Port)
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("🛑 Shutting down gracefully...")
		client.StopUpdates()
		return app.Shutdown()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("❌ %v", err)
	}
	log.Println("👋 Bot stopped.")
}
