package handlers

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"circlenote-bot/internal/chat"
	"circlenote-bot/internal/services"
)

// Dispatcher routes inbound Telegram updates. Commands and text get inline
// replies; each video message gets its own goroutine running the conversion
// pipeline, so a slow conversion never blocks the update loop.
type Dispatcher struct {
	updates     tgbotapi.UpdatesChannel
	client      chat.Client
	pipeline    *services.Pipeline
	maxDuration int // seconds, for the /start and /help texts
}

// NewDispatcher creates the update dispatcher
func NewDispatcher(updates tgbotapi.UpdatesChannel, client chat.Client, pipeline *services.Pipeline, maxDuration int) *Dispatcher {
	return &Dispatcher{
		updates:     updates,
		client:      client,
		pipeline:    pipeline,
		maxDuration: maxDuration,
	}
}

// Run consumes updates until the context is cancelled or the channel closes
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-d.updates:
			if !ok {
				return nil
			}
			d.handle(ctx, update)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	switch {
	case msg.Video != nil:
		ref := services.MediaRef{
			FileID:   msg.Video.FileID,
			Duration: msg.Video.Duration,
			FileSize: int64(msg.Video.FileSize),
			MimeType: msg.Video.MimeType,
		}
		go d.pipeline.Process(ctx, ref, msg.Chat.ID)

	case msg.VideoNote != nil:
		d.reply(msg.Chat.ID, "That is already a circle 😊\nSend me a regular video and I will make a circle out of it.")

	case msg.IsCommand():
		d.handleCommand(msg)

	case msg.Text != "":
		d.reply(msg.Chat.ID, "Send me a regular video — I will turn it into a circle 🟣")
	}
}

func (d *Dispatcher) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		d.reply(msg.Chat.ID, fmt.Sprintf(
			"Hi! 👋\nI turn regular videos into Telegram circles.\n\n"+
				"Just send me a video (up to %d seconds) and I will send it back as a video note 🟣",
			d.maxDuration))
	case "help":
		d.reply(msg.Chat.ID, fmt.Sprintf(
			"How to use this bot:\n"+
				"1️⃣ Send a regular video (not a circle).\n"+
				"2️⃣ Keep it under %d seconds.\n"+
				"3️⃣ I will process it and send back a round video note.\n\n"+
				"If something fails, try a shorter or smaller video.",
			d.maxDuration))
	case "health":
		d.reply(msg.Chat.ID, "✅ The bot is up and ready.")
	default:
		d.reply(msg.Chat.ID, "I don't know that command 🤔 Try /start, or just send a video.")
	}
}

func (d *Dispatcher) reply(chatID int64, text string) {
	if _, err := d.client.SendMessage(chatID, text); err != nil {
		log.Printf("⚠️  Failed to reply in chat %d: %v", chatID, err)
	}
}
