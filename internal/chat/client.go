package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MessageRef identifies a sent message so it can be edited later
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Client is the surface of the Telegram API the conversion pipeline uses.
// The concrete implementation is BotClient; tests substitute a fake.
type Client interface {
	SendMessage(chatID int64, text string) (MessageRef, error)
	EditMessage(ref MessageRef, text string) error
	DownloadFile(ctx context.Context, fileID, destPath string) error
	SendVideoNote(chatID int64, filePath string, length int) error
}

// BotClient wraps tgbotapi with error classification and file transfer
type BotClient struct {
	api        *tgbotapi.BotAPI
	fileClient *http.Client
}

// NewBotClient authenticates against the Telegram Bot API
func NewBotClient(token string, debug bool) (*BotClient, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth failed: %w", err)
	}
	api.Debug = debug

	// Separate client for file downloads; the Bot API client's timeout is
	// tuned for long polling, not multi-megabyte transfers.
	fileClient := &http.Client{
		Timeout: 2 * time.Minute,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}

	return &BotClient{api: api, fileClient: fileClient}, nil
}

// Username returns the authenticated bot account name
func (c *BotClient) Username() string {
	return c.api.Self.UserName
}

// Updates opens the long-polling update channel
func (c *BotClient) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return c.api.GetUpdatesChan(u)
}

// StopUpdates closes the long-polling loop
func (c *BotClient) StopUpdates() {
	c.api.StopReceivingUpdates()
}

// SendMessage posts a new text message to a chat
func (c *BotClient) SendMessage(chatID int64, text string) (MessageRef, error) {
	sent, err := c.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return MessageRef{}, classify("sendMessage", err)
	}
	return MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// EditMessage replaces the text of a previously sent message
func (c *BotClient) EditMessage(ref MessageRef, text string) error {
	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	if _, err := c.api.Send(edit); err != nil {
		return classify("editMessage", err)
	}
	return nil
}

// DownloadFile resolves a Telegram file ID and streams its content to destPath
func (c *BotClient) DownloadFile(ctx context.Context, fileID, destPath string) error {
	url, err := c.api.GetFileDirectURL(fileID)
	if err != nil {
		return classify("getFile", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &ClientError{Kind: ErrRejected, Op: "download", Err: err}
	}

	resp, err := c.fileClient.Do(req)
	if err != nil {
		return &ClientError{Kind: ErrTransport, Op: "download", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		kind := ErrRejected
		if resp.StatusCode >= 500 {
			kind = ErrServer
		}
		return &ClientError{Kind: kind, Op: "download", Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	out, err := os.Create(destPath)
	if err != nil {
		return &ClientError{Kind: ErrTransport, Op: "download", Err: err}
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return &ClientError{Kind: ErrTransport, Op: "download", Err: err}
	}

	return nil
}

// SendVideoNote uploads a local file as a round video note
func (c *BotClient) SendVideoNote(chatID int64, filePath string, length int) error {
	note := tgbotapi.NewVideoNote(chatID, length, tgbotapi.FilePath(filePath))
	if _, err := c.api.Send(note); err != nil {
		return classify("sendVideoNote", err)
	}
	return nil
}

// classify maps a raw tgbotapi error onto the closed ErrorKind set. API errors
// carry an HTTP status code; anything else never reached the API at all.
func classify(op string, err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		kind := ErrRejected
		if apiErr.Code >= 500 {
			kind = ErrServer
		}
		return &ClientError{Kind: kind, Op: op, Err: err}
	}
	return &ClientError{Kind: ErrTransport, Op: op, Err: err}
}
