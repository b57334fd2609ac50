// Package notify is the thin outbound-send boundary toward the chat
// platform. It carries no business logic; routing decisions are made by
// the engine and the notification service.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-router/internal/config"
)

// Notifier delivers a text message to a chat id.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// ChatAPISender posts messages to a Telegram-style bot API.
type ChatAPISender struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewChatAPISender builds a sender from bot settings.
func NewChatAPISender(cfg config.BotConfig, logger *zap.Logger) *ChatAPISender {
	return &ChatAPISender{
		endpoint: fmt.Sprintf("%s/bot%s/sendMessage", cfg.APIBase, cfg.Token),
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

func (s *ChatAPISender) Send(ctx context.Context, chatID int64, text string) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sendMessage: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// LogNotifier stands in when no bot token is configured; it logs outbound
// messages instead of delivering them.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier constructs the logging sender.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, chatID int64, text string) error {
	n.logger.Info("outbound message",
		zap.Int64("chat_id", chatID),
		zap.String("text", text))
	return nil
}
