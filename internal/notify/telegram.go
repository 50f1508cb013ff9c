// Package notify delivers best-effort run summaries to a chat channel.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// Notifier delivers a textual summary. Delivery is best effort by contract:
// call sites log the returned error and move on, never escalate it.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// TelegramNotifier posts messages through the Telegram Bot API.
type TelegramNotifier struct {
	apiBase    string
	token      string
	chatID     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewTelegramNotifier(token, chatID string, logger *slog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		apiBase:    defaultAPIBase,
		token:      token,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: 8 * time.Second},
		logger:     logger,
	}
}

func (n *TelegramNotifier) Notify(ctx context.Context, message string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": n.chatID,
		"text":    message,
	})
	if err != nil {
		return fmt.Errorf("encode telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram send: HTTP %d", resp.StatusCode)
	}
	n.logger.Info("telegram notification delivered", "status", resp.StatusCode)
	return nil
}

var _ Notifier = (*TelegramNotifier)(nil)
