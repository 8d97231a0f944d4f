// Package notify delivers signal and status messages to the operator.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Notifier delivers operator-facing messages. Implementations must be safe
// to call from the scheduler goroutines.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// TelegramNotifier sends HTML messages via the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   *logrus.Logger
}

// TelegramOption configures optional TelegramNotifier behavior.
type TelegramOption func(*TelegramNotifier)

// WithAPIBaseURL overrides the Telegram API endpoint, mainly for tests.
func WithAPIBaseURL(url string) TelegramOption {
	return func(t *TelegramNotifier) {
		t.baseURL = url
	}
}

// NewTelegramNotifier creates a notifier for the given bot and chat.
func NewTelegramNotifier(botToken, chatID string, logger *logrus.Logger, opts ...TelegramOption) *TelegramNotifier {
	if logger == nil {
		logger = logrus.New()
	}
	t := &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  "https://api.telegram.org",
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send implements Notifier.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	payload := map[string]string{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff. Delivery failures
// must never take the engine down, so callers that can tolerate loss log the
// returned error and move on.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := t.Send(ctx, text); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second //nolint:gosec
			t.logger.WithError(err).WithFields(logrus.Fields{
				"attempt": i + 1,
				"backoff": backoff,
			}).Warn("Telegram send failed, retrying")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
