package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/telemart/storefront/internal/domain/model"
)

// ErrNotConfigured indicates the bot token is absent; sends are skipped.
var ErrNotConfigured = errors.New("telegram bot token not configured")

// Client delivers notifications to customer chats.
type Client interface {
	Send(ctx context.Context, n model.Notification) error
}

// HTTPClient implements Client via the Bot API sendMessage method.
type HTTPClient struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewHTTPClient creates a Bot API client with default timeout. An empty
// token yields a client that rejects sends with ErrNotConfigured.
func NewHTTPClient(baseURL, token string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse telegram api url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("telegram api url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		token:   token,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Send posts the notification text to the chat.
func (c *HTTPClient) Send(ctx context.Context, n model.Notification) error {
	if c.token == "" {
		return ErrNotConfigured
	}

	endpoint := *c.baseURL
	endpoint.Path = fmt.Sprintf("/bot%s/sendMessage", c.token)

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    n.ChatID,
		Text:      n.Text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var data sendMessageResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return fmt.Errorf("decode telegram response: %w", err)
	}
	if !data.OK {
		c.logger.Error("telegram send failed",
			slog.Int("status", resp.StatusCode),
			slog.String("description", data.Description),
		)
		return fmt.Errorf("telegram error: %s", data.Description)
	}
	return nil
}
