package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultDiscordAPIURL = "https://discord.com/api/v10"

// DiscordSender posts messages to one Discord channel through the bot API.
type DiscordSender struct {
	apiURL         string
	botToken       string
	channelID      string
	httpClient     *http.Client
	maxRetries     int
	retryDelayBase time.Duration
}

// NewDiscordSender creates a sender that posts to the given channel ID.
func NewDiscordSender(botToken, channelID string, maxRetries int, retryDelayBase time.Duration) *DiscordSender {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}
	return &DiscordSender{
		apiURL:         defaultDiscordAPIURL,
		botToken:       botToken,
		channelID:      channelID,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}
}

// Send posts text to the configured channel with linear-backoff retry.
func (d *DiscordSender) Send(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{"content": text})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	var lastErr error
	for i := 0; i < d.maxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d.retryDelayBase * time.Duration(i)):
			}
		}
		if lastErr = d.post(ctx, payload); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("failed after %d retries: %w", d.maxRetries, lastErr)
}

func (d *DiscordSender) post(ctx context.Context, payload []byte) error {
	u := fmt.Sprintf("%s/channels/%s/messages", d.apiURL, d.channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bot "+d.botToken)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Name returns the sender identifier.
func (d *DiscordSender) Name() string {
	return "discord"
}
