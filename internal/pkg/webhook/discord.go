package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Notifier is the outbound notification channel. Delivery is best effort:
// implementations must never return transport failures to the caller's
// business flow.
type Notifier interface {
	// Notify sends a plain text message. Errors are logged and swallowed.
	Notify(ctx context.Context, content string)
}

// DiscordNotifier posts messages to a Discord webhook URL.
type DiscordNotifier struct {
	url    string
	client *http.Client
}

func NewDiscordNotifier(url string) *DiscordNotifier {
	return &DiscordNotifier{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (n *DiscordNotifier) Notify(ctx context.Context, content string) {
	if n.url == "" {
		return
	}

	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		slog.Error("Webhook payload encoding failed", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		slog.Error("Webhook request build failed", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		slog.Error("Webhook delivery failed", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		slog.Error("Webhook rejected", "status", resp.StatusCode)
	}
}

// NopNotifier discards every message. Used when no webhook is configured
// and in tests.
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, content string) {}
