package alert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/glucowatch/glucowatch/internal/config"
)

// Notifier sends fired alerts to the configured webhook targets.
type Notifier struct {
	webhooks []config.WebhookConfig
	client   *http.Client
}

// NewNotifier builds a Notifier. An empty webhook list is valid — Deliver
// becomes a no-op and the warning only appears in logs and on the surfaces.
func NewNotifier(cfg config.AlertsConfig) *Notifier {
	return &Notifier{
		webhooks: cfg.Webhooks,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Deliver sends a to every configured target. Errors are logged but do not
// affect the caller; a notification surface failure must never break the
// cycle loop.
func (n *Notifier) Deliver(a Alert) {
	for _, wh := range n.webhooks {
		url := wh.URL()
		if url == "" {
			slog.Warn("alert: webhook url not set — skipping", "type", wh.Type, "env", wh.URLEnv)
			continue
		}

		var err error
		switch wh.Type {
		case "slack":
			err = n.sendSlack(url, a)
		case "teams":
			err = n.sendTeams(url, a)
		case "http":
			err = n.sendHTTP(url, a)
		default:
			slog.Warn("alert: unknown webhook type — skipping", "type", wh.Type)
			continue
		}

		if err != nil {
			slog.Error("alert: webhook delivery failed",
				"type", wh.Type, "err", err)
		} else {
			slog.Debug("alert: webhook delivered", "type", wh.Type)
		}
	}
}

func (n *Notifier) sendSlack(url string, a Alert) error {
	body, _ := json.Marshal(map[string]string{
		"text": fmt.Sprintf("*[LOW GLUCOSE]* %s", a.Message),
	})
	return n.post(url, body)
}

func (n *Notifier) sendTeams(url string, a Alert) error {
	payload := map[string]interface{}{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"themeColor": "C62828",
		"summary":    "Low glucose warning",
		"title":      "glucowatch: low glucose warning",
		"text":       a.Message,
	}
	body, _ := json.Marshal(payload)
	return n.post(url, body)
}

func (n *Notifier) sendHTTP(url string, a Alert) error {
	body, _ := json.Marshal(map[string]interface{}{
		"title":    "Low glucose warning",
		"body":     a.Message,
		"severity": "critical",
		"alert":    a,
	})
	return n.post(url, body)
}

func (n *Notifier) post(url string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
