package alert

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/glucowatch/glucowatch/internal/classify"
	"github.com/glucowatch/glucowatch/internal/config"
)

func testAlert() Alert {
	return Alert{
		Value:    2.8,
		Category: classify.CategoryLow,
		Verdict:  classify.VerdictLive,
		FiredAt:  t0,
		Message:  "low glucose reading: 2.8 mmol/L (liveness: live)",
	}
}

func TestDeliver_Slack(t *testing.T) {
	var body atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body.Store(string(b))
	}))
	defer srv.Close()

	t.Setenv("TEST_GW_SLACK_URL", srv.URL)
	n := NewNotifier(config.AlertsConfig{
		Webhooks: []config.WebhookConfig{{Type: "slack", URLEnv: "TEST_GW_SLACK_URL"}},
	})
	n.Deliver(testAlert())

	got, _ := body.Load().(string)
	if got == "" {
		t.Fatal("slack webhook was not called")
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(got), &payload); err != nil {
		t.Fatalf("slack payload is not JSON: %v", err)
	}
	if !strings.Contains(payload["text"], "2.8 mmol/L") {
		t.Errorf("slack text missing value: %q", payload["text"])
	}
}

func TestDeliver_GenericHTTPCarriesSeverity(t *testing.T) {
	var body atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body.Store(b)
	}))
	defer srv.Close()

	t.Setenv("TEST_GW_HTTP_URL", srv.URL)
	n := NewNotifier(config.AlertsConfig{
		Webhooks: []config.WebhookConfig{{Type: "http", URLEnv: "TEST_GW_HTTP_URL"}},
	})
	n.Deliver(testAlert())

	raw, _ := body.Load().([]byte)
	var payload struct {
		Title    string `json:"title"`
		Severity string `json:"severity"`
		Alert    Alert  `json:"alert"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if payload.Severity != "critical" {
		t.Errorf("severity: got %q, want critical", payload.Severity)
	}
	if payload.Alert.Value != 2.8 {
		t.Errorf("alert value: got %v", payload.Alert.Value)
	}
}

func TestDeliver_FailureDoesNotPanic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	t.Setenv("TEST_GW_BAD_URL", srv.URL)
	n := NewNotifier(config.AlertsConfig{
		Webhooks: []config.WebhookConfig{{Type: "http", URLEnv: "TEST_GW_BAD_URL"}},
	})
	// Must log and return; delivery failure never propagates.
	n.Deliver(testAlert())
}

func TestDeliver_UnsetURLSkipped(t *testing.T) {
	n := NewNotifier(config.AlertsConfig{
		Webhooks: []config.WebhookConfig{{Type: "slack", URLEnv: "TEST_GW_UNSET_URL"}},
	})
	n.Deliver(testAlert())
}
