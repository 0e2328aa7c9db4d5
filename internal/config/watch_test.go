package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const watchBaseYAML = `
source:
  endpoint: "https://store.example.com/latest"
thresholds:
  low: 3.9
  high: 10.0
`

const watchRetunedYAML = `
source:
  endpoint: "https://store.example.com/latest"
thresholds:
  low: 3.5
  high: 10.0
`

func TestStaticChanges(t *testing.T) {
	old := loadFromString(t, watchBaseYAML)

	tests := []struct {
		name string
		yaml string
		want []string
	}{
		{"no change", watchBaseYAML, nil},
		{"thresholds only are retunable", watchRetunedYAML, nil},
		{
			"endpoint change needs restart",
			`
source:
  endpoint: "https://other.example.com/latest"
thresholds:
  low: 3.9
  high: 10.0
`,
			[]string{"source"},
		},
		{
			"alerts and server change needs restart",
			`
source:
  endpoint: "https://store.example.com/latest"
alerts:
  policy: repeat
  repeat_interval: 90s
server:
  http_port: 9090
`,
			[]string{"alerts", "server"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cur := loadFromString(t, tc.yaml)
			got := staticChanges(old, cur)
			if len(got) != len(tc.want) {
				t.Fatalf("staticChanges: got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("staticChanges[%d]: got %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestWatch_ReloadDeliversRetunedThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(watchBaseYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	go func() {
		if err := Watch(ctx, path, func(cfg *Config) { reloaded <- cfg }); err != nil {
			t.Errorf("Watch: %v", err)
		}
	}()

	// Give the watcher a moment to register the file before rewriting it.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(watchRetunedYAML), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Thresholds.Low != 3.5 {
			t.Errorf("reloaded low threshold: got %v, want 3.5", cfg.Thresholds.Low)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reload was not delivered")
	}
}

func TestWatch_InvalidRewriteKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(watchBaseYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	go func() {
		Watch(ctx, path, func(cfg *Config) { reloaded <- cfg }) //nolint:errcheck
	}()

	time.Sleep(100 * time.Millisecond)
	// Inverted thresholds fail validation; the previous config must stay
	// active and onChange must not fire.
	bad := `
source:
  endpoint: "https://store.example.com/latest"
thresholds:
  low: 12.0
  high: 10.0
`
	if err := os.WriteFile(path, []byte(bad), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		t.Fatalf("invalid rewrite must not reach onChange: %+v", cfg.Thresholds)
	case <-time.After(500 * time.Millisecond):
	}
}
