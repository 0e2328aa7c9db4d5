package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultPollInterval   = 5 * time.Minute
	DefaultFetchTimeout   = 10 * time.Second
	DefaultAttemptTimeout = 15 * time.Second
	DefaultLowThreshold   = 3.9
	DefaultHighThreshold  = 10.0
	DefaultAgeWindow      = 15 * time.Minute
	DefaultContactWindow  = 10 * time.Minute
	DefaultRepeatInterval = time.Minute
	DefaultHTTPPort       = 8080
	DefaultIconWidth      = 32
	DefaultIconHeight     = 16
)

// Alert repeat policies. Exactly one is active per deployment.
const (
	// PolicyOneShot fires once per low-zone entry and stays silent while
	// the reading remains low.
	PolicyOneShot = "one-shot"

	// PolicyRepeat re-fires every RepeatInterval while the reading remains low.
	PolicyRepeat = "repeat"
)

// Config is the top-level glucowatchd configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Source     SourceConfig     `yaml:"source"`
	Link       LinkConfig       `yaml:"link"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Alerts     AlertsConfig     `yaml:"alerts"`
	Display    DisplayConfig    `yaml:"display"`
	Server     ServerConfig     `yaml:"server"`
}

// SourceConfig describes the remote store holding the latest reading.
type SourceConfig struct {
	// Endpoint is the full URL of the latest-reading document.
	Endpoint string `yaml:"endpoint"`

	// PollInterval controls how often a fetch cycle runs.
	PollInterval time.Duration `yaml:"poll_interval"`

	// Timeout bounds a single HTTP request attempt.
	Timeout time.Duration `yaml:"timeout"`

	// Auth configures how the daemon authenticates to the store.
	Auth AuthConfig `yaml:"auth"`

	// TLS holds optional TLS dial options.
	TLS TLSConfig `yaml:"tls"`
}

// AuthConfig specifies the authentication mode for the source.
type AuthConfig struct {
	// Mode is one of: apikey | bearer | basic | none.
	Mode string `yaml:"mode"`

	// API key fields — used when Mode == "apikey".
	// Header is the HTTP header name to send the key in.
	Header string `yaml:"header"`
	// KeyEnv is the name of the environment variable that holds the key value.
	KeyEnv string `yaml:"key_env"`

	// Bearer token fields — used when Mode == "bearer".
	TokenEnv string `yaml:"token_env"`

	// Basic auth fields — used when Mode == "basic".
	Username    string `yaml:"username"`
	PasswordEnv string `yaml:"password_env"`
}

// Key returns the API key value resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// Token returns the bearer token value resolved from the environment.
func (a AuthConfig) Token() string {
	if a.TokenEnv == "" {
		return ""
	}
	return os.Getenv(a.TokenEnv)
}

// Password returns the basic-auth password resolved from the environment.
func (a AuthConfig) Password() string {
	if a.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(a.PasswordEnv)
}

// TLSConfig holds TLS dial options for the source connection.
type TLSConfig struct {
	// InsecureSkipVerify disables TLS certificate verification.
	// Only use this against internal CAs in development environments.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// LinkConfig describes how the daemon re-establishes network connectivity
// before a fetch when the link is down.
type LinkConfig struct {
	// ProbeAddress is the host:port used to test reachability.
	// Derived from the source endpoint when empty.
	ProbeAddress string `yaml:"probe_address"`

	// AttemptTimeout bounds one candidate join attempt.
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`

	// Candidates is the ordered list of networks to try, first success wins.
	Candidates []Candidate `yaml:"candidates"`
}

// Candidate is one network the link manager may join.
type Candidate struct {
	// Name is a human-readable identifier for logs.
	Name string `yaml:"name"`

	// JoinCommand is the shell command that associates with this network,
	// e.g. "nmcli con up home".
	JoinCommand string `yaml:"join_command"`
}

// ThresholdsConfig holds the clinical and freshness thresholds.
// All four are deployment-retunable; none are hardcoded elsewhere.
type ThresholdsConfig struct {
	// Low is the mmol/L value below which a reading classifies Low.
	Low float64 `yaml:"low"`

	// High is the mmol/L value above which a reading classifies High.
	High float64 `yaml:"high"`

	// Age is how old a device timestamp may be before the reading is stale.
	Age time.Duration `yaml:"age"`

	// Contact is how long since the last successful fetch before the
	// daemon considers itself offline.
	Contact time.Duration `yaml:"contact"`
}

// AlertsConfig holds the low-zone alert policy and delivery targets.
type AlertsConfig struct {
	// Policy is one of: one-shot | repeat.
	Policy string `yaml:"policy"`

	// RepeatInterval is the minimum gap between re-fires under the
	// repeat policy. Ignored under one-shot.
	RepeatInterval time.Duration `yaml:"repeat_interval"`

	// Webhooks is the list of notification delivery targets.
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: slack | teams | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable that holds the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// DisplayConfig holds icon raster dimensions.
type DisplayConfig struct {
	IconWidth  int `yaml:"icon_width"`
	IconHeight int `yaml:"icon_height"`
}

// ServerConfig holds the control surface settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, WebSocket hub, and /metrics
	// endpoint listen on.
	HTTPPort int `yaml:"http_port"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Source: SourceConfig{
			PollInterval: DefaultPollInterval,
			Timeout:      DefaultFetchTimeout,
		},
		Link: LinkConfig{
			AttemptTimeout: DefaultAttemptTimeout,
		},
		Thresholds: ThresholdsConfig{
			Low:     DefaultLowThreshold,
			High:    DefaultHighThreshold,
			Age:     DefaultAgeWindow,
			Contact: DefaultContactWindow,
		},
		Alerts: AlertsConfig{
			Policy:         PolicyOneShot,
			RepeatInterval: DefaultRepeatInterval,
		},
		Display: DisplayConfig{
			IconWidth:  DefaultIconWidth,
			IconHeight: DefaultIconHeight,
		},
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
		},
	}
}

// validate checks required fields and structural constraints.
// A validation failure here is the only fatal error class in the daemon.
func validate(cfg *Config) error {
	if cfg.Source.Endpoint == "" {
		return fmt.Errorf("source.endpoint is required")
	}
	u, err := url.Parse(cfg.Source.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("source.endpoint %q is not a valid URL", cfg.Source.Endpoint)
	}
	if cfg.Source.PollInterval <= 0 {
		return fmt.Errorf("source.poll_interval must be positive")
	}
	if cfg.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive")
	}
	switch cfg.Source.Auth.Mode {
	case "apikey", "bearer", "basic", "none", "":
	default:
		return fmt.Errorf("source.auth: unknown mode %q", cfg.Source.Auth.Mode)
	}
	if cfg.Source.Auth.Mode == "apikey" && cfg.Source.Auth.Header == "" {
		return fmt.Errorf("source.auth: header is required for apikey mode")
	}

	if cfg.Link.ProbeAddress != "" {
		if _, _, err := net.SplitHostPort(cfg.Link.ProbeAddress); err != nil {
			return fmt.Errorf("link.probe_address %q is not host:port", cfg.Link.ProbeAddress)
		}
	}
	if cfg.Link.AttemptTimeout <= 0 {
		return fmt.Errorf("link.attempt_timeout must be positive")
	}
	for i, c := range cfg.Link.Candidates {
		if c.JoinCommand == "" {
			return fmt.Errorf("link.candidates[%d] %q: join_command is required", i, c.Name)
		}
	}

	if cfg.Thresholds.Low >= cfg.Thresholds.High {
		return fmt.Errorf("thresholds: low (%.1f) must be below high (%.1f)",
			cfg.Thresholds.Low, cfg.Thresholds.High)
	}
	if cfg.Thresholds.Low <= 0 {
		return fmt.Errorf("thresholds.low must be positive")
	}
	if cfg.Thresholds.Age <= 0 {
		return fmt.Errorf("thresholds.age must be positive")
	}
	if cfg.Thresholds.Contact <= 0 {
		return fmt.Errorf("thresholds.contact must be positive")
	}

	switch cfg.Alerts.Policy {
	case PolicyOneShot, PolicyRepeat:
	default:
		return fmt.Errorf("alerts.policy must be %q or %q", PolicyOneShot, PolicyRepeat)
	}
	if cfg.Alerts.Policy == PolicyRepeat && cfg.Alerts.RepeatInterval <= 0 {
		return fmt.Errorf("alerts.repeat_interval must be positive for repeat policy")
	}
	for i, wh := range cfg.Alerts.Webhooks {
		switch wh.Type {
		case "slack", "teams", "http":
		default:
			return fmt.Errorf("alerts.webhooks[%d]: unknown type %q", i, wh.Type)
		}
		if wh.URLEnv == "" {
			return fmt.Errorf("alerts.webhooks[%d]: url_env is required", i)
		}
	}

	if cfg.Display.IconWidth < 8 || cfg.Display.IconHeight < 7 {
		return fmt.Errorf("display: icon must be at least 8x7 pixels")
	}
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range", cfg.Server.HTTPPort)
	}
	return nil
}

// ProbeAddress returns the configured probe address, falling back to the
// source endpoint's host with the scheme's default port.
func (c *Config) ProbeAddress() string {
	if c.Link.ProbeAddress != "" {
		return c.Link.ProbeAddress
	}
	u, err := url.Parse(c.Source.Endpoint)
	if err != nil {
		return ""
	}
	host := u.Host
	if u.Port() == "" {
		switch u.Scheme {
		case "https":
			host = net.JoinHostPort(u.Hostname(), "443")
		default:
			host = net.JoinHostPort(u.Hostname(), "80")
		}
	}
	return host
}
