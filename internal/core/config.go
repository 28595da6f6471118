package core

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the portal-facing settings the checker needs. It is
// loaded from a small YAML file; CLI flags override individual fields.
type Config struct {
	// Origin is the portal's base origin, used for display and as a
	// sanity default for section URLs.
	Origin string `yaml:"origin"`
	// SessionCookie is a pre-obtained portal session cookie sent with
	// every fetch (the daemon never performs a login itself).
	SessionCookie string `yaml:"session_cookie"`
	// FetchTimeout is the per-page fetch deadline.
	FetchTimeout duration `yaml:"fetch_timeout"`
	// CheckInterval is how often the daemon sweeps all sections.
	CheckInterval duration `yaml:"check_interval"`
	// Rendered switches fetching to a real browser for JS-heavy pages.
	Rendered bool `yaml:"rendered"`
	// ChromePath optionally overrides the Chrome/Chromium executable.
	ChromePath string `yaml:"chrome_path"`
	// WaitSelector optionally waits for a CSS selector before capturing
	// a rendered page.
	WaitSelector string `yaml:"wait_selector"`
}

// duration lets YAML carry Go duration strings like "30s" or "15m".
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = duration(parsed)
	return nil
}

func (d duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		FetchTimeout:  duration(DefaultFetchTimeout),
		CheckInterval: duration(DefaultCheckInterval),
	}
}

// LoadConfig reads a YAML config file. An empty path returns defaults;
// a non-empty path must exist and parse.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = duration(DefaultFetchTimeout)
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = duration(DefaultCheckInterval)
	}
	return cfg, nil
}

// FetchOptions derives the per-fetch options from the config.
func (c Config) FetchOptions() FetchOptions {
	return FetchOptions{
		SessionCookie: c.SessionCookie,
		Timeout:       time.Duration(c.FetchTimeout),
		Rendered:      c.Rendered,
		ChromePath:    c.ChromePath,
		WaitSelector:  c.WaitSelector,
	}
}

// Interval returns the sweep interval as a time.Duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.CheckInterval)
}
