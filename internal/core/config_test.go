package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if time.Duration(cfg.FetchTimeout) != DefaultFetchTimeout {
			t.Errorf("unexpected fetch timeout %v", time.Duration(cfg.FetchTimeout))
		}
		if cfg.Interval() != DefaultCheckInterval {
			t.Errorf("unexpected interval %v", cfg.Interval())
		}
	})

	t.Run("parses yaml settings", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
origin: https://portal.example.edu
session_cookie: "MoodleSession=abc123"
fetch_timeout: 5s
check_interval: 2m
rendered: true
chrome_path: /usr/bin/chromium
wait_selector: "#region-main"
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Origin != "https://portal.example.edu" {
			t.Errorf("unexpected origin %q", cfg.Origin)
		}
		if cfg.SessionCookie != "MoodleSession=abc123" {
			t.Errorf("unexpected cookie %q", cfg.SessionCookie)
		}
		if time.Duration(cfg.FetchTimeout) != 5*time.Second {
			t.Errorf("unexpected fetch timeout %v", time.Duration(cfg.FetchTimeout))
		}
		if cfg.Interval() != 2*time.Minute {
			t.Errorf("unexpected interval %v", cfg.Interval())
		}
		if !cfg.Rendered || cfg.ChromePath != "/usr/bin/chromium" || cfg.WaitSelector != "#region-main" {
			t.Errorf("rendered settings not applied: %+v", cfg)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("rejects malformed durations", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		os.WriteFile(path, []byte("fetch_timeout: soonish\n"), 0o600)
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for malformed duration")
		}
	})
}

func TestConfigFetchOptions(t *testing.T) {
	cfg := Config{
		SessionCookie: "c=1",
		FetchTimeout:  duration(3 * time.Second),
		Rendered:      true,
		ChromePath:    "/opt/chrome",
		WaitSelector:  ".main",
	}
	opts := cfg.FetchOptions()
	if opts.SessionCookie != "c=1" || opts.Timeout != 3*time.Second || !opts.Rendered {
		t.Errorf("unexpected fetch options %+v", opts)
	}
	if opts.ChromePath != "/opt/chrome" || opts.WaitSelector != ".main" {
		t.Errorf("unexpected browser options %+v", opts)
	}
}
