package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `
provider:
  base_url: "http://localhost:9090/ergast"
  telemetry_url: "http://localhost:9091"
  timeout: 5s
webserver:
  address: ":9999"
refresh:
  interval: 10m
  default_season: 2023
database:
  path: "/tmp/test.db"
`
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if cfg.Provider.BaseURL != "http://localhost:9090/ergast" {
		t.Errorf("unexpected base url %q", cfg.Provider.BaseURL)
	}
	if cfg.Provider.Timeout != 5*time.Second {
		t.Errorf("unexpected timeout %s", cfg.Provider.Timeout)
	}
	if cfg.Webserver.Address != ":9999" {
		t.Errorf("unexpected address %q", cfg.Webserver.Address)
	}
	if cfg.Refresh.Interval != 10*time.Minute {
		t.Errorf("unexpected interval %s", cfg.Refresh.Interval)
	}
	if cfg.Refresh.DefaultSeason != 2023 {
		t.Errorf("unexpected default season %d", cfg.Refresh.DefaultSeason)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if cfg.Provider.BaseURL == "" || cfg.Provider.TelemetryURL == "" || cfg.Webserver.Address == "" || cfg.Refresh.Interval == 0 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("webserver:\n  address: \":7070\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if cfg.Webserver.Address != ":7070" {
		t.Errorf("explicit value lost: %q", cfg.Webserver.Address)
	}
	if cfg.Provider.BaseURL == "" || cfg.Database.Path == "" {
		t.Errorf("defaults not filled in: %+v", cfg)
	}
}
