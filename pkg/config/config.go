package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Provider  ProviderConfig  `yaml:"provider"`
	Webserver WebserverConfig `yaml:"webserver"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Database  DatabaseConfig  `yaml:"database"`
}

type ProviderConfig struct {
	// Base URL of the Ergast-compatible results API.
	BaseURL string `yaml:"base_url"`
	// Base URL of the telemetry API serving track coordinate dumps.
	TelemetryURL string        `yaml:"telemetry_url"`
	Timeout      time.Duration `yaml:"timeout"`
}

type WebserverConfig struct {
	Address string `yaml:"address"`
}

type RefreshConfig struct {
	// How often the current season standings are re-aggregated.
	Interval time.Duration `yaml:"interval"`
	// Season shown when a user has no favourite stored.
	DefaultSeason int `yaml:"default_season"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// no config file, run on defaults
		cfg.applyDefaults()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = "https://api.jolpi.ca/ergast/f1"
	}
	if c.Provider.TelemetryURL == "" {
		c.Provider.TelemetryURL = "http://localhost:8081"
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 15 * time.Second
	}
	if c.Webserver.Address == "" {
		c.Webserver.Address = ":8080"
	}
	if c.Refresh.Interval == 0 {
		c.Refresh.Interval = 60 * time.Minute
	}
	if c.Refresh.DefaultSeason == 0 {
		c.Refresh.DefaultSeason = time.Now().Year()
	}
	if c.Database.Path == "" {
		c.Database.Path = "./f1dashbot.db"
	}
}
