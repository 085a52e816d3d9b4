// Package config loads daemon configuration from a YAML file with env
// overrides. Missing file just means defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dori/tasknag/internal/db"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can be written as "60s"
type Duration time.Duration

// UnmarshalYAML parses a Go duration string
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config keeps runtime settings for the daemon
type Config struct {
	DBPath       string         `yaml:"db_path"`
	LogPath      string         `yaml:"log_path"`
	PollInterval Duration       `yaml:"poll_interval"`
	Desktop      DesktopConfig  `yaml:"desktop"`
	Telegram     TelegramConfig `yaml:"telegram"`
	Webhook      WebhookConfig  `yaml:"webhook"`
}

// DesktopConfig configures the notify-send channel
type DesktopConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TelegramConfig configures the telegram channel; both fields must be
// set for the channel to register
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// WebhookConfig configures the webhook channel
type WebhookConfig struct {
	URL string `yaml:"url"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DBPath:       db.DefaultDBPath(),
		LogPath:      filepath.Join(db.DefaultDataDir(), "daemon.log"),
		PollInterval: Duration(60 * time.Second),
		Desktop:      DesktopConfig{Enabled: true},
	}
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "tasknag", "config.yaml")
}

// Load reads configuration from path, falling back to defaults for a
// missing file, then applies environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if v := os.Getenv("TASKNAG_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TASKNAG_POLL_INTERVAL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("TASKNAG_POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = Duration(parsed)
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = Duration(60 * time.Second)
	}

	return cfg, nil
}
