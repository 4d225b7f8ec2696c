// Package config loads the application configuration from a YAML file,
// layered with .env files and JOBTRACKER_* environment overrides.
// Precedence: environment over file over defaults.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML can carry values like "250ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Value returns the wrapped duration.
func (d Duration) Value() time.Duration { return time.Duration(d) }

// Config is the full application configuration.
type Config struct {
	// DataDir holds the SQLite database and the fallback state file.
	DataDir   string          `yaml:"data_dir"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Reminders RemindersConfig `yaml:"reminders"`
}

// StorageConfig controls the persistence driver.
type StorageConfig struct {
	// Mode is auto, sqlite, or file. Auto probes for SQLite.
	Mode string `yaml:"mode"`
	// SaveDelay is the autosave debounce window.
	SaveDelay Duration `yaml:"save_delay"`
}

// ServerConfig controls the local HTTP API.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// RemindersConfig controls the follow-up reminder job in serve mode.
type RemindersConfig struct {
	Enabled  *bool    `yaml:"enabled"`
	Interval Duration `yaml:"interval"`
}

// On reports whether the reminder job runs; it defaults to on.
func (r RemindersConfig) On() bool {
	return r.Enabled == nil || *r.Enabled
}

// Default returns the configuration a missing config file implies.
func Default() *Config {
	return &Config{
		DataDir: "./data",
		Storage: StorageConfig{
			Mode:      "auto",
			SaveDelay: Duration(250 * time.Millisecond),
		},
		Server:    ServerConfig{Listen: "127.0.0.1:8383"},
		Log:       LogConfig{Level: "info"},
		Reminders: RemindersConfig{Interval: Duration(time.Hour)},
	}
}

// Load reads the configuration at path. A missing file falls back to
// defaults so the CLI works without any setup; a present but invalid file
// is an error.
func Load(path string) (*Config, error) {
	// .env files layer under the process environment, never over it.
	_ = godotenv.Load(".env", ".env.local")

	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("JOBTRACKER_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("JOBTRACKER_STORAGE_MODE"); v != "" {
		c.Storage.Mode = v
	}
	if v := os.Getenv("JOBTRACKER_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv("JOBTRACKER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) validate() error {
	switch c.Storage.Mode {
	case "auto", "sqlite", "file":
	default:
		return fmt.Errorf("invalid storage mode %q (want auto, sqlite, or file)", c.Storage.Mode)
	}
	if c.Storage.SaveDelay <= 0 {
		c.Storage.SaveDelay = Duration(250 * time.Millisecond)
	}
	if c.Reminders.Interval <= 0 {
		c.Reminders.Interval = Duration(time.Hour)
	}
	return nil
}

// LogLevel maps the configured level name to slog, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
