// Package config loads ppsync settings from YAML or TOML files and
// PPSYNC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/peoplepower/ppsync-go/pkg/notify"
)

// ErrUnsupportedFormat is returned for config files that are neither YAML
// nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config holds every ppsync setting.
type Config struct {
	Log       LogConfig       `yaml:"log" toml:"log"`
	NATS      NATSConfig      `yaml:"nats" toml:"nats"`
	Observers ObserversConfig `yaml:"observers" toml:"observers"`
}

// LogConfig configures operational and sync event logging.
type LogConfig struct {
	// File is the CBOR sync event log path. Empty disables it.
	File string `yaml:"file" toml:"file"` // PPSYNC_LOG_FILE

	// Level is the slog level: debug, info, warn or error.
	Level string `yaml:"level" toml:"level"` // PPSYNC_LOG_LEVEL

	// Console mirrors sync events to the operational logger.
	Console bool `yaml:"console" toml:"console"` // PPSYNC_LOG_CONSOLE
}

// NATSConfig configures the change publisher.
type NATSConfig struct {
	// URL of the NATS server. Empty disables publishing.
	URL string `yaml:"url" toml:"url"` // PPSYNC_NATS_URL

	SubjectPrefix string `yaml:"subject_prefix" toml:"subject_prefix"` // PPSYNC_NATS_SUBJECT_PREFIX
}

// ObserversConfig configures the change dispatcher.
type ObserversConfig struct {
	Max int `yaml:"max" toml:"max"` // PPSYNC_OBSERVERS_MAX
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:       LogConfig{Level: "info"},
		NATS:      NATSConfig{SubjectPrefix: notify.DefaultSubjectPrefix},
		Observers: ObserversConfig{Max: notify.DefaultMaxObservers},
	}
}

// Load reads path over the defaults. The format follows the extension:
// .yaml and .yml use YAML, .toml uses TOML.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from PPSYNC_* environment variables. Empty
// variables are ignored.
func (c *Config) ApplyEnv() error {
	envString("PPSYNC_LOG_FILE", &c.Log.File)
	envString("PPSYNC_LOG_LEVEL", &c.Log.Level)
	envString("PPSYNC_NATS_URL", &c.NATS.URL)
	envString("PPSYNC_NATS_SUBJECT_PREFIX", &c.NATS.SubjectPrefix)

	if v := os.Getenv("PPSYNC_LOG_CONSOLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PPSYNC_LOG_CONSOLE: %w", err)
		}
		c.Log.Console = b
	}
	if v := os.Getenv("PPSYNC_OBSERVERS_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PPSYNC_OBSERVERS_MAX: %w", err)
		}
		c.Observers.Max = n
	}
	return nil
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Observers.Max <= 0 {
		return fmt.Errorf("observers.max must be positive, got %d", c.Observers.Max)
	}
	if c.NATS.URL != "" && c.NATS.SubjectPrefix == "" {
		return errors.New("nats.subject_prefix is required when nats.url is set")
	}
	return nil
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// Dispatcher returns the dispatcher configuration.
func (c *Config) Dispatcher() notify.Config {
	return notify.Config{MaxObservers: c.Observers.Max}
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
