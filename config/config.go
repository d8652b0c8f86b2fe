// Package config loads the 9sh configuration file.
//
// The file is YAML. A missing file yields Default(); unknown keys and values
// failing validation are errors.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable overriding the config location.
const EnvPath = "NINESH_CONFIG"

// validate is a package-level singleton; building a validator is expensive.
var validate = validator.New()

// Config is the host configuration.
type Config struct {
	Prompt string `yaml:"prompt"`
	Banner string `yaml:"banner"`

	// HistoryFile is the bbolt history database. Empty disables persistence.
	HistoryFile     string `yaml:"history_file"`
	HistoryLimit    int    `yaml:"history_limit" validate:"gte=0,lte=100000"`
	HistorySentinel string `yaml:"history_sentinel" validate:"max=1"`

	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Modules maps a bootstrap module name to a source file replacing the
	// embedded chunk.
	Modules map[string]string `yaml:"modules" validate:"dive,keys,oneof=fennel bindings boot,endkeys,required"`

	// SlowFilesystems extends the fixed set of slow filesystem types.
	SlowFilesystems []string `yaml:"slow_filesystems" validate:"dive,required"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Prompt:          "9sh> ",
		Banner:          "Welcome to 9sh (Skeletal)",
		HistoryFile:     filepath.Join(os.Getenv("HOME"), ".9sh", "history.db"),
		HistoryLimit:    1000,
		HistorySentinel: " ",
		LogLevel:        "warn",
	}
}

type loadConfig struct {
	path string
}

// Option configures Load.
type Option func(*loadConfig)

// WithPath reads the configuration from path instead of the default
// location.
func WithPath(path string) Option {
	return func(c *loadConfig) {
		c.path = path
	}
}

// DefaultPath returns $NINESH_CONFIG, or ~/.9sh/config.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".9sh", "config.yaml")
}

// Load reads and validates the configuration file.
func Load(opts ...Option) (*Config, error) {
	lc := loadConfig{path: DefaultPath()}
	for _, opt := range opts {
		opt(&lc)
	}

	cfg := Default()
	data, err := os.ReadFile(lc.path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", lc.path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", lc.path, err)
	}

	cfg.HistoryFile = expandHome(cfg.HistoryFile)
	for name, path := range cfg.Modules {
		cfg.Modules[name] = expandHome(path)
	}
	return cfg, nil
}

// Validate checks the field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ModuleSources reads the module override files.
func (c *Config) ModuleSources() (map[string][]byte, error) {
	sources := make(map[string][]byte, len(c.Modules))
	for name, path := range c.Modules {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", name, err)
		}
		sources[name] = data
	}
	return sources, nil
}

func expandHome(path string) string {
	if path == "~" {
		return os.Getenv("HOME")
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(os.Getenv("HOME"), rest)
	}
	return path
}
