// Package config loads the optional gitcmd configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	defaultDebounce = 300 * time.Millisecond
	appName         = "gitcmd"
	fileName        = "config.yaml"
)

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Watch struct {
	Debounce string `yaml:"debounce"`
}

type Config struct {
	GitBinary string            `yaml:"git_binary"`
	Timeout   string            `yaml:"timeout"`
	Env       map[string]string `yaml:"env"`
	Log       Log               `yaml:"log"`
	Watch     Watch             `yaml:"watch"`

	path     string
	timeout  time.Duration
	debounce time.Duration
	level    slog.Level
}

func Default() *Config {
	return &Config{
		Log:      Log{Level: "info", Format: "text"},
		debounce: defaultDebounce,
		level:    slog.LevelInfo,
	}
}

// DefaultPath is $XDG_CONFIG_HOME/gitcmd/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, fileName)
}

// Load reads path, or DefaultPath when path is empty. A missing file at the
// default location yields the defaults; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			cfg.path = path
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	cfg.path = path
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("timeout: negative duration %s", d)
		}
		c.timeout = d
	}
	if c.Watch.Debounce != "" {
		d, err := time.ParseDuration(c.Watch.Debounce)
		if err != nil {
			return fmt.Errorf("watch.debounce: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("watch.debounce: must be positive, got %s", d)
		}
		c.debounce = d
	}
	if c.Log.Level != "" {
		if err := c.level.UnmarshalText([]byte(c.Log.Level)); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format: unsupported format %q", c.Log.Format)
	}
	for k := range c.Env {
		if k == "" || strings.Contains(k, "=") {
			return fmt.Errorf("env: invalid variable name %q", k)
		}
	}
	return nil
}

// Path is the file the configuration was read from.
func (c *Config) Path() string { return c.path }

func (c *Config) CommandTimeout() time.Duration { return c.timeout }

func (c *Config) WatchDebounce() time.Duration { return c.debounce }

func (c *Config) LogLevel() slog.Level { return c.level }

// Environ returns Env as sorted KEY=VALUE pairs.
func (c *Config) Environ() []string {
	env := make([]string, 0, len(c.Env))
	for _, k := range slices.Sorted(maps.Keys(c.Env)) {
		env = append(env, k+"="+c.Env[k])
	}
	return env
}

// NewLogger builds a text or JSON slog logger at the configured level. verbose
// forces debug.
func (c *Config) NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := c.level
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
