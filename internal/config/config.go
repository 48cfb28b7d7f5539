// Package config assembles runtime settings from defaults, a YAML file, a
// .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Emdad05/Quiz-Ai/internal/credentials"
	"github.com/Emdad05/Quiz-Ai/internal/llm"
	"github.com/Emdad05/Quiz-Ai/internal/store"
)

// Config is the complete runtime configuration.
type Config struct {
	Store    store.Config `yaml:"store"`
	LLM      llm.Config   `yaml:"llm"`
	LogLevel string       `yaml:"log_level"`

	// SystemKeys is the fallback credential list from API_KEY. It is never
	// read from or written to the YAML file.
	SystemKeys []string `yaml:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Store: store.Config{
			Backend:     store.BackendSQLite,
			Quota:       store.DefaultQuota,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "quizgenius:",
		},
		LLM:      llm.DefaultConfig(),
		LogLevel: "warn",
	}
}

// Dir returns the directory holding config.yaml and an optional .env:
// $XDG_CONFIG_HOME/quizgenius or ~/.config/quizgenius.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "quizgenius"), nil
}

// Load builds the configuration. An explicit path must exist; without one
// the default config.yaml is read if present.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		dir, err := Dir()
		if err != nil {
			return cfg, err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := cfg.readFile(path, explicit); err != nil {
		return cfg, err
	}

	if err := loadDotEnv(filepath.Dir(path)); err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// loadDotEnv loads .env from the working directory and then from dir.
// Variables already in the environment win.
func loadDotEnv(dir string) error {
	for _, p := range []string{".env", filepath.Join(dir, ".env")} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from QUIZGENIUS_* variables and reads the
// system credential list from API_KEY.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("QUIZGENIUS_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("QUIZGENIUS_DB"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("QUIZGENIUS_STORE_QUOTA"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Store.Quota = n
		}
	}
	if v := os.Getenv("QUIZGENIUS_REDIS_ADDR"); v != "" {
		c.Store.RedisAddr = v
	}
	if v := os.Getenv("QUIZGENIUS_REDIS_PASSWORD"); v != "" {
		c.Store.RedisPassword = v
	}
	if v := os.Getenv("QUIZGENIUS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	c.LLM.ApplyEnv()

	c.SystemKeys = credentials.SystemKeys(os.Getenv("API_KEY"))
}

// Validate checks every section.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case store.BackendSQLite, store.BackendRedis, store.BackendMemory:
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}
	if c.Store.Quota < 0 {
		return fmt.Errorf("store quota must not be negative")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level: %q", s)
}

// NewLogger builds the text logger every component shares.
func NewLogger(w io.Writer, level string) *slog.Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
