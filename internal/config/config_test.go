package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emdad05/Quiz-Ai/internal/llm"
	"github.com/Emdad05/Quiz-Ai/internal/store"
)

// isolate points the config dir at an empty temp dir and clears the
// variables Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{
		"API_KEY", "QUIZGENIUS_STORE", "QUIZGENIUS_DB", "QUIZGENIUS_STORE_QUOTA",
		"QUIZGENIUS_REDIS_ADDR", "QUIZGENIUS_REDIS_PASSWORD", "QUIZGENIUS_LOG_LEVEL",
		"QUIZGENIUS_LLM_PROVIDER", "QUIZGENIUS_LLM_TIMEOUT", "QUIZGENIUS_LLM_TEMPERATURE",
		"QUIZGENIUS_LLM_RETRIES", "QUIZGENIUS_GEMINI_MODEL",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, store.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, int64(store.DefaultQuota), cfg.Store.Quota)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.SystemKeys)
}

func TestLoadYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
store:
  backend: memory
  quota: 1024
llm:
  provider: openai
  timeout: 30s
  temperature: 0.5
  openai:
    model: gpt-4o
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, store.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, int64(1024), cfg.Store.Quota)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 0.5, cfg.LLM.Temperature)
	assert.Equal(t, "gpt-4o", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Unset sections keep their defaults.
	assert.Equal(t, llm.DefaultGeminiModel, cfg.LLM.Gemini.Model)
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  backend: memory\n"), 0o644))
	t.Setenv("QUIZGENIUS_STORE", "redis")
	t.Setenv("QUIZGENIUS_REDIS_ADDR", "cache:6380")
	t.Setenv("API_KEY", " k1 ,, k2 ")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, store.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6380", cfg.Store.RedisAddr)
	assert.Equal(t, []string{"k1", "k2"}, cfg.SystemKeys)
}

func TestDotEnvSuppliesSystemKeys(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.Unsetenv("API_KEY"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("API_KEY=alpha,beta\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("API_KEY") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.SystemKeys)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown backend", func(c *Config) { c.Store.Backend = "etcd" }, true},
		{"negative quota", func(c *Config) { c.Store.Quota = -1 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad provider", func(c *Config) { c.LLM.Provider = "nope" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = ParseLevel("warning")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "key=value")
}
