package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds LLM provider configuration. API keys are not part of it:
// they are supplied per call so the generator can fail over between them.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "openai", "anthropic", "openrouter", "mock"
	Provider string `yaml:"provider"`

	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout bounds a single LLM request. Default: 60s.
	Timeout time.Duration `yaml:"timeout"`

	// Temperature used for quiz generation. Default: 0.3.
	Temperature float64 `yaml:"temperature"`

	// MaxTokens caps the response size. Zero leaves the provider default.
	MaxTokens int `yaml:"max_tokens"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string        `yaml:"-"`
	Model   string        `yaml:"model"` // Default: "gemini-3-flash-preview"
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"-"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string        `yaml:"-"`
	Model   string        `yaml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string        `yaml:"base_url"` // Optional. Override for compatible APIs.
	Timeout time.Duration `yaml:"-"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string        `yaml:"-"`
	Model   string        `yaml:"model"` // Default: "claude-haiku"
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"-"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string        `yaml:"-"`
	Model   string        `yaml:"model"`    // Default: "google/gemini-2.5-flash"
	BaseURL string        `yaml:"base_url"` // Default: "https://openrouter.ai/api/v1"
	Timeout time.Duration `yaml:"-"`
}

// RetryConfig configures retry behavior for transient failures.
// Quota errors are never retried; they move the caller to the next key.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderGemini,
		Gemini: GeminiConfig{
			Model: DefaultGeminiModel,
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout:     60 * time.Second,
		Temperature: 0.3,
	}
}

// ApplyEnv overrides fields from QUIZGENIUS_LLM_* and per-provider
// model environment variables.
func (c *Config) ApplyEnv() {
	if p := os.Getenv("QUIZGENIUS_LLM_PROVIDER"); p != "" {
		c.Provider = p
	}
	if t := os.Getenv("QUIZGENIUS_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			c.Timeout = d
		}
	}
	if t := os.Getenv("QUIZGENIUS_LLM_TEMPERATURE"); t != "" {
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			c.Temperature = f
		}
	}
	if n := os.Getenv("QUIZGENIUS_LLM_RETRIES"); n != "" {
		if i, err := strconv.Atoi(n); err == nil {
			c.Retry.MaxAttempts = i
		}
	}

	if m := os.Getenv("QUIZGENIUS_GEMINI_MODEL"); m != "" {
		c.Gemini.Model = m
	}
	if u := os.Getenv("QUIZGENIUS_GEMINI_BASE_URL"); u != "" {
		c.Gemini.BaseURL = u
	}
	if m := os.Getenv("QUIZGENIUS_OPENAI_MODEL"); m != "" {
		c.OpenAI.Model = m
	}
	if u := os.Getenv("QUIZGENIUS_OPENAI_BASE_URL"); u != "" {
		c.OpenAI.BaseURL = u
	}
	if m := os.Getenv("QUIZGENIUS_ANTHROPIC_MODEL"); m != "" {
		c.Anthropic.Model = m
	}
	if m := os.Getenv("QUIZGENIUS_OPENROUTER_MODEL"); m != "" {
		c.OpenRouter.Model = m
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// Validate checks that the provider is known and the numeric settings
// are in range.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter, ProviderMock:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range [0, 2]", c.Temperature)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}
