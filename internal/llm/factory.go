package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// Factory builds a Provider bound to a single API key.
type Factory func(ctx context.Context, apiKey string) (Provider, error)

// NewFactory returns a Factory for the configured provider. Every
// provider it builds is wrapped with retry and logging middleware.
func NewFactory(cfg Config, logger *slog.Logger) (Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context, apiKey string) (Provider, error) {
		return NewProvider(ctx, cfg, apiKey, logger)
	}, nil
}

// NewProvider creates a Provider for one API key.
// It returns the provider wrapped with retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, apiKey string, logger *slog.Logger) (Provider, error) {
	base, err := newBaseProvider(ctx, cfg, apiKey)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	logged := WithLogging(base, logger)
	return WithRetry(logged, cfg.Retry), nil
}

func newBaseProvider(ctx context.Context, cfg Config, apiKey string) (Provider, error) {
	switch cfg.Provider {
	case ProviderGemini:
		c := cfg.Gemini
		c.APIKey, c.Timeout = apiKey, cfg.Timeout
		return NewGeminiProvider(ctx, c)
	case ProviderOpenAI:
		c := cfg.OpenAI
		c.APIKey, c.Timeout = apiKey, cfg.Timeout
		return NewOpenAIProvider(c)
	case ProviderAnthropic:
		c := cfg.Anthropic
		c.APIKey, c.Timeout = apiKey, cfg.Timeout
		return NewAnthropicProvider(c)
	case ProviderOpenRouter:
		c := cfg.OpenRouter
		c.APIKey, c.Timeout = apiKey, cfg.Timeout
		return NewOpenRouterProvider(c)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}
