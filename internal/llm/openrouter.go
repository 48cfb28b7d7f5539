package llm

import "errors"

const (
	openRouterEndpoint     = "https://openrouter.ai/api/v1"
	openRouterDefaultModel = "google/gemini-2.5-flash"
)

var errOpenRouterKey = errors.New("openrouter: an API key is required")

// OpenRouterProvider talks to OpenRouter through its OpenAI-compatible
// chat endpoint. Model slugs such as "anthropic/claude-3-haiku" are sent
// verbatim.
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errOpenRouterKey
	}
	oc := OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	}
	if oc.BaseURL == "" {
		oc.BaseURL = openRouterEndpoint
	}
	if oc.Model == "" {
		oc.Model = openRouterDefaultModel
	}
	// No alias table: every slug passes through resolveModel unchanged.
	return &OpenRouterProvider{OpenAIProvider: newOpenAIProvider(oc, nil)}, nil
}
