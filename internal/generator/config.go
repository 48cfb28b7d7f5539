package generator

// Config controls the requests the Orchestrator sends.
type Config struct {
	// MaxTokens is the token budget for the LLM response. Zero leaves the
	// provider default.
	MaxTokens int

	// Temperature controls LLM output randomness.
	Temperature float64
}

// DefaultConfig returns the settings quizzes are generated with.
func DefaultConfig() Config {
	return Config{
		Temperature: 0.3,
	}
}
