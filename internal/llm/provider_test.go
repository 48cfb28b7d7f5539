package llm

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: `{"a":1}`, Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Text: `{"b":2}`},
	)

	resp1, err := mock.Generate(context.Background(), Request{Parts: []Part{TextPart("first")}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Text != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Text)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}

	resp2, err := mock.Generate(context.Background(), Request{Parts: []Part{TextPart("second")}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Text != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Text)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_DefaultAfterQueue(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "first"})
	mock.Default = &MockResponse{Text: "fallback"}

	for _, want := range []string{"first", "fallback", "fallback"} {
		resp, err := mock.Generate(context.Background(), Request{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Text != want {
			t.Fatalf("expected %q, got %q", want, resp.Text)
		}
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: `{}`})

	_, _ = mock.Generate(context.Background(), Request{System: "sys", Parts: []Part{TextPart("hello")}})

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	last, ok := mock.LastCall()
	if !ok || last.System != "sys" {
		t.Fatalf("expected system 'sys', got %q", last.System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})

	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestPart(t *testing.T) {
	if TextPart("x").IsBlob() {
		t.Fatal("text part reported as blob")
	}
	if !BlobPart([]byte{1}, "image/png").IsBlob() {
		t.Fatal("blob part not reported as blob")
	}
}

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"typed", &ErrRateLimit{Err: errors.New("slow down")}, true},
		{"wrapped typed", &ErrProviderUnavailable{Err: &ErrRateLimit{}}, true},
		{"status code", errors.New("googleapi: Error 429"), true},
		{"quota word", errors.New("You exceeded your current Quota"), true},
		{"resource exhausted", errors.New("RESOURCE_EXHAUSTED"), true},
		{"rate limit phrase", errors.New("Rate limit reached for requests"), true},
		{"invalid key", errors.New("API key not valid"), false},
		{"network", errors.New("dial tcp: connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsQuotaError(tt.err); got != tt.want {
				t.Fatalf("IsQuotaError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != PurposeUnlabelled {
		t.Fatalf("expected %q, got %q", PurposeUnlabelled, p)
	}

	ctx = WithPurpose(ctx, PurposeQuizGeneration)
	if p := PurposeFrom(ctx); p != PurposeQuizGeneration {
		t.Fatalf("expected %q, got %q", PurposeQuizGeneration, p)
	}

	if p := PurposeFrom(WithPurpose(ctx, "")); p != PurposeUnlabelled {
		t.Fatalf("empty purpose should read as %q, got %q", PurposeUnlabelled, p)
	}
}

func TestPing(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "pong"},
		MockResponse{Err: &ErrMaxTokensExceeded{}},
		MockResponse{Err: errors.New("API key not valid")},
	)

	if err := Ping(context.Background(), mock); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Ping(context.Background(), mock); err != nil {
		t.Fatalf("truncated reply should count as success, got: %v", err)
	}
	if err := Ping(context.Background(), mock); err == nil {
		t.Fatal("expected error for rejected key")
	}

	last, _ := mock.LastCall()
	if len(last.Parts) != 1 || last.Parts[0].Text != "ping" {
		t.Fatalf("unexpected ping request: %+v", last)
	}
}

func TestLoggingProvider(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mock := NewMockProvider(
		MockResponse{Text: "ok", Usage: Usage{InputTokens: 3, OutputTokens: 4}},
		MockResponse{Err: errors.New("boom")},
	)
	p := WithLogging(mock, logger)

	ctx := WithPurpose(context.Background(), PurposeQuizGeneration)
	if _, err := p.Generate(ctx, Request{Parts: []Part{TextPart("secret prompt")}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error")
	}

	out := buf.String()
	for _, want := range []string{"llm request", "purpose=quiz-generation", "input_tokens=3", "llm request failed", "error=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "secret prompt") {
		t.Errorf("prompt text leaked into logs:\n%s", out)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"openai", func(c *Config) { c.Provider = ProviderOpenAI }, false},
		{"mock", func(c *Config) { c.Provider = ProviderMock }, false},
		{"unknown provider", func(c *Config) { c.Provider = "unknown" }, true},
		{"temperature too high", func(c *Config) { c.Temperature = 3 }, true},
		{"no attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderGemini {
		t.Fatalf("expected gemini provider, got %q", cfg.Provider)
	}
	if cfg.Gemini.Model != "gemini-3-flash-preview" {
		t.Fatalf("unexpected gemini model %q", cfg.Gemini.Model)
	}
	if cfg.Temperature != 0.3 {
		t.Fatalf("expected temperature 0.3, got %v", cfg.Temperature)
	}
	if cfg.Retry.MaxAttempts != 1 {
		t.Fatalf("expected a single attempt, got %d", cfg.Retry.MaxAttempts)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("QUIZGENIUS_LLM_PROVIDER", "openai")
	t.Setenv("QUIZGENIUS_LLM_TEMPERATURE", "0.7")
	t.Setenv("QUIZGENIUS_LLM_TIMEOUT", "5s")
	t.Setenv("QUIZGENIUS_GEMINI_MODEL", "gemini-2.5-flash")

	cfg := ConfigFromEnv()
	if cfg.Provider != "openai" {
		t.Fatalf("expected openai, got %q", cfg.Provider)
	}
	if cfg.Temperature != 0.7 {
		t.Fatalf("expected 0.7, got %v", cfg.Temperature)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("expected 5s, got %v", cfg.Timeout)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected gemini model %q", cfg.Gemini.Model)
	}
}

func TestNewFactory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenAI

	factory, err := NewFactory(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := factory(context.Background(), "sk-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Fatalf("expected gpt-4o-mini, got %q", p.ModelID())
	}

	if _, err := factory(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty key")
	}

	cfg.Provider = "nope"
	if _, err := NewFactory(cfg, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
