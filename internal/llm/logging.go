package llm

import (
	"context"
	"log/slog"
	"time"
)

// LoggingProvider is a decorator that records every LLM request as a
// structured log line. API keys and prompt bodies are never logged.
type LoggingProvider struct {
	inner  Provider
	logger *slog.Logger
}

// WithLogging wraps a Provider with request logging.
func WithLogging(p Provider, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{inner: p, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	attrs := []slog.Attr{
		slog.String("model", l.inner.ModelID()),
		slog.String("purpose", string(PurposeFrom(ctx))),
		slog.Int("parts", len(req.Parts)),
		slog.Int("attachments", countBlobs(req.Parts)),
		slog.Duration("latency", time.Since(start)),
	}
	if req.Schema != nil {
		attrs = append(attrs, slog.String("schema", req.Schema.Name))
	}
	if resp != nil {
		attrs = append(attrs,
			slog.String("served_by", resp.Model),
			slog.Int("input_tokens", resp.Usage.InputTokens),
			slog.Int("output_tokens", resp.Usage.OutputTokens),
		)
		if cost := LookupCost(resp.Model); cost != nil {
			attrs = append(attrs, slog.Float64("cost_usd", cost.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens)))
		}
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		l.logger.LogAttrs(ctx, slog.LevelWarn, "llm request failed", attrs...)
		return resp, err
	}

	l.logger.LogAttrs(ctx, slog.LevelDebug, "llm request", attrs...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func countBlobs(parts []Part) int {
	n := 0
	for _, p := range parts {
		if p.IsBlob() {
			n++
		}
	}
	return n
}
