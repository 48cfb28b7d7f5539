// Package generator turns a quiz configuration into a generated quiz,
// failing over across API keys in order.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Emdad05/Quiz-Ai/internal/llm"
	"github.com/Emdad05/Quiz-Ai/internal/quiz"
)

// Orchestrator runs one generation request against an ordered list of
// credentials. It keeps no state between calls.
type Orchestrator struct {
	factory llm.Factory
	config  Config
	now     func() time.Time
	token   func() string
	logger  *slog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the time source used for the request timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithTokenSource sets the generator of per-request isolation tokens.
func WithTokenSource(token func() string) Option {
	return func(o *Orchestrator) { o.token = token }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New creates an Orchestrator that builds one provider per credential
// through factory.
func New(factory llm.Factory, cfg Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		factory: factory,
		config:  cfg,
		now:     time.Now,
		token:   uuid.NewString,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate produces a quiz for cfg, trying credentials strictly in order.
//
// A quota-type failure moves on to the next credential while one remains;
// any other failure stops the loop. Both end in *CredentialsExhaustedError.
// A response that cannot be parsed is a terminal *GenerationFailedError.
func (o *Orchestrator) Generate(ctx context.Context, cfg quiz.Config, credentials []string) (*quiz.GeneratedQuiz, error) {
	if len(credentials) == 0 {
		return nil, ErrNoCredentials
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuizGeneration)
	req := BuildRequest(cfg, o.token(), o.now(), o.config)

	var logs []string
	for i, key := range credentials {
		resp, err := o.call(ctx, key, req)
		if err == nil {
			out, perr := parseQuiz(resp.Text)
			if perr != nil {
				o.logger.Error("generated quiz rejected", "credential", i+1, "error", errors.Unwrap(perr))
				return nil, perr
			}
			out.Title = resolveTitle(out.Title, cfg.Topic)
			o.logger.Info("quiz generated", "credential", i+1, "questions", len(out.Questions), "model", resp.Model)
			return out, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		logs = append(logs, fmt.Sprintf("Key %d Failure: %s", i+1, err.Error()))
		quota := llm.IsQuotaError(err)
		o.logger.Warn("generation attempt failed", "credential", i+1, "quota", quota, "error", err)

		if quota && i < len(credentials)-1 {
			continue
		}
		break
	}

	o.logger.Error("generation failed on every credential tried", "attempts", len(logs))
	return nil, &CredentialsExhaustedError{Logs: logs}
}

func (o *Orchestrator) call(ctx context.Context, key string, req llm.Request) (*llm.Response, error) {
	provider, err := o.factory(ctx, key)
	if err != nil {
		return nil, err
	}
	return provider.Generate(ctx, req)
}

// ValidateCredential checks a key with a minimal round trip.
func (o *Orchestrator) ValidateCredential(ctx context.Context, key string) error {
	provider, err := o.factory(ctx, key)
	if err != nil {
		return err
	}
	if err := llm.Ping(ctx, provider); err != nil {
		o.logger.Warn("credential validation failed", "error", err)
		return err
	}
	return nil
}
