package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Emdad05/Quiz-Ai/internal/generator"
	"github.com/Emdad05/Quiz-Ai/internal/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/store"
)

// MsgGenerationFailed is shown when a generation error carries no message
// of its own.
const MsgGenerationFailed = "Failed to generate quiz. Please check your connection and try again."

// Job is a generation started by BeginGeneration. Run it off the event
// loop with RunGeneration and hand the outcome to CompleteGeneration.
type Job struct {
	Ticket      uint64
	Config      quiz.Config
	Credentials []string
}

// BeginGeneration validates cfg and moves Setup → Generating. Validation
// problems are returned and leave the screen on Setup.
func (m *Manager) BeginGeneration(ctx context.Context, cfg quiz.Config) (Job, error) {
	if m.screen != ScreenSetup {
		return Job{}, ErrInvalidTransition
	}
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Job{}, err
	}

	if err := m.kv.Set(ctx, store.KeyUserName, []byte(cfg.UserName)); err != nil {
		m.logger.Warn("storage write failed", "key", store.KeyUserName, "error", err)
	}

	var keys []string
	if m.creds != nil {
		list, src := m.creds.Credentials(ctx)
		keys = list
		m.sourceHint = src.Hint()
	}

	m.config = &cfg
	m.errMsg = ""
	m.critical = ""
	m.ticket++
	m.setScreen(ctx, ScreenGenerating)

	return Job{Ticket: m.ticket, Config: cfg, Credentials: keys}, nil
}

// RunGeneration calls the generator for job. It touches no manager state
// and may run on any goroutine.
func (m *Manager) RunGeneration(ctx context.Context, job Job) (*quiz.GeneratedQuiz, error) {
	return m.gen.Generate(ctx, job.Config, job.Credentials)
}

// CompleteGeneration applies a generation outcome. Outcomes for a ticket
// that is no longer awaited are dropped and reported as false.
func (m *Manager) CompleteGeneration(ctx context.Context, ticket uint64, data *quiz.GeneratedQuiz, genErr error) bool {
	if m.screen != ScreenGenerating || ticket != m.ticket {
		return false
	}

	if genErr == nil && (data == nil || len(data.Questions) == 0) {
		genErr = errors.New(generator.MsgNoQuestions)
	}
	if genErr != nil {
		m.failGeneration(ctx, genErr)
		return true
	}

	cfg := *m.config
	title := firstNonBlank(data.Title, cfg.Topic, generator.DefaultTitle)
	cfg.Topic = title
	m.config = &cfg

	duration := time.Duration(cfg.DurationMinutes) * time.Minute
	m.startAttempt(ctx, quiz.NewAttempt(m.newID(), title, data.Questions, duration, m.now()))
	return true
}

func (m *Manager) failGeneration(ctx context.Context, err error) {
	var exhausted *generator.CredentialsExhaustedError
	if errors.As(err, &exhausted) {
		m.critical = exhausted.Report()
	} else {
		msg := err.Error()
		if strings.TrimSpace(msg) == "" {
			msg = MsgGenerationFailed
		}
		m.errMsg = msg
	}
	m.logger.Error("quiz generation failed", "error", err)
	m.setScreen(ctx, ScreenSetup)
}

// AbandonGeneration stops waiting for the running generation and returns
// to Setup. Its outcome will be dropped when it arrives.
func (m *Manager) AbandonGeneration(ctx context.Context) error {
	if m.screen != ScreenGenerating {
		return ErrInvalidTransition
	}
	m.ticket++
	m.setScreen(ctx, ScreenSetup)
	return nil
}

// StartQuiz runs a whole generation synchronously. The returned error is
// the generation or validation failure, if any.
func (m *Manager) StartQuiz(ctx context.Context, cfg quiz.Config) error {
	job, err := m.BeginGeneration(ctx, cfg)
	if err != nil {
		return err
	}
	data, genErr := m.RunGeneration(ctx, job)
	m.CompleteGeneration(ctx, job.Ticket, data, genErr)
	return genErr
}

// startAttempt records a fresh attempt in history, replaces any stale
// checkpoint and enters Quiz.
func (m *Manager) startAttempt(ctx context.Context, a quiz.Attempt) {
	m.questions = a.Questions
	m.attempt = &a

	if err := m.history.Append(ctx, a); err != nil {
		m.logger.Warn("recording new attempt", "attempt", a.ID, "error", err)
	}
	m.remove(ctx, store.KeyProgress)

	cp := newCheckpoint(a)
	m.progress = &cp
	m.writeJSON(ctx, store.KeyProgress, cp)

	m.setScreen(ctx, ScreenQuiz)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}
