// Package session drives the application's screen state machine and keeps
// quiz progress durable across restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Emdad05/Quiz-Ai/internal/credentials"
	"github.com/Emdad05/Quiz-Ai/internal/history"
	"github.com/Emdad05/Quiz-Ai/internal/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/scoring"
	"github.com/Emdad05/Quiz-Ai/internal/store"
)

// NoticePreserved is shown once after a restart interrupted a quiz.
const NoticePreserved = "Session saved: your previous attempt was preserved in history. Resume it from History."

var (
	// ErrInvalidTransition is returned for an operation the current screen
	// does not allow.
	ErrInvalidTransition = errors.New("operation not allowed on the current screen")

	// ErrNotInQuiz is returned by quiz interactions outside the Quiz screen.
	ErrNotInQuiz = errors.New("no quiz in progress")

	// ErrAttemptNotFound is returned when a history id does not exist.
	ErrAttemptNotFound = errors.New("attempt not found in history")

	// ErrEmptyAttempt is returned by Resume for a stored attempt that has
	// no questions.
	ErrEmptyAttempt = errors.New("attempt has no questions")
)

// Generator produces quiz content from a configuration.
type Generator interface {
	Generate(ctx context.Context, cfg quiz.Config, credentials []string) (*quiz.GeneratedQuiz, error)
}

// CredentialSource supplies the ordered key list to generate with.
type CredentialSource interface {
	Credentials(ctx context.Context) ([]string, credentials.Source)
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDSource sets the attempt id generator.
func WithIDSource(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// WithLogger sets the logger storage failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// Manager owns the screen state and the active quiz. It is not safe for
// concurrent use; callers apply events from a single goroutine.
type Manager struct {
	kv      store.KV
	history *history.Store
	gen     Generator
	creds   CredentialSource
	now     func() time.Time
	newID   func() string
	logger  *slog.Logger

	screen    Screen
	config    *quiz.Config
	questions []quiz.Question
	attempt   *quiz.Attempt
	progress  *Checkpoint

	notice     string
	errMsg     string
	critical   string
	sourceHint string

	// ticket identifies the generation currently awaited.
	ticket uint64
}

// NewManager creates a Manager on the Landing screen. Call Restore to
// apply the previous session.
func NewManager(kv store.KV, gen Generator, creds CredentialSource, opts ...Option) *Manager {
	m := &Manager{
		kv:     kv,
		gen:    gen,
		creds:  creds,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
		screen: ScreenLanding,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.history = history.New(kv, m.logger)
	return m
}

// History exposes the attempt store the manager writes to.
func (m *Manager) History() *history.Store { return m.history }

// Restore applies the cold-start rules to the stored snapshot.
func (m *Manager) Restore(ctx context.Context) {
	raw, ok, err := m.kv.Get(ctx, store.KeySession)
	if err != nil {
		m.logger.Warn("reading session snapshot", "error", err)
		return
	}
	if !ok {
		return
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		m.logger.Warn("session snapshot is corrupt, removing", "error", err)
		m.remove(ctx, store.KeySession)
		return
	}

	switch {
	case snap.Screen == ScreenGenerating:
		m.setScreen(ctx, ScreenSetup)
	case snap.Screen.Persistent():
		m.notice = NoticePreserved
		m.setScreen(ctx, ScreenSetup)
	case snap.Screen != ScreenLanding:
		m.questions = snap.Questions
		m.config = snap.Config
		m.attempt = snap.Attempt
		m.setScreen(ctx, snap.Screen)
	}
}

// Navigate moves between the non-quiz screens. Generating, Quiz, Results
// and Review are only reachable through their dedicated operations.
func (m *Manager) Navigate(ctx context.Context, to Screen) error {
	switch m.screen {
	case ScreenGenerating, ScreenQuiz:
		return ErrInvalidTransition
	}
	switch to {
	case ScreenLanding, ScreenAPISetup, ScreenHowTo, ScreenSetup, ScreenHistory:
	default:
		return ErrInvalidTransition
	}
	m.setScreen(ctx, to)
	return nil
}

// OpenHistory shows the attempt history.
func (m *Manager) OpenHistory(ctx context.Context) error {
	return m.Navigate(ctx, ScreenHistory)
}

// Review shows the per-question breakdown of the current result.
func (m *Manager) Review(ctx context.Context) error {
	if m.screen != ScreenResults || m.attempt == nil {
		return ErrInvalidTransition
	}
	m.setScreen(ctx, ScreenReview)
	return nil
}

// BackToResults returns from Review to Results.
func (m *Manager) BackToResults(ctx context.Context) error {
	if m.screen != ScreenReview {
		return ErrInvalidTransition
	}
	m.setScreen(ctx, ScreenResults)
	return nil
}

// Reset drops the active quiz and returns to Setup.
func (m *Manager) Reset(ctx context.Context) error {
	if m.screen == ScreenGenerating || m.screen == ScreenQuiz {
		return ErrInvalidTransition
	}
	m.resetActive(ctx)
	m.setScreen(ctx, ScreenSetup)
	return nil
}

// Home drops the active quiz and returns to Landing.
func (m *Manager) Home(ctx context.Context) error {
	if m.screen == ScreenGenerating || m.screen == ScreenQuiz {
		return ErrInvalidTransition
	}
	m.resetActive(ctx)
	m.setScreen(ctx, ScreenLanding)
	return nil
}

func (m *Manager) resetActive(ctx context.Context) {
	m.config = nil
	m.questions = nil
	m.attempt = nil
	m.progress = nil
	m.errMsg = ""
	m.remove(ctx, store.KeySession)
	m.remove(ctx, store.KeyProgress)
}

// Fail surfaces err on the error banner.
func (m *Manager) Fail(err error) {
	if err != nil {
		m.errMsg = err.Error()
	}
}

// DismissError clears the error banner.
func (m *Manager) DismissError() { m.errMsg = "" }

// DismissCritical clears the critical failure report.
func (m *Manager) DismissCritical() { m.critical = "" }

// Screen returns the current screen.
func (m *Manager) Screen() Screen { return m.screen }

// Config returns the active configuration.
func (m *Manager) Config() (quiz.Config, bool) {
	if m.config == nil {
		return quiz.Config{}, false
	}
	return *m.config, true
}

// Questions returns the active question list.
func (m *Manager) Questions() []quiz.Question { return m.questions }

// Attempt returns a copy of the active attempt, with live progress applied
// while a quiz is being taken.
func (m *Manager) Attempt() (quiz.Attempt, bool) {
	if m.attempt == nil {
		return quiz.Attempt{}, false
	}
	return m.attempt.Clone(), true
}

// Progress returns the live checkpoint of the quiz being taken.
func (m *Manager) Progress() (Checkpoint, bool) {
	if m.progress == nil {
		return Checkpoint{}, false
	}
	return m.progress.clone(), true
}

// TakeNotice returns the pending one-shot notice and clears it.
func (m *Manager) TakeNotice() string {
	n := m.notice
	m.notice = ""
	return n
}

// Error returns the ordinary error banner text, if any.
func (m *Manager) Error() string { return m.errMsg }

// Critical returns the aggregated per-credential failure log, if the last
// generation exhausted every credential.
func (m *Manager) Critical() string { return m.critical }

// SourceHint tells where the keys of the current generation came from.
func (m *Manager) SourceHint() string { return m.sourceHint }

// Stats scores the active attempt.
func (m *Manager) Stats() scoring.Stats {
	if m.attempt == nil {
		return scoring.Stats{}
	}
	return scoring.Score(m.attempt.Questions, m.attempt.Responses)
}

// RememberedName returns the last candidate name entered on Setup.
func (m *Manager) RememberedName(ctx context.Context) string {
	raw, ok, err := m.kv.Get(ctx, store.KeyUserName)
	if err != nil {
		m.logger.Warn("reading remembered name", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return string(raw)
}

// HasInProgress reports whether history holds an unfinished attempt.
func (m *Manager) HasInProgress(ctx context.Context) bool {
	return m.history.HasInProgress(ctx)
}

// setScreen changes screen and keeps the snapshot in step: written for
// Quiz, Results and Review, removed otherwise.
func (m *Manager) setScreen(ctx context.Context, s Screen) {
	m.screen = s
	if !s.Persistent() {
		m.remove(ctx, store.KeySession)
		return
	}
	snap := Snapshot{Screen: s, Config: m.config, Questions: m.questions, Attempt: m.attempt}
	m.writeJSON(ctx, store.KeySession, snap)
}

func (m *Manager) writeJSON(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		m.logger.Warn("encoding state", "key", key, "error", err)
		return
	}
	if err := m.kv.Set(ctx, key, data); err != nil {
		m.logger.Warn("storage write failed", "key", key, "error", err)
	}
}

func (m *Manager) remove(ctx context.Context, key string) {
	if err := m.kv.Remove(ctx, key); err != nil {
		m.logger.Warn("storage remove failed", "key", key, "error", err)
	}
}
