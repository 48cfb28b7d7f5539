// Package screentest builds screen environments backed by an in-memory
// store for screen and app tests.
package screentest

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Emdad05/Quiz-Ai/internal/credentials"
	"github.com/Emdad05/Quiz-Ai/internal/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/screen"
	"github.com/Emdad05/Quiz-Ai/internal/session"
	"github.com/Emdad05/Quiz-Ai/internal/store"
)

// Generator returns Data or Err and counts calls.
type Generator struct {
	Data  *quiz.GeneratedQuiz
	Err   error
	Calls int
}

func (g *Generator) Generate(_ context.Context, _ quiz.Config, _ []string) (*quiz.GeneratedQuiz, error) {
	g.Calls++
	return g.Data, g.Err
}

// Validator accepts every key unless Err is set.
type Validator struct {
	Err error
}

func (v Validator) ValidateCredential(context.Context, string) error { return v.Err }

// Fixture is a wired environment plus the fakes behind it.
type Fixture struct {
	Env screen.Env
	KV  *store.Memory
	Gen *Generator
}

// SampleQuiz is three choice questions. The correct options are B, A, B.
func SampleQuiz() *quiz.GeneratedQuiz {
	return &quiz.GeneratedQuiz{
		Title: "Photosynthesis",
		Questions: []quiz.Question{
			{ID: 1, Text: "Where does it happen?", Options: []string{"Root", "Leaf", "Stem", "Flower"}, Key: quiz.ChoiceKey{Index: 1}, Explanation: "In the **chloroplasts** of leaves."},
			{ID: 2, Text: "Is light needed?", Options: []string{"True", "False"}, Key: quiz.ChoiceKey{Index: 0}},
			{ID: 3, Text: "Main gas absorbed?", Options: []string{"O2", "CO2", "N2", "H2"}, Key: quiz.ChoiceKey{Index: 1}},
		},
	}
}

// Config is a configuration that passes validation.
func Config() quiz.Config {
	cfg := quiz.DefaultConfig()
	cfg.UserName = "Ada"
	cfg.Content = "Plants turn light into sugar."
	cfg.QuestionCount = 3
	cfg.DurationMinutes = 2
	return cfg
}

// New wires a manager over a fresh memory store with one system key.
func New(t testing.TB) *Fixture {
	t.Helper()
	kv := store.NewMemory(store.DefaultQuota)
	gen := &Generator{Data: SampleQuiz()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	keyring := credentials.NewKeyring(kv, Validator{}, logger)
	provider := credentials.Provider{Keyring: keyring, System: []string{"system-key-123"}}

	seq := 0
	mgr := session.NewManager(kv, gen, provider,
		session.WithLogger(logger),
		session.WithClock(func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }),
		session.WithIDSource(func() string {
			seq++
			return "attempt-" + string(rune('0'+seq))
		}),
	)

	return &Fixture{
		Env: screen.Env{Ctx: context.Background(), Session: mgr, Keyring: keyring},
		KV:  kv,
		Gen: gen,
	}
}

// StartQuiz moves the manager onto the quiz screen with SampleQuiz.
func (f *Fixture) StartQuiz(t testing.TB) {
	t.Helper()
	if err := f.Env.Session.Navigate(f.Env.Ctx, session.ScreenSetup); err != nil {
		t.Fatalf("navigate to setup: %v", err)
	}
	if err := f.Env.Session.StartQuiz(f.Env.Ctx, Config()); err != nil {
		t.Fatalf("start quiz: %v", err)
	}
}

// Key builds a key press for a printable rune.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Special builds a key press for a non-printable key such as tea.KeyEnter.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}
