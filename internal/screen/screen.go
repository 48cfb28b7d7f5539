package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/Emdad05/Quiz-Ai/internal/credentials"
	"github.com/Emdad05/Quiz-Ai/internal/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/session"
	"github.com/Emdad05/Quiz-Ai/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is mounted.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Env is what screens act through. Every field is used from the Bubble Tea
// update goroutine only, except Keyring which is safe to call from commands.
type Env struct {
	Ctx     context.Context
	Session *session.Manager
	Keyring *credentials.Keyring
}

// GenerationDoneMsg carries a finished generation back to the update loop.
type GenerationDoneMsg struct {
	Ticket uint64
	Data   *quiz.GeneratedQuiz
	Err    error
}

// Generate runs job off the update loop.
func Generate(env Env, job session.Job) tea.Cmd {
	return func() tea.Msg {
		data, err := env.Session.RunGeneration(env.Ctx, job)
		return GenerationDoneMsg{Ticket: job.Ticket, Data: data, Err: err}
	}
}

// Do runs op through the manager's guard. Failures land on the manager's
// error banner.
func (e Env) Do(op func(ctx context.Context) error) error {
	err := e.Session.Guard(func() error { return op(e.Ctx) })
	if err != nil {
		e.Session.Fail(err)
	}
	return err
}
