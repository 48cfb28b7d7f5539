// Package app hosts the root Bubble Tea model: it owns the session manager
// and keeps the mounted screen in step with it.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Emdad05/Quiz-Ai/internal/credentials"
	"github.com/Emdad05/Quiz-Ai/internal/router"
	"github.com/Emdad05/Quiz-Ai/internal/screen"
	"github.com/Emdad05/Quiz-Ai/internal/screens/apikeys"
	"github.com/Emdad05/Quiz-Ai/internal/screens/generating"
	"github.com/Emdad05/Quiz-Ai/internal/screens/history"
	"github.com/Emdad05/Quiz-Ai/internal/screens/howto"
	"github.com/Emdad05/Quiz-Ai/internal/screens/landing"
	quizscreen "github.com/Emdad05/Quiz-Ai/internal/screens/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/screens/results"
	"github.com/Emdad05/Quiz-Ai/internal/screens/review"
	"github.com/Emdad05/Quiz-Ai/internal/screens/setup"
	"github.com/Emdad05/Quiz-Ai/internal/session"
	"github.com/Emdad05/Quiz-Ai/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	env    screen.Env
	router *router.Router
	width  int
	height int
}

// NewScreen builds the view for a session screen.
func NewScreen(env screen.Env, s session.Screen) screen.Screen {
	switch s {
	case session.ScreenAPISetup:
		return apikeys.New(env)
	case session.ScreenHowTo:
		return howto.New(env)
	case session.ScreenSetup:
		return setup.New(env)
	case session.ScreenGenerating:
		return generating.New(env)
	case session.ScreenQuiz:
		return quizscreen.New(env)
	case session.ScreenResults:
		return results.New(env)
	case session.ScreenReview:
		return review.New(env)
	case session.ScreenHistory:
		return history.New(env)
	default:
		return landing.New(env)
	}
}

// NewModel creates the root model for env. The session should already be
// restored.
func NewModel(env screen.Env) AppModel {
	return AppModel{
		env: env,
		router: router.New(func(s session.Screen) screen.Screen {
			return NewScreen(env, s)
		}),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Sync(m.env.Session.Screen())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.GenerationDoneMsg:
		m.env.Do(func(ctx context.Context) error {
			m.env.Session.CompleteGeneration(ctx, msg.Ticket, msg.Data, msg.Err)
			return nil
		})
		return m, m.router.Sync(m.env.Session.Screen())

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// A key press acknowledges the error banner.
		m.env.Session.DismissError()
		cmd = m.router.Update(msg)

	default:
		cmd = m.router.Update(msg)
	}

	return m, tea.Batch(cmd, m.router.Sync(m.env.Session.Screen()))
}

// status is shown on the right of the header: the countdown while a quiz
// runs.
func (m AppModel) status() string {
	if m.env.Session.Screen() == session.ScreenQuiz {
		if cp, ok := m.env.Session.Progress(); ok {
			return "⏱ " + layout.FormatClock(cp.TimeLeft) + "  "
		}
	}
	return ""
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status(), m.width)

	var footerHints []layout.KeyHint
	if kh, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kh.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Options configures Run.
type Options struct {
	Session *session.Manager
	Keyring *credentials.Keyring
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	env := screen.Env{Ctx: ctx, Session: opts.Session, Keyring: opts.Keyring}
	p := tea.NewProgram(NewModel(env), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrInterrupted) || (errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return nil
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
