package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Emdad05/Quiz-Ai/internal/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/scoring"
	"github.com/Emdad05/Quiz-Ai/internal/screen"
	"github.com/Emdad05/Quiz-Ai/internal/session"
	"github.com/Emdad05/Quiz-Ai/internal/ui/components"
	"github.com/Emdad05/Quiz-Ai/internal/ui/layout"
	"github.com/Emdad05/Quiz-Ai/internal/ui/theme"
)

type historyLoadedMsg struct {
	Attempts []quiz.Attempt
	Err      error
}

type mode int

const (
	modeList mode = iota
	modeConfirmDelete
	modeConfirmClear
)

// HistoryScreen lists past attempts, newest first.
type HistoryScreen struct {
	env      screen.Env
	attempts []quiz.Attempt
	selected int
	expanded map[string]bool
	mode     mode
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(env screen.Env) *HistoryScreen {
	return &HistoryScreen{
		env:      env,
		expanded: make(map[string]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load
}

func (s *HistoryScreen) load() tea.Msg {
	attempts, err := s.env.Session.History().Recent(s.env.Ctx)
	return historyLoadedMsg{Attempts: attempts, Err: err}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.mode != modeList {
		return []layout.KeyHint{
			{Key: "y", Description: "Confirm"},
			{Key: "n", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "Space", Description: "Details"},
		{Key: "d", Description: "Delete"},
		{Key: "c", Description: "Clear all"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = ""
			s.attempts = msg.Attempts
		}
		if s.selected >= len(s.attempts) {
			s.selected = max(0, len(s.attempts)-1)
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		if s.mode != modeList {
			return s, s.handleConfirm(msg.String())
		}
		switch msg.String() {
		case "esc":
			s.env.Do(func(ctx context.Context) error { return s.env.Session.Navigate(ctx, session.ScreenLanding) })
			return s, nil
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.attempts)-1 {
				s.selected++
			}
			return s, nil
		case "space":
			if a, ok := s.current(); ok {
				s.expanded[a.ID] = !s.expanded[a.ID]
			}
			return s, nil
		case "enter":
			if a, ok := s.current(); ok {
				s.env.Do(func(ctx context.Context) error { return s.env.Session.Resume(ctx, a.ID) })
			}
			return s, nil
		case "d":
			if _, ok := s.current(); ok {
				s.mode = modeConfirmDelete
			}
			return s, nil
		case "c":
			if len(s.attempts) > 0 {
				s.mode = modeConfirmClear
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) handleConfirm(key string) tea.Cmd {
	switch key {
	case "y":
		m := s.mode
		s.mode = modeList
		if m == modeConfirmClear {
			s.env.Do(s.env.Session.ClearHistory)
			return nil
		}
		if a, ok := s.current(); ok {
			if s.env.Do(func(ctx context.Context) error { return s.env.Session.DeleteAttempt(ctx, a.ID) }) == nil {
				return s.load
			}
		}
	case "n", "esc":
		s.mode = modeList
	}
	return nil
}

func (s *HistoryScreen) current() (quiz.Attempt, bool) {
	if s.selected < 0 || s.selected >= len(s.attempts) {
		return quiz.Attempt{}, false
	}
	return s.attempts[s.selected], true
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.attempts) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No attempts yet. Generate your first quiz!")
	}

	var b strings.Builder
	b.WriteString("\n")

	switch s.mode {
	case modeConfirmDelete:
		if a, ok := s.current(); ok {
			b.WriteString(center(theme.Emphasis.Render(fmt.Sprintf("Delete %q? y/n", a.Title)), width) + "\n\n")
		}
	case modeConfirmClear:
		b.WriteString(center(theme.Emphasis.Render(fmt.Sprintf("Delete all %d attempts? y/n", len(s.attempts))), width) + "\n\n")
	}
	if msg := s.env.Session.Error(); msg != "" {
		b.WriteString(center(components.Banner(msg, true, components.ContentWidth(width)), width) + "\n\n")
	}

	for i, a := range s.attempts {
		b.WriteString(center(s.renderRow(i, a), width))
		b.WriteString("\n")
		if s.expanded[a.ID] {
			b.WriteString(center(renderDetails(a), width))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderRow(i int, a quiz.Attempt) string {
	prefix := "  "
	if i == s.selected {
		prefix = "> "
	}

	status := theme.Emphasis.Render("in progress")
	if a.Completed() {
		stats := scoring.Score(a.Questions, a.Responses)
		status = fmt.Sprintf("%3d%%  %s", stats.Percent, scoring.Grade(stats.Percent))
	}

	line := fmt.Sprintf("%s%s  %-28s  %2d questions  %s",
		prefix, a.StartedAt().Format("Jan 02, 2006 15:04"), truncate(a.Title, 28), len(a.Questions), status)

	style := lipgloss.NewStyle().Foreground(theme.Text)
	if i == s.selected {
		style = style.Foreground(theme.Primary).Bold(true)
	}
	return style.Render(line)
}

func renderDetails(a quiz.Attempt) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	answered := a.Responses.Answered()
	if !a.Completed() {
		return dim.Render(fmt.Sprintf("    %d of %d answered, %s left. Press Enter to resume.",
			answered, len(a.Questions), layout.FormatClock(int(a.Remaining().Seconds()))))
	}
	stats := scoring.Score(a.Questions, a.Responses)
	return dim.Render(fmt.Sprintf("    ✓ %d  ✗ %d  – %d  in %s. Press Enter for results.",
		stats.Correct, stats.Wrong, stats.Skipped, layout.FormatClock(a.ElapsedSeconds)))
}

func center(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
