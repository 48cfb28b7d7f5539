package results

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Emdad05/Quiz-Ai/internal/scoring"
	"github.com/Emdad05/Quiz-Ai/internal/screen"
	"github.com/Emdad05/Quiz-Ai/internal/session"
	"github.com/Emdad05/Quiz-Ai/internal/ui/components"
	"github.com/Emdad05/Quiz-Ai/internal/ui/layout"
	"github.com/Emdad05/Quiz-Ai/internal/ui/theme"
)

// ResultsScreen summarises a submitted attempt.
type ResultsScreen struct {
	env  screen.Env
	menu components.Menu
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates the results screen.
func New(env screen.Env) *ResultsScreen {
	r := &ResultsScreen{env: env}
	act := func(op func(context.Context) error) func() tea.Cmd {
		return func() tea.Cmd {
			env.Do(op)
			return nil
		}
	}
	r.menu = components.NewMenu([]components.MenuItem{
		{Label: "Review answers", Hint: "r", Action: act(env.Session.Review)},
		{Label: "Reattempt", Hint: "a", Action: act(env.Session.Reattempt)},
		{Label: "New quiz", Hint: "n", Action: act(env.Session.Reset)},
		{Label: "History", Hint: "h", Action: act(env.Session.OpenHistory)},
		{Label: "Home", Hint: "esc", Action: act(env.Session.Home)},
	})
	return r
}

func (r *ResultsScreen) Init() tea.Cmd { return nil }

func (r *ResultsScreen) Title() string { return "Results" }

func (r *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "r", Description: "Review"},
		{Key: "a", Description: "Reattempt"},
		{Key: "n", Description: "New quiz"},
		{Key: "h", Description: "History"},
		{Key: "Esc", Description: "Home"},
	}
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		sess := r.env.Session
		switch kmsg.String() {
		case "r":
			r.env.Do(sess.Review)
			return r, nil
		case "a":
			r.env.Do(sess.Reattempt)
			return r, nil
		case "n":
			r.env.Do(sess.Reset)
			return r, nil
		case "h":
			r.env.Do(sess.OpenHistory)
			return r, nil
		case "esc":
			r.env.Do(sess.Home)
			return r, nil
		}
	}
	var cmd tea.Cmd
	r.menu, cmd = r.menu.Update(msg)
	return r, cmd
}

func gradeStyle(percent int) lipgloss.Style {
	switch {
	case percent >= 70:
		return theme.Correct
	case percent >= 50:
		return theme.Emphasis
	default:
		return theme.Incorrect
	}
}

func (r *ResultsScreen) View(width, height int) string {
	a, ok := r.env.Session.Attempt()
	if !ok {
		return components.Center(theme.Hint.Render("No results to show."), width, height)
	}
	stats := r.env.Session.Stats()
	cw := min(components.ContentWidth(width), 64)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw-4).Render(a.Title) + "\n")
	if cfg, ok := r.env.Session.Config(); ok && cfg.UserName != "" && cfg.UserName != session.HistoryReviewer {
		b.WriteString(theme.Subtitle.Width(cw-4).Render("Candidate: "+cfg.UserName) + "\n")
	}
	b.WriteString("\n")

	style := gradeStyle(stats.Percent)
	b.WriteString(style.Width(cw-4).Align(lipgloss.Center).Render(fmt.Sprintf("%d%%  %s", stats.Percent, scoring.Grade(stats.Percent))) + "\n\n")

	bar := components.NewProgressBar("Score", components.Fraction(stats.Correct, stats.Total), false, cw-4)
	bar.Color = lipgloss.NewStyle().Background(style.GetForeground())
	b.WriteString(bar.View() + "\n\n")

	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		theme.Correct.Render(fmt.Sprintf("✓ %d correct", stats.Correct)),
		theme.Incorrect.Render(fmt.Sprintf("✗ %d wrong", stats.Wrong)),
		theme.Hint.Render(fmt.Sprintf("– %d skipped", stats.Skipped)),
	))
	b.WriteString(theme.Label.Render("Time taken  ") + theme.Body.Render(layout.FormatClock(a.ElapsedSeconds)) + "\n")
	if n := len(a.MarkedForReview); n > 0 {
		b.WriteString(theme.Flagged.Render(fmt.Sprintf("⚑ %d marked for review", n)) + "\n")
	}
	b.WriteString("\n" + r.menu.View())

	if msg := r.env.Session.Error(); msg != "" {
		b.WriteString("\n" + components.Banner(msg, true, cw-4))
	}

	return components.Center(components.Card(b.String(), cw), width, height)
}
