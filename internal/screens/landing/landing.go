package landing

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Emdad05/Quiz-Ai/internal/screen"
	"github.com/Emdad05/Quiz-Ai/internal/session"
	"github.com/Emdad05/Quiz-Ai/internal/ui/components"
	"github.com/Emdad05/Quiz-Ai/internal/ui/layout"
	"github.com/Emdad05/Quiz-Ai/internal/ui/theme"
)

const logo = `  ___        _         ____            _
 / _ \ _   _(_)____   / ___| ___ _ __ (_)_   _ ___
| | | | | | | |_  /  | |  _ / _ \ '_ \| | | | / __|
| |_| | |_| | |/ /   | |_| |  __/ | | | | |_| \__ \
 \__\_\\__,_|_/___|   \____|\___|_| |_|_|\__,_|___/`

var features = []string{
	"Context aware: questions come only from the material you supply",
	"Instant generation: text, PDFs and images in, a timed exam out",
	"Deep insights: every answer is explained after you submit",
}

// LandingScreen is the entry menu.
type LandingScreen struct {
	env        screen.Env
	menu       components.Menu
	inProgress bool
}

var _ screen.Screen = (*LandingScreen)(nil)
var _ screen.KeyHintProvider = (*LandingScreen)(nil)

// New creates the landing screen.
func New(env screen.Env) *LandingScreen {
	l := &LandingScreen{env: env}
	nav := func(to session.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			env.Do(func(ctx context.Context) error { return env.Session.Navigate(ctx, to) })
			return nil
		}
	}
	l.menu = components.NewMenu([]components.MenuItem{
		{Label: "Start a new quiz", Action: nav(session.ScreenSetup)},
		{Label: "History", Hint: "review or resume past attempts", Action: nav(session.ScreenHistory)},
		{Label: "API keys", Hint: "manage your generation keys", Action: nav(session.ScreenAPISetup)},
		{Label: "How to use", Action: nav(session.ScreenHowTo)},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return l
}

func (l *LandingScreen) Init() tea.Cmd {
	l.inProgress = l.env.Session.HasInProgress(l.env.Ctx)
	return nil
}

func (l *LandingScreen) Title() string {
	return "Welcome"
}

func (l *LandingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (l *LandingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	l.menu, cmd = l.menu.Update(msg)
	return l, cmd
}

func (l *LandingScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, lipgloss.NewStyle().Foreground(theme.Primary).Render(logo))
	sections = append(sections, theme.Subtitle.Render("Turn any study material into a timed exam"))
	sections = append(sections, "")

	for _, f := range features {
		sections = append(sections, theme.Body.Render("  • "+f))
	}
	sections = append(sections, "")

	if l.inProgress {
		sections = append(sections, theme.Emphasis.Render("You have an unfinished quiz. Open History to resume it."))
		sections = append(sections, "")
	}

	sections = append(sections, l.menu.View())

	return components.Center(strings.Join(sections, "\n"), width, height)
}
