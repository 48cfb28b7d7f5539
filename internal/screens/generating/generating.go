package generating

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/Emdad05/Quiz-Ai/internal/screen"
	"github.com/Emdad05/Quiz-Ai/internal/ui/components"
	"github.com/Emdad05/Quiz-Ai/internal/ui/layout"
	"github.com/Emdad05/Quiz-Ai/internal/ui/theme"
)

var tips = []string{
	"Reading your material",
	"Drafting questions",
	"Checking every answer against the source",
	"Writing explanations",
}

// GeneratingScreen is shown while a quiz is being generated. The result
// arrives as screen.GenerationDoneMsg and is handled by the app.
type GeneratingScreen struct {
	env     screen.Env
	spinner spinner.Model
	ticks   int
}

var _ screen.Screen = (*GeneratingScreen)(nil)
var _ screen.KeyHintProvider = (*GeneratingScreen)(nil)

// New creates the waiting screen.
func New(env screen.Env) *GeneratingScreen {
	return &GeneratingScreen{
		env:     env,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (g *GeneratingScreen) Init() tea.Cmd {
	return g.spinner.Tick
}

func (g *GeneratingScreen) Title() string { return "Generating" }

func (g *GeneratingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
}

func (g *GeneratingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			g.env.Do(g.env.Session.AbandonGeneration)
		}
		return g, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		g.spinner, cmd = g.spinner.Update(msg)
		g.ticks++
		return g, cmd
	}
	return g, nil
}

// tip cycles through the progress phrases roughly every three seconds.
func (g *GeneratingScreen) tip() string {
	return tips[(g.ticks/30)%len(tips)]
}

func (g *GeneratingScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(g.spinner.View() + " " + theme.Title.Render("Generating your quiz") + "\n\n")
	b.WriteString(theme.Body.Render(g.tip()+"...") + "\n\n")
	if hint := g.env.Session.SourceHint(); hint != "" {
		b.WriteString(theme.Hint.Render(hint) + "\n")
	}
	b.WriteString(theme.Hint.Render("This usually takes under a minute."))
	return components.Center(b.String(), width, height)
}
