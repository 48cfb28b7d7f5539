package howto

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/Emdad05/Quiz-Ai/internal/screen"
	"github.com/Emdad05/Quiz-Ai/internal/session"
	"github.com/Emdad05/Quiz-Ai/internal/ui/components"
	"github.com/Emdad05/Quiz-Ai/internal/ui/layout"
	"github.com/Emdad05/Quiz-Ai/internal/ui/theme"
)

type section struct {
	heading string
	lines   []string
}

var guide = []section{
	{"1. API keys", []string{
		"Add one or more keys under API keys. They are tried in order:",
		"when a key hits its quota the next one is used automatically.",
		"Without local keys the system keys from API_KEY are used.",
	}},
	{"2. Building a quiz", []string{
		"Paste study notes or attach up to 5 PDFs and images.",
		"Pick the question count, time limit, difficulty and format.",
		"Questions are drawn only from what you provide.",
	}},
	{"3. Taking the exam", []string{
		"Answer in any order, flag questions to revisit, and watch the clock.",
		"When time runs out the exam is submitted for you.",
		"Leaving mid-way keeps your attempt in History to resume later.",
	}},
	{"4. Results", []string{
		"See your score and grade, then review every question with",
		"the correct answer and an explanation.",
		"Any attempt can be retaken from its results.",
	}},
}

// HowToScreen is the usage guide.
type HowToScreen struct {
	env    screen.Env
	offset int
}

var _ screen.Screen = (*HowToScreen)(nil)
var _ screen.KeyHintProvider = (*HowToScreen)(nil)

// New creates the guide screen.
func New(env screen.Env) *HowToScreen {
	return &HowToScreen{env: env}
}

func (h *HowToScreen) Init() tea.Cmd { return nil }

func (h *HowToScreen) Title() string { return "How to use" }

func (h *HowToScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Start a quiz"},
		{Key: "Esc", Description: "Back"},
	}
}

func (h *HowToScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if h.offset > 0 {
			h.offset--
		}
	case "down", "j":
		h.offset++
	case "enter":
		h.navigate(session.ScreenSetup)
	case "esc":
		h.navigate(session.ScreenLanding)
	}
	return h, nil
}

func (h *HowToScreen) navigate(to session.Screen) {
	h.env.Do(func(ctx context.Context) error { return h.env.Session.Navigate(ctx, to) })
}

func (h *HowToScreen) lines() []string {
	out := []string{theme.Title.Render("Mastering QuizGenius"), ""}
	for _, s := range guide {
		out = append(out, theme.Emphasis.Render(s.heading))
		for _, l := range s.lines {
			out = append(out, theme.Body.Render("  "+l))
		}
		out = append(out, "")
	}
	out = append(out, theme.Hint.Render("Ready to start? Press Enter."))
	return out
}

func (h *HowToScreen) View(width, height int) string {
	lines := h.lines()
	if h.offset > len(lines)-1 {
		h.offset = len(lines) - 1
	}
	visible := lines[h.offset:]
	if height > 0 && len(visible) > height {
		visible = visible[:height]
	}
	return components.Center(strings.Join(visible, "\n"), width, height)
}
