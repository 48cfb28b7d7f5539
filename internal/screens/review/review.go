package review

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/Emdad05/Quiz-Ai/internal/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/scoring"
	"github.com/Emdad05/Quiz-Ai/internal/screen"
	"github.com/Emdad05/Quiz-Ai/internal/ui/components"
	"github.com/Emdad05/Quiz-Ai/internal/ui/layout"
	"github.com/Emdad05/Quiz-Ai/internal/ui/theme"
)

// Filter narrows the breakdown.
type Filter int

const (
	FilterAll Filter = iota
	FilterMissed
	FilterFlagged
)

func (f Filter) String() string {
	switch f {
	case FilterMissed:
		return "Missed"
	case FilterFlagged:
		return "Flagged"
	default:
		return "All"
	}
}

// ReviewScreen walks through every question with the correct answer and
// its explanation.
type ReviewScreen struct {
	env    screen.Env
	filter Filter
	offset int
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// New creates the review screen.
func New(env screen.Env) *ReviewScreen {
	return &ReviewScreen{env: env}
}

func (r *ReviewScreen) Init() tea.Cmd { return nil }

func (r *ReviewScreen) Title() string { return "Review" }

func (r *ReviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Tab", Description: "Filter: " + r.filter.String()},
		{Key: "Esc", Description: "Back to results"},
	}
}

func (r *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}
	switch kmsg.String() {
	case "up", "k":
		r.offset = max(0, r.offset-1)
	case "down", "j":
		r.offset++
	case "pgup":
		r.offset = max(0, r.offset-10)
	case "pgdown", "space":
		r.offset += 10
	case "home", "g":
		r.offset = 0
	case "tab":
		r.filter = (r.filter + 1) % 3
		r.offset = 0
	case "esc", "b":
		r.env.Do(r.env.Session.BackToResults)
	}
	return r, nil
}

// Results returns the breakdown rows the current filter keeps.
func (r *ReviewScreen) Results() []scoring.QuestionResult {
	a, ok := r.env.Session.Attempt()
	if !ok {
		return nil
	}
	var out []scoring.QuestionResult
	for _, res := range scoring.Breakdown(a) {
		switch r.filter {
		case FilterMissed:
			if res.Outcome == scoring.Correct {
				continue
			}
		case FilterFlagged:
			if !res.Flagged {
				continue
			}
		}
		out = append(out, res)
	}
	return out
}

func (r *ReviewScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	a, _ := r.env.Session.Attempt()

	var lines []string
	for _, res := range r.Results() {
		lines = append(lines, strings.Split(renderResult(res, indexOf(a.Questions, res), cw), "\n")...)
		lines = append(lines, "")
	}
	if len(lines) == 0 {
		lines = []string{theme.Hint.Render(fmt.Sprintf("No %s questions.", strings.ToLower(r.filter.String())))}
	}

	header := theme.Title.Render(a.Title) + "  " + theme.Hint.Render("showing "+strings.ToLower(r.filter.String()))
	body := height - 2
	if r.offset > len(lines)-1 {
		r.offset = max(0, len(lines)-1)
	}
	visible := lines[r.offset:]
	if body > 0 && len(visible) > body {
		visible = visible[:body]
	}
	return components.Center(header+"\n\n"+strings.Join(visible, "\n"), width, height)
}

func indexOf(questions []quiz.Question, res scoring.QuestionResult) int {
	for i, q := range questions {
		if q.ID == res.Question.ID {
			return i
		}
	}
	return 0
}

func renderResult(res scoring.QuestionResult, i, width int) string {
	var b strings.Builder

	mark := theme.Correct.Render("✓ Correct")
	switch res.Outcome {
	case scoring.Wrong:
		mark = theme.Incorrect.Render("✗ Wrong")
	case scoring.Skipped:
		mark = theme.Hint.Render("– Skipped")
	}
	head := theme.Label.Render(fmt.Sprintf("Q%d", i+1)) + "  " + mark
	if res.Flagged {
		head += "  " + theme.Flagged.Render("⚑")
	}
	b.WriteString(head + "\n")
	b.WriteString(theme.Body.Width(width-4).Render(res.Question.Text) + "\n\n")

	if len(res.Question.Options) > 0 {
		for j, opt := range res.Question.Options {
			line := fmt.Sprintf("  %s) %s", components.OptionLabel(j), opt)
			switch {
			case opt == res.CorrectText:
				b.WriteString(theme.Correct.Render(line+"  ✓") + "\n")
			case opt == res.Given:
				b.WriteString(theme.Incorrect.Render(line+"  (your answer)") + "\n")
			default:
				b.WriteString(theme.Unselected.Render(line) + "\n")
			}
		}
	} else {
		given := res.Given
		if given == "" {
			given = "(no answer)"
		}
		b.WriteString(theme.Label.Render("Your answer  ") + theme.Body.Render(given) + "\n")
		b.WriteString(theme.Label.Render("Correct      ") + theme.Correct.Render(res.CorrectText) + "\n")
	}

	if res.Question.Explanation != "" {
		b.WriteString("\n" + theme.Hint.Render("Why: ") + RenderEmphasis(res.Question.Explanation))
	}
	return components.Card(b.String(), width)
}

// RenderEmphasis styles **marked** spans. An unmatched marker is kept as
// literal text.
func RenderEmphasis(s string) string {
	parts := strings.Split(s, "**")
	if len(parts)%2 == 0 {
		return theme.Body.Render(s)
	}
	var b strings.Builder
	for i, p := range parts {
		if i%2 == 1 {
			b.WriteString(theme.Emphasis.Render(p))
		} else {
			b.WriteString(theme.Body.Render(p))
		}
	}
	return b.String()
}
