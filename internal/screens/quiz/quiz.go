// Package quiz is the timed answering screen.
package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	domain "github.com/Emdad05/Quiz-Ai/internal/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/screen"
	"github.com/Emdad05/Quiz-Ai/internal/session"
	"github.com/Emdad05/Quiz-Ai/internal/ui/components"
	"github.com/Emdad05/Quiz-Ai/internal/ui/layout"
	"github.com/Emdad05/Quiz-Ai/internal/ui/theme"
)

// MsgNeedAnswer is shown when submit is pressed with nothing answered.
const MsgNeedAnswer = "Answer at least one question before submitting."

// mounts numbers each mounted quiz screen so ticks from an earlier mount
// are dropped.
var mounts int

type tickMsg struct {
	mount int
}

type mode int

const (
	modeAnswering mode = iota
	modeConfirmSubmit
	modeExit
)

// QuizScreen shows one question at a time with a countdown.
type QuizScreen struct {
	env   screen.Env
	mount int
	mode  mode

	// shownID is the id of the question the widgets were built for.
	shownID int
	built   bool
	options components.OptionList
	answer  components.TextInput

	hint string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates the quiz screen for the attempt the session is running.
func New(env screen.Env) *QuizScreen {
	return &QuizScreen{
		env:    env,
		answer: components.NewTextInput("", "Type your answer", false, 300),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	mounts++
	s.mount = mounts
	return tea.Batch(s.sync(), s.tick())
}

func (s *QuizScreen) tick() tea.Cmd {
	id := s.mount
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{mount: id} })
}

func (s *QuizScreen) Title() string {
	if a, ok := s.env.Session.Attempt(); ok {
		return a.Title
	}
	return "Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeConfirmSubmit:
		return []layout.KeyHint{
			{Key: "y", Description: "Submit"},
			{Key: "n", Description: "Keep answering"},
		}
	case modeExit:
		return []layout.KeyHint{
			{Key: "s", Description: "Save & exit"},
			{Key: "d", Description: "Discard"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	if s.shortAnswer() {
		return []layout.KeyHint{
			{Key: "Tab/Enter", Description: "Next"},
			{Key: "Shift+Tab", Description: "Prev"},
			{Key: "Ctrl+F", Description: "Flag"},
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Esc", Description: "Exit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Option"},
		{Key: "Enter/A-D", Description: "Answer"},
		{Key: "←→", Description: "Prev/Next"},
		{Key: "f", Description: "Flag"},
		{Key: "s", Description: "Submit"},
		{Key: "Esc", Description: "Exit"},
	}
}

func (s *QuizScreen) shortAnswer() bool {
	q, _, ok := s.env.Session.Current()
	return ok && q.IsShortAnswer()
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.mount != s.mount {
			return s, nil
		}
		s.env.Do(func(ctx context.Context) error {
			_, err := s.env.Session.Tick(ctx)
			return err
		})
		if s.env.Session.Screen() != session.ScreenQuiz {
			return s, nil
		}
		return s, s.tick()

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch s.mode {
		case modeConfirmSubmit:
			s.handleConfirm(msg.String())
		case modeExit:
			s.handleExit(msg.String())
		default:
			cmd = s.handleAnswering(msg)
		}
		return s, tea.Batch(cmd, s.sync())
	}

	if s.shortAnswer() {
		var cmd tea.Cmd
		s.answer, cmd = s.answer.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) handleAnswering(msg tea.KeyMsg) tea.Cmd {
	do := s.env.Do
	sess := s.env.Session
	s.hint = ""

	switch msg.String() {
	case "esc":
		s.mode = modeExit
		return nil
	case "ctrl+s":
		s.requestSubmit()
		return nil
	case "ctrl+f":
		do(sess.ToggleReview)
		return nil
	case "tab":
		do(sess.Next)
		return nil
	case "shift+tab":
		do(sess.Prev)
		return nil
	case "home":
		do(func(ctx context.Context) error { return sess.GoTo(ctx, 0) })
		return nil
	case "end":
		do(func(ctx context.Context) error { return sess.GoTo(ctx, len(sess.Questions())-1) })
		return nil
	}

	if s.shortAnswer() {
		if msg.String() == "enter" {
			do(sess.Next)
			return nil
		}
		before := s.answer.Value()
		var cmd tea.Cmd
		s.answer, cmd = s.answer.Update(msg)
		if after := s.answer.Value(); after != before {
			do(func(ctx context.Context) error { return sess.AnswerText(ctx, after) })
		}
		return cmd
	}

	switch msg.String() {
	case "right", "n", "l":
		do(sess.Next)
		return nil
	case "left", "p", "h":
		do(sess.Prev)
		return nil
	case "f":
		do(sess.ToggleReview)
		return nil
	case "s":
		s.requestSubmit()
		return nil
	case "backspace", "delete":
		do(sess.ClearAnswer)
		s.options.Chosen = -1
		return nil
	}

	var picked int
	s.options, picked = s.options.Update(msg)
	if picked >= 0 {
		do(func(ctx context.Context) error { return sess.SelectOption(ctx, picked) })
	}
	return nil
}

// requestSubmit submits straight away when everything is answered, asks
// first when some questions are blank, and refuses when none are answered.
func (s *QuizScreen) requestSubmit() {
	sess := s.env.Session
	unanswered := sess.Unanswered()
	switch {
	case unanswered >= len(sess.Questions()):
		s.hint = MsgNeedAnswer
	case unanswered > 0:
		s.mode = modeConfirmSubmit
	default:
		s.env.Do(sess.Submit)
	}
}

func (s *QuizScreen) handleConfirm(key string) {
	switch key {
	case "y", "enter":
		s.mode = modeAnswering
		s.env.Do(s.env.Session.Submit)
	case "n", "esc":
		s.mode = modeAnswering
	}
}

func (s *QuizScreen) handleExit(key string) {
	switch key {
	case "s":
		s.mode = modeAnswering
		s.env.Do(func(ctx context.Context) error { return s.env.Session.Exit(ctx, true) })
	case "d":
		s.mode = modeAnswering
		s.env.Do(func(ctx context.Context) error { return s.env.Session.Exit(ctx, false) })
	case "n", "esc":
		s.mode = modeAnswering
	}
}

// sync rebuilds the answer widgets when the current question changed.
func (s *QuizScreen) sync() tea.Cmd {
	q, _, ok := s.env.Session.Current()
	if !ok || (s.built && q.ID == s.shownID) {
		return nil
	}
	s.built = true
	s.shownID = q.ID

	var resp domain.Response
	if cp, ok := s.env.Session.Progress(); ok {
		resp = cp.Responses[q.ID]
	}

	if q.IsShortAnswer() {
		text, _ := resp.(domain.Text)
		s.answer.SetValue(string(text))
		return s.answer.Focus()
	}

	s.answer.Blur()
	chosen := -1
	if c, ok := resp.(domain.Choice); ok {
		chosen = int(c)
	}
	s.options = components.NewOptionList(q.Options, chosen)
	return nil
}

func (s *QuizScreen) View(width, height int) string {
	q, idx, ok := s.env.Session.Current()
	cp, _ := s.env.Session.Progress()
	if !ok {
		return components.Center(theme.Hint.Render("No quiz in progress."), width, height)
	}
	total := len(s.env.Session.Questions())
	cw := components.ContentWidth(width)

	switch s.mode {
	case modeConfirmSubmit:
		return components.Center(s.renderDialog(cw,
			"Submit now?",
			fmt.Sprintf("%d of %d questions are unanswered. They will count as skipped.", s.env.Session.Unanswered(), total),
			"y submit   n keep answering"), width, height)
	case modeExit:
		return components.Center(s.renderDialog(cw,
			"Leave this quiz?",
			"Save keeps the attempt in History so you can resume it. Discard deletes it.",
			"s save & exit   d discard   esc cancel"), width, height)
	}

	var b strings.Builder

	flagged := ""
	for _, id := range cp.Review {
		if id == q.ID {
			flagged = theme.Flagged.Render("  ⚑ marked for review")
		}
	}
	clock := theme.Emphasis.Render("⏱ " + layout.FormatClock(cp.TimeLeft))
	status := theme.Label.Render(fmt.Sprintf("Question %d of %d", idx+1, total)) + flagged
	gap := cw - 4 - lipgloss.Width(status) - lipgloss.Width(clock)
	b.WriteString(status + strings.Repeat(" ", max(1, gap)) + clock + "\n\n")

	answered := total - s.env.Session.Unanswered()
	b.WriteString(components.NewProgressBar("Answered", components.Fraction(answered, total), true, cw-4).View() + "\n\n")

	b.WriteString(theme.Body.Width(cw - 4).Render(q.Text) + "\n\n")
	if q.IsShortAnswer() {
		b.WriteString(s.answer.View() + "\n")
	} else {
		b.WriteString(s.options.View(cw - 4))
	}

	b.WriteString("\n" + s.renderMap(q.ID, cp) + "\n")

	if s.hint != "" {
		b.WriteString("\n" + components.Banner(s.hint, false, cw-4))
	}
	if msg := s.env.Session.Error(); msg != "" {
		b.WriteString("\n" + components.Banner(msg, true, cw-4))
	}

	return components.Center(components.Card(b.String(), cw), width, height)
}

// renderMap draws one cell per question: current, answered, flagged.
func (s *QuizScreen) renderMap(current int, cp session.Checkpoint) string {
	flagged := make(map[int]bool, len(cp.Review))
	for _, id := range cp.Review {
		flagged[id] = true
	}
	cells := make([]string, 0, len(s.env.Session.Questions()))
	for i, q := range s.env.Session.Questions() {
		style := theme.Unselected
		_, answered := cp.Responses[q.ID]
		switch {
		case q.ID == current:
			style = theme.Selected
		case flagged[q.ID]:
			style = theme.Flagged
		case answered:
			style = theme.Correct
		}
		cells = append(cells, style.Render(fmt.Sprintf("%d", i+1)))
	}
	return strings.Join(cells, " ")
}

func (s *QuizScreen) renderDialog(width int, title, body, keys string) string {
	w := min(width, 64)
	content := theme.Emphasis.Render(title) + "\n\n" +
		theme.Body.Width(w-6).Render(body) + "\n\n" +
		theme.Hint.Render(keys)
	return components.Card(content, w)
}
