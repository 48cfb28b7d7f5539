package setup

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"

	"github.com/Emdad05/Quiz-Ai/internal/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/screen"
	"github.com/Emdad05/Quiz-Ai/internal/session"
	"github.com/Emdad05/Quiz-Ai/internal/ui/components"
	"github.com/Emdad05/Quiz-Ai/internal/ui/layout"
	"github.com/Emdad05/Quiz-Ai/internal/ui/theme"
)

// reportPreview is how much of a critical failure log is shown inline.
const reportPreview = 500

type field int

const (
	fieldName field = iota
	fieldTopic
	fieldContent
	fieldAttach
	fieldQuestions
	fieldDuration
	fieldDifficulty
	fieldType
	fieldSubmit
	numFields
)

var difficulties = []quiz.Difficulty{quiz.DifficultyEasy, quiz.DifficultyMedium, quiz.DifficultyHard}
var types = []quiz.Type{quiz.TypeMultipleChoice, quiz.TypeTrueFalse}

// SetupScreen is the quiz configuration form.
type SetupScreen struct {
	env   screen.Env
	focus field

	name     components.TextInput
	topic    components.TextInput
	content  textarea.Model
	attach   components.TextInput
	count    components.TextInput
	duration components.TextInput

	difficulty  int
	quizType    int
	attachments []quiz.Attachment

	problems   []string
	notice     string
	inProgress bool
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates the setup form with defaults and the remembered name.
func New(env screen.Env) *SetupScreen {
	def := quiz.DefaultConfig()

	content := textarea.New()
	content.Placeholder = "Paste your study notes here..."
	content.ShowLineNumbers = false
	content.SetHeight(5)

	s := &SetupScreen{
		env:        env,
		name:       components.NewTextInput("Candidate name", "Your name", false, 60),
		topic:      components.NewTextInput("Topic (optional)", "Used as the quiz title", false, 80),
		content:    content,
		attach:     components.NewTextInput("Attach file", "path to a PDF or image, then Enter", false, 400),
		count:      components.NewTextInput("Questions", strconv.Itoa(def.QuestionCount), true, 2),
		duration:   components.NewTextInput("Minutes", strconv.Itoa(def.DurationMinutes), true, 3),
		difficulty: 1,
	}
	s.count.SetValue(strconv.Itoa(def.QuestionCount))
	s.duration.SetValue(strconv.Itoa(def.DurationMinutes))
	return s
}

func (s *SetupScreen) Init() tea.Cmd {
	s.name.SetValue(s.env.Session.RememberedName(s.env.Ctx))
	s.notice = s.env.Session.TakeNotice()
	s.inProgress = s.env.Session.HasInProgress(s.env.Ctx)
	return s.setFocus(fieldName)
}

func (s *SetupScreen) Title() string { return "New quiz" }

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.env.Session.Critical() != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Dismiss"}}
	}
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Ctrl+S", Description: "Generate"},
	}
	switch s.focus {
	case fieldDifficulty, fieldType:
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Change"})
	case fieldAttach:
		hints = append(hints, layout.KeyHint{Key: "Ctrl+X", Description: "Clear files"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, s.forward(msg)
	}

	if s.env.Session.Critical() != "" {
		s.env.Session.DismissCritical()
		return s, nil
	}

	switch kmsg.String() {
	case "tab", "down":
		if kmsg.String() == "down" && s.focus == fieldContent {
			break
		}
		return s, s.setFocus((s.focus + 1) % numFields)
	case "shift+tab", "up":
		if kmsg.String() == "up" && s.focus == fieldContent {
			break
		}
		return s, s.setFocus((s.focus + numFields - 1) % numFields)
	case "ctrl+s":
		return s, s.submit()
	case "esc":
		s.env.Do(func(ctx context.Context) error { return s.env.Session.Navigate(ctx, session.ScreenLanding) })
		return s, nil
	case "ctrl+x":
		if s.focus == fieldAttach {
			s.attachments = nil
			return s, nil
		}
	case "left", "right":
		step := 1
		if kmsg.String() == "left" {
			step = -1
		}
		switch s.focus {
		case fieldDifficulty:
			s.difficulty = (s.difficulty + step + len(difficulties)) % len(difficulties)
			return s, nil
		case fieldType:
			s.quizType = (s.quizType + step + len(types)) % len(types)
			return s, nil
		}
	case "enter":
		switch s.focus {
		case fieldSubmit:
			return s, s.submit()
		case fieldAttach:
			s.addAttachment()
			return s, nil
		case fieldContent:
		default:
			return s, s.setFocus((s.focus + 1) % numFields)
		}
	}

	return s, s.forward(msg)
}

// forward hands msg to the focused input.
func (s *SetupScreen) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.focus {
	case fieldName:
		s.name, cmd = s.name.Update(msg)
	case fieldTopic:
		s.topic, cmd = s.topic.Update(msg)
	case fieldContent:
		s.content, cmd = s.content.Update(msg)
	case fieldAttach:
		s.attach, cmd = s.attach.Update(msg)
	case fieldQuestions:
		s.count, cmd = s.count.Update(msg)
	case fieldDuration:
		s.duration, cmd = s.duration.Update(msg)
	}
	return cmd
}

func (s *SetupScreen) setFocus(f field) tea.Cmd {
	s.focus = f
	s.name.Blur()
	s.topic.Blur()
	s.content.Blur()
	s.attach.Blur()
	s.count.Blur()
	s.duration.Blur()

	switch f {
	case fieldName:
		return s.name.Focus()
	case fieldTopic:
		return s.topic.Focus()
	case fieldContent:
		return s.content.Focus()
	case fieldAttach:
		return s.attach.Focus()
	case fieldQuestions:
		return s.count.Focus()
	case fieldDuration:
		return s.duration.Focus()
	}
	return nil
}

func (s *SetupScreen) addAttachment() {
	path := strings.TrimSpace(s.attach.Value())
	if path == "" {
		return
	}
	if len(s.attachments) >= quiz.MaxAttachments {
		s.problems = []string{fmt.Sprintf("at most %d files can be attached", quiz.MaxAttachments)}
		return
	}
	a, err := quiz.ReadAttachment(path)
	if err != nil {
		s.problems = []string{err.Error()}
		return
	}
	s.problems = nil
	s.attachments = append(s.attachments, a)
	s.attach.SetValue("")
}

// Config assembles the form into a quiz configuration.
func (s *SetupScreen) Config() quiz.Config {
	cfg := quiz.Config{
		UserName:    s.name.Value(),
		Topic:       s.topic.Value(),
		Content:     s.content.Value(),
		Difficulty:  difficulties[s.difficulty],
		Type:        types[s.quizType],
		Attachments: s.attachments,
	}
	cfg.QuestionCount, _ = s.count.NumericValue()
	cfg.DurationMinutes, _ = s.duration.NumericValue()
	return cfg
}

// submit starts generation. Validation problems stay on the form.
func (s *SetupScreen) submit() tea.Cmd {
	var job session.Job
	err := s.env.Session.Guard(func() error {
		var err error
		job, err = s.env.Session.BeginGeneration(s.env.Ctx, s.Config())
		return err
	})

	var verr *quiz.ValidationError
	switch {
	case errors.As(err, &verr):
		s.problems = verr.Problems
		return nil
	case err != nil:
		s.env.Session.Fail(err)
		return nil
	}
	s.problems = nil
	return screen.Generate(s.env, job)
}

func (s *SetupScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if report := s.env.Session.Critical(); report != "" {
		return components.Center(renderCritical(report, cw), width, height)
	}

	s.content.SetWidth(cw - 6)

	var b strings.Builder
	if s.notice != "" {
		b.WriteString(components.Banner(s.notice, false, cw-6) + "\n\n")
	} else if s.inProgress {
		b.WriteString(theme.Emphasis.Render("You have an unfinished quiz in History.") + "\n\n")
	}
	if msg := s.env.Session.Error(); msg != "" {
		b.WriteString(components.Banner(msg, true, cw-6) + "\n\n")
	}

	b.WriteString(s.name.View() + "\n")
	b.WriteString(s.topic.View() + "\n")
	b.WriteString(s.label("Study content", fieldContent) + "\n" + s.content.View() + "\n")
	b.WriteString(s.attach.View() + "\n")
	for _, a := range s.attachments {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  📎 %s (%s, %d KB)", a.Name, a.MIMEType, len(a.Data)/1024)) + "\n")
	}
	b.WriteString(s.count.View() + "   " + s.duration.View() + "\n")
	b.WriteString(s.label("Difficulty", fieldDifficulty) + "  " + cycle(string(difficulties[s.difficulty]), s.focus == fieldDifficulty) + "\n")
	b.WriteString(s.label("Format", fieldType) + "  " + cycle(string(types[s.quizType]), s.focus == fieldType) + "\n\n")
	b.WriteString(components.Button("Generate quiz", s.focus == fieldSubmit) + "\n")

	for _, p := range s.problems {
		b.WriteString(theme.Incorrect.Render("• "+p) + "\n")
	}

	return components.Center(components.Card(b.String(), cw), width, height)
}

func (s *SetupScreen) label(text string, f field) string {
	if s.focus == f {
		return theme.Selected.Render(text)
	}
	return theme.Label.Render(text)
}

func cycle(value string, focused bool) string {
	if focused {
		return theme.Selected.Render("◂ " + value + " ▸")
	}
	return theme.Body.Render(value)
}

func renderCritical(report string, width int) string {
	preview := report
	if len(preview) > reportPreview {
		preview = preview[:reportPreview] + "..."
	}
	var b strings.Builder
	b.WriteString(theme.Incorrect.Render("System Capacity Exhausted") + "\n\n")
	b.WriteString(theme.Body.Render("Every configured API key failed. Add a fresh key under API keys or try again later.") + "\n\n")
	b.WriteString(theme.Label.Render("Failure log") + "\n")
	b.WriteString(theme.Hint.Render(preview) + "\n\n")
	b.WriteString(theme.Hint.Render("The full log is printed by `quizgenius generate`."))
	return components.Card(b.String(), width)
}
