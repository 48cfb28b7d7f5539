package apikeys

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/Emdad05/Quiz-Ai/internal/credentials"
	"github.com/Emdad05/Quiz-Ai/internal/screen"
	"github.com/Emdad05/Quiz-Ai/internal/session"
	"github.com/Emdad05/Quiz-Ai/internal/ui/components"
	"github.com/Emdad05/Quiz-Ai/internal/ui/layout"
	"github.com/Emdad05/Quiz-Ai/internal/ui/theme"
)

// Messages shown for a rejected key.
const (
	MsgTooShort = "Key looks too short."
	MsgInvalid  = "Invalid API Key. Please check the key and try again."
)

type keyAddedMsg struct {
	Err error
}

type mode int

const (
	modeList mode = iota
	modeAdding
	modeValidating
	modeConfirmRemove
)

// APIKeysScreen manages the locally stored keys.
type APIKeysScreen struct {
	env      screen.Env
	keys     []string
	selected int
	mode     mode
	input    components.TextInput
	errMsg   string
}

var _ screen.Screen = (*APIKeysScreen)(nil)
var _ screen.KeyHintProvider = (*APIKeysScreen)(nil)

// New creates the key management screen.
func New(env screen.Env) *APIKeysScreen {
	return &APIKeysScreen{
		env:   env,
		input: components.NewTextInput("New API key", "paste a key", false, 200).Secret(),
	}
}

func (s *APIKeysScreen) Init() tea.Cmd {
	s.reload()
	return nil
}

func (s *APIKeysScreen) reload() {
	s.keys = s.env.Keyring.List(s.env.Ctx)
	if s.selected >= len(s.keys) {
		s.selected = max(0, len(s.keys)-1)
	}
}

func (s *APIKeysScreen) Title() string { return "API keys" }

func (s *APIKeysScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeAdding:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Validate & save"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeConfirmRemove:
		return []layout.KeyHint{
			{Key: "Y", Description: "Remove"},
			{Key: "N", Description: "Keep"},
		}
	case modeValidating:
		return nil
	}
	return []layout.KeyHint{
		{Key: "A", Description: "Add key"},
		{Key: "D", Description: "Remove"},
		{Key: "Enter", Description: "Save & continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *APIKeysScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case keyAddedMsg:
		s.mode = modeList
		if msg.Err != nil {
			s.errMsg = describe(msg.Err)
			s.mode = modeAdding
			return s, s.input.Focus()
		}
		s.input.SetValue("")
		s.input.Blur()
		s.reload()
		s.selected = len(s.keys) - 1
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.mode == modeAdding {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *APIKeysScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.mode {
	case modeValidating:
		return s, nil

	case modeConfirmRemove:
		switch key {
		case "y", "Y":
			if err := s.env.Keyring.Remove(s.env.Ctx, s.selected); err != nil {
				s.errMsg = err.Error()
			}
			s.reload()
			s.mode = modeList
		case "n", "N", "esc":
			s.mode = modeList
		}
		return s, nil

	case modeAdding:
		switch key {
		case "esc":
			s.mode = modeList
			s.errMsg = ""
			s.input.Blur()
			return s, nil
		case "enter":
			return s, s.submit()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	switch key {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.keys)-1 {
			s.selected++
		}
	case "a", "A":
		s.mode = modeAdding
		s.errMsg = ""
		return s, s.input.Focus()
	case "d", "D", "delete":
		if len(s.keys) > 0 {
			s.mode = modeConfirmRemove
		}
	case "enter":
		s.navigate(session.ScreenSetup)
	case "esc":
		s.navigate(session.ScreenLanding)
	}
	return s, nil
}

// submit validates the typed key off the update loop.
func (s *APIKeysScreen) submit() tea.Cmd {
	key := strings.TrimSpace(s.input.Value())
	if len(key) < credentials.MinKeyLength {
		s.errMsg = MsgTooShort
		return nil
	}
	s.mode = modeValidating
	s.errMsg = ""
	env := s.env
	return func() tea.Msg {
		return keyAddedMsg{Err: env.Keyring.Add(env.Ctx, key)}
	}
}

func (s *APIKeysScreen) navigate(to session.Screen) {
	s.env.Do(func(ctx context.Context) error { return s.env.Session.Navigate(ctx, to) })
}

func describe(err error) string {
	switch {
	case errors.Is(err, credentials.ErrKeyTooShort):
		return MsgTooShort
	case errors.Is(err, credentials.ErrKeyInvalid):
		return MsgInvalid
	}
	return err.Error()
}

func (s *APIKeysScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(theme.Title.Render("API Key Configuration") + "\n")
	b.WriteString(theme.Subtitle.Render("Keys are tried in order; the next one takes over when a quota runs out.") + "\n\n")

	if len(s.keys) == 0 {
		b.WriteString(theme.Hint.Render("No keys added yet. System keys will be used if configured.") + "\n")
	}
	for i, k := range s.keys {
		line := fmt.Sprintf("%d. %s", i+1, credentials.Mask(k))
		if i == s.selected && s.mode != modeAdding {
			b.WriteString(theme.Selected.Render("▸ "+line) + "\n")
		} else {
			b.WriteString(theme.Unselected.Render("  "+line) + "\n")
		}
	}
	b.WriteString("\n")

	switch s.mode {
	case modeAdding:
		b.WriteString(s.input.View() + "\n")
	case modeValidating:
		b.WriteString(theme.Hint.Render("Validating key...") + "\n")
	case modeConfirmRemove:
		b.WriteString(theme.Emphasis.Render("Remove API key? Are you sure you want to remove this key? (y/n)") + "\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n" + components.Banner(s.errMsg, true, cw) + "\n")
	}
	b.WriteString("\n" + theme.Hint.Render("Keys are stored locally on this machine."))

	return components.Center(components.Card(b.String(), cw), width, height)
}
