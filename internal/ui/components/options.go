package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Emdad05/Quiz-Ai/internal/ui/theme"
)

// OptionList is the answer picker for a choice question. Chosen is the
// recorded answer, -1 when none.
type OptionList struct {
	Options []string
	Cursor  int
	Chosen  int
}

// NewOptionList creates a picker with the cursor on the recorded answer.
func NewOptionList(options []string, chosen int) OptionList {
	cursor := chosen
	if cursor < 0 || cursor >= len(options) {
		cursor = 0
	}
	return OptionList{Options: options, Cursor: cursor, Chosen: chosen}
}

// Update moves the cursor. It returns the index picked with enter, a
// letter or a digit, or -1 when nothing was picked.
func (o OptionList) Update(msg tea.Msg) (OptionList, int) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, -1
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
		return o, -1
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
		return o, -1
	case "enter", "space":
		o.Chosen = o.Cursor
		return o, o.Cursor
	}

	if len(key) == 1 {
		var idx int
		switch c := key[0]; {
		case c >= '1' && c <= '9':
			idx = int(c - '1')
		case c >= 'a' && c <= 'z':
			idx = int(c - 'a')
		default:
			return o, -1
		}
		if idx < len(o.Options) {
			o.Cursor = idx
			o.Chosen = idx
			return o, idx
		}
	}
	return o, -1
}

// OptionLabel returns the letter shown before option i.
func OptionLabel(i int) string {
	return string(rune('A' + i))
}

// View renders the options with the cursor and the recorded answer marked.
func (o OptionList) View(width int) string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}
		mark := "( )"
		if i == o.Chosen {
			mark = "(●)"
		}
		line := fmt.Sprintf("%s%s %s) %s", prefix, mark, OptionLabel(i), opt)

		style := theme.Unselected
		switch {
		case i == o.Chosen:
			style = theme.Selected
		case i == o.Cursor:
			style = lipgloss.NewStyle().Foreground(theme.Secondary)
		}
		b.WriteString(style.Width(width).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
