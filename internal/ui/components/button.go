package components

import (
	"charm.land/lipgloss/v2"

	"github.com/Emdad05/Quiz-Ai/internal/ui/theme"
)

// Button renders a labelled button, highlighted when focused.
func Button(label string, focused bool) string {
	if focused {
		return theme.ButtonActive.Render("▸ " + label)
	}
	return theme.ButtonInactive.Render(label)
}

// ContentWidth returns the inner width content blocks are laid out at.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 90 {
		w = 90
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card at the given width.
func Card(content string, width int) string {
	return theme.Card.Width(width).Render(content)
}

// Center places content in the middle of the given area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Banner renders an error or notice line; empty text renders nothing.
func Banner(text string, isError bool, width int) string {
	if text == "" {
		return ""
	}
	style := theme.NoticeBanner
	if isError {
		style = theme.ErrorBanner
	}
	return style.Width(width).Render(text)
}
