package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/futable/internal/ui/theme"
)

// ButtonState selects the look of a Button.
type ButtonState int

const (
	ButtonReady ButtonState = iota
	ButtonBusy
	ButtonStop
	ButtonDisabled
)

// Button is a one-line labelled action.
type Button struct {
	Label string
	State ButtonState
}

// NewButton creates a new button.
func NewButton(label string, state ButtonState) Button {
	return Button{Label: label, State: state}
}

// View renders the button.
func (b Button) View() string {
	label := "▸ " + b.Label
	switch b.State {
	case ButtonBusy:
		return theme.ButtonBusy.Render(label)
	case ButtonStop:
		return theme.ButtonStop.Render("■ " + b.Label)
	case ButtonDisabled:
		return theme.ButtonBusy.Foreground(theme.Border).Render(label)
	}
	return theme.ButtonActive.Render(label)
}

// RenderAlert draws a dismissible error notice.
func RenderAlert(text, hint string, width int) string {
	body := text
	if hint != "" {
		body += "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(hint)
	}
	return theme.Alert.MaxWidth(width).Render(body)
}
