package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// NewHuhTheme returns the orange/blue theme used by every prompt.
func NewHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	orange := lipgloss.Color("#FFA500")
	blue := lipgloss.Color("#7D56F4")
	gray := lipgloss.Color("#888888")

	t.Focused.Title = t.Focused.Title.Foreground(orange).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(gray)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(blue).Foreground(lipgloss.Color("#FFFFFF"))
	t.Focused.BlurredButton = t.Focused.BlurredButton.Foreground(gray)
	t.Focused.Base = t.Focused.Base.BorderForeground(blue)
	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())

	return t
}
