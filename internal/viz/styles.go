package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are derived from a Theme.
type Styles struct {
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Axis    lipgloss.Style
	Subtle  lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Panel   lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Label:   lipgloss.NewStyle().Foreground(t.Muted),
		Value:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Axis:    lipgloss.NewStyle().Foreground(t.Muted),
		Subtle:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Error:   lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
	}
}

// Swatch renders a colored block followed by label.
func Swatch(c lipgloss.Color, label string) string {
	return lipgloss.NewStyle().Foreground(c).Render("■") + " " + label
}

func Separator(width int) string {
	if width < 0 {
		width = 0
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#444466")).Render(strings.Repeat("─", width))
}
