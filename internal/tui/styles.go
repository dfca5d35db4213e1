package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor = lipgloss.Color("#2DD4BF")
	okColor     = lipgloss.Color("#4ADE80")
	warnColor   = lipgloss.Color("#FACC15")
	dangerColor = lipgloss.Color("#F87171")
	dimColor    = lipgloss.Color("#71717A")

	bannerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1E293B")).
			Foreground(lipgloss.Color("#F8FAFC")).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginBottom(1)

	noteStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	okStyle     = lipgloss.NewStyle().Foreground(okColor).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(warnColor)
	dangerStyle = lipgloss.NewStyle().Foreground(dangerColor)
	dimStyle    = lipgloss.NewStyle().Foreground(dimColor)

	tabIdleStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(dimColor)

	tabActiveStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(accentColor).
			Bold(true).
			Underline(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			MarginTop(1)

	barFillStyle = lipgloss.NewStyle().Foreground(okColor)
	barRestStyle = lipgloss.NewStyle().Foreground(dimColor)

	rowActiveStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3F3F46")).
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().PaddingLeft(2)
)

// pathBar renders a fixed-width usage bar for a 0..1 fraction.
func pathBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	return barFillStyle.Render(strings.Repeat("▰", filled)) +
		barRestStyle.Render(strings.Repeat("▱", width-filled))
}

// opGlyph marks a journaled operation by its effect.
func opGlyph(op string) string {
	switch op {
	case "tag", "link":
		return okStyle.Render("+")
	case "untag", "unlink":
		return warnStyle.Render("-")
	case "clear":
		return dangerStyle.Render("✗")
	default:
		return dimStyle.Render("·")
	}
}
