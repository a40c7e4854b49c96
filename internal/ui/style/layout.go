package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var palette = DefaultPalette()

// Header styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(0, 0, 1, 0)

	SubHeaderStyle = lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			Margin(1, 0, 0, 0)

	MutedStyle = lipgloss.NewStyle().
			Foreground(palette.TextMuted)
)

// Layout styles
var (
	ContainerStyle = lipgloss.NewStyle().
			Padding(1, 2)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted).
			Padding(0, 1)

	ActivePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.Primary).
				Padding(0, 1)
)

// Detail rows (label / value)
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(palette.TextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(palette.Text).
			Bold(true)
)

// Status styles
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(palette.Success).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(palette.Warning).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(palette.Info)
)

// Progress bar styles
var (
	ProgressFilledStyle = lipgloss.NewStyle().Foreground(palette.Spent)
	ProgressEmptyStyle  = lipgloss.NewStyle().Foreground(palette.Remaining)
)

// ProgressBar renders percent (0..100) as a bar of the given width.
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * float64(width))
	return ProgressFilledStyle.Render(strings.Repeat("█", filled)) +
		ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}
