package style

import "github.com/charmbracelet/lipgloss"

// Status colors shared by the TUI and the console notifier.
var (
	SuccessColor = lipgloss.Color("#2AFFAA") // confirmed transactions
	ErrorColor   = lipgloss.Color("#FF5555")
	WarningColor = lipgloss.Color("#FFB500") // pending, wallet and token warnings
	InfoColor    = lipgloss.Color("#3B82F6") // explorer links
	DetailColor  = lipgloss.Color("#B4BCC8") // notification details
)

// Palette maps UI roles to colors.
type Palette struct {
	Primary   lipgloss.Color // selection, focused fields
	Secondary lipgloss.Color // screen titles
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Info      lipgloss.Color

	Background    lipgloss.Color
	Text          lipgloss.Color
	TextMuted     lipgloss.Color
	TextSecondary lipgloss.Color

	// Прогресс ордера: потрачено / осталось
	Spent     lipgloss.Color
	Remaining lipgloss.Color
}

// DefaultPalette returns the dark palette used by every screen.
func DefaultPalette() Palette {
	muted := lipgloss.Color("#6C7280")
	return Palette{
		Primary:   lipgloss.Color("#00E5FF"),
		Secondary: lipgloss.Color("#FF1B6B"),
		Success:   SuccessColor,
		Error:     ErrorColor,
		Warning:   WarningColor,
		Info:      InfoColor,

		Background:    lipgloss.Color("#1B1D23"),
		Text:          lipgloss.Color("#ECEFF4"),
		TextMuted:     muted,
		TextSecondary: DetailColor,

		Spent:     lipgloss.Color("#8B5CF6"),
		Remaining: muted,
	}
}
