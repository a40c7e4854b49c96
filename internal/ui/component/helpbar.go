package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-va/internal/ui/style"
)

// HelpBar represents a help bar component showing keyboard shortcuts
type HelpBar struct {
	keyBindings []key.Binding
	width       int

	keyStyle       lipgloss.Style
	descStyle      lipgloss.Style
	sepStyle       lipgloss.Style
	containerStyle lipgloss.Style
}

// NewHelpBar creates a new help bar component
func NewHelpBar() *HelpBar {
	palette := style.DefaultPalette()

	return &HelpBar{
		width: 80,

		keyStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),

		descStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),

		sepStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),

		containerStyle: lipgloss.NewStyle().
			Padding(0, 1).
			Margin(1, 0, 0, 0),
	}
}

// SetKeyBindings sets the key bindings to display
func (h *HelpBar) SetKeyBindings(bindings []key.Binding) *HelpBar {
	h.keyBindings = bindings
	return h
}

// SetWidth sets the help bar width
func (h *HelpBar) SetWidth(width int) *HelpBar {
	if width > 0 {
		h.width = width
	}
	return h
}

// View renders the help bar, wrapping onto more lines when narrow.
func (h *HelpBar) View() string {
	items := make([]string, 0, len(h.keyBindings))
	for _, b := range h.keyBindings {
		if !b.Enabled() {
			continue
		}
		help := b.Help()
		if help.Key == "" || help.Desc == "" {
			continue
		}
		items = append(items, h.keyStyle.Render(help.Key)+" "+h.descStyle.Render(help.Desc))
	}
	if len(items) == 0 {
		return ""
	}

	sep := h.sepStyle.Render(" • ")
	maxWidth := h.width - 4
	var lines []string
	var line []string
	lineWidth := 0
	for _, item := range items {
		w := lipgloss.Width(item) + lipgloss.Width(sep)
		if lineWidth+w > maxWidth && len(line) > 0 {
			lines = append(lines, strings.Join(line, sep))
			line, lineWidth = nil, 0
		}
		line = append(line, item)
		lineWidth += w
	}
	lines = append(lines, strings.Join(line, sep))

	return h.containerStyle.Render(strings.Join(lines, "\n"))
}
