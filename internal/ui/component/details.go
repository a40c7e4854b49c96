package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-va/internal/overview"
	"github.com/rovshanmuradov/solana-va/internal/ui/style"
)

// Details renders label/value rows in two aligned columns.
func Details(rows []overview.Row) string {
	labelWidth := 0
	for _, r := range rows {
		if w := lipgloss.Width(r.Label); w > labelWidth {
			labelWidth = w
		}
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(style.LabelStyle.Width(labelWidth + 2).Render(r.Label))
		b.WriteString(style.ValueStyle.Render(r.Value))
	}
	return b.String()
}
