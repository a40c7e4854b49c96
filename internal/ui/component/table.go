package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-va/internal/ui/style"
)

// TableColumn represents a column configuration
type TableColumn struct {
	Header string
	Width  int // 0 = делится поровну из оставшейся ширины
	Align  lipgloss.Position
}

// Table represents a selectable data table component
type Table struct {
	columns     []TableColumn
	rows        [][]string
	width       int
	height      int
	selectedRow int
	offset      int

	headerStyle      lipgloss.Style
	rowStyle         lipgloss.Style
	selectedRowStyle lipgloss.Style
	borderStyle      lipgloss.Style
}

// NewTable creates a new table component
func NewTable(columns ...TableColumn) *Table {
	palette := style.DefaultPalette()

	return &Table{
		columns: columns,

		headerStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			Padding(0, 1),

		rowStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1),

		selectedRowStyle: lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Primary).
			Padding(0, 1),

		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),
	}
}

// SetRows replaces all rows and keeps the selection in range.
func (t *Table) SetRows(rows [][]string) *Table {
	t.rows = rows
	if t.selectedRow >= len(rows) {
		t.selectedRow = len(rows) - 1
	}
	if t.selectedRow < 0 {
		t.selectedRow = 0
	}
	t.scroll()
	return t
}

// SetSize sets the table dimensions
func (t *Table) SetSize(width, height int) *Table {
	t.width = width
	t.height = height
	t.scroll()
	return t
}

// Selected returns the selected row index, -1 when the table is empty.
func (t *Table) Selected() int {
	if len(t.rows) == 0 {
		return -1
	}
	return t.selectedRow
}

// MoveUp moves selection up
func (t *Table) MoveUp() *Table {
	if t.selectedRow > 0 {
		t.selectedRow--
		t.scroll()
	}
	return t
}

// MoveDown moves selection down
func (t *Table) MoveDown() *Table {
	if t.selectedRow < len(t.rows)-1 {
		t.selectedRow++
		t.scroll()
	}
	return t
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// visibleRows is the number of data rows that fit: border and header take 4.
func (t *Table) visibleRows() int {
	if t.height <= 0 {
		return len(t.rows)
	}
	if n := t.height - 4; n > 0 {
		return n
	}
	return 1
}

func (t *Table) scroll() {
	n := t.visibleRows()
	if t.selectedRow < t.offset {
		t.offset = t.selectedRow
	}
	if t.selectedRow >= t.offset+n {
		t.offset = t.selectedRow - n + 1
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.columns))
	fixed, auto := 0, 0
	for i, c := range t.columns {
		widths[i] = c.Width
		if c.Width > 0 {
			fixed += c.Width
		} else {
			auto++
		}
	}
	if auto == 0 {
		return widths
	}
	// рамка и разделители
	free := t.width - fixed - (len(t.columns) - 1) - 2
	each := 12
	if t.width > 0 && free/auto > each {
		each = free / auto
	}
	for i := range widths {
		if widths[i] == 0 {
			widths[i] = each
		}
	}
	return widths
}

// View renders the table
func (t *Table) View() string {
	if len(t.columns) == 0 {
		return "No columns defined"
	}
	widths := t.columnWidths()

	var b strings.Builder
	cells := make([]string, len(t.columns))
	for i, c := range t.columns {
		cells[i] = renderCell(c.Header, widths[i], c.Align, t.headerStyle)
	}
	b.WriteString(strings.Join(cells, "│"))
	b.WriteString("\n")

	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	b.WriteString(strings.Join(seps, "┼"))

	end := t.offset + t.visibleRows()
	if end > len(t.rows) {
		end = len(t.rows)
	}
	for r := t.offset; r < end; r++ {
		st := t.rowStyle
		if r == t.selectedRow {
			st = t.selectedRowStyle
		}
		for i, c := range t.columns {
			v := ""
			if i < len(t.rows[r]) {
				v = t.rows[r][i]
			}
			cells[i] = renderCell(v, widths[i], c.Align, st)
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(cells, "│"))
	}

	return t.borderStyle.Render(b.String())
}

// renderCell truncates content to width and aligns it. Padding is part
// of the width.
func renderCell(content string, width int, align lipgloss.Position, st lipgloss.Style) string {
	inner := width - 2
	if inner < 1 {
		inner = 1
	}
	if r := []rune(content); len(r) > inner {
		if inner > 1 {
			content = string(r[:inner-1]) + "…"
		} else {
			content = string(r[:inner])
		}
	}
	return st.Width(width).Align(align).Render(content)
}
