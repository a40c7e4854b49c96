package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-va/internal/logger"
	"github.com/rovshanmuradov/solana-va/internal/ui/style"
)

// LogFilter defines what log levels to show
type LogFilter struct {
	ShowError   bool
	ShowWarning bool
	ShowInfo    bool
	ShowDebug   bool
}

// DefaultLogFilter hides debug entries.
func DefaultLogFilter() LogFilter {
	return LogFilter{ShowError: true, ShowWarning: true, ShowInfo: true}
}

// Allows reports whether an entry of the given level passes the filter.
func (f LogFilter) Allows(level string) bool {
	switch strings.ToLower(level) {
	case "error", "dpanic", "panic", "fatal":
		return f.ShowError
	case "warning", "warn":
		return f.ShowWarning
	case "debug":
		return f.ShowDebug
	default:
		return f.ShowInfo
	}
}

// LogPanel shows the tail of the in-memory log buffer.
type LogPanel struct {
	buffer   *logger.LogBuffer
	viewport viewport.Model
	filter   LogFilter
	limit    int
	title    string
	visible  bool
	follow   bool

	container lipgloss.Style
	titleSt   lipgloss.Style
	timestamp lipgloss.Style
	levels    map[string]lipgloss.Style
}

// NewLogPanel creates a log panel reading from buffer.
func NewLogPanel(buffer *logger.LogBuffer) *LogPanel {
	palette := style.DefaultPalette()

	return &LogPanel{
		buffer:   buffer,
		viewport: viewport.New(50, 4),
		filter:   DefaultLogFilter(),
		limit:    100,
		title:    "Recent Logs",
		visible:  true,
		follow:   true,

		container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Info).
			Padding(0, 1),
		titleSt: lipgloss.NewStyle().
			Foreground(palette.Info).
			Bold(true),
		timestamp: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
		levels: map[string]lipgloss.Style{
			"error": lipgloss.NewStyle().Foreground(palette.Error).Bold(true),
			"warn":  lipgloss.NewStyle().Foreground(palette.Warning).Bold(true),
			"info":  lipgloss.NewStyle().Foreground(palette.Info),
			"debug": lipgloss.NewStyle().Foreground(palette.TextMuted),
		},
	}
}

// SetTitle changes the panel heading.
func (p *LogPanel) SetTitle(title string) *LogPanel {
	p.title = title
	return p
}

// SetLimit sets how many buffer entries are read.
func (p *LogPanel) SetLimit(n int) *LogPanel {
	if n > 0 {
		p.limit = n
	}
	return p
}

// SetSize sets the component dimensions
func (p *LogPanel) SetSize(width, height int) {
	// рамка + заголовок
	w, h := width-4, height-3
	if w < 10 {
		w = 10
	}
	if h < 2 {
		h = 2
	}
	p.viewport.Width = w
	p.viewport.Height = h
	p.refresh()
}

// SetVisible toggles the visibility of the log panel
func (p *LogPanel) SetVisible(visible bool) {
	p.visible = visible
}

// Toggle flips visibility.
func (p *LogPanel) Toggle() {
	p.visible = !p.visible
}

// IsVisible returns whether the log panel is visible
func (p *LogPanel) IsVisible() bool {
	return p.visible
}

// Filter returns the active filter.
func (p *LogPanel) Filter() LogFilter {
	return p.filter
}

// ToggleDebug shows or hides debug entries.
func (p *LogPanel) ToggleDebug() {
	p.filter.ShowDebug = !p.filter.ShowDebug
	p.refresh()
}

// Update scrolls the viewport. Scrolling up stops following new entries.
func (p *LogPanel) Update(msg tea.Msg) tea.Cmd {
	if !p.visible {
		return nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	p.follow = p.viewport.AtBottom()
	return cmd
}

// Lines returns the formatted entries that pass the filter.
func (p *LogPanel) Lines() []string {
	if p.buffer == nil {
		return nil
	}
	entries := p.buffer.GetRecentLogs(p.limit)
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if !p.filter.Allows(e.Level) {
			continue
		}
		lines = append(lines, p.format(e))
	}
	return lines
}

func (p *LogPanel) format(e logger.LogEntry) string {
	level := strings.ToLower(e.Level)
	if level == "warning" {
		level = "warn"
	}
	st, ok := p.levels[level]
	if !ok {
		st = p.levels["info"]
	}
	msg := e.Message
	if sig, ok := e.Fields["signature"].(string); ok {
		msg += " " + sig
	}
	return fmt.Sprintf("%s %s", p.timestamp.Render(e.Timestamp.Local().Format("15:04:05")), st.Render(msg))
}

func (p *LogPanel) refresh() {
	lines := p.Lines()
	switch {
	case p.buffer == nil:
		p.viewport.SetContent("No log buffer available")
	case len(lines) == 0:
		p.viewport.SetContent("No logs match current filter")
	default:
		p.viewport.SetContent(strings.Join(lines, "\n"))
	}
	if p.follow {
		p.viewport.GotoBottom()
	}
}

// View renders the log panel
func (p *LogPanel) View() string {
	if !p.visible {
		return ""
	}
	p.refresh()
	return p.container.Render(lipgloss.JoinVertical(lipgloss.Left,
		p.titleSt.Render(p.title),
		p.viewport.View(),
	))
}
