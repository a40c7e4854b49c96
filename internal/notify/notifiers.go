package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-va/internal/ui/style"
)

// ConsoleNotifier prints styled notifications to a writer.
type ConsoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleNotifier creates a notifier writing to out.
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

var (
	detailStyle = lipgloss.NewStyle().Foreground(style.DetailColor)
	linkStyle   = lipgloss.NewStyle().Foreground(style.InfoColor).Underline(true)
)

// TitleStyle returns the title style of a level.
func TitleStyle(level Level) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch level {
	case LevelSuccess:
		return s.Foreground(style.SuccessColor)
	case LevelWarning:
		return s.Foreground(style.WarningColor)
	case LevelError:
		return s.Foreground(style.ErrorColor)
	}
	return s.Foreground(style.InfoColor)
}

// Render formats a notification with lipgloss.
func Render(n Notification) string {
	out := TitleStyle(n.Level).Render(n.Title)
	if n.Detail != "" {
		out += "\n" + detailStyle.Render(n.Detail)
	}
	for _, l := range n.Lines {
		out += "\n" + detailStyle.Render("  • "+l)
	}
	if n.Link != "" {
		out += "\n" + linkStyle.Render(n.Link)
	}
	return out
}

func (c *ConsoleNotifier) Notify(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, Render(n))
}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that logs.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notify")}
}

func (l *LogNotifier) Notify(n Notification) {
	fields := []zap.Field{zap.String("level", string(n.Level))}
	if n.Detail != "" {
		fields = append(fields, zap.String("detail", n.Detail))
	}
	if len(n.Lines) > 0 {
		fields = append(fields, zap.Strings("lines", n.Lines))
	}
	if n.Link != "" {
		fields = append(fields, zap.String("link", n.Link))
	}

	switch n.Level {
	case LevelError:
		l.logger.Error(n.Title, fields...)
	case LevelWarning:
		l.logger.Warn(n.Title, fields...)
	default:
		l.logger.Info(n.Title, fields...)
	}
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, nt := range m {
		nt.Notify(n)
	}
}
