// internal/logger/pretty.go
package logger

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap/zapcore"
)

var levelStyles = map[zapcore.Level]lipgloss.Style{
	zapcore.DebugLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	zapcore.InfoLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	zapcore.WarnLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	zapcore.ErrorLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	zapcore.FatalLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
}

// PrettyEncoder creates a user-friendly console encoder: short time,
// colored level, message and fields, no caller.
func PrettyEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    prettyLevelEncoder,
		EncodeTime:     prettyTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	})
}

func prettyLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	label := "[" + level.CapitalString() + "]"
	if style, ok := levelStyles[level]; ok {
		label = style.Render(label)
	}
	enc.AppendString(label)
}

func prettyTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}
