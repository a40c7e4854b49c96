// internal/logger/logger.go
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger расширяет функционал zap.Logger
type Logger struct {
	*zap.Logger
	config *Config
}

// New создает логгер: консоль плюс JSON-файл с ротацией.
func New(cfg *Config) (*Logger, error) {
	return build(cfg, os.Stdout, nil)
}

// NewWithBuffer пишет в ring buffer вместо консоли, чтобы не ломать TUI.
func NewWithBuffer(cfg *Config, buffer *LogBuffer) (*Logger, error) {
	return build(cfg, nil, buffer)
}

func build(cfg *Config, console io.Writer, buffer *LogBuffer) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	level := zapcore.InfoLevel
	if cfg.Development {
		level = zapcore.DebugLevel
	}

	var cores []zapcore.Core
	if console != nil {
		consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)
		if cfg.Pretty {
			consoleEncoder = PrettyEncoder()
		}
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.Lock(zapcore.AddSync(console)), level))
	}
	if buffer != nil {
		bufferConfig := encoderConfig
		bufferConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		bufferConfig.TimeKey = "time"
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(bufferConfig), zapcore.AddSync(buffer), level))
	}
	if cfg.LogFile != "" {
		logRotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(logRotator), level))
	}

	return &Logger{
		Logger: zap.New(zapcore.NewTee(cores...),
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		),
		config: cfg,
	}, nil
}

// WithTransaction добавляет контекст транзакции к логам
func (l *Logger) WithTransaction(txHash string) *zap.Logger {
	return l.With(
		zap.String("tx_hash", txHash),
		zap.Time("tx_time", time.Now().UTC()),
	)
}

// WithOperation создает логгер для конкретной операции
func (l *Logger) WithOperation(operation string) *zap.Logger {
	return WithOperation(l.Logger, operation)
}

// WithOperation tags any zap logger with an operation name and a fresh correlation id.
func WithOperation(l *zap.Logger, operation string) *zap.Logger {
	return l.With(
		zap.String("operation", operation),
		zap.String("correlation_id", uuid.New().String()),
	)
}

// TrackPerformance отслеживает производительность операции
func (l *Logger) TrackPerformance(operation string) (end func()) {
	return TrackPerformance(l.Logger, operation)
}

// TrackPerformance logs the duration of an operation when end is called.
func TrackPerformance(l *zap.Logger, operation string) (end func()) {
	start := time.Now()
	opLogger := WithOperation(l, operation)
	opLogger.Debug("Starting operation")

	return func() {
		duration := time.Since(start)
		opLogger.Debug("Operation completed",
			zap.Duration("duration", duration),
			zap.Float64("duration_ms", float64(duration.Microseconds())/1000),
		)
	}
}

// Sync реализует безопасный вызов Sync
func (l *Logger) Sync() error {
	err := l.Logger.Sync()
	if err != nil && (strings.Contains(err.Error(), "sync /dev/stdout") ||
		strings.Contains(err.Error(), "sync /dev/stderr")) {
		return nil
	}
	return err
}
