package ui

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-va/internal/notify"
)

// RecoveryHandler restarts the UI after a panic, up to maxRestarts times.
type RecoveryHandler struct {
	logger       *zap.Logger
	restartDelay time.Duration
	maxRestarts  int
	restartCount int
	mu           sync.Mutex
	program      *tea.Program
	createUI     func() (tea.Model, []tea.ProgramOption)
}

// NewRecoveryHandler creates a new recovery handler
func NewRecoveryHandler(logger *zap.Logger, createUI func() (tea.Model, []tea.ProgramOption)) *RecoveryHandler {
	return &RecoveryHandler{
		logger:       logger.Named("ui"),
		restartDelay: 2 * time.Second,
		maxRestarts:  3,
		createUI:     createUI,
	}
}

// RunWithRecovery runs the UI with panic recovery
func (rh *RecoveryHandler) RunWithRecovery() error {
	for {
		err := rh.runUI()
		if err == nil {
			return nil
		}
		// остановлен снаружи, не падение
		if errors.Is(err, tea.ErrProgramKilled) {
			return err
		}

		rh.mu.Lock()
		rh.restartCount++
		count := rh.restartCount
		rh.mu.Unlock()

		if count > rh.maxRestarts {
			return fmt.Errorf("UI crashed too many times (%d), giving up: %w", rh.maxRestarts, err)
		}

		rh.logger.Error("UI crashed, will restart",
			zap.Error(err),
			zap.Int("restart_count", count),
			zap.Duration("delay", rh.restartDelay))
		time.Sleep(rh.restartDelay)
	}
}

func (rh *RecoveryHandler) runUI() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("UI panic: %v", r)
			rh.logger.Error("UI panic recovered",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
		}
	}()

	model, opts := rh.createUI()
	p := tea.NewProgram(model, opts...)
	rh.mu.Lock()
	rh.program = p
	rh.mu.Unlock()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("UI error: %w", err)
	}
	return nil
}

// Stop gracefully stops the UI
func (rh *RecoveryHandler) Stop() {
	rh.mu.Lock()
	defer rh.mu.Unlock()

	if rh.program != nil {
		rh.program.Quit()
		rh.program = nil
	}
}

// RestartCount returns the number of restarts
func (rh *RecoveryHandler) RestartCount() int {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	return rh.restartCount
}

// SafeUIWrapper keeps the program alive when a screen panics: the panic is
// logged, a notification is published and the message is dropped.
type SafeUIWrapper struct {
	model  tea.Model
	logger *zap.Logger
}

// NewSafeUIWrapper creates a new safe UI wrapper
func NewSafeUIWrapper(model tea.Model, logger *zap.Logger) *SafeUIWrapper {
	return &SafeUIWrapper{
		model:  model,
		logger: logger.Named("ui"),
	}
}

// Init wraps the Init method with panic recovery
func (sw *SafeUIWrapper) Init() (cmd tea.Cmd) {
	defer sw.recoverFromPanic("Init", &cmd)
	return sw.model.Init()
}

// Update wraps the Update method with panic recovery. The wrapper stays the
// program model even when the inner Update panics.
func (sw *SafeUIWrapper) Update(msg tea.Msg) (m tea.Model, cmd tea.Cmd) {
	m = sw
	defer sw.recoverFromPanic("Update", &cmd)
	sw.model, cmd = sw.model.Update(msg)
	return sw, cmd
}

// View wraps the View method with panic recovery
func (sw *SafeUIWrapper) View() (view string) {
	defer func() {
		if r := recover(); r != nil {
			sw.logger.Error("View panic recovered",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
			view = "UI Error: View crashed. Press Ctrl+C to exit."
		}
	}()
	return sw.model.View()
}

func (sw *SafeUIWrapper) recoverFromPanic(method string, cmd *tea.Cmd) {
	if r := recover(); r != nil {
		sw.logger.Error("UI method panic recovered",
			zap.String("method", method),
			zap.Any("panic", r),
			zap.String("stack", string(debug.Stack())))
		PublishNotification(notify.Notification{
			Level:  notify.LevelError,
			Title:  "Internal UI error",
			Detail: fmt.Sprint(r),
		})
		*cmd = nil
	}
}
