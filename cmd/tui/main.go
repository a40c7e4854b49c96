package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-va/internal/app"
	"github.com/rovshanmuradov/solana-va/internal/config"
	"github.com/rovshanmuradov/solana-va/internal/logger"
	"github.com/rovshanmuradov/solana-va/internal/ui"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to config file")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Логи идут в буфер и файл, stdout занят TUI
	buffer := logger.NewLogBuffer(1000)
	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Development = cfg.DebugLogging
	appLogger, err := logger.NewWithBuffer(logCfg, buffer)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	a, err := app.New(cfg, appLogger.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Shutdown()

	appLogger.Info("Starting value average TUI")

	services := ui.NewRealServiceProvider(rootCtx, a, buffer)
	recovery := ui.NewRecoveryHandler(appLogger.Logger, func() (tea.Model, []tea.ProgramOption) {
		model := ui.NewSafeUIWrapper(NewAppModel(services), appLogger.Logger)
		return model, []tea.ProgramOption{
			tea.WithAltScreen(),
			tea.WithContext(rootCtx),
		}
	})

	if err := recovery.RunWithRecovery(); err != nil && rootCtx.Err() == nil {
		appLogger.Error("TUI application failed", zap.Error(err))
	}
	appLogger.Info("Shutting down TUI application")
}
