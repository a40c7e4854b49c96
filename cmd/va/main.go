// ====================================
// File: cmd/va/main.go
// ====================================
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-va/internal/app"
	"github.com/rovshanmuradov/solana-va/internal/config"
	"github.com/rovshanmuradov/solana-va/internal/logger"
	"github.com/rovshanmuradov/solana-va/internal/notify"
)

const usage = `Usage: va [-config path] <command> [flags]

Commands:
  open      open a new value average order
  deposit   deposit into an open order
  close     withdraw all balances and close an order
  orders    list open orders of the wallet
  history   list closed orders and optionally export fills
  tokens    search the token list
`

var (
	errUsage = errors.New("invalid usage")
	// errReported marks failures whose notification was already shown.
	errReported = errors.New("submission failed")
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "configs/config.json", "Path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Development = cfg.DebugLogging
	logCfg.Pretty = true
	appLogger, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	a, err := app.New(cfg, appLogger.Logger)
	if err != nil {
		appLogger.Error("Failed to initialize", zap.Error(err))
		return 1
	}
	defer a.Shutdown()

	c := &cli{
		app:      a,
		out:      os.Stdout,
		notifier: notify.Multi{notify.NewConsoleNotifier(os.Stdout), notify.NewLogNotifier(appLogger.Logger)},
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	return exitCode(c.dispatch(ctx, cmd, args), c.notifier)
}

func exitCode(err error, n notify.Notifier) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return 2
	case errors.Is(err, errReported):
		return 1
	default:
		n.Notify(notify.FromError(err))
		return 1
	}
}
