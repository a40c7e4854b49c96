package ui

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-va/internal/app"
	"github.com/rovshanmuradov/solana-va/internal/export"
	"github.com/rovshanmuradov/solana-va/internal/logger"
	"github.com/rovshanmuradov/solana-va/internal/notify"
	"github.com/rovshanmuradov/solana-va/internal/overview"
	"github.com/rovshanmuradov/solana-va/internal/submit"
)

// ServiceProvider gives screens access to the application services.
type ServiceProvider interface {
	GetLogger() *zap.Logger
	GetLogBuffer() *logger.LogBuffer
	GetContext() context.Context
	GetNotifier() notify.Notifier

	// WalletAddress is empty when no wallet is connected.
	WalletAddress() string
	Network() string

	OpenOrders(ctx context.Context) ([]overview.OpenOrder, error)
	ClosedOrders(ctx context.Context) ([]overview.ClosedOrder, error)

	// Open, Deposit return an error when the input is rejected before a
	// transaction is built.
	Open(ctx context.Context, form app.OpenForm) (submit.Result, error)
	Deposit(ctx context.Context, orderAddr solana.PublicKey, amount string) (submit.Result, error)
	Close(ctx context.Context, orderAddr solana.PublicKey) submit.Result

	ExportFills(orders []overview.ClosedOrder) (string, error)
}

// RealServiceProvider implements ServiceProvider on top of app.App.
type RealServiceProvider struct {
	ctx       context.Context
	app       *app.App
	buffer    *logger.LogBuffer
	notifier  notify.Notifier
	exportDir string
}

// NewRealServiceProvider creates a new real service provider. Notifications
// go to the log and to the UI bus.
func NewRealServiceProvider(ctx context.Context, a *app.App, buffer *logger.LogBuffer) *RealServiceProvider {
	return &RealServiceProvider{
		ctx:       ctx,
		app:       a,
		buffer:    buffer,
		notifier:  notify.Multi{notify.NewLogNotifier(a.Logger()), BusNotifier{}},
		exportDir: "exports",
	}
}

func (p *RealServiceProvider) GetLogger() *zap.Logger          { return p.app.Logger() }
func (p *RealServiceProvider) GetLogBuffer() *logger.LogBuffer { return p.buffer }
func (p *RealServiceProvider) GetContext() context.Context     { return p.ctx }
func (p *RealServiceProvider) GetNotifier() notify.Notifier    { return p.notifier }

func (p *RealServiceProvider) WalletAddress() string {
	if w := p.app.Wallet(); w.Connected() {
		return w.PublicKey().String()
	}
	return ""
}

func (p *RealServiceProvider) Network() string {
	return p.app.Config().Network
}

func (p *RealServiceProvider) OpenOrders(ctx context.Context) ([]overview.OpenOrder, error) {
	return p.app.OpenOrders(ctx)
}

func (p *RealServiceProvider) ClosedOrders(ctx context.Context) ([]overview.ClosedOrder, error) {
	return p.app.ClosedOrders(ctx)
}

func (p *RealServiceProvider) Open(ctx context.Context, form app.OpenForm) (submit.Result, error) {
	req, err := p.app.PrepareOpen(ctx, form)
	if err != nil {
		return submit.Result{}, err
	}
	return p.app.Submitter().Open(ctx, req), nil
}

func (p *RealServiceProvider) Deposit(ctx context.Context, orderAddr solana.PublicKey, amount string) (submit.Result, error) {
	base, err := p.app.PrepareDeposit(ctx, orderAddr, amount)
	if err != nil {
		return submit.Result{}, err
	}
	return p.app.Submitter().Deposit(ctx, orderAddr, base), nil
}

func (p *RealServiceProvider) Close(ctx context.Context, orderAddr solana.PublicKey) submit.Result {
	return p.app.Submitter().WithdrawAllAndClose(ctx, orderAddr)
}

func (p *RealServiceProvider) ExportFills(orders []overview.ClosedOrder) (string, error) {
	return export.NewFillExporter(p.app.Logger()).ExportFills(orders, export.ExportOptions{
		Format:    export.FormatCSV,
		OutputDir: p.exportDir,
	})
}
