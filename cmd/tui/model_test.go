package main

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-va/internal/app"
	"github.com/rovshanmuradov/solana-va/internal/logger"
	"github.com/rovshanmuradov/solana-va/internal/notify"
	"github.com/rovshanmuradov/solana-va/internal/overview"
	"github.com/rovshanmuradov/solana-va/internal/submit"
	"github.com/rovshanmuradov/solana-va/internal/ui"
)

type stubServices struct{}

func (stubServices) GetLogger() *zap.Logger          { return zap.NewNop() }
func (stubServices) GetLogBuffer() *logger.LogBuffer { return logger.NewLogBuffer(10) }
func (stubServices) GetContext() context.Context     { return context.Background() }
func (stubServices) GetNotifier() notify.Notifier    { return notify.Multi{} }
func (stubServices) WalletAddress() string           { return "" }
func (stubServices) Network() string                 { return "devnet" }

func (stubServices) OpenOrders(context.Context) ([]overview.OpenOrder, error)     { return nil, nil }
func (stubServices) ClosedOrders(context.Context) ([]overview.ClosedOrder, error) { return nil, nil }

func (stubServices) Open(context.Context, app.OpenForm) (submit.Result, error) {
	return submit.Result{}, nil
}

func (stubServices) Deposit(context.Context, solana.PublicKey, string) (submit.Result, error) {
	return submit.Result{}, nil
}

func (stubServices) Close(context.Context, solana.PublicKey) submit.Result { return submit.Result{} }

func (stubServices) ExportFills([]overview.ClosedOrder) (string, error) { return "", nil }

func newTestModel() *AppModel {
	m := NewAppModel(stubServices{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestAppModel_NotificationExpires(t *testing.T) {
	m := newTestModel()

	_, cmd := m.Update(ui.NotificationMsg{Notification: notify.Notification{Level: notify.LevelInfo, Title: "first"}})
	require.NotNil(t, cmd)
	m.Update(ui.NotificationMsg{Notification: notify.Notification{Level: notify.LevelInfo, Title: "second"}})

	// таймер первого уведомления не гасит второе
	m.Update(clearNotificationMsg{seq: 1})
	n, ok := m.header.Notification()
	require.True(t, ok)
	assert.Equal(t, "second", n.Title)

	m.Update(clearNotificationMsg{seq: 2})
	_, ok = m.header.Notification()
	assert.False(t, ok)
}

func TestAppModel_RoutesAndPending(t *testing.T) {
	m := newTestModel()
	assert.Contains(t, m.View(), "devnet")

	m.Update(ui.RouterMsg{To: ui.RouteLogs})
	assert.Equal(t, ui.RouteLogs, m.router.Route())

	m.Update(ui.PendingMsg{Operation: submit.OpDeposit})
	assert.Contains(t, m.View(), "deposit")

	m.Update(ui.SubmitErrorMsg{Err: assert.AnError})
	assert.NotContains(t, m.header.View(), "⏳")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ui.RouteMainMenu, m.router.Route())
}

func TestAppModel_ToggleLogs(t *testing.T) {
	m := newTestModel()
	assert.False(t, m.logs.IsVisible())

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.True(t, m.logs.IsVisible())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestScreensFactory(t *testing.T) {
	f := screens(stubServices{})
	for _, r := range []ui.Route{ui.RouteMainMenu, ui.RouteOpenOrder, ui.RouteOrders, ui.RouteHistory, ui.RouteLogs} {
		assert.NotNil(t, f(r), r.String())
	}
	assert.Nil(t, f(ui.Route(42)))
}
