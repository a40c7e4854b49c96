package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/solana-va/internal/notify"
	"github.com/rovshanmuradov/solana-va/internal/submit"
)

func TestDispatch_UnknownCommand(t *testing.T) {
	var buf bytes.Buffer
	c := &cli{out: &buf}

	err := c.dispatch(context.Background(), "swap", nil)
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, buf.String(), "Commands:")
}

func TestParseOrder(t *testing.T) {
	key := solana.NewWallet().PublicKey()

	newFS := func() *flag.FlagSet {
		fs := flag.NewFlagSet("close", flag.ContinueOnError)
		fs.SetOutput(&bytes.Buffer{})
		fs.String("order", "", "")
		return fs
	}

	got, err := parseOrder(newFS(), []string{"-order", key.String()})
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = parseOrder(newFS(), nil)
	assert.ErrorIs(t, err, errUsage)

	_, err = parseOrder(newFS(), []string{"-order", "xyz"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)
}

type recordingNotifier struct{ got []notify.Notification }

func (r *recordingNotifier) Notify(n notify.Notification) { r.got = append(r.got, n) }

func TestReport_FailureNotifiesOnce(t *testing.T) {
	rec := &recordingNotifier{}
	c := &cli{notifier: rec}

	err := c.report(submit.Result{Operation: submit.OpDeposit, Kind: submit.SendFailed, Err: errors.New("user rejected")})
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, 1, exitCode(err, rec))
	assert.Len(t, rec.got, 1)

	require.NoError(t, c.report(submit.Result{Operation: submit.OpDeposit, Kind: submit.Confirmed}))
	assert.Len(t, rec.got, 2)
}

func TestExitCode(t *testing.T) {
	rec := &recordingNotifier{}

	assert.Equal(t, 0, exitCode(nil, rec))
	assert.Equal(t, 2, exitCode(errUsage, rec))
	assert.Equal(t, 2, exitCode(flag.ErrHelp, rec))
	assert.Empty(t, rec.got)

	assert.Equal(t, 1, exitCode(errors.New("rpc down"), rec))
	require.Len(t, rec.got, 1)
	assert.Equal(t, notify.LevelError, rec.got[0].Level)
}
