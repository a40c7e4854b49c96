package valueaverage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const closedOrdersJSON = `[
  {
    "publicKey": "8xK3Qv1n6ZQ2aX7jYz8fG4pT1mR5sW9dE2cB7hL3uN6v",
    "account": {
      "user": "4Nd1mYw8ZLq3kR7p2T9vXc6sB5fH1jG3eU8aD2wQ7nMz",
      "inputMint": "So11111111111111111111111111111111111111112",
      "outputMint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
      "inDeposited": "2000000000",
      "inLeft": "0",
      "inUsed": "1500000000",
      "inWithdrawn": "500000000",
      "incrementUsdcValue": 10000,
      "openTxHash": "open-sig",
      "closeTxHash": "close-sig",
      "orderInterval": "86400",
      "outReceived": "210000000",
      "outWithdrawn": "210000000",
      "status": 2,
      "supposedUsdcValue": "30000"
    },
    "fills": [
      {
        "inputMint": "So11111111111111111111111111111111111111112",
        "outputMint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
        "inputAmount": "500000000",
        "outputAmount": "70000000",
        "fee": "7000",
        "txSignature": "fill-sig",
        "confirmedAt": "2024-03-07T10:00:00Z"
      }
    ]
  }
]`

func TestHistoryClient_Closed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/value-averages", r.URL.Path)
		assert.Equal(t, "closed", r.URL.Query().Get("status"))
		assert.Equal(t, "owner", r.URL.Query().Get("user"))
		_, _ = w.Write([]byte(closedOrdersJSON))
	}))
	defer srv.Close()

	h := NewHistoryClient(srv.URL, time.Second, 1, zaptest.NewLogger(t))
	orders, err := h.Closed(context.Background(), "owner")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	acc := orders[0].Account
	assert.Equal(t, Amount(2_000_000_000), acc.InDeposited)
	assert.Equal(t, Amount(10_000), acc.IncrementUsdcValue)
	assert.Equal(t, Amount(86_400), acc.OrderInterval)
	assert.Equal(t, "close-sig", acc.CloseTxHash)

	require.Len(t, orders[0].Fills, 1)
	fill := orders[0].Fills[0]
	assert.Equal(t, Amount(70_000_000), fill.OutputAmount)
	assert.Equal(t, time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC), fill.ConfirmedAt.UTC())
}

func TestHistoryClient_Disabled(t *testing.T) {
	h := NewHistoryClient("", 0, 0, zaptest.NewLogger(t))
	assert.False(t, h.Enabled())

	_, err := h.Closed(context.Background(), "owner")
	assert.ErrorIs(t, err, ErrHistoryDisabled)
}

func TestHistoryClient_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	h := NewHistoryClient(srv.URL, time.Second, 3, zaptest.NewLogger(t))
	_, err := h.Closed(context.Background(), "owner")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	var a Amount
	require.NoError(t, a.UnmarshalJSON([]byte(`"42"`)))
	assert.Equal(t, Amount(42), a)
	require.NoError(t, a.UnmarshalJSON([]byte(`null`)))
	assert.Equal(t, Amount(0), a)
	assert.Error(t, a.UnmarshalJSON([]byte(`"-1"`)))
}
