// =============================
// File: internal/program/valueaverage/history.go
// =============================
package valueaverage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// ErrHistoryDisabled is returned when no history API is configured.
var ErrHistoryDisabled = errors.New("order history API not configured")

// Amount is a u64 the API may send as a JSON string or number.
type Amount uint64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*a = 0
		return nil
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", data, err)
	}
	*a = Amount(v)
	return nil
}

// ClosedAccount is the state of a closed order as reported by the API.
type ClosedAccount struct {
	User               string `json:"user"`
	InputMint          string `json:"inputMint"`
	OutputMint         string `json:"outputMint"`
	InDeposited        Amount `json:"inDeposited"`
	InLeft             Amount `json:"inLeft"`
	InUsed             Amount `json:"inUsed"`
	InWithdrawn        Amount `json:"inWithdrawn"`
	IncrementUsdcValue Amount `json:"incrementUsdcValue"`
	OpenTxHash         string `json:"openTxHash"`
	CloseTxHash        string `json:"closeTxHash"`
	OrderInterval      Amount `json:"orderInterval"`
	OutReceived        Amount `json:"outReceived"`
	OutWithdrawn       Amount `json:"outWithdrawn"`
	Status             int    `json:"status"`
	SupposedUsdcValue  Amount `json:"supposedUsdcValue"`
}

// Fill is one executed purchase of an order.
type Fill struct {
	UserKey            string    `json:"userKey"`
	ValueAverageKey    string    `json:"valueAverageKey"`
	InputMint          string    `json:"inputMint"`
	OutputMint         string    `json:"outputMint"`
	InputAmount        Amount    `json:"inputAmount"`
	OutputAmount       Amount    `json:"outputAmount"`
	Value              Amount    `json:"value"`
	FeeMint            string    `json:"feeMint"`
	Fee                Amount    `json:"fee"`
	SupposedUsdcValue  Amount    `json:"supposedUsdcValue"`
	NewActualUsdcValue Amount    `json:"newActualUsdcValue"`
	TxSignature        string    `json:"txSignature"`
	ConfirmedAt        time.Time `json:"confirmedAt"`
}

// ClosedOrder is a past order with its fills.
type ClosedOrder struct {
	PublicKey string        `json:"publicKey"`
	Account   ClosedAccount `json:"account"`
	Fills     []Fill        `json:"fills"`
}

// HistoryClient reads closed orders from the history API.
type HistoryClient struct {
	client   *http.Client
	logger   *zap.Logger
	baseURL  string
	maxTries uint
}

// NewHistoryClient creates a client. An empty baseURL disables it.
func NewHistoryClient(baseURL string, timeout time.Duration, maxTries uint, logger *zap.Logger) *HistoryClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxTries == 0 {
		maxTries = 3
	}
	return &HistoryClient{
		client:   &http.Client{Timeout: timeout},
		logger:   logger.Named("va-history"),
		baseURL:  baseURL,
		maxTries: maxTries,
	}
}

// Enabled reports whether a history API is configured.
func (h *HistoryClient) Enabled() bool {
	return h != nil && h.baseURL != ""
}

// Closed returns the closed orders of user with their fills.
func (h *HistoryClient) Closed(ctx context.Context, user string) ([]ClosedOrder, error) {
	if !h.Enabled() {
		return nil, ErrHistoryDisabled
	}

	endpoint, err := url.Parse(h.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid history API url: %w", err)
	}
	endpoint = endpoint.JoinPath("value-averages")
	q := endpoint.Query()
	q.Set("user", user)
	q.Set("status", "closed")
	endpoint.RawQuery = q.Encode()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond

	orders, err := backoff.Retry(ctx, func() ([]ClosedOrder, error) {
		return h.fetch(ctx, endpoint.String())
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(h.maxTries),
		backoff.WithNotify(func(err error, d time.Duration) {
			h.logger.Warn("Retrying history fetch", zap.Error(err), zap.Duration("backoff", d))
		}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch closed orders: %w", err)
	}
	return orders, nil
}

func (h *HistoryClient) fetch(ctx context.Context, endpoint string) ([]ClosedOrder, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	h.logger.Debug("api request completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	var orders []ClosedOrder
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode closed orders: %w", err))
	}
	return orders, nil
}
