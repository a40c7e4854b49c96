// =============================
// File: internal/tokens/loader.go
// =============================
package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultRetryDelay     = 500 * time.Millisecond
	defaultMaxTries       = 3
)

// ErrEmptyList is returned when the endpoint answers with no tokens.
var ErrEmptyList = errors.New("token list is empty")

// LoaderConfig configures a Loader. Zero values fall back to defaults.
type LoaderConfig struct {
	URL        string
	Timeout    time.Duration
	MaxTries   uint
	RetryDelay time.Duration
}

// Loader fetches the token list over HTTP.
type Loader struct {
	client     *http.Client
	logger     *zap.Logger
	url        string
	maxTries   uint
	retryDelay time.Duration
}

// NewLoader creates a token list loader.
func NewLoader(cfg LoaderConfig, logger *zap.Logger) *Loader {
	if cfg.URL == "" {
		cfg.URL = DefaultListURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRequestTimeout
	}
	if cfg.MaxTries == 0 {
		cfg.MaxTries = defaultMaxTries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	return &Loader{
		client:     &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Named("tokens"),
		url:        cfg.URL,
		maxTries:   cfg.MaxTries,
		retryDelay: cfg.RetryDelay,
	}
}

// LoadAll fetches the full token list. Transport errors and 5xx responses
// are retried with exponential backoff; 4xx and undecodable bodies are not.
func (l *Loader) LoadAll(ctx context.Context) ([]Token, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = l.retryDelay
	policy.MaxInterval = l.retryDelay * 10

	notify := func(err error, d time.Duration) {
		l.logger.Warn("Retrying token list fetch", zap.Error(err), zap.Duration("backoff", d))
	}

	start := time.Now()
	list, err := backoff.Retry(ctx, func() ([]Token, error) {
		return l.fetch(ctx)
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(l.maxTries),
		backoff.WithNotify(notify))
	if err != nil {
		l.logger.Error("Failed to load token list", zap.String("url", l.url), zap.Error(err))
		return nil, fmt.Errorf("failed to load token list: %w", err)
	}

	l.logger.Debug("Token list loaded",
		zap.Int("count", len(list)),
		zap.Duration("duration", time.Since(start)))
	return list, nil
}

// LoadDirectory loads the list and indexes it.
func (l *Loader) LoadDirectory(ctx context.Context) (*Directory, error) {
	list, err := l.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewDirectory(list), nil
}

func (l *Loader) fetch(ctx context.Context) ([]Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
		if resp.StatusCode >= 500 {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	var list []Token
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode token list: %w", err))
	}
	if len(list) == 0 {
		return nil, backoff.Permanent(ErrEmptyList)
	}
	return list, nil
}
