package psi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ClientConfig holds the settings for the PageSpeed Insights client.
type ClientConfig struct {
	Endpoint   string
	APIKey     string
	Strategy   string
	Timeout    time.Duration // bounds each individual attempt
	MaxRetries int           // total attempts, not retries-after-first
	Backoff    time.Duration // base unit; attempt n sleeps Backoff * 2^(n-1)
}

const (
	defaultMaxRetries = 3
	defaultBackoff    = time.Second
	defaultTimeout    = 60 * time.Second
)

// Client fetches performance reports with a bounded retry policy.
type Client struct {
	cfg    ClientConfig
	http   *http.Client
	logger *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewClient constructs a Client. Zero-valued retry knobs fall back to the
// defaults from the batch collector's history (3 attempts, 1s base backoff,
// 60s per-attempt timeout).
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = defaultBackoff
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{},
		logger: logger,
		sleep:  sleepContext,
	}
}

// Fetch retrieves the performance report for one URL and extracts a Record.
// Client errors (4xx) fail immediately; transient failures are retried with
// exponential backoff until the attempt budget runs out.
func (c *Client) Fetch(ctx context.Context, target string) (Record, error) {
	var last *FetchError
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		rec, ferr := c.attempt(ctx, target)
		if ferr == nil {
			return rec, nil
		}
		ferr.Attempts = attempt
		last = ferr

		if !ferr.Retriable {
			TotalNonRetriable.Inc()
			return Record{}, ferr
		}
		if attempt == c.cfg.MaxRetries {
			break
		}

		wait := backoffFor(c.cfg.Backoff, attempt)
		c.logger.Warn("fetch failed; retrying",
			zap.String("url", target),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.cfg.MaxRetries),
			zap.Duration("wait", wait),
			zap.Error(ferr),
		)
		TotalRetries.Inc()
		if err := c.sleep(ctx, wait); err != nil {
			return Record{}, fmt.Errorf("backoff interrupted: %w", err)
		}
	}
	TotalExhausted.Inc()
	return Record{}, last
}

func (c *Client) attempt(ctx context.Context, target string) (Record, *FetchError) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.cfg.Endpoint, nil)
	if err != nil {
		return Record{}, &FetchError{URL: target, Retriable: false, Err: fmt.Errorf("build request: %w", err)}
	}
	q := req.URL.Query()
	q.Set("url", target)
	q.Set("key", c.cfg.APIKey)
	q.Set("strategy", c.cfg.Strategy)
	q.Set("category", "performance")
	req.URL.RawQuery = q.Encode()

	TotalAttempts.Inc()
	resp, err := c.http.Do(req)
	if err != nil {
		return Record{}, &FetchError{URL: target, Retriable: true, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return Record{}, &FetchError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Retriable:  resp.StatusCode >= http.StatusInternalServerError,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var report Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return Record{}, &FetchError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Retriable:  true,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}

	return Extract(report, target), nil
}

// backoffFor computes base * 2^(attempt-1).
func backoffFor(base time.Duration, attempt int) time.Duration {
	return base << (attempt - 1)
}

// sleepContext blocks for d or until ctx finishes, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
