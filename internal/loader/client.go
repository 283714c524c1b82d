package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/okian/leaguelens/pkg/metrics"
)

// Breaker tuning. Trips on a short burst of consecutive failures or on a
// sustained failure ratio once enough requests have been seen.
const (
	breakerInterval       = 60 * time.Second
	breakerTimeout        = 60 * time.Second
	breakerMinRequests    = 20
	breakerFailureRatio   = 0.05
	breakerMaxConsecutive = 3
	defaultRequestTimeout = 10 * time.Second
	defaultRatePerSecond  = 20
	defaultRateBurst      = 40
	maxResponseBytes      = 64 << 20
)

// notFound marks a 404 response inside the breaker callback so missing
// dates do not count as breaker failures.
type notFound struct{}

// Client fetches JSON documents from the upstream snapshot store. All
// requests pass through a token-bucket limiter and a circuit breaker.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	source  string
}

// ClientOption applies a configuration option to the Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit shapes the upstream request rate.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithRequestTimeout bounds a single document fetch.
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewClient creates a snapshot store client rooted at baseURL. The source
// name labels breaker and metrics output only.
func NewClient(baseURL, source string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultRequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(defaultRatePerSecond), defaultRateBurst),
		source:  source,
	}
	for _, opt := range opts {
		opt(c)
	}

	st := gobreaker.Settings{Name: source}
	st.Interval = breakerInterval
	st.Timeout = breakerTimeout
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		if counts.ConsecutiveFailures >= breakerMaxConsecutive {
			return true
		}
		total := counts.Requests
		if total < breakerMinRequests {
			return false
		}
		return float64(counts.TotalFailures)/float64(total) > breakerFailureRatio
	}
	c.breaker = gobreaker.NewCircuitBreaker(st)
	return c
}

// getJSON fetches baseURL+path and decodes the body into v. A 404 maps to
// ErrNotFound so callers can treat missing dates as absence rather than
// failure; 404 does not count against the breaker.
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode == http.StatusNotFound {
			return notFound{}, nil
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: unexpected status %d for %s", ErrFetchFailed, resp.StatusCode, path)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, err
		}
		return data, nil
	})
	metrics.RecordFetchLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordBreakerOpen(c.source)
			return fmt.Errorf("%w: %w", ErrFetchFailed, err)
		}
		return fmt.Errorf("%w: %s: %w", ErrFetchFailed, path, err)
	}
	if _, missing := body.(notFound); missing {
		return ErrNotFound
	}

	raw, ok := body.([]byte)
	if !ok {
		return fmt.Errorf("%w: unexpected breaker payload", ErrFetchFailed)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecodeFailed, path, err)
	}
	return nil
}
