// Package source implements the upstream launch-schedule clients. Two API
// generations exist with very different shapes; both are hidden behind the
// Source interface and normalize into model.Launch at this boundary. All
// methods are context-aware, respect the shared rate limiter, and retry on
// transient errors (429, 5xx).
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mkrebs/padwatch/internal/model"
)

const maxRetries = 4

// Source is the capability a launch provider must offer.
type Source interface {
	// FetchLatestAndNext returns the most recently completed launch and
	// the soonest upcoming one. Either may be nil when the upstream has no
	// matching record.
	FetchLatestAndNext(ctx context.Context) (latest, next *model.Launch, err error)

	// FetchLatest re-reads only the latest launch. Used by the short
	// status-retry cycle, which must not pay for a full refresh.
	FetchLatest(ctx context.Context) (*model.Launch, error)
}

// UpstreamError wraps any network, HTTP, or decode failure from the
// launch API. Callers treat it as "no update this cycle": the previous
// state stays authoritative.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// upstream wraps err in an UpstreamError unless it already is one or is
// a context cancellation, which callers need to see undisguised.
func upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}

// ─── Shared HTTP core ─────────────────────────────────────────────────────────

// httpCore is the transport shared by both clients: one rate limiter, one
// retry policy, one JSON decoder.
type httpCore struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	debug      bool
}

func newHTTPCore(baseURL string, timeout time.Duration, ratePerSec float64, debug bool) httpCore {
	burst := int(ratePerSec)
	if burst < 1 {
		burst = 1
	}
	return httpCore{
		baseURL:    strings.TrimRight(baseURL, "/") + "/",
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), burst),
		debug:      debug,
	}
}

// getJSON performs a GET against the API, handling rate limiting and
// retries, and decodes the body into out.
func (c *httpCore) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	if c.debug {
		slog.Debug("launch api request", "url", reqURL)
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))*500) * time.Millisecond
			slog.Debug("retrying after backoff", "attempt", attempt, "backoff", backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "padwatch/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("reading body: %w", err)
			continue
		}

		if c.debug {
			slog.Debug("launch api response", "status", resp.StatusCode, "bytes", len(body))
		}

		// Retry on server errors and rate limiting.
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("after %d attempts: %w", maxRetries, lastErr)
}
