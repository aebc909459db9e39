// internal/fetch/fetcher.go
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"review_harvester/internal/adapters/observability"
)

type Config struct {
	Timeout           time.Duration
	MaxRetries        int
	BackoffBase       time.Duration
	BackoffMultiplier float64
	Pause             time.Duration
	Accept            string
}

// Client is the outbound HTTP client shared by every source. One Client
// per source run: connections are pooled and paced independently.
type Client struct {
	hc     *http.Client
	rl     *rate.Limiter
	cfg    Config
	source string
}

func New(cfg Config, source string) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 1200 * time.Millisecond
	}
	if cfg.BackoffMultiplier <= 0 {
		cfg.BackoffMultiplier = 1.5
	}
	if cfg.Accept == "" {
		cfg.Accept = acceptAny
	}
	rl := rate.NewLimiter(rate.Inf, 1)
	if cfg.Pause > 0 {
		rl = rate.NewLimiter(rate.Every(cfg.Pause), 1)
	}
	return &Client{
		hc: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        8,
				MaxIdleConnsPerHost: 8,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		rl:     rl,
		cfg:    cfg,
		source: source,
	}
}

var (
	ErrBadStatus = errors.New("fetch: unexpected status")
	ErrExhausted = errors.New("fetch: retries exhausted")
)

// Fetch performs a GET with client-side pacing and bounded retries.
// Transport errors and 429/500/502/503/504 are retried, honoring
// Retry-After when provided. Any other non-200 status is terminal.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	// pacing between successive requests
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		c.setHeaders(req)

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			observability.ObserveFetch(c.source, "error", time.Since(start))
			log.Warn().Err(err).Str("source", c.source).Str("url", url).
				Int("attempt", attempt).Msg("request failed")
			lastErr = err
			if attempt < c.cfg.MaxRetries && c.pause(ctx, c.backoff(attempt)) {
				continue
			}
			break
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			b, rerr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if rerr != nil {
				observability.ObserveFetch(c.source, "error", time.Since(start))
				log.Warn().Err(rerr).Str("source", c.source).Str("url", url).
					Int("attempt", attempt).Msg("reading body failed")
				lastErr = rerr
				if attempt < c.cfg.MaxRetries && c.pause(ctx, c.backoff(attempt)) {
					continue
				}
				break
			}
			observability.ObserveFetch(c.source, "ok", time.Since(start))
			return b, nil

		case retryable(resp.StatusCode):
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if wait == 0 {
				wait = c.backoff(attempt)
			}
			observability.ObserveFetch(c.source, "retry", time.Since(start))
			log.Warn().Int("status", resp.StatusCode).Str("source", c.source).Str("url", url).
				Int("attempt", attempt).Msg("retryable status")
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if attempt < c.cfg.MaxRetries && c.pause(ctx, wait) {
				continue
			}

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			observability.ObserveFetch(c.source, "error", time.Since(start))
			log.Warn().Int("status", resp.StatusCode).Str("source", c.source).Str("url", url).
				Str("body", strings.TrimSpace(string(b))).Msg("unexpected status, giving up")
			return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
		}
		break
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	log.Error().Str("source", c.source).Str("url", url).
		Int("attempts", c.cfg.MaxRetries).Msg("giving up after retries")
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrExhausted, c.cfg.MaxRetries, lastErr)
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// backoff returns the delay before the next attempt. The base grows by the
// configured multiplier each retry (1.2s, 1.8s, 2.7s with defaults).
func (c *Client) backoff(attempt int) time.Duration {
	d := float64(c.cfg.BackoffBase)
	for i := 1; i < attempt; i++ {
		d *= c.cfg.BackoffMultiplier
	}
	return time.Duration(d)
}

// pause waits for d or returns false if ctx is done first. It also counts
// the wait as a retry for the source.
func (c *Client) pause(ctx context.Context, d time.Duration) bool {
	observability.ObserveRetry(c.source)
	return sleepCtx(ctx, d)
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	// seconds form
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	// HTTP-date form
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
