package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"ultimate-kits/internal/domain"
	"ultimate-kits/pkg/logger"
	"ultimate-kits/pkg/utils"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	SourceProxy  = "proxy"
	SourceScript = "script"

	maxFeedBytes = 20 << 20
)

var errMalformedBody = errors.New("response is not a JSON array")

type Config struct {
	ProxyURL      string
	ScriptURL     string
	Retries       int
	Backoff       time.Duration
	Timeout       time.Duration
	MobileTimeout time.Duration
}

// Client loads the product feed, preferring the backend proxy and falling back to
// the spreadsheet script with bounded, linearly backed-off retries.
type Client struct {
	cfg          Config
	proxy        *retryablehttp.Client
	script       *retryablehttp.Client
	mobileScript *retryablehttp.Client
	now          func() time.Time
}

var _ domain.FeedSource = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.Retries < 1 {
		cfg.Retries = 1
	}
	if cfg.MobileTimeout <= 0 {
		cfg.MobileTimeout = 2 * cfg.Timeout
	}
	return &Client{
		cfg:          cfg,
		proxy:        newRetryClient(0, cfg.Backoff, cfg.Timeout),
		script:       newRetryClient(cfg.Retries-1, cfg.Backoff, cfg.Timeout),
		mobileScript: newRetryClient(cfg.Retries-1, cfg.Backoff, cfg.MobileTimeout),
		now:          time.Now,
	}
}

func newRetryClient(retryMax int, backoff, timeout time.Duration) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = retryMax
	c.RetryWaitMin = backoff
	c.RetryWaitMax = backoff * time.Duration(retryMax+1)
	c.HTTPClient.Timeout = timeout
	c.Backoff = linearBackoff
	c.CheckRetry = checkFeedResponse
	c.ErrorHandler = describeFailure
	c.Logger = retryLogger{}
	return c
}

// linearBackoff waits backoff × attempt number: 1s, 2s, 3s...
func linearBackoff(min, _ time.Duration, attemptNum int, _ *http.Response) time.Duration {
	return min * time.Duration(attemptNum+1)
}

// checkFeedResponse retries transport errors, non-2xx statuses and bodies that are not
// a JSON array. Accepted bodies are buffered so the caller can read them again.
func checkFeedResponse(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return true, nil
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if readErr != nil {
		return true, nil
	}
	return !domain.ValidFeedBody(body), nil
}

// describeFailure turns the last attempt of an exhausted loop into an error.
func describeFailure(resp *http.Response, err error, numTries int) (*http.Response, error) {
	if err != nil {
		return nil, fmt.Errorf("after %d attempt(s): %w", numTries, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("after %d attempt(s): no response", numTries)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("after %d attempt(s): %s: %s", numTries, resp.Status, bytes.TrimSpace(snippet))
	}
	return nil, fmt.Errorf("after %d attempt(s): %w", numTries, errMalformedBody)
}

// Fetch returns the first valid feed payload. Both paths failing yields an error
// wrapping domain.ErrFeedExhausted.
func (c *Client) Fetch(ctx context.Context, opts domain.FetchOptions) (*domain.FeedPayload, error) {
	log := logger.WithContext(ctx)

	var proxyErr error
	if c.cfg.ProxyURL != "" {
		body, err := c.get(ctx, c.proxy, c.cfg.ProxyURL, opts.Mobile)
		if err == nil {
			return &domain.FeedPayload{Body: body, Source: SourceProxy}, nil
		}
		proxyErr = err
		log.Warn().Err(err).Msg("Feed proxy unavailable, falling back to script")
	} else {
		proxyErr = errors.New("proxy not configured")
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	script := c.script
	if opts.Mobile {
		script = c.mobileScript
	}
	body, err := c.get(ctx, script, c.cfg.ScriptURL, opts.Mobile)
	if err != nil {
		return nil, fmt.Errorf("%w: proxy: %v; script: %v", domain.ErrFeedExhausted, proxyErr, err)
	}
	return &domain.FeedPayload{Body: body, Source: SourceScript}, nil
}

// FetchScript bypasses the proxy. The backend's own /api/products endpoint uses it.
func (c *Client) FetchScript(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.script, c.cfg.ScriptURL, false)
}

func (c *Client) get(ctx context.Context, client *retryablehttp.Client, rawURL string, mobile bool) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, utils.CacheBust(rawURL, c.now()), nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if !mobile {
		req.Header.Set("Cache-Control", "no-cache")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// retryLogger routes retryablehttp's attempt logging through zerolog.
type retryLogger struct{}

func (retryLogger) Error(msg string, kv ...interface{}) { logger.Error().Fields(kv).Msg(msg) }
func (retryLogger) Info(msg string, kv ...interface{})  { logger.Debug().Fields(kv).Msg(msg) }
func (retryLogger) Debug(msg string, kv ...interface{}) { logger.Debug().Fields(kv).Msg(msg) }
func (retryLogger) Warn(msg string, kv ...interface{})  { logger.Warn().Fields(kv).Msg(msg) }
