// Package inference implements the client for the local text-generation
// service.
//
// One Invoke call makes up to MaxAttempts HTTP POSTs and backs off
// exponentially between them. The client holds no per-call state and is safe
// for concurrent use.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pithecene-io/reqforge/iox"
	"github.com/pithecene-io/reqforge/log"
	"github.com/pithecene-io/reqforge/metrics"
)

// DefaultEndpoint is the generate endpoint of a local Ollama server.
const DefaultEndpoint = "http://localhost:11434/api/generate"

// DefaultTimeout is the default per-attempt timeout.
const DefaultTimeout = 120 * time.Second

// maxResponseBytes bounds the response body read per attempt.
const maxResponseBytes = 32 << 20

// Config configures the inference client.
type Config struct {
	// Endpoint is the generate URL (default DefaultEndpoint).
	Endpoint string
	// Model is the default model identifier (default DefaultModel).
	Model string
	// Timeout is the per-attempt timeout (default 120s).
	Timeout time.Duration
	// MaxAttempts is the attempt budget per Invoke (default 3).
	MaxAttempts int
	// BaseDelay is the backoff after the first failure (default 1s).
	BaseDelay time.Duration
	// Headers are custom HTTP headers added to each request.
	Headers map[string]string
	// Logger receives attempt and failure logs (default: discard).
	Logger *log.Logger
	// Metrics receives attempt counters (optional).
	Metrics *metrics.Collector
}

// Client sends generate requests with bounded retry.
type Client struct {
	config  Config
	policy  RetryPolicy
	client  *http.Client
	logger  *log.Logger
	metrics *metrics.Collector

	// sleep waits between attempts; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an inference client from the given config.
// Returns an error if the endpoint is not an absolute http(s) URL.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("inference endpoint must be an http(s) URL, got %q", cfg.Endpoint)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxAttempts < 0 {
		return nil, fmt.Errorf("max attempts must be >= 1, got %d", cfg.MaxAttempts)
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	return &Client{
		config:  cfg,
		policy:  RetryPolicy{MaxAttempts: cfg.MaxAttempts, BaseDelay: cfg.BaseDelay},
		client:  &http.Client{},
		logger:  logger,
		metrics: cfg.Metrics,
		sleep:   sleepCtx,
	}, nil
}

// Model returns the default model identifier.
func (c *Client) Model() string {
	return c.config.Model
}

// Generation is the outcome of a successful Generate call.
type Generation struct {
	Text     string
	Attempts int
	Duration time.Duration
}

// Invoke executes one logical generate request.
// It returns the generated text of the first attempt that yields non-empty
// text, or an *Error describing the last failure once the budget is spent.
func (c *Client) Invoke(ctx context.Context, req Request) (string, error) {
	gen, err := c.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return gen.Text, nil
}

// Generate is Invoke with attempt accounting.
func (c *Client) Generate(ctx context.Context, req Request) (Generation, error) {
	body, err := json.Marshal(toWire(req, c.config.Model))
	if err != nil {
		return Generation{}, fmt.Errorf("inference: marshal request: %w", err)
	}

	c.metrics.IncInvocationStarted()
	start := time.Now()

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return Generation{}, c.terminal(contextError(err), attempt-1)
		}

		c.metrics.IncAttempt(attempt > 1)
		text, attemptErr := c.doAttempt(ctx, body)

		// Decide takes a plain error; a nil *Error must stay a nil interface.
		var decideErr error
		if attemptErr != nil {
			decideErr = attemptErr
		}

		action := c.policy.Decide(attempt, decideErr)
		switch action.Type {
		case ActionSucceed:
			c.metrics.IncInvocationSucceeded()
			c.logger.Debug("inference succeeded", map[string]any{
				"attempt":     attempt,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			return Generation{Text: text, Attempts: attempt, Duration: time.Since(start)}, nil

		case ActionFail:
			return Generation{}, c.terminal(attemptErr, attempt)

		case ActionRetry:
			c.logger.Debug("inference attempt failed, backing off", map[string]any{
				"attempt":  attempt,
				"kind":     string(attemptErr.Kind),
				"error":    attemptErr.Message,
				"delay_ms": action.Delay.Milliseconds(),
			})
			if err := c.sleep(ctx, action.Delay); err != nil {
				return Generation{}, c.terminal(contextError(err), attempt)
			}
		}
	}
}

// terminal stamps the attempt count on err and records the failure.
func (c *Client) terminal(err *Error, attempts int) *Error {
	err.Attempts = attempts
	c.metrics.IncInvocationFailed(string(err.Kind))
	c.logger.Warn("inference failed", map[string]any{
		"attempts": attempts,
		"kind":     string(err.Kind),
		"error":    err.Message,
	})
	return err
}

// doAttempt performs a single POST and classifies the outcome.
// A nil *Error means text is non-empty.
func (c *Client) doAttempt(ctx context.Context, body []byte) (string, *Error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindTransport, Message: "create request: " + err.Error(), Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return "", &Error{Kind: KindTimeout, Message: fmt.Sprintf("no response within %s", c.config.Timeout), Err: err}
		}
		return "", &Error{Kind: KindTransport, Message: "request failed: " + err.Error(), Err: err}
	}
	defer iox.DrainClose(resp.Body)

	data, err := iox.ReadLimited(resp.Body, maxResponseBytes)
	if err != nil {
		if isTimeout(err) {
			return "", &Error{Kind: KindTimeout, Message: "response body not received in time", StatusCode: resp.StatusCode, Err: err}
		}
		return "", &Error{Kind: KindTransport, Message: "read response: " + err.Error(), StatusCode: resp.StatusCode, Err: err}
	}

	return classify(resp.StatusCode, data)
}

// classify maps a received status and body to generated text or a failure.
func classify(status int, data []byte) (string, *Error) {
	var decoded generateResponse
	decodeErr := json.Unmarshal(data, &decoded)

	if decodeErr == nil && decoded.Error != "" {
		return "", &Error{Kind: KindServerError, Message: decoded.Error, StatusCode: status}
	}
	if status < 200 || status >= 300 {
		return "", &Error{
			Kind:       KindTransport,
			Message:    fmt.Sprintf("HTTP error: status %d, message: %s", status, truncate(strings.TrimSpace(string(data)), 200)),
			StatusCode: status,
		}
	}
	if decodeErr != nil {
		return "", &Error{Kind: KindTransport, Message: "malformed response body: " + decodeErr.Error(), StatusCode: status, Err: decodeErr}
	}
	if decoded.Response == nil || strings.TrimSpace(*decoded.Response) == "" {
		return "", &Error{Kind: KindEmptyResponse, Message: "response carries no generated text", StatusCode: status}
	}
	return *decoded.Response, nil
}

// contextError converts a caller context error into a failure.
func contextError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: "caller deadline exceeded", Err: err}
	}
	return &Error{Kind: KindTransport, Message: "canceled: " + err.Error(), Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
