package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pthm-cable/versefx/config"
)

const (
	generatePoemPath = "/api/generate-poem"
	analyzeThemePath = "/api/analyze-theme"

	// Cap on error bodies read into messages
	maxErrorBody = 4096
)

// Client calls the poem backend. Network and timeout failures are retried
// with exponential backoff plus jitter; other failures return at once.
type Client struct {
	BaseURL     string
	HTTP        *http.Client
	MaxRetries  int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	// Timeout bounds each attempt. Zero means no per-attempt deadline.
	Timeout time.Duration
	Logger  *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewClient builds a client from the upstream settings.
func NewClient(cfg *config.Config) *Client {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Client{
		BaseURL:     cfg.Upstream.BaseURL,
		HTTP:        &http.Client{},
		MaxRetries:  cfg.Upstream.MaxRetries,
		BaseBackoff: cfg.Derived.BaseBackoff,
		MaxBackoff:  cfg.Derived.MaxBackoff,
		Timeout:     cfg.Derived.Timeout,
		Logger:      slog.Default(),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GeneratePoem asks the backend for a poem built from in.
func (c *Client) GeneratePoem(ctx context.Context, in PoemInputs) (PoemData, error) {
	var out PoemData
	if err := in.validate(); err != nil {
		return out, err
	}
	err := c.do(ctx, generatePoemPath, in, &out)
	return out, err
}

// AnalyzeTheme asks the backend for the theme and mood of text.
func (c *Client) AnalyzeTheme(ctx context.Context, text string) (ThemeAnalysis, error) {
	var out ThemeAnalysis
	if strings.TrimSpace(text) == "" {
		return out, &Error{Kind: KindValidation, Message: "empty poem text"}
	}
	err := c.do(ctx, analyzeThemePath, analyzeRequest{Text: text}, &out)
	return out, err
}

// do posts in as JSON to path and decodes the response into out, retrying
// retryable failures.
func (c *Client) do(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	u, err := url.JoinPath(c.BaseURL, path)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}

	for attempt := 0; ; attempt++ {
		err := c.attempt(ctx, u, body, out)
		if err == nil {
			return nil
		}
		if !err.Retryable() || attempt >= c.MaxRetries {
			return err
		}

		wait := c.backoff(attempt)
		c.logger().Warn("upstream request failed, retrying",
			"path", path,
			"attempt", attempt+1,
			"kind", err.Kind,
			"wait", wait,
			"error", err,
		)
		if err := sleep(ctx, wait); err != nil {
			return &Error{Kind: KindCanceled, Err: err}
		}
	}
}

// attempt sends one request.
func (c *Client) attempt(ctx context.Context, u string, body []byte, out any) *Error {
	if err := ctx.Err(); err != nil {
		return &Error{Kind: KindCanceled, Err: err}
	}

	reqCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return &Error{Kind: KindValidation, Message: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return classifyTransport(ctx, reqCtx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if reqCtx.Err() != nil {
			return classifyTransport(ctx, reqCtx, err)
		}
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: "invalid response body", Err: err}
	}
	return nil
}

// classifyTransport sorts a failed round trip into cancelled, timeout or network.
func classifyTransport(parent, reqCtx context.Context, err error) *Error {
	if parent.Err() != nil {
		return &Error{Kind: KindCanceled, Err: parent.Err()}
	}
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}
	return &Error{Kind: KindNetwork, Err: err}
}

// classifyStatus maps a non-2xx response onto an error kind.
func classifyStatus(resp *http.Response) *Error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(data))
	var eb errorBody
	if json.Unmarshal(data, &eb) == nil {
		switch {
		case eb.Message != "":
			msg = eb.Message
		case eb.Error != "":
			msg = eb.Error
		}
	}

	e := &Error{Status: resp.StatusCode, Message: msg}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		e.Kind = KindRateLimit
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout:
		e.Kind = KindTimeout
	case resp.StatusCode >= 500:
		e.Kind = KindNetwork
	default:
		e.Kind = KindValidation
	}
	return e
}

// backoff returns base*2^attempt plus jitter in [0, base), capped at MaxBackoff.
func (c *Client) backoff(attempt int) time.Duration {
	base := c.BaseBackoff
	if base <= 0 {
		return 0
	}
	d := base << attempt
	if d <= 0 {
		d = c.MaxBackoff
	}

	c.mu.Lock()
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	d += time.Duration(c.rng.Int63n(int64(base)))
	c.mu.Unlock()

	if c.MaxBackoff > 0 && d > c.MaxBackoff {
		d = c.MaxBackoff
	}
	return d
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
