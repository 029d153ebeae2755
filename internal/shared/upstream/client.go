package upstream

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/errors"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/samber/oops"
)

const maxBodyBytes = 8 << 20

// Response is a fully read upstream reply. The body is already closed.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Observer is notified after every attempt. Used for metrics.
type Observer func(upstream string, status int, err error, elapsed time.Duration)

// Config configures the upstream client
type Config struct {
	// Name labels the upstream in logs and metrics
	Name string

	// Retries is the number of extra attempts on network errors and 5xx/429.
	// Zero means a single attempt.
	Retries   int
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// MaxBodyBytes caps the reply size; larger replies fail with
	// ErrResponseTooLarge. Defaults to 8 MiB.
	MaxBodyBytes int64

	UserAgent string
	Observer  Observer
}

// Client performs GET requests against one upstream through a failsafe executor
type Client struct {
	cfg      Config
	http     *http.Client
	executor failsafe.Executor[*Response]
}

// New creates an upstream client. A nil httpClient uses http.DefaultClient.
func New(cfg Config, httpClient *http.Client) *Client {
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 200 * time.Millisecond
	}
	if cfg.MaxDelay <= cfg.BaseDelay {
		cfg.MaxDelay = cfg.BaseDelay * 10
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = maxBodyBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "TransferPulse/1.0"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	retry := retrypolicy.NewBuilder[*Response]().
		WithBackoff(cfg.BaseDelay, cfg.MaxDelay).
		WithMaxRetries(cfg.Retries).
		WithJitterFactor(0.1).
		HandleIf(shouldRetry).
		ReturnLastFailure().
		Build()

	return &Client{
		cfg:      cfg,
		http:     httpClient,
		executor: failsafe.With[*Response](retry),
	}
}

func shouldRetry(resp *Response, err error) bool {
	if errors.Is(err, errors.ErrResponseTooLarge) {
		return false
	}
	if err != nil {
		return true
	}
	if resp == nil {
		return true
	}
	switch resp.StatusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests:
		return true
	default:
		return false
	}
}

// Get issues a GET with the given headers. Non-2xx replies are returned,
// not turned into errors; callers decide how to surface them.
func (c *Client) Get(ctx context.Context, url string, header http.Header) (*Response, error) {
	resp, err := c.executor.WithContext(ctx).Get(func() (*Response, error) {
		return c.do(ctx, url, header)
	})
	if err != nil {
		return nil, oops.In("upstream").With("upstream", c.cfg.Name, "url", url).Wrap(err)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, url string, header http.Header) (*Response, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Cache-Control", "no-cache")

	httpResp, err := c.http.Do(req)
	if err != nil {
		c.observe(0, err, start)
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, c.cfg.MaxBodyBytes+1))
	if err == nil && int64(len(body)) > c.cfg.MaxBodyBytes {
		err = errors.ErrResponseTooLarge
	}
	if err != nil {
		c.observe(httpResp.StatusCode, err, start)
		return nil, err
	}

	c.observe(httpResp.StatusCode, nil, start)
	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Header:     httpResp.Header,
	}, nil
}

func (c *Client) observe(status int, err error, start time.Time) {
	if c.cfg.Observer != nil {
		c.cfg.Observer(c.cfg.Name, status, err, time.Since(start))
	}
}
