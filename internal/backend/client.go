// Package backend implements the single-request transport to the MemCommerce
// REST backend. Every failure is normalized to *Error.
package backend

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/memcommerce-mcp/pkg/httpmiddleware"
)

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 32 << 20

// Body is a request payload that can write itself as JSON.
type Body interface {
	Encode(e *jx.Encoder)
}

type options struct {
	httpClient     *http.Client
	timeout        time.Duration
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	userAgent      string
	probePath      string
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient sets the underlying HTTP client. Its transport is wrapped
// with OpenTelemetry instrumentation.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTimeout limits every request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithTracerProvider sets the tracer provider for outbound request spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider for outbound request metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithProbePath sets the path requested by Ping.
func WithProbePath(p string) Option {
	return func(o *options) { o.probePath = p }
}

// Client performs JSON requests against the backend. It is safe for
// concurrent use; all requests share one connection pool.
type Client struct {
	base      string
	http      *http.Client
	userAgent string
	probePath string
}

// New creates a Client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, errors.Errorf("base url %q: missing host", baseURL)
	}

	o := options{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
		userAgent:      "memcommerce-mcp",
		probePath:      "/categories/",
	}
	for _, opt := range opts {
		opt(&o)
	}

	hc := &http.Client{}
	if o.httpClient != nil {
		*hc = *o.httpClient
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = otelhttp.NewTransport(base,
		otelhttp.WithTracerProvider(o.tracerProvider),
		otelhttp.WithMeterProvider(o.meterProvider),
	)
	if o.timeout > 0 {
		hc.Timeout = o.timeout
	}

	return &Client{
		base:      strings.TrimRight(u.String(), "/"),
		http:      hc,
		userAgent: o.userAgent,
		probePath: o.probePath,
	}, nil
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string {
	return c.base
}

// URL returns the collection endpoint for a path segment, e.g.
// "sizes" -> "{base}/sizes/".
func (c *Client) URL(segment string) string {
	return c.base + "/" + strings.Trim(segment, "/") + "/"
}

// Do performs exactly one request to the collection endpoint for segment and
// returns the raw JSON response. body may be nil. Any failure is an *Error.
func (c *Client) Do(ctx context.Context, method, segment string, body Body) (jx.Raw, error) {
	target := c.URL(segment)
	fail := func(status int, data []byte, err error) (jx.Raw, error) {
		return nil, &Error{
			Method:     method,
			URL:        target,
			StatusCode: status,
			Body:       snippet(data),
			Err:        err,
		}
	}

	var payload io.Reader
	if body != nil {
		var e jx.Encoder
		body.Encode(&e)
		payload = bytes.NewReader(e.Bytes())
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return fail(0, nil, errors.Wrap(err, "create request"))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := httpmiddleware.RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
	}
	req.Header.Set("X-Request-ID", reqID)

	lg := zctx.From(ctx).With(
		zap.String("method", method),
		zap.String("url", target),
		zap.String("request_id", reqID),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		lg.Warn("Backend request failed", zap.Error(err))
		return fail(0, nil, errors.Wrap(err, "send request"))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fail(resp.StatusCode, nil, errors.Wrap(err, "read body"))
	}

	lg.Debug("Backend request",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.Int("bytes", len(data)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, data, ErrStatus)
	}
	if !jx.Valid(data) {
		return fail(resp.StatusCode, data, ErrInvalidJSON)
	}
	return data, nil
}

// Ping checks that the backend answers the probe path with a JSON 2xx.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Do(ctx, http.MethodGet, c.probePath, nil)
	return err
}
