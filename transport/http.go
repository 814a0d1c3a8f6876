package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/streamforge/awsclient/errors"
)

const defaultUserAgent = "streamforge-awsclient/1.0"

var noopLogger = slog.New(slog.DiscardHandler)

// HTTP is the net/http backed RoundTripper. Failed exchanges are retried
// with exponential backoff when the request body can be rewound; a body
// whose source cannot restart after partial consumption makes the request
// single-shot.
type HTTP struct {
	endpoint   *url.URL
	client     *http.Client
	logger     *slog.Logger
	userAgent  string
	maxRetries uint64
}

// HTTPOption configures the HTTP transport.
type HTTPOption func(*HTTP)

// WithHTTPClient sets the underlying *http.Client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(t *HTTP) {
		if client != nil {
			t.client = client
		}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) HTTPOption {
	return func(t *HTTP) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithMaxRetries sets how many times a failed exchange is retried.
// Default is 3. Set to 0 to disable retries.
func WithMaxRetries(n int) HTTPOption {
	return func(t *HTTP) {
		if n >= 0 {
			t.maxRetries = uint64(n)
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(t *HTTP) {
		if ua != "" {
			t.userAgent = ua
		}
	}
}

// NewHTTP returns an HTTP transport aimed at the given endpoint base URL.
func NewHTTP(endpoint string, opts ...HTTPOption) (*HTTP, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.NewError("transport.new", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.NewError("transport.new", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("endpoint %q must be an absolute URL", endpoint))
	}

	t := &HTTP{
		endpoint:   u,
		client:     http.DefaultClient,
		logger:     noopLogger,
		userAgent:  defaultUserAgent,
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// statusError marks a response whose status is worth retrying.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("retryable status %d", e.code)
}

// Do implements RoundTripper. The same invocation id is carried across all
// attempts of one logical request.
func (t *HTTP) Do(ctx context.Context, req *Request) (*Response, error) {
	invocationID := uuid.NewString()

	var resp *Response
	attempt := 0
	op := func() error {
		if attempt > 0 && req.Body != nil {
			// A resend may only happen against a restartable body.
			if err := req.Body.Rewind(); err != nil {
				return backoff.Permanent(err)
			}
		}
		attempt++

		r, err := t.roundTrip(ctx, req, invocationID, attempt)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		if retryableStatus(r.StatusCode) {
			r.Body.Close()
			return &statusError{code: r.StatusCode}
		}
		resp = r
		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), t.maxRetries),
		ctx,
	)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, errors.NewError("transport.do", err)
	}
	return resp, nil
}

func (t *HTTP) roundTrip(ctx context.Context, req *Request, invocationID string, attempt int) (*Response, error) {
	u := *t.endpoint
	u.Path = strings.TrimSuffix(t.endpoint.Path, "/") + req.Path
	u.RawQuery = req.Query.Encode()

	var rdr io.Reader
	if req.Body != nil {
		// Hide Close from net/http so the body survives for a retry;
		// its owner closes it once the operation settles.
		rdr = io.NopCloser(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), rdr)
	if err != nil {
		return nil, err
	}

	if req.Body != nil {
		if n, ok := req.Body.ContentLength(); ok {
			httpReq.ContentLength = n
		} else {
			// Unknown length falls through to chunked transfer encoding.
			httpReq.ContentLength = -1
		}
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("User-Agent", t.userAgent)
	httpReq.Header.Set("Amz-Sdk-Invocation-Id", invocationID)
	httpReq.Header.Set("Amz-Sdk-Request", fmt.Sprintf("attempt=%d; max=%d", attempt, t.maxRetries+1))

	t.logger.DebugContext(ctx, "sending request",
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Int("attempt", attempt),
		slog.Int64("content_length", httpReq.ContentLength),
	)

	res, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}

	t.logger.DebugContext(ctx, "received response",
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Int("status", res.StatusCode),
	)

	return &Response{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       res.Body,
	}, nil
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
