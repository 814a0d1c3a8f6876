// Package testutil provides test doubles for the transport seam and
// instrumented body sources. Internal to this module's tests.
package testutil

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/streamforge/awsclient/transport"
)

// RecordedRequest is one request a MockRoundTripper received, with its body
// fully drained so tests can assert on the bytes that would have hit the
// wire.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Header        http.Header
	Body          []byte
	ContentLength int64
	LengthKnown   bool
}

// MockRoundTripper implements transport.RoundTripper through a function
// field, recording every request it sees. The zero value answers every
// request with 200 and an empty body.
type MockRoundTripper struct {
	// DoFunc, when set, produces the response for each request. The
	// request's body has already been drained into RecordedRequest by the
	// time DoFunc runs.
	DoFunc func(ctx context.Context, req *transport.Request, rec RecordedRequest) (*transport.Response, error)

	mu       sync.Mutex
	requests []RecordedRequest
}

// Do implements transport.RoundTripper.
func (m *MockRoundTripper) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	rec := RecordedRequest{
		Method: req.Method,
		Path:   req.Path,
		Query:  req.Query.Encode(),
		Header: req.Header,
	}
	if req.Body != nil {
		rec.ContentLength, rec.LengthKnown = req.Body.ContentLength()
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		rec.Body = data
	}

	m.mu.Lock()
	m.requests = append(m.requests, rec)
	m.mu.Unlock()

	if m.DoFunc != nil {
		return m.DoFunc(ctx, req, rec)
	}
	return Response(http.StatusOK, ""), nil
}

// Requests returns a copy of everything recorded so far.
func (m *MockRoundTripper) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Response builds a transport response with the given status and body.
func Response(status int, responseBody string) *transport.Response {
	return &transport.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(responseBody)),
	}
}

// XMLResponse builds a transport response carrying an XML payload.
func XMLResponse(status int, payload string) *transport.Response {
	res := Response(status, payload)
	res.Header.Set("Content-Type", "application/xml")
	return res
}
