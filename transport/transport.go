// Package transport carries serialized requests to the service endpoint.
//
// The RoundTripper interface is the seam between the typed service clients
// and the network: operations are serialized into a method/path/query/header
// tuple plus a streaming request body, and the transport decides how to
// signal the payload length on the wire and performs the actual I/O.
package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/streamforge/awsclient/body"
)

// Request is a serialized operation ready to be sent. Path is unescaped;
// the transport applies URL escaping when it builds the wire request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header

	// Body is the streaming payload, or nil for bodyless operations.
	Body *body.RequestBody
}

// Response is the service's answer. The caller owns Body and must close it.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// RoundTripper performs a single request/response exchange. Implementations
// choose between a Content-Length header and chunked transfer encoding
// based on the body's declared length, and may resend the request only
// after a successful body Rewind.
type RoundTripper interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}
