// Package awsclient provides the shared runtime for the typed AWS service
// clients in this module: endpoint configuration, the HTTP transport, and
// request execution.
package awsclient

import (
	"context"
	"log/slog"

	"github.com/streamforge/awsclient/errors"
	"github.com/streamforge/awsclient/transport"
)

// Client is the service-agnostic runtime handed to each typed service
// client. It owns the transport and logger; serialization and response
// decoding stay with the service packages.
type Client struct {
	transport transport.RoundTripper
	logger    *slog.Logger
}

// New creates a runtime Client with the provided options. Unless a custom
// transport is supplied, an HTTP transport is built for the configured
// endpoint.
//
// Example:
//
//	client, err := awsclient.New(
//	    awsclient.WithEndpoint("https://s3.eu-west-1.amazonaws.com"),
//	    awsclient.WithMaxRetries(5),
//	)
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	rt := cfg.Transport
	if rt == nil {
		if cfg.Endpoint == "" {
			return nil, errors.NewError("client.new", errors.ErrInvalidInput).
				WithMessage("an endpoint or a custom transport is required")
		}
		var err error
		rt, err = transport.NewHTTP(cfg.Endpoint,
			transport.WithHTTPClient(cfg.HTTPClient),
			transport.WithLogger(cfg.Logger),
			transport.WithMaxRetries(cfg.MaxRetries),
			transport.WithUserAgent(cfg.UserAgent),
		)
		if err != nil {
			return nil, err
		}
	}

	return &Client{
		transport: rt,
		logger:    cfg.Logger,
	}, nil
}

// Do sends a serialized request through the configured transport.
func (c *Client) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	return c.transport.Do(ctx, req)
}

// Logger returns the client's logger for service packages to trace with.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}
