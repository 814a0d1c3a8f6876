package awsclient

import (
	"log/slog"
	"net/http"

	"github.com/streamforge/awsclient/transport"
)

// Config collects runtime configuration. Service packages may inspect it to
// derive defaults (such as a regional endpoint) before calling New.
type Config struct {
	// Endpoint is the base URL requests are sent to.
	Endpoint string

	// Region names the AWS region, used by service packages to derive a
	// default endpoint when none is set.
	Region string

	// HTTPClient overrides the transport's underlying *http.Client.
	HTTPClient *http.Client

	// MaxRetries bounds transport-level resends. Default 3; 0 disables.
	MaxRetries int

	// Logger receives debug-level operation and transport traces.
	Logger *slog.Logger

	// UserAgent overrides the User-Agent header.
	UserAgent string

	// Transport replaces the HTTP transport entirely, mainly for tests.
	Transport transport.RoundTripper
}

// Option configures a runtime Client.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Region:     "us-east-1",
		MaxRetries: 3,
		Logger:     slog.New(slog.DiscardHandler),
	}
}

// WithEndpoint sets the base URL requests are sent to. Required unless a
// custom transport is supplied or the service package derives one from the
// region.
func WithEndpoint(endpoint string) Option {
	return func(c *Config) {
		c.Endpoint = endpoint
	}
}

// WithRegion sets the AWS region used for endpoint derivation.
func WithRegion(region string) Option {
	return func(c *Config) {
		if region != "" {
			c.Region = region
		}
	}
}

// WithHTTPClient sets the underlying *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithMaxRetries sets the maximum number of transport-level resends for
// failed requests. Default is 3. Set to 0 to disable retries.
func WithMaxRetries(maxRetries int) Option {
	return func(c *Config) {
		c.MaxRetries = maxRetries
	}
}

// WithLogger enables debug tracing through the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithUserAgent overrides the User-Agent request header.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTransport replaces the HTTP transport entirely. Mainly useful for
// tests and custom wire handling.
func WithTransport(rt transport.RoundTripper) Option {
	return func(c *Config) {
		c.Transport = rt
	}
}
