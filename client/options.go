package client

import (
	"net/http"
	"time"

	"github.com/gate4ai/jsonrpc"
	"go.uber.org/zap"
)

// Option configures a Client at construction time.
type Option func(*Client)

// WithTimeout bounds every HTTP round trip (connect, write, and read
// combined). Defaults to 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger attaches a logger for transport diagnostics. Defaults to
// zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient overrides the underlying *http.Client, e.g. to install a
// custom transport or TLS configuration.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithConverters installs a pre-populated converter registry instead of a
// fresh one, so the client can share user-registered type conversions with
// a server's registry.
func WithConverters(converters *jsonrpc.ConverterRegistry) Option {
	return func(c *Client) {
		if converters != nil {
			c.converters = converters
		}
	}
}
