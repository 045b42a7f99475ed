// Package provider defines how the gateway forwards requests to an upstream server.
package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

// ErrStreamingUnsupported is returned when the response writer cannot flush.
var ErrStreamingUnsupported = errors.New("response writer does not support flushing")

// Provider defines the interface an upstream must implement
type Provider interface {
	// Name returns the provider tag handed to the authorization collaborator
	Name() string

	// BaseURL returns the normalized upstream base URL
	BaseURL() string

	// PrepareRequest sets the headers the upstream receives
	PrepareRequest(ctx context.Context, req *http.Request) error

	// ProxyRequest forwards req and streams the upstream response into w.
	// MUST maintain streaming semantics (no buffering)
	// Returns ProxyResult with request metadata for logging
	ProxyRequest(ctx context.Context, w http.ResponseWriter, req *http.Request, opts *ProxyOptions) (*ProxyResult, error)
}

// ProxyOptions contains options for proxying a request
type ProxyOptions struct {
	// RequestID for tracing
	RequestID string

	// Subpath is the validated upstream path, without a leading slash
	Subpath string

	// RawQuery is the inbound query string, forwarded verbatim
	RawQuery string

	// Body replaces req.Body when set
	Body io.Reader
}

// ProxyResult contains the result of a proxied request
type ProxyResult struct {
	// StatusCode returned to the client
	StatusCode int

	// Duration from forward to end of relay
	Duration time.Duration

	// BytesRelayed counts upstream body bytes written to the client
	BytesRelayed int64

	// IsStreaming is true when the upstream answered with an event stream
	IsStreaming bool

	// Error info (if any)
	Error        error
	ErrorMessage string
}
