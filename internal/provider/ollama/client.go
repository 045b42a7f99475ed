// Package ollama implements the Ollama upstream provider.
package ollama

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mandalnilabja/llamarelay/internal/provider"
	"github.com/mandalnilabja/llamarelay/internal/types"
)

// DefaultTimeout aborts a forward that has not completed in time.
const DefaultTimeout = 10 * time.Minute

// Provider forwards allow-listed requests to an Ollama server.
type Provider struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	tracer  trace.Tracer
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient replaces the upstream client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

// WithTimeout replaces DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) { p.timeout = d }
}

// WithTracerProvider records forward spans with tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Provider) { p.tracer = tp.Tracer(tracerName) }
}

const tracerName = "github.com/mandalnilabja/llamarelay/internal/provider/ollama"

// New creates an Ollama provider. An empty baseURL selects the default server.
func New(baseURL string, opts ...Option) *Provider {
	p := &Provider{
		baseURL: NormalizeBaseURL(baseURL),
		timeout: DefaultTimeout,
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client, _ = NewHTTPClient("") // cannot fail without a proxy
	}
	return p
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return types.ProviderOllama
}

// BaseURL returns the normalized upstream base URL
func (p *Provider) BaseURL() string {
	return p.baseURL
}

// PrepareRequest sends only a JSON content type upstream. Client credentials
// and cookies stay at the gateway.
func (p *Provider) PrepareRequest(ctx context.Context, req *http.Request) error {
	req.Header = make(http.Header)
	req.Header.Set("Content-Type", "application/json")
	return nil
}

// ProxyRequest forwards req to the upstream and relays the response.
// CRITICAL: Maintains streaming semantics with no buffering.
func (p *Provider) ProxyRequest(ctx context.Context, w http.ResponseWriter, req *http.Request, opts *provider.ProxyOptions) (*provider.ProxyResult, error) {
	startTime := time.Now()
	result := &provider.ProxyResult{}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	target := UpstreamURL(p.baseURL, opts.Subpath, opts.RawQuery)

	ctx, span := p.tracer.Start(ctx, "ollama.forward",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("llamarelay.subpath", opts.Subpath),
			attribute.String("llamarelay.request_id", opts.RequestID),
		),
	)
	defer span.End()

	var body io.Reader = req.Body
	if opts.Body != nil {
		body = opts.Body
	}
	if req.Method == http.MethodGet || req.Method == http.MethodHead {
		body = nil
	}

	upstreamReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return p.fail(w, span, result, startTime, err)
	}
	if err := p.PrepareRequest(ctx, upstreamReq); err != nil {
		return p.fail(w, span, result, startTime, err)
	}

	resp, err := p.client.Do(upstreamReq)
	if err != nil {
		return p.fail(w, span, result, startTime, err)
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.IsStreaming = strings.Contains(resp.Header.Get("Content-Type"), types.EventStreamContentType)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	copyResponseHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)

	n, err := pump(w, resp.Body)
	result.BytesRelayed = n
	result.Duration = time.Since(startTime)
	if err != nil {
		// headers are already sent, so the client only sees a truncated body
		result.Error = err
		result.ErrorMessage = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, "relay interrupted")
	}

	return result, err
}

// fail writes the transport failure diagnostic.
func (p *Provider) fail(w http.ResponseWriter, span trace.Span, result *provider.ProxyResult, start time.Time, err error) (*provider.ProxyResult, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "upstream transport failure")

	result.StatusCode = http.StatusBadGateway
	result.Duration = time.Since(start)
	result.Error = err
	result.ErrorMessage = err.Error()

	types.WriteJSON(w, http.StatusBadGateway, types.GatewayError{
		Error: true,
		Msg:   err.Error(),
		Type:  types.GatewayErrorTransportFailure,
	})
	return result, err
}
