package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mandalnilabja/llamarelay/internal/types"
)

// Defaults for a Client.
const (
	DefaultConnectTimeout = 60 * time.Second
	DefaultTick           = 16 * time.Millisecond
	DefaultMaxEventSize   = 1 << 20
)

// ChatPath is the gateway route the client posts chats to.
var ChatPath = "api/ollama/" + string(types.OllamaOpenAICompatibleChatPath)

// Client talks to a llamarelay gateway.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	apiKey         string
	provider       string
	connectTimeout time.Duration
	tick           time.Duration
	maxEventSize   int
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithAPIKey sends key as a bearer credential. Access codes go here too.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithProvider sets the provider tag. Moderation results are only logged for
// types.ProviderAzure.
func WithProvider(name string) Option {
	return func(c *Client) { c.provider = name }
}

// WithConnectTimeout bounds the wait for response headers.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) { c.connectTimeout = d }
}

// WithTick sets the pacing interval.
func WithTick(d time.Duration) Option {
	return func(c *Client) { c.tick = d }
}

// WithMaxEventSize bounds a single server-sent event.
func WithMaxEventSize(n int) Option {
	return func(c *Client) { c.maxEventSize = n }
}

// WithLogger sets the logger for skipped events and moderation results.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the gateway at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     http.DefaultClient,
		provider:       types.ProviderOllama,
		connectTimeout: DefaultConnectTimeout,
		tick:           DefaultTick,
		maxEventSize:   DefaultMaxEventSize,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path joins a gateway route onto the base URL.
func (c *Client) Path(route string) string {
	return c.baseURL + "/" + strings.TrimLeft(route, "/")
}

// Chat sends one chat and blocks until its terminal callback has run.
// Failures are reported through OnError, never returned or panicked.
func (c *Client) Chat(ctx context.Context, opts ChatOptions) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	ctrl := newController(cancel)
	if opts.OnController != nil {
		opts.OnController(ctrl)
	}

	req, err := c.newChatRequest(ctx, &opts)
	if err != nil {
		opts.fail(err)
		if opts.Config.Stream {
			opts.finish("")
		}
		return
	}

	if opts.Config.Stream {
		c.stream(ctx, cancel, req, &opts)
		return
	}
	c.chatOnce(ctx, cancel, req, &opts)
}

func (c *Client) newChatRequest(ctx context.Context, opts *ChatOptions) (*http.Request, error) {
	payload := types.ChatRequest{
		Messages: opts.Messages,
		Model:    opts.Config.Model,
		Stream:   opts.Config.Stream,
	}
	if payload.Messages == nil {
		payload.Messages = []types.Message{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Path(ChatPath), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if opts.Config.Stream {
		req.Header.Set("Accept", types.EventStreamContentType)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

// chatOnce handles a non-streamed chat: one JSON body, one OnFinish.
func (c *Client) chatOnce(ctx context.Context, cancel context.CancelCauseFunc, req *http.Request, opts *ChatOptions) {
	timer := time.AfterFunc(c.connectTimeout, func() { cancel(ErrConnectTimeout) })
	resp, err := c.httpClient.Do(req)
	timer.Stop()
	if err != nil {
		opts.fail(requestError(ctx, err))
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		opts.fail(requestError(ctx, err))
		return
	}
	if resp.StatusCode != http.StatusOK {
		opts.fail(&StatusError{StatusCode: resp.StatusCode, Message: diagnostic("", resp.StatusCode, body)})
		return
	}

	var reply types.ChatResponse
	if err := json.Unmarshal(body, &reply); err != nil {
		opts.fail(fmt.Errorf("decode chat response: %w", err))
		return
	}
	opts.finish(reply.Text())
}

// Usage reports account usage. The gateway has no usage endpoint.
func (c *Client) Usage(ctx context.Context) types.LLMUsage {
	return types.LLMUsage{}
}

// Models lists the models offered through the gateway. The gateway does not
// enumerate models, so the list is always empty.
func (c *Client) Models(ctx context.Context) []types.LLMModel {
	return []types.LLMModel{}
}

// StatusError is a non-200 gateway answer.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
}

// requestError prefers the cancellation cause over the transport's wrapping.
func requestError(ctx context.Context, err error) error {
	if cause := context.Cause(ctx); cause != nil && cause != context.Canceled {
		return cause
	}
	return err
}
