// Package relay is the client side of the gateway. It sends a chat request to
// /api/ollama/v1/chat/completions, reads the event stream, and releases the
// text to the caller at a steady pace through callbacks.
package relay

import (
	"context"
	"errors"
	"sync"

	"github.com/mandalnilabja/llamarelay/internal/types"
)

var (
	// ErrEmptyResponse is reported when a chat ends without any text.
	ErrEmptyResponse = errors.New("empty response from server")

	// ErrConnectTimeout is reported when the gateway does not answer in time.
	ErrConnectTimeout = errors.New("request timed out waiting for response headers")

	// ErrAborted is the cancellation cause of a user abort.
	ErrAborted = errors.New("request aborted")
)

// ChatConfig selects the model and delivery mode of a chat.
type ChatConfig struct {
	Model  string
	Stream bool
}

// Callbacks receive the progress of a chat. Any of them may be nil.
//
// OnController runs first, before any I/O. OnUpdate runs zero or more times
// with a strictly growing partial text. OnError may run once or twice. For a
// streamed chat OnFinish always runs exactly once and is the last callback.
type Callbacks struct {
	OnUpdate     func(partial, delta string)
	OnFinish     func(message string)
	OnError      func(err error)
	OnController func(ctrl *Controller)
}

// ChatOptions is one chat invocation.
type ChatOptions struct {
	Messages []types.Message
	Config   ChatConfig
	Callbacks
}

func (o *ChatOptions) update(partial, delta string) {
	if o.OnUpdate != nil {
		o.OnUpdate(partial, delta)
	}
}

func (o *ChatOptions) finish(message string) {
	if o.OnFinish != nil {
		o.OnFinish(message)
	}
}

func (o *ChatOptions) fail(err error) {
	if o.OnError != nil {
		o.OnError(err)
	}
}

// Controller aborts an in-flight chat. It is safe for concurrent use.
type Controller struct {
	cancel context.CancelCauseFunc
	once   sync.Once
	done   chan struct{}
}

func newController(cancel context.CancelCauseFunc) *Controller {
	return &Controller{cancel: cancel, done: make(chan struct{})}
}

// Abort stops the chat. The text received so far is still delivered through
// OnFinish. Calling Abort more than once, or after the chat ended, is a no-op.
func (c *Controller) Abort() {
	c.once.Do(func() {
		c.cancel(ErrAborted)
		close(c.done)
	})
}

// Aborted reports whether Abort has been called.
func (c *Controller) Aborted() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
