package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/tmaxmax/go-sse"

	"github.com/mandalnilabja/llamarelay/internal/types"
)

type eventKind int

const (
	eventDelta   eventKind = iota // text to pace out
	eventReplace                  // final text, ends the stream
	eventDone                     // [DONE] sentinel
	eventClosed                   // body ended
	eventError                    // transport or read failure
)

type streamEvent struct {
	kind eventKind
	text string
	err  error
}

// stream runs a streamed chat. One goroutine reads the response and sends
// events; this goroutine owns the StreamState, paces it on a ticker and runs
// every callback.
func (c *Client) stream(ctx context.Context, cancel context.CancelCauseFunc, req *http.Request, opts *ChatOptions) {
	events := make(chan streamEvent)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(events)
		c.ingest(ctx, cancel, req, events)
	}()

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	var state StreamState
loop:
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				break loop
			}
			switch ev.kind {
			case eventDelta:
				state.Push(ev.text)
				continue
			case eventReplace:
				state.Replace(ev.text)
			case eventError:
				opts.fail(ev.err)
			}
			break loop
		case <-ticker.C:
			if partial, delta, ok := state.Tick(); ok {
				opts.update(partial, delta)
			}
		case <-ctx.Done():
			break loop
		}
	}

	if errors.Is(context.Cause(ctx), ErrConnectTimeout) {
		opts.fail(ErrConnectTimeout)
	}
	final, residue, _ := state.Finish()
	// Stop the reader and wait for it so nothing outlives Chat.
	cancel(nil)
	for range events {
	}
	wg.Wait()

	// Text still queued at the end is released in one last update.
	if residue != "" {
		opts.update(final, residue)
	}
	if final == "" {
		opts.fail(ErrEmptyResponse)
	}
	opts.finish(final)
}

// ingest performs the request and turns the response into stream events.
func (c *Client) ingest(ctx context.Context, cancel context.CancelCauseFunc, req *http.Request, out chan<- streamEvent) {
	send := func(ev streamEvent) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	timer := time.AfterFunc(c.connectTimeout, func() { cancel(ErrConnectTimeout) })
	resp, err := c.httpClient.Do(req)
	timer.Stop()
	if err != nil {
		if ctx.Err() == nil {
			send(streamEvent{kind: eventError, err: err})
		}
		return
	}
	defer resp.Body.Close()

	if final, ok := classifyOpen(resp); ok {
		send(streamEvent{kind: eventReplace, text: final})
		return
	}

	cfg := &sse.ReadConfig{MaxEventSize: c.maxEventSize}
	for ev, err := range sse.Read(resp.Body, cfg) {
		if err != nil {
			if ctx.Err() == nil {
				send(streamEvent{kind: eventError, err: fmt.Errorf("read stream event: %w", err)})
			}
			return
		}
		if ev.Data == types.SSEDone {
			send(streamEvent{kind: eventDone})
			return
		}

		var chunk types.ChatCompletionChunk
		if err := json.Unmarshal([]byte(ev.Data), &chunk); err != nil {
			c.logger.Warn("skipping malformed stream event", "error", err, "data", ev.Data)
			continue
		}
		c.logModeration(&chunk)

		if delta := chunk.DeltaContent(); delta != "" {
			if !send(streamEvent{kind: eventDelta, text: delta}) {
				return
			}
		}
	}
	send(streamEvent{kind: eventClosed})
}

// logModeration records Azure's content filter verdicts.
func (c *Client) logModeration(chunk *types.ChatCompletionChunk) {
	if c.provider != types.ProviderAzure || len(chunk.PromptFilterResults) == 0 {
		return
	}
	results := chunk.PromptFilterResults[0].ContentFilterResults
	c.logger.Info("text moderation flagged categories",
		"provider", c.provider,
		"results", string(results),
	)
}
