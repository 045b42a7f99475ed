package types

import "encoding/json"

// ChatCompletionChunk represents one event of an OpenAI-compatible stream.
type ChatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"` // "chat.completion.chunk"
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`

	// PromptFilterResults is Azure's content moderation extension.
	PromptFilterResults []PromptFilterResult `json:"prompt_filter_results,omitempty"`
}

// ChunkChoice represents a choice in a streaming chunk.
type ChunkChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"` // Pointer to distinguish null from ""
}

// Delta represents the incremental content in a streaming chunk.
type Delta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// PromptFilterResult carries the moderation verdict for one prompt.
type PromptFilterResult struct {
	PromptIndex          int             `json:"prompt_index"`
	ContentFilterResults json.RawMessage `json:"content_filter_results,omitempty"`
}

// DeltaContent returns the first choice's delta text, or "" when absent.
func (c *ChatCompletionChunk) DeltaContent() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Delta.Content
}

// SSE constants

// SSEDone is the sentinel payload that ends a stream.
const SSEDone = "[DONE]"

// EventStreamContentType is the media type of a server-sent event stream.
const EventStreamContentType = "text/event-stream"

// SSEPrefix is the Server-Sent Events data prefix.
const SSEPrefix = "data: "

// FormatSSE formats a payload for Server-Sent Events transmission.
func FormatSSE(data []byte) []byte {
	result := make([]byte, 0, len(SSEPrefix)+len(data)+2)
	result = append(result, SSEPrefix...)
	result = append(result, data...)
	result = append(result, '\n', '\n')
	return result
}
