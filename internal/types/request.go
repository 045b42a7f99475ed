package types

// ChatRequest is the body the relay client sends to the gateway.
type ChatRequest struct {
	Messages []Message `json:"messages"`
	Model    string    `json:"model"`
	Stream   bool      `json:"stream"`
}

// IsStreaming returns true if this is a streaming request.
func (r *ChatRequest) IsStreaming() bool {
	return r.Stream
}
