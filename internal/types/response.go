package types

// ChatResponse is a non-streaming chat reply. Ollama's native endpoints put the
// text in Message; OpenAI-compatible endpoints put it in Choices.
type ChatResponse struct {
	Model   string   `json:"model,omitempty"`
	Message *Message `json:"message,omitempty"`
	Choices []Choice `json:"choices,omitempty"`
	Done    bool     `json:"done,omitempty"`
}

// Choice represents a single completion choice.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// Text extracts the assistant text, defaulting to "".
func (r *ChatResponse) Text() string {
	if r == nil {
		return ""
	}
	if r.Message != nil {
		return r.Message.Content.String()
	}
	if len(r.Choices) > 0 {
		return r.Choices[0].Message.Content.String()
	}
	return ""
}

// LLMUsage reports account usage. The Ollama upstream has no such endpoint.
type LLMUsage struct {
	Used  int64 `json:"used"`
	Total int64 `json:"total"`
}

// LLMModel describes a model offered by a provider.
type LLMModel struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Available   bool   `json:"available"`
	Provider    string `json:"provider,omitempty"`
}
