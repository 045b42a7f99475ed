package types

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestContentRoundTripShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain text", `{"role":"user","content":"hello"}`, "hello"},
		{"multimodal parts", `{"role":"user","content":[{"type":"text","text":"look "},{"type":"image_url","image_url":{"url":"data:x"}},{"type":"text","text":"here"}]}`, "look here"},
		{"null content", `{"role":"assistant","content":null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Message
			if err := json.Unmarshal([]byte(tt.raw), &m); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := m.Content.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestContentMarshalPrefersParts(t *testing.T) {
	msg := NewImageMessage(RoleUser, "what is this", "https://example.com/cat.png")
	b, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"role":"user","content":[{"type":"text","text":"what is this"},{"type":"image_url","image_url":{"url":"https://example.com/cat.png"}}]}`
	if string(b) != want {
		t.Errorf("expected %s, got %s", want, b)
	}
}

func TestDeltaContent(t *testing.T) {
	var chunk ChatCompletionChunk
	if got := chunk.DeltaContent(); got != "" {
		t.Errorf("expected empty delta for no choices, got %q", got)
	}

	raw := `{"choices":[{"index":0,"delta":{"content":"Hi"}}],"prompt_filter_results":[{"prompt_index":0,"content_filter_results":{"hate":{"filtered":false}}}]}`
	if err := json.Unmarshal([]byte(raw), &chunk); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := chunk.DeltaContent(); got != "Hi" {
		t.Errorf("expected %q, got %q", "Hi", got)
	}
	if len(chunk.PromptFilterResults) != 1 {
		t.Fatalf("expected 1 filter result, got %d", len(chunk.PromptFilterResults))
	}
}

func TestChatResponseText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"ollama native", `{"model":"llama3","message":{"role":"assistant","content":"native"},"done":true}`, "native"},
		{"openai compatible", `{"choices":[{"index":0,"message":{"role":"assistant","content":"compat"}}]}`, "compat"},
		{"missing content", `{"done":true}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp ChatResponse
			if err := json.Unmarshal([]byte(tt.raw), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := resp.Text(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPrettyObject(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string is fenced", "oops", "```json\noops\n```"},
		{"already fenced", "```json\n{}\n```", "```json\n{}\n```"},
		{"map is indented", map[string]any{"error": "bad"}, "```json\n{\n  \"error\": \"bad\"\n}\n```"},
		{"error falls back to text", errors.New("dial tcp: refused"), "dial tcp: refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrettyObject(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
