package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mandalnilabja/llamarelay/internal/relay"
	"github.com/mandalnilabja/llamarelay/internal/types"
)

func TestLoadConversation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conv.yaml")
	content := `model: qwen2.5
messages:
  - role: system
    content: Be brief.
  - role: user
    content: Hi
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	conv, err := LoadConversation(path)
	if err != nil {
		t.Fatalf("LoadConversation failed: %v", err)
	}
	if conv.Model != "qwen2.5" || len(conv.Messages) != 2 {
		t.Fatalf("unexpected conversation %+v", conv)
	}
	if err := conv.Validate(); err != nil {
		t.Errorf("expected valid conversation: %v", err)
	}

	msgs := conv.ToMessages()
	if msgs[0].Role != types.RoleSystem || msgs[1].Content.String() != "Hi" {
		t.Errorf("unexpected messages %+v", msgs)
	}
}

func TestConversationValidate(t *testing.T) {
	tests := []struct {
		name string
		conv Conversation
	}{
		{"no model", Conversation{Messages: []ConversationMessage{{Role: "user", Content: "x"}}}},
		{"no messages", Conversation{Model: "llama3"}},
		{"bad role", Conversation{Model: "llama3", Messages: []ConversationMessage{{Role: "tool", Content: "x"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.conv.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestChatPrintsReply(t *testing.T) {
	tests := []struct {
		name    string
		stream  bool
		handler http.HandlerFunc
		want    string
		wantErr bool
	}{
		{
			name:   "streamed",
			stream: true,
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", types.EventStreamContentType)
				_, _ = io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"pong\"}}]}\n\ndata: [DONE]\n\n")
			},
			want: "pong\n",
		},
		{
			name:   "non-streamed",
			stream: false,
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"pong"}}]}`)
			},
			want: "pong\n",
		},
		{
			name:   "plain text",
			stream: true,
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				_, _ = io.WriteString(w, "down for maintenance")
			},
			want: "down for maintenance\n",
		},
		{
			name:   "empty stream",
			stream: true,
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", types.EventStreamContentType)
				_, _ = io.WriteString(w, "data: [DONE]\n\n")
			},
			want:    "\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			conv := &Conversation{Model: "llama3", Messages: []ConversationMessage{{Role: "user", Content: "ping"}}}
			var out bytes.Buffer
			err := chat(context.Background(), relay.NewClient(srv.URL, relay.WithTick(time.Millisecond)), conv, tt.stream, &out)

			if (err != nil) != tt.wantErr {
				t.Errorf("unexpected error state: %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("expected output %q, got %q", tt.want, out.String())
			}
		})
	}
}

func TestHashCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"hash", "secret-code"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("hash command failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "$argon2id$") {
		t.Errorf("expected argon2id hash, got %q", out.String())
	}
}
