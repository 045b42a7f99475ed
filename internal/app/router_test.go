package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mandalnilabja/llamarelay/internal/auth"
	"github.com/mandalnilabja/llamarelay/internal/provider/ollama"
	"github.com/mandalnilabja/llamarelay/internal/relay"
	"github.com/mandalnilabja/llamarelay/internal/transport/http/handler"
	"github.com/mandalnilabja/llamarelay/internal/types"
)

func newGateway(t *testing.T, authorizer auth.Authorizer) *httptest.Server {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", types.EventStreamContentType)
		for _, part := range []string{"Hel", "lo"} {
			_, _ = io.WriteString(w, `data: {"choices":[{"index":0,"delta":{"content":"`+part+`"}}]}`+"\n\n")
			w.(http.Flusher).Flush()
		}
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(upstream.Close)

	logger := slog.New(slog.DiscardHandler)
	repo := handler.NewRepo(ollama.New(upstream.URL), authorizer, nil, nil, logger)
	gateway := httptest.NewServer(NewRouter(repo, &RouterOptions{Logger: logger}))
	t.Cleanup(gateway.Close)
	return gateway
}

func TestRouterPublicRoutes(t *testing.T) {
	gateway := newGateway(t, nil)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusNotFound},
		{http.MethodOptions, "/api/ollama/api/chat", http.StatusOK},
		{http.MethodPost, "/api/ollama/api/tags", http.StatusForbidden},
		{http.MethodDelete, "/api/ollama/api/chat", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/admin/info", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, gateway.URL+tt.path, nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("expected %d, got %d", tt.want, resp.StatusCode)
			}
			if resp.Header.Get("X-Request-ID") == "" {
				t.Error("expected X-Request-ID on every response")
			}
			if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
				t.Error("expected CORS headers on every response")
			}
		})
	}
}

func TestRouterRelayRoundTrip(t *testing.T) {
	gateway := newGateway(t, nil)

	var deltas []string
	var final string
	client := relay.NewClient(gateway.URL, relay.WithTick(time.Millisecond))
	client.Chat(context.Background(), relay.ChatOptions{
		Messages: []types.Message{types.NewTextMessage(types.RoleUser, "hi")},
		Config:   relay.ChatConfig{Model: "llama3", Stream: true},
		Callbacks: relay.Callbacks{
			OnUpdate: func(_, delta string) { deltas = append(deltas, delta) },
			OnFinish: func(message string) { final = message },
			OnError:  func(err error) { t.Errorf("unexpected error: %v", err) },
		},
	})

	if final != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", final)
	}
	if strings.Join(deltas, "") != final {
		t.Errorf("deltas %v do not add up to %q", deltas, final)
	}
}

func TestRouterRelayUnauthorized(t *testing.T) {
	hash, err := auth.HashSecret("letmein", &auth.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	gateway := newGateway(t, auth.NewAccessCodeAuthorizer([]string{hash}, false, nil))

	var final string
	relay.NewClient(gateway.URL, relay.WithTick(time.Millisecond)).Chat(context.Background(), relay.ChatOptions{
		Config: relay.ChatConfig{Model: "llama3", Stream: true},
		Callbacks: relay.Callbacks{
			OnFinish: func(message string) { final = message },
		},
	})

	if !strings.HasPrefix(final, relay.LocaleUnauthorized) {
		t.Errorf("expected unauthorized diagnostic, got %q", final)
	}
	if !strings.Contains(final, auth.MsgEmptyAccessCode) {
		t.Errorf("expected gateway message in diagnostic, got %q", final)
	}
}
