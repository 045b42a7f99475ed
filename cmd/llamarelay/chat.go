package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mandalnilabja/llamarelay/internal/relay"
	"github.com/mandalnilabja/llamarelay/internal/types"
)

var chatFlags struct {
	gateway  string
	apiKey   string
	model    string
	system   string
	file     string
	provider string
	noStream bool
	timeout  time.Duration
}

var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Send a chat through the gateway",
	Long: `Send a chat through the gateway and print the reply as it arrives.

The prompt is appended to the conversation file, if any, as a user message.
Press Ctrl+C to stop a reply early; the text received so far is kept.

Examples:
  llamarelay chat "hello"
  llamarelay chat --file conversation.yaml
  llamarelay chat --key nk-secret --model qwen2.5 "summarize this"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&chatFlags.gateway, "gateway", "g", envOr("LLAMARELAY_URL", "http://localhost:8080"), "gateway base URL")
	chatCmd.Flags().StringVarP(&chatFlags.apiKey, "key", "k", os.Getenv("LLAMARELAY_KEY"), "access code (nk-...), API key or bearer token")
	chatCmd.Flags().StringVarP(&chatFlags.model, "model", "m", "", "model name (overrides the conversation file)")
	chatCmd.Flags().StringVarP(&chatFlags.system, "system", "s", "", "system prompt")
	chatCmd.Flags().StringVarP(&chatFlags.file, "file", "f", "", "YAML conversation file")
	chatCmd.Flags().StringVar(&chatFlags.provider, "provider", types.ProviderOllama, "provider tag reported by the client")
	chatCmd.Flags().BoolVar(&chatFlags.noStream, "no-stream", false, "wait for the whole reply")
	chatCmd.Flags().DurationVar(&chatFlags.timeout, "connect-timeout", relay.DefaultConnectTimeout, "how long to wait for the gateway to answer")
}

func runChat(cmd *cobra.Command, args []string) error {
	conv := &Conversation{Model: "llama3"}
	if chatFlags.file != "" {
		loaded, err := LoadConversation(chatFlags.file)
		if err != nil {
			return err
		}
		conv = loaded
	}
	if chatFlags.model != "" {
		conv.Model = chatFlags.model
	}
	if chatFlags.system != "" {
		conv.Messages = append([]ConversationMessage{{Role: types.RoleSystem, Content: chatFlags.system}}, conv.Messages...)
	}
	if len(args) == 1 {
		conv.Messages = append(conv.Messages, ConversationMessage{Role: types.RoleUser, Content: args[0]})
	}
	if err := conv.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client := relay.NewClient(chatFlags.gateway,
		relay.WithAPIKey(chatFlags.apiKey),
		relay.WithProvider(chatFlags.provider),
		relay.WithConnectTimeout(chatFlags.timeout),
		relay.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return chat(ctx, client, conv, !chatFlags.noStream, cmd.OutOrStdout())
}

// chat runs one conversation and writes the reply to out.
func chat(ctx context.Context, client *relay.Client, conv *Conversation, stream bool, out io.Writer) error {
	var errs []error
	var final string
	var streamed strings.Builder

	client.Chat(ctx, relay.ChatOptions{
		Messages: conv.ToMessages(),
		Config:   relay.ChatConfig{Model: conv.Model, Stream: stream},
		Callbacks: relay.Callbacks{
			OnUpdate: func(_, delta string) {
				streamed.WriteString(delta)
				fmt.Fprint(out, delta)
			},
			OnFinish: func(message string) { final = message },
			OnError:  func(err error) { errs = append(errs, err) },
		},
	})

	// Replies that never streamed (plain text, diagnostics, non-stream mode)
	// are printed whole.
	if streamed.Len() == 0 && final != "" {
		fmt.Fprint(out, final)
	}
	fmt.Fprintln(out)

	return errors.Join(errs...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
