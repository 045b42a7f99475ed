package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mandalnilabja/llamarelay/internal/types"
)

// Conversation is a chat transcript stored as YAML:
//
//	model: llama3
//	messages:
//	  - role: system
//	    content: You answer in one sentence.
//	  - role: user
//	    content: Why is the sky blue?
type Conversation struct {
	Model    string                `yaml:"model"`
	Messages []ConversationMessage `yaml:"messages"`
}

// ConversationMessage is one turn of a Conversation.
type ConversationMessage struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

// LoadConversation reads a conversation file.
func LoadConversation(path string) (*Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation: %w", err)
	}

	var conv Conversation
	if err := yaml.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to parse conversation %s: %w", path, err)
	}
	return &conv, nil
}

// Validate checks the conversation can be sent.
func (c *Conversation) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if len(c.Messages) == 0 {
		return fmt.Errorf("no messages to send: pass a prompt or --file")
	}
	for i, m := range c.Messages {
		if !types.ValidRole(m.Role) {
			return fmt.Errorf("message %d: invalid role %q", i, m.Role)
		}
	}
	return nil
}

// ToMessages converts the transcript to wire messages.
func (c *Conversation) ToMessages() []types.Message {
	msgs := make([]types.Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		msgs = append(msgs, types.NewTextMessage(m.Role, m.Content))
	}
	return msgs
}
