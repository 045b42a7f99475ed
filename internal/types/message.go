// Package types provides the wire types shared by the gateway and the relay client.
package types

import "encoding/json"

// Role constants for message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message with polymorphic content support.
// Content can be a string or an array of ContentPart for multimodal input.
type Message struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// Content represents message content that can be a string or array of parts.
type Content struct {
	Text  string        // Simple string content
	Parts []ContentPart // Multimodal content parts
}

// MarshalJSON outputs an array if Parts is set, a string otherwise.
func (c Content) MarshalJSON() ([]byte, error) {
	if len(c.Parts) > 0 {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Text)
}

// UnmarshalJSON accepts both string and array formats.
func (c *Content) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		c.Text = text
		c.Parts = nil
		return nil
	}

	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err == nil {
		c.Parts = parts
		c.Text = ""
		return nil
	}

	return nil // Allow null/empty content
}

// String returns the text content, concatenating parts if multimodal.
func (c Content) String() string {
	if c.Text != "" {
		return c.Text
	}
	var result string
	for _, part := range c.Parts {
		if part.Type == ContentTypeText {
			result += part.Text
		}
	}
	return result
}

// ContentPart represents a single part of multimodal content.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// Content type constants
const (
	ContentTypeText     = "text"
	ContentTypeImageURL = "image_url"
)

// ImageURL represents an image reference in multimodal content.
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"` // "auto", "low", "high"
}

// NewTextMessage creates a simple text message.
func NewTextMessage(role, content string) Message {
	return Message{
		Role:    role,
		Content: Content{Text: content},
	}
}

// NewImageMessage creates a message with text and image content.
func NewImageMessage(role, text, imageURL string) Message {
	return Message{
		Role: role,
		Content: Content{
			Parts: []ContentPart{
				{Type: ContentTypeText, Text: text},
				{Type: ContentTypeImageURL, ImageURL: &ImageURL{URL: imageURL}},
			},
		},
	}
}

// ValidRole reports whether role is one a chat request may carry.
func ValidRole(role string) bool {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}
