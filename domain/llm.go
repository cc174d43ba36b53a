package domain

import "context"

// Completer abstracts any chat-completion provider.
type Completer interface {
	// Complete sends the message list to the provider using the given
	// credential and returns the generated text. The adapter supplies the
	// model identifier and sampling temperature.
	Complete(ctx context.Context, apiKey string, messages []ChatMessage) (string, error)
}

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	SystemRole    Role = "system"
	UserRole      Role = "user"
	AssistantRole Role = "assistant"
)
