package chat

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one prior exchange handed to the model as history.
type Turn struct {
	Role    string
	Content string
}

// Provider generates a completion from a system prompt, prior turns, and the
// current user message.
type Provider interface {
	Complete(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (string, error)
}
