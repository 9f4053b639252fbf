package conversation

import "context"

// Repository persists conversations and their messages.
type Repository interface {
	Create(ctx context.Context, c *Conversation) error
	FindByPublicID(ctx context.Context, userID, publicID string) (*Conversation, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*Conversation, error)
	Delete(ctx context.Context, userID, publicID string) error

	// UpdateTitleIfPlaceholder sets the title only while the current title is
	// one of the placeholders, so a concurrent user rename always wins. It
	// reports whether a row was updated.
	UpdateTitleIfPlaceholder(ctx context.Context, userID, publicID, title string, placeholders []string) (bool, error)

	AppendMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, userID, conversationID string, limit int) ([]*Message, error)
}
