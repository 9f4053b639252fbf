package conversation

import "time"

// Placeholder titles that the background titler is allowed to replace. A
// title set explicitly by the user never matches.
var TitlePlaceholders = []string{"New Chat", "Chat", "Conversation"}

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Conversation is a titled thread of messages owned by one user.
type Conversation struct {
	ID        uint
	PublicID  string
	UserID    string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Attachment describes a file referenced by a message. The bytes themselves
// live in the transcript or document stores.
type Attachment struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Mimetype string `json:"mimetype,omitempty"`
}

// Message is a single user or assistant turn within a conversation.
type Message struct {
	ID             uint
	PublicID       string
	ConversationID string
	UserID         string
	Sender         string
	Text           string
	Attachments    []Attachment
	CreatedAt      time.Time
}
