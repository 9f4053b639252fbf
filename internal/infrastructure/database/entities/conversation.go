package entities

import (
	"time"

	"github.com/panscience/chat-server/internal/domain/conversation"
)

// Conversation represents the database schema for conversations
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index:idx_conversation_user_updated,priority:2"`

	PublicID string `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID   string `gorm:"type:varchar(50);index:idx_conversation_user_updated,priority:1;not null"`
	Title    string `gorm:"type:varchar(256);not null;default:'New Conversation'"`

	Messages []Message `gorm:"foreignKey:ConversationID;references:PublicID"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// Message represents the database schema for conversation messages
type Message struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_message_conversation_created,priority:2"`

	PublicID       string         `gorm:"type:varchar(50);uniqueIndex;not null"`
	ConversationID string         `gorm:"type:varchar(50);index:idx_message_conversation_created,priority:1;not null"`
	UserID         string         `gorm:"type:varchar(50);index;not null"`
	Sender         string         `gorm:"type:varchar(20);not null"`
	Text           string         `gorm:"type:text;not null"`
	Attachments    AttachmentList `gorm:"type:jsonb"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// EtoD converts database entity to domain model
func (c *Conversation) EtoD() *conversation.Conversation {
	return &conversation.Conversation{
		ID:        c.ID,
		PublicID:  c.PublicID,
		UserID:    c.UserID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewSchemaConversation creates a database entity from domain model
func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	return &Conversation{
		ID:        c.ID,
		PublicID:  c.PublicID,
		UserID:    c.UserID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// EtoD converts database entity to domain model
func (m *Message) EtoD() *conversation.Message {
	return &conversation.Message{
		ID:             m.ID,
		PublicID:       m.PublicID,
		ConversationID: m.ConversationID,
		UserID:         m.UserID,
		Sender:         m.Sender,
		Text:           m.Text,
		Attachments:    m.Attachments,
		CreatedAt:      m.CreatedAt,
	}
}

// NewSchemaMessage creates a database entity from domain model
func NewSchemaMessage(m *conversation.Message) *Message {
	return &Message{
		ID:             m.ID,
		PublicID:       m.PublicID,
		ConversationID: m.ConversationID,
		UserID:         m.UserID,
		Sender:         m.Sender,
		Text:           m.Text,
		Attachments:    m.Attachments,
		CreatedAt:      m.CreatedAt,
	}
}
