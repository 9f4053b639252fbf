package handlers

import (
	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/domain/chat"
	"github.com/panscience/chat-server/internal/domain/conversation"
	"github.com/panscience/chat-server/internal/domain/document"
	"github.com/panscience/chat-server/internal/domain/transcript"
	"github.com/panscience/chat-server/internal/domain/user"
	"github.com/panscience/chat-server/internal/infrastructure/auth"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Auth         *AuthHandler
	Conversation *ConversationHandler
	Chat         *ChatHandler
	Media        *MediaHandler
	Document     *DocumentHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	users *user.Service,
	tokens *auth.TokenIssuer,
	conversations *conversation.Service,
	chats *chat.Service,
	transcripts *transcript.Service,
	documents *document.Service,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Auth:         NewAuthHandler(users, tokens, log),
		Conversation: NewConversationHandler(conversations, log),
		Chat:         NewChatHandler(chats, log),
		Media:        NewMediaHandler(transcripts, chats, log),
		Document:     NewDocumentHandler(documents, log),
	}
}
