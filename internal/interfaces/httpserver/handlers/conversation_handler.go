package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/domain/conversation"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/middlewares"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/requests"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/responses"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

// ConversationHandler exposes HTTP entrypoints for conversation management.
type ConversationHandler struct {
	conversations *conversation.Service
	log           zerolog.Logger
}

// NewConversationHandler constructs the handler.
func NewConversationHandler(conversations *conversation.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		log:           log.With().Str("handler", "conversation").Logger(),
	}
}

// List handles GET /api/conversations
func (h *ConversationHandler) List(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing authentication", "conversation-list-principal")
		return
	}

	convs, err := h.conversations.List(c.Request.Context(), principal.UserID)
	if err != nil {
		responses.HandleError(c, err, "failed to list conversations")
		return
	}

	out := make([]responses.ConversationPayload, len(convs))
	for i, conv := range convs {
		out[i] = responses.FromConversation(conv, nil)
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /api/conversations/:conversation_id
func (h *ConversationHandler) Get(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing authentication", "conversation-get-principal")
		return
	}
	conversationID := c.Param("conversation_id")

	conv, err := h.conversations.Get(c.Request.Context(), principal.UserID, conversationID)
	if err != nil {
		responses.HandleError(c, err, "failed to get conversation")
		return
	}

	msgs, err := h.conversations.ListMessages(c.Request.Context(), principal.UserID, conversationID)
	if err != nil {
		responses.HandleError(c, err, "failed to list messages")
		return
	}

	c.JSON(http.StatusOK, responses.FromConversation(conv, msgs))
}

// Create handles POST /api/conversations
func (h *ConversationHandler) Create(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing authentication", "conversation-create-principal")
		return
	}

	var req requests.CreateConversationRequest
	// An empty body is fine; the title then defaults.
	_ = c.ShouldBindJSON(&req)

	conv, err := h.conversations.Create(c.Request.Context(), principal.UserID, req.Title)
	if err != nil {
		responses.HandleError(c, err, "failed to create conversation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": conv.PublicID, "title": conv.Title})
}

// Delete handles DELETE /api/conversations/:conversation_id
func (h *ConversationHandler) Delete(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing authentication", "conversation-delete-principal")
		return
	}
	conversationID := c.Param("conversation_id")

	if err := h.conversations.Delete(c.Request.Context(), principal.UserID, conversationID); err != nil {
		responses.HandleError(c, err, "failed to delete conversation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted successfully"})
}
