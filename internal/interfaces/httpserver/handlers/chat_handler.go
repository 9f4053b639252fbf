package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/domain/chat"
	"github.com/panscience/chat-server/internal/domain/conversation"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/middlewares"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/requests"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/responses"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

// ChatHandler exposes the main chat entrypoint.
type ChatHandler struct {
	chats *chat.Service
	log   zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(chats *chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		chats: chats,
		log:   log.With().Str("handler", "chat").Logger(),
	}
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing authentication", "chat-principal")
		return
	}

	var req requests.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid chat payload", "chat-bind")
		return
	}

	attachments := make([]conversation.Attachment, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		attachments = append(attachments, conversation.Attachment{Name: a.Name, Kind: a.Kind, Mimetype: a.Mimetype})
	}

	out, err := h.chats.Chat(c.Request.Context(), principal.UserID, chat.Input{
		Message:        req.Message,
		ConversationID: req.ConversationID,
		TranscriptID:   req.TranscriptID,
		DocumentID:     req.DocumentID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Attachments:    attachments,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to generate response")
		return
	}

	c.JSON(http.StatusOK, responses.ChatPayload{
		Message:        out.Message,
		Timestamp:      out.Timestamp.UTC().Format(time.RFC3339),
		ConversationID: out.ConversationID,
	})
}
