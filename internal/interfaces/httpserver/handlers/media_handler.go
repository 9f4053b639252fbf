package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/domain/chat"
	"github.com/panscience/chat-server/internal/domain/transcript"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/middlewares"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/requests"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/responses"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

// MediaHandler exposes HTTP entrypoints for media transcription and
// transcript-grounded answers.
type MediaHandler struct {
	transcripts *transcript.Service
	chats       *chat.Service
	log         zerolog.Logger
}

// NewMediaHandler constructs the handler.
func NewMediaHandler(transcripts *transcript.Service, chats *chat.Service, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		transcripts: transcripts,
		chats:       chats,
		log:         log.With().Str("handler", "media").Logger(),
	}
}

// Transcribe handles POST /api/media/transcribe
func (h *MediaHandler) Transcribe(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing authentication", "media-transcribe-principal")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "missing file", "media-transcribe-file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.HandleError(c, err, "failed to read upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		responses.HandleError(c, err, "failed to read upload")
		return
	}

	mimetype := fileHeader.Header.Get("Content-Type")
	if mimetype == "" {
		mimetype = "application/octet-stream"
	}
	language := c.Query("language")

	t, err := h.transcripts.Transcribe(c.Request.Context(), principal.UserID, data, mimetype, fileHeader.Filename, language)
	if err != nil {
		responses.HandleError(c, err, "failed to transcribe")
		return
	}

	c.JSON(http.StatusOK, responses.TranscribePayload{
		TranscriptID: t.PublicID,
		Filename:     t.Filename,
		Mimetype:     t.Mimetype,
		Duration:     t.Duration,
		Segments:     responses.FromSegments(t.Segments),
	})
}

// List handles GET /api/media/transcripts
func (h *MediaHandler) List(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing authentication", "media-list-principal")
		return
	}

	items, err := h.transcripts.List(c.Request.Context(), principal.UserID)
	if err != nil {
		responses.HandleError(c, err, "failed to list transcripts")
		return
	}

	out := make([]responses.TranscriptSummaryPayload, len(items))
	for i, t := range items {
		out[i] = responses.FromTranscriptSummary(t)
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /api/media/transcripts/:transcript_id
func (h *MediaHandler) Get(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing authentication", "media-get-principal")
		return
	}
	transcriptID := c.Param("transcript_id")

	t, err := h.transcripts.Get(c.Request.Context(), principal.UserID, transcriptID)
	if err != nil {
		responses.HandleError(c, err, "failed to get transcript")
		return
	}

	c.JSON(http.StatusOK, responses.FromTranscript(t))
}

// Answer handles POST /api/media/answer
func (h *MediaHandler) Answer(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing authentication", "media-answer-principal")
		return
	}

	var req requests.MediaAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid answer payload", "media-answer-bind")
		return
	}

	answer, err := h.chats.AnswerFromTranscript(c.Request.Context(), principal.UserID, req.TranscriptID, req.Question, req.StartTime, req.EndTime)
	if err != nil {
		responses.HandleError(c, err, "failed to generate answer")
		return
	}

	c.JSON(http.StatusOK, responses.MediaAnswerPayload{Answer: answer})
}
