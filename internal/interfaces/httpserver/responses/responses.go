package responses

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/panscience/chat-server/internal/domain/conversation"
	"github.com/panscience/chat-server/internal/domain/document"
	"github.com/panscience/chat-server/internal/domain/transcript"
	"github.com/panscience/chat-server/internal/domain/user"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details
type ErrorResponse struct {
	Code          string `json:"code,omitempty"` // UUID from PlatformError
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	ErrorInstance error  `json:"-"`
	RequestID     string `json:"request_id,omitempty"`
}

// HandleError handles domain errors and returns appropriate HTTP responses
func HandleError(reqCtx *gin.Context, err error, message string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		statusCode := platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType())

		errResp := ErrorResponse{
			Code:          domainErr.GetUUID(),
			Error:         message,
			Message:       domainErr.Message,
			ErrorInstance: domainErr,
			RequestID:     domainErr.GetRequestID(),
		}

		reqCtx.AbortWithStatusJSON(statusCode, errResp)
		return
	}
	// Non-platform errors
	errResp := ErrorResponse{
		Error:         message,
		Message:       message,
		ErrorInstance: err,
	}
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, errResp)
}

// HandleNewError creates a new typed error at the route layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	ctx := reqCtx.Request.Context()
	err := platformerrors.NewError(ctx, platformerrors.LayerRoute, errorType, message, nil, uuid)

	statusCode := platformerrors.ErrorTypeToHTTPStatus(err.GetErrorType())

	errResp := ErrorResponse{
		Code:          err.GetUUID(),
		Error:         message,
		Message:       message,
		ErrorInstance: err,
		RequestID:     err.GetRequestID(),
	}

	reqCtx.AbortWithStatusJSON(statusCode, errResp)
}

// UserPayload is the public view of an account.
type UserPayload struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// FromUser maps the domain user to DTO.
func FromUser(u *user.User) UserPayload {
	return UserPayload{ID: u.PublicID, Email: u.Email, Username: u.Username}
}

// TokenPayload is the OAuth2-style access token response.
type TokenPayload struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AttachmentPayload mirrors message attachments.
type AttachmentPayload struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Mimetype string `json:"mimetype,omitempty"`
}

// MessagePayload is one stored message.
type MessagePayload struct {
	ID          string              `json:"id"`
	Sender      string              `json:"sender"`
	Text        string              `json:"text"`
	Attachments []AttachmentPayload `json:"attachments,omitempty"`
	Timestamp   string              `json:"timestamp"`
}

// FromMessage maps a domain message to DTO.
func FromMessage(m *conversation.Message) MessagePayload {
	attachments := make([]AttachmentPayload, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		attachments = append(attachments, AttachmentPayload{Name: a.Name, Kind: a.Kind, Mimetype: a.Mimetype})
	}
	if len(attachments) == 0 {
		attachments = nil
	}
	return MessagePayload{
		ID:          m.PublicID,
		Sender:      m.Sender,
		Text:        m.Text,
		Attachments: attachments,
		Timestamp:   m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ConversationPayload is one conversation, optionally with its messages.
type ConversationPayload struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Date     string           `json:"date"`
	Messages []MessagePayload `json:"messages"`
}

// FromConversation maps a domain conversation and its messages to DTO.
func FromConversation(c *conversation.Conversation, messages []*conversation.Message) ConversationPayload {
	msgs := make([]MessagePayload, len(messages))
	for i, m := range messages {
		msgs[i] = FromMessage(m)
	}
	return ConversationPayload{
		ID:       c.PublicID,
		Title:    c.Title,
		Date:     c.UpdatedAt.UTC().Format(time.RFC3339),
		Messages: msgs,
	}
}

// ChatPayload is the reply to one chat request.
type ChatPayload struct {
	Message        string `json:"message"`
	Timestamp      string `json:"timestamp"`
	ConversationID string `json:"conversation_id"`
}

// SegmentPayload is one timestamped transcript segment.
type SegmentPayload struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscribePayload is the result of a transcription upload.
type TranscribePayload struct {
	TranscriptID string           `json:"transcript_id"`
	Filename     string           `json:"filename,omitempty"`
	Mimetype     string           `json:"mimetype,omitempty"`
	Duration     *float64         `json:"duration,omitempty"`
	Segments     []SegmentPayload `json:"segments"`
}

// TranscriptSummaryPayload lists a stored transcript without its segments.
type TranscriptSummaryPayload struct {
	ID        string   `json:"id"`
	Filename  string   `json:"filename,omitempty"`
	Mimetype  string   `json:"mimetype,omitempty"`
	Duration  *float64 `json:"duration,omitempty"`
	CreatedAt string   `json:"created_at"`
}

// TranscriptPayload is a stored transcript with segments.
type TranscriptPayload struct {
	ID        string           `json:"id"`
	Filename  string           `json:"filename,omitempty"`
	Mimetype  string           `json:"mimetype,omitempty"`
	Duration  *float64         `json:"duration,omitempty"`
	Segments  []SegmentPayload `json:"segments"`
	CreatedAt string           `json:"created_at"`
}

// FromSegments maps domain segments to DTOs.
func FromSegments(segments []transcript.Segment) []SegmentPayload {
	out := make([]SegmentPayload, len(segments))
	for i, s := range segments {
		out[i] = SegmentPayload{Start: s.Start, End: s.End, Text: s.Text}
	}
	return out
}

// FromTranscript maps a domain transcript with segments to DTO.
func FromTranscript(t *transcript.Transcript) TranscriptPayload {
	return TranscriptPayload{
		ID:        t.PublicID,
		Filename:  t.Filename,
		Mimetype:  t.Mimetype,
		Duration:  t.Duration,
		Segments:  FromSegments(t.Segments),
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// FromTranscriptSummary maps a domain transcript to its listing DTO.
func FromTranscriptSummary(t *transcript.Transcript) TranscriptSummaryPayload {
	return TranscriptSummaryPayload{
		ID:        t.PublicID,
		Filename:  t.Filename,
		Mimetype:  t.Mimetype,
		Duration:  t.Duration,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// MediaAnswerPayload is the grounded answer for a transcript question.
type MediaAnswerPayload struct {
	Answer string `json:"answer"`
}

// ParseDocumentPayload is the result of a document upload.
type ParseDocumentPayload struct {
	DocumentID     string         `json:"document_id"`
	Filename       string         `json:"filename,omitempty"`
	Mimetype       string         `json:"mimetype,omitempty"`
	ContentPreview string         `json:"content_preview"`
	Metadata       map[string]any `json:"metadata"`
}

// DocumentSummaryPayload lists a stored document without its content.
type DocumentSummaryPayload struct {
	ID        string         `json:"id"`
	Filename  string         `json:"filename,omitempty"`
	Mimetype  string         `json:"mimetype,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt string         `json:"created_at"`
}

// DocumentPayload is a stored document with content.
type DocumentPayload struct {
	ID        string         `json:"id"`
	Filename  string         `json:"filename,omitempty"`
	Mimetype  string         `json:"mimetype,omitempty"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt string         `json:"created_at"`
}

// FromDocument maps a domain document with content to DTO.
func FromDocument(d *document.Document) DocumentPayload {
	return DocumentPayload{
		ID:        d.PublicID,
		Filename:  d.Filename,
		Mimetype:  d.Mimetype,
		Content:   d.Content,
		Metadata:  d.Metadata,
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// FromDocumentSummary maps a domain document to its listing DTO.
func FromDocumentSummary(d *document.Document) DocumentSummaryPayload {
	return DocumentSummaryPayload{
		ID:        d.PublicID,
		Filename:  d.Filename,
		Mimetype:  d.Mimetype,
		Metadata:  d.Metadata,
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
	}
}
