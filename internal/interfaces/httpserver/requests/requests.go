package requests

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenRequest is the OAuth2 password flow form. The username field carries
// the user's email.
type TokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// AttachmentRequest references a file already uploaded through the media or
// document endpoints.
type AttachmentRequest struct {
	Name     string `json:"name" binding:"required"`
	Kind     string `json:"kind" binding:"required"`
	Mimetype string `json:"mimetype"`
}

// ChatRequest is one chat turn, optionally grounded in a transcript or
// document. StartTime and EndTime are seconds into the recording.
type ChatRequest struct {
	Message        string              `json:"message" binding:"required"`
	ConversationID string              `json:"conversation_id"`
	TranscriptID   string              `json:"transcript_id"`
	DocumentID     string              `json:"document_id"`
	StartTime      *float64            `json:"start_time"`
	EndTime        *float64            `json:"end_time"`
	Attachments    []AttachmentRequest `json:"attachments"`
}

// CreateConversationRequest starts an empty conversation.
type CreateConversationRequest struct {
	Title string `json:"title"`
}

// MediaAnswerRequest asks a question strictly grounded in one transcript.
type MediaAnswerRequest struct {
	TranscriptID string   `json:"transcript_id" binding:"required"`
	Question     string   `json:"question" binding:"required"`
	StartTime    *float64 `json:"start_time"`
	EndTime      *float64 `json:"end_time"`
}
