package chat

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/domain/conversation"
	"github.com/panscience/chat-server/internal/domain/document"
	"github.com/panscience/chat-server/internal/domain/transcript"
	"github.com/panscience/chat-server/internal/infrastructure/metrics"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

// TitleTask asks the background titler to name a freshly created
// conversation from its first exchange.
type TitleTask struct {
	UserID                string
	ConversationID        string
	FirstUserMessage      string
	FirstAssistantMessage string
}

// TitleEnqueuer hands title tasks to the background worker pool. Enqueue must
// not block; it reports whether the task was accepted.
type TitleEnqueuer interface {
	Enqueue(task TitleTask) bool
}

// Input is one chat request. TranscriptID and DocumentID optionally ground
// the reply; StartTime and EndTime bound the transcript window in seconds.
type Input struct {
	Message        string
	ConversationID string
	TranscriptID   string
	DocumentID     string
	StartTime      *float64
	EndTime        *float64
	Attachments    []conversation.Attachment
}

// Output is the assistant reply and the conversation it was stored in.
type Output struct {
	Message        string
	ConversationID string
	Timestamp      time.Time
}

// Service orchestrates the chat flow: conversation resolution, grounding
// selection, prompt assembly, the model call, and persistence.
type Service struct {
	provider      Provider
	conversations *conversation.Service
	transcripts   *transcript.Service
	documents     *document.Service
	titles        TitleEnqueuer
	logger        zerolog.Logger
}

// NewService constructs a chat service.
func NewService(
	provider Provider,
	conversations *conversation.Service,
	transcripts *transcript.Service,
	documents *document.Service,
	titles TitleEnqueuer,
	logger zerolog.Logger,
) *Service {
	return &Service{
		provider:      provider,
		conversations: conversations,
		transcripts:   transcripts,
		documents:     documents,
		titles:        titles,
		logger:        logger,
	}
}

// Chat handles one user message. A missing conversation ID starts a new
// conversation titled "New Chat"; its real title is generated in the
// background after the first reply.
func (s *Service) Chat(ctx context.Context, userID string, in Input) (*Output, error) {
	conversationID := in.ConversationID
	createdNew := false
	if conversationID != "" {
		if _, err := s.conversations.Get(ctx, userID, conversationID); err != nil {
			return nil, err
		}
	} else {
		conv, err := s.conversations.Create(ctx, userID, "New Chat")
		if err != nil {
			return nil, err
		}
		conversationID = conv.PublicID
		createdNew = true
	}

	// History is read before the new user message is stored so the model
	// never sees the current prompt twice.
	history, err := s.conversations.ListMessages(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	turns := BuildTurns(history)

	if _, err := s.conversations.AppendMessage(ctx, userID, conversationID, conversation.SenderUser, in.Message, in.Attachments); err != nil {
		return nil, err
	}

	systemPrompt := defaultSystemPrompt
	userMessage := in.Message
	grounding := "none"

	useTranscript := in.TranscriptID != "" && LooksTranscriptRelated(in.Message, in.StartTime, in.EndTime)

	switch {
	case in.DocumentID != "":
		doc, err := s.documents.Get(ctx, userID, in.DocumentID)
		if err != nil {
			return nil, err
		}
		format := ""
		if f, ok := doc.Metadata["format"].(string); ok {
			format = f
		}
		systemPrompt = documentSystemPrompt
		userMessage = BuildDocumentPrompt(in.Message, doc.Filename, format, doc.Content)
		grounding = "document"

	case useTranscript:
		tr, err := s.transcripts.Get(ctx, userID, in.TranscriptID)
		if err != nil {
			return nil, err
		}
		window := transcript.RenderWindow(tr.Segments, in.StartTime, in.EndTime)
		if window == "" {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"no transcript content in the requested time range", nil, "")
		}
		systemPrompt = transcriptSystemPrompt
		userMessage = BuildTranscriptChatPrompt(in.Message, window, in.StartTime, in.EndTime)
		grounding = "transcript"
	}

	started := time.Now()
	replyText, err := s.provider.Complete(ctx, systemPrompt, turns, userMessage)
	if err != nil {
		metrics.RecordCompletion(grounding, "error", time.Since(started).Seconds())
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "generate response")
	}
	metrics.RecordCompletion(grounding, "success", time.Since(started).Seconds())

	reply, err := s.conversations.AppendMessage(ctx, userID, conversationID, conversation.SenderAssistant, replyText, nil)
	if err != nil {
		return nil, err
	}

	if createdNew && s.titles != nil {
		accepted := s.titles.Enqueue(TitleTask{
			UserID:                userID,
			ConversationID:        conversationID,
			FirstUserMessage:      in.Message,
			FirstAssistantMessage: replyText,
		})
		if !accepted {
			s.logger.Warn().Str("conversation_id", conversationID).Msg("title queue full, skipping title generation")
		}
	}

	return &Output{
		Message:        replyText,
		ConversationID: conversationID,
		Timestamp:      reply.CreatedAt,
	}, nil
}

// AnswerFromTranscript answers a question strictly grounded in one stored
// transcript, optionally constrained to a time window.
func (s *Service) AnswerFromTranscript(ctx context.Context, userID, transcriptID, question string, start, end *float64) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "question is required", nil, "")
	}

	tr, err := s.transcripts.Get(ctx, userID, transcriptID)
	if err != nil {
		return "", err
	}

	window := transcript.RenderWindow(tr.Segments, start, end)
	if window == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"no transcript content in the requested time range", nil, "")
	}

	prompt := BuildTranscriptAnswerPrompt(question, window)
	started := time.Now()
	answer, err := s.provider.Complete(ctx, defaultSystemPrompt, nil, prompt)
	if err != nil {
		metrics.RecordCompletion("transcript", "error", time.Since(started).Seconds())
		return "", platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "generate answer")
	}
	metrics.RecordCompletion("transcript", "success", time.Since(started).Seconds())
	return answer, nil
}
