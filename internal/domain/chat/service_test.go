package chat_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/domain/chat"
	"github.com/panscience/chat-server/internal/domain/conversation"
	"github.com/panscience/chat-server/internal/domain/document"
	"github.com/panscience/chat-server/internal/domain/transcript"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

type mockConversationRepo struct {
	CreateFunc                   func(ctx context.Context, c *conversation.Conversation) error
	FindByPublicIDFunc           func(ctx context.Context, userID, publicID string) (*conversation.Conversation, error)
	ListByUserFunc               func(ctx context.Context, userID string, limit int) ([]*conversation.Conversation, error)
	DeleteFunc                   func(ctx context.Context, userID, publicID string) error
	UpdateTitleIfPlaceholderFunc func(ctx context.Context, userID, publicID, title string, placeholders []string) (bool, error)
	AppendMessageFunc            func(ctx context.Context, m *conversation.Message) error
	ListMessagesFunc             func(ctx context.Context, userID, conversationID string, limit int) ([]*conversation.Message, error)
}

func (m *mockConversationRepo) Create(ctx context.Context, c *conversation.Conversation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *mockConversationRepo) FindByPublicID(ctx context.Context, userID, publicID string) (*conversation.Conversation, error) {
	if m.FindByPublicIDFunc != nil {
		return m.FindByPublicIDFunc(ctx, userID, publicID)
	}
	return &conversation.Conversation{PublicID: publicID, UserID: userID, Title: "New Chat"}, nil
}

func (m *mockConversationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*conversation.Conversation, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockConversationRepo) Delete(ctx context.Context, userID, publicID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, publicID)
	}
	return nil
}

func (m *mockConversationRepo) UpdateTitleIfPlaceholder(ctx context.Context, userID, publicID, title string, placeholders []string) (bool, error) {
	if m.UpdateTitleIfPlaceholderFunc != nil {
		return m.UpdateTitleIfPlaceholderFunc(ctx, userID, publicID, title, placeholders)
	}
	return false, nil
}

func (m *mockConversationRepo) AppendMessage(ctx context.Context, msg *conversation.Message) error {
	if m.AppendMessageFunc != nil {
		return m.AppendMessageFunc(ctx, msg)
	}
	msg.CreatedAt = time.Now().UTC()
	return nil
}

func (m *mockConversationRepo) ListMessages(ctx context.Context, userID, conversationID string, limit int) ([]*conversation.Message, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, userID, conversationID, limit)
	}
	return nil, nil
}

type mockTranscriptRepo struct {
	transcripts map[string]*transcript.Transcript
}

func (m *mockTranscriptRepo) Create(ctx context.Context, tr *transcript.Transcript) error {
	return nil
}

func (m *mockTranscriptRepo) FindByPublicID(ctx context.Context, userID, publicID string) (*transcript.Transcript, error) {
	if tr, ok := m.transcripts[publicID]; ok {
		return tr, nil
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "transcript not found", nil, "transcript-not-found")
}

func (m *mockTranscriptRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*transcript.Transcript, error) {
	return nil, nil
}

type mockDocumentRepo struct {
	documents map[string]*document.Document
}

func (m *mockDocumentRepo) Create(ctx context.Context, d *document.Document) error {
	return nil
}

func (m *mockDocumentRepo) FindByPublicID(ctx context.Context, userID, publicID string) (*document.Document, error) {
	if d, ok := m.documents[publicID]; ok {
		return d, nil
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "document not found", nil, "document-not-found")
}

func (m *mockDocumentRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*document.Document, error) {
	return nil, nil
}

type mockParser struct{}

func (m *mockParser) Parse(ctx context.Context, data []byte, mimetype, filename string) (*document.Parsed, error) {
	return &document.Parsed{Content: string(data)}, nil
}

type mockEnqueuer struct {
	tasks    []chat.TitleTask
	accepted bool
}

func (m *mockEnqueuer) Enqueue(task chat.TitleTask) bool {
	m.tasks = append(m.tasks, task)
	return m.accepted
}

type chatFixture struct {
	provider      *mockProvider
	convRepo      *mockConversationRepo
	transcripts   *mockTranscriptRepo
	documents     *mockDocumentRepo
	titles        *mockEnqueuer
	service       *chat.Service
	conversations *conversation.Service
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		provider:    &mockProvider{},
		convRepo:    &mockConversationRepo{},
		transcripts: &mockTranscriptRepo{transcripts: map[string]*transcript.Transcript{}},
		documents:   &mockDocumentRepo{documents: map[string]*document.Document{}},
		titles:      &mockEnqueuer{accepted: true},
	}
	f.conversations = conversation.NewService(f.convRepo, zerolog.Nop())
	transcriptService := transcript.NewService(f.transcripts, &stubTranscriber{}, 1024, zerolog.Nop())
	documentService := document.NewService(f.documents, &mockParser{}, 1024, zerolog.Nop())
	f.service = chat.NewService(f.provider, f.conversations, transcriptService, documentService, f.titles, zerolog.Nop())
	return f
}

type stubTranscriber struct{}

func (s *stubTranscriber) Transcribe(ctx context.Context, data []byte, mimetype, filename, language string) (*transcript.Result, error) {
	return &transcript.Result{}, nil
}

func TestChatCreatesConversationAndQueuesTitle(t *testing.T) {
	f := newChatFixture()
	f.provider.CompleteFunc = func(ctx context.Context, systemPrompt string, history []chat.Turn, userMessage string) (string, error) {
		return "hello back", nil
	}

	out, err := f.service.Chat(context.Background(), "user_1", chat.Input{Message: "hello"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if out.Message != "hello back" {
		t.Errorf("Message = %q, want hello back", out.Message)
	}
	if !strings.HasPrefix(out.ConversationID, "conv_") {
		t.Errorf("ConversationID = %q, want conv_ prefix", out.ConversationID)
	}
	if len(f.titles.tasks) != 1 {
		t.Fatalf("title tasks = %d, want 1", len(f.titles.tasks))
	}
	task := f.titles.tasks[0]
	if task.FirstUserMessage != "hello" || task.FirstAssistantMessage != "hello back" {
		t.Errorf("task = %+v", task)
	}
}

func TestChatExistingConversationSkipsTitle(t *testing.T) {
	f := newChatFixture()
	f.provider.CompleteFunc = func(ctx context.Context, systemPrompt string, history []chat.Turn, userMessage string) (string, error) {
		return "reply", nil
	}

	out, err := f.service.Chat(context.Background(), "user_1", chat.Input{
		Message:        "hello again",
		ConversationID: "conv_existing",
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if out.ConversationID != "conv_existing" {
		t.Errorf("ConversationID = %q, want conv_existing", out.ConversationID)
	}
	if len(f.titles.tasks) != 0 {
		t.Errorf("title tasks = %d, want 0", len(f.titles.tasks))
	}
}

func TestChatHistoryExcludesCurrentMessage(t *testing.T) {
	f := newChatFixture()
	f.convRepo.ListMessagesFunc = func(ctx context.Context, userID, conversationID string, limit int) ([]*conversation.Message, error) {
		return []*conversation.Message{
			{Sender: conversation.SenderUser, Text: "earlier question"},
			{Sender: conversation.SenderAssistant, Text: "earlier answer"},
		}, nil
	}

	f.provider.CompleteFunc = func(ctx context.Context, systemPrompt string, history []chat.Turn, userMessage string) (string, error) {
		if len(history) != 2 {
			t.Errorf("len(history) = %d, want 2", len(history))
		}
		for _, turn := range history {
			if turn.Content == "current question" {
				t.Error("history must not contain the current message")
			}
		}
		if userMessage != "current question" {
			t.Errorf("userMessage = %q", userMessage)
		}
		return "ok", nil
	}

	if _, err := f.service.Chat(context.Background(), "user_1", chat.Input{
		Message:        "current question",
		ConversationID: "conv_existing",
	}); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
}

func TestChatDocumentGrounding(t *testing.T) {
	f := newChatFixture()
	f.documents.documents["doc_1"] = &document.Document{
		PublicID: "doc_1",
		UserID:   "user_1",
		Filename: "notes.txt",
		Content:  "the meeting is on Friday",
		Metadata: map[string]any{"format": "Plain Text"},
	}
	f.transcripts.transcripts["tr_1"] = &transcript.Transcript{
		PublicID: "tr_1",
		Segments: []transcript.Segment{{Start: 0, End: 1, Text: "unused"}},
	}

	f.provider.CompleteFunc = func(ctx context.Context, systemPrompt string, history []chat.Turn, userMessage string) (string, error) {
		if !strings.Contains(systemPrompt, "analyzing documents") {
			t.Errorf("systemPrompt = %q, want document prompt", systemPrompt)
		}
		if !strings.Contains(userMessage, "the meeting is on Friday") {
			t.Error("prompt missing document content")
		}
		if strings.Contains(userMessage, "unused") {
			t.Error("document grounding must win over transcript grounding")
		}
		return "Friday", nil
	}

	// Both IDs set: the document takes precedence.
	if _, err := f.service.Chat(context.Background(), "user_1", chat.Input{
		Message:      "when is the meeting in the recording?",
		DocumentID:   "doc_1",
		TranscriptID: "tr_1",
	}); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
}

func TestChatTranscriptGroundingRequiresMediaCue(t *testing.T) {
	f := newChatFixture()
	f.transcripts.transcripts["tr_1"] = &transcript.Transcript{
		PublicID: "tr_1",
		Segments: []transcript.Segment{{Start: 0, End: 5, Text: "budget discussion"}},
	}

	t.Run("plain question ignores transcript", func(t *testing.T) {
		f.provider.CompleteFunc = func(ctx context.Context, systemPrompt string, history []chat.Turn, userMessage string) (string, error) {
			if strings.Contains(userMessage, "budget discussion") {
				t.Error("transcript must not be inlined without a media cue")
			}
			if userMessage != "what is two plus two?" {
				t.Errorf("userMessage = %q", userMessage)
			}
			return "four", nil
		}

		if _, err := f.service.Chat(context.Background(), "user_1", chat.Input{
			Message:      "what is two plus two?",
			TranscriptID: "tr_1",
		}); err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
	})

	t.Run("media cue inlines transcript window", func(t *testing.T) {
		f.provider.CompleteFunc = func(ctx context.Context, systemPrompt string, history []chat.Turn, userMessage string) (string, error) {
			if !strings.Contains(systemPrompt, "Transcript section") {
				t.Errorf("systemPrompt = %q, want transcript prompt", systemPrompt)
			}
			if !strings.Contains(userMessage, "[00:00:00 - 00:00:05] budget discussion") {
				t.Errorf("prompt missing transcript window, got %q", userMessage)
			}
			return "a budget", nil
		}

		if _, err := f.service.Chat(context.Background(), "user_1", chat.Input{
			Message:      "what does the recording cover?",
			TranscriptID: "tr_1",
		}); err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
	})
}

func TestChatEmptyWindowFailsWithoutModelCall(t *testing.T) {
	f := newChatFixture()
	f.transcripts.transcripts["tr_1"] = &transcript.Transcript{
		PublicID: "tr_1",
		Segments: []transcript.Segment{{Start: 0, End: 5, Text: "hello"}},
	}

	_, err := f.service.Chat(context.Background(), "user_1", chat.Input{
		Message:      "summarize the recording",
		TranscriptID: "tr_1",
		StartTime:    floatPtr(100),
		EndTime:      floatPtr(200),
	})
	if err == nil {
		t.Fatal("expected error for empty transcript window")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if f.provider.calls != 0 {
		t.Errorf("provider calls = %d, want 0", f.provider.calls)
	}
}

func TestAnswerFromTranscript(t *testing.T) {
	f := newChatFixture()
	f.transcripts.transcripts["tr_1"] = &transcript.Transcript{
		PublicID: "tr_1",
		Segments: []transcript.Segment{{Start: 0, End: 5, Text: "the sky is blue"}},
	}

	t.Run("answers from the window", func(t *testing.T) {
		f.provider.CompleteFunc = func(ctx context.Context, systemPrompt string, history []chat.Turn, userMessage string) (string, error) {
			if history != nil {
				t.Error("answer flow must not replay history")
			}
			if !strings.Contains(userMessage, "the sky is blue") {
				t.Error("prompt missing transcript window")
			}
			return "Blue [00:00:00 - 00:00:05]", nil
		}

		answer, err := f.service.AnswerFromTranscript(context.Background(), "user_1", "tr_1", "what color is the sky?", nil, nil)
		if err != nil {
			t.Fatalf("AnswerFromTranscript() error = %v", err)
		}
		if answer != "Blue [00:00:00 - 00:00:05]" {
			t.Errorf("answer = %q", answer)
		}
	})

	t.Run("rejects blank question", func(t *testing.T) {
		_, err := f.service.AnswerFromTranscript(context.Background(), "user_1", "tr_1", "   ", nil, nil)
		if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("unknown transcript", func(t *testing.T) {
		_, err := f.service.AnswerFromTranscript(context.Background(), "user_1", "tr_missing", "q", nil, nil)
		if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			t.Errorf("expected not-found error, got %v", err)
		}
	})
}
