package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/domain/chat"
	"github.com/panscience/chat-server/internal/domain/conversation"
	"github.com/panscience/chat-server/internal/worker"
)

type stubProvider struct {
	completed chan string
}

func (s *stubProvider) Complete(ctx context.Context, systemPrompt string, history []chat.Turn, userMessage string) (string, error) {
	if s.completed != nil {
		s.completed <- userMessage
	}
	return "Generated Title", nil
}

type stubConversationRepo struct {
	updated chan string
}

func (s *stubConversationRepo) Create(ctx context.Context, c *conversation.Conversation) error {
	return nil
}

func (s *stubConversationRepo) FindByPublicID(ctx context.Context, userID, publicID string) (*conversation.Conversation, error) {
	return nil, nil
}

func (s *stubConversationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*conversation.Conversation, error) {
	return nil, nil
}

func (s *stubConversationRepo) Delete(ctx context.Context, userID, publicID string) error {
	return nil
}

func (s *stubConversationRepo) UpdateTitleIfPlaceholder(ctx context.Context, userID, publicID, title string, placeholders []string) (bool, error) {
	if s.updated != nil {
		s.updated <- title
	}
	return true, nil
}

func (s *stubConversationRepo) AppendMessage(ctx context.Context, m *conversation.Message) error {
	return nil
}

func (s *stubConversationRepo) ListMessages(ctx context.Context, userID, conversationID string, limit int) ([]*conversation.Message, error) {
	return nil, nil
}

func newTestTitler(repo *stubConversationRepo, provider chat.Provider) *chat.Titler {
	conversations := conversation.NewService(repo, zerolog.Nop())
	return chat.NewTitler(provider, conversations, zerolog.Nop())
}

func TestTitlePoolProcessesTask(t *testing.T) {
	repo := &stubConversationRepo{updated: make(chan string, 1)}
	titler := newTestTitler(repo, &stubProvider{})

	pool := worker.NewTitlePool(titler, worker.Config{WorkerCount: 1, QueueSize: 4, TaskTimeout: time.Second}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pool.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer pool.Stop()

	ok := pool.Enqueue(chat.TitleTask{
		UserID:           "user_1",
		ConversationID:   "conv_1",
		FirstUserMessage: "hello",
	})
	if !ok {
		t.Fatal("Enqueue() = false, want true")
	}

	select {
	case title := <-repo.updated:
		if title != "Generated Title" {
			t.Errorf("stored title = %q, want Generated Title", title)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for title update")
	}
}

func TestTitlePoolEnqueueReportsFullQueue(t *testing.T) {
	titler := newTestTitler(&stubConversationRepo{}, &stubProvider{})
	pool := worker.NewTitlePool(titler, worker.Config{WorkerCount: 1, QueueSize: 1, TaskTimeout: time.Second}, zerolog.Nop())

	// Workers never started, so the second enqueue finds the queue full.
	if !pool.Enqueue(chat.TitleTask{ConversationID: "conv_1"}) {
		t.Fatal("first Enqueue() = false, want true")
	}
	if pool.Enqueue(chat.TitleTask{ConversationID: "conv_2"}) {
		t.Error("second Enqueue() = true, want false on a full queue")
	}
}

func TestTitlePoolRejectsAfterStop(t *testing.T) {
	titler := newTestTitler(&stubConversationRepo{}, &stubProvider{})
	pool := worker.NewTitlePool(titler, worker.Config{WorkerCount: 1, QueueSize: 4, TaskTimeout: time.Second}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := pool.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	pool.Stop()

	if pool.Enqueue(chat.TitleTask{ConversationID: "conv_1"}) {
		t.Error("Enqueue() after Stop() = true, want false")
	}
}
