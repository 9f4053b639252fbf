package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/domain/conversation"
	"github.com/panscience/chat-server/internal/domain/user"
	"github.com/panscience/chat-server/internal/infrastructure/auth"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/handlers"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/middlewares"
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
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "conversation-not-found")
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
	return nil
}

func (m *mockConversationRepo) ListMessages(ctx context.Context, userID, conversationID string, limit int) ([]*conversation.Message, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, userID, conversationID, limit)
	}
	return nil, nil
}

type mockUserLookup struct {
	users map[string]*user.User
}

func (m *mockUserLookup) GetByPublicID(ctx context.Context, publicID string) (*user.User, error) {
	if u, ok := m.users[publicID]; ok {
		return u, nil
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "user not found", nil, "user-not-found")
}

func newConversationRouter(t *testing.T, repo *mockConversationRepo) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue("user_1", "a@b.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	users := &mockUserLookup{users: map[string]*user.User{
		"user_1": {PublicID: "user_1", Email: "a@b.com"},
	}}

	service := conversation.NewService(repo, zerolog.Nop())
	handler := handlers.NewConversationHandler(service, zerolog.Nop())

	engine := gin.New()
	api := engine.Group("/api", middlewares.BearerAuth(issuer, users))
	api.GET("/conversations", handler.List)
	api.POST("/conversations", handler.Create)
	api.GET("/conversations/:conversation_id", handler.Get)
	api.DELETE("/conversations/:conversation_id", handler.Delete)

	return engine, token
}

func TestConversationHandlerRequiresAuth(t *testing.T) {
	engine, _ := newConversationRouter(t, &mockConversationRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Errorf("WWW-Authenticate = %q, want Bearer", rec.Header().Get("WWW-Authenticate"))
	}
}

func TestConversationHandlerList(t *testing.T) {
	repo := &mockConversationRepo{
		ListByUserFunc: func(ctx context.Context, userID string, limit int) ([]*conversation.Conversation, error) {
			if userID != "user_1" {
				t.Errorf("userID = %q, want user_1", userID)
			}
			return []*conversation.Conversation{
				{PublicID: "conv_1", Title: "First"},
				{PublicID: "conv_2", Title: "Second"},
			}, nil
		},
	}
	engine, token := newConversationRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var payload []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(payload) != 2 {
		t.Fatalf("len(payload) = %d, want 2", len(payload))
	}
	if payload[0]["id"] != "conv_1" || payload[0]["title"] != "First" {
		t.Errorf("payload[0] = %v", payload[0])
	}
}

func TestConversationHandlerCreate(t *testing.T) {
	var created *conversation.Conversation
	repo := &mockConversationRepo{
		CreateFunc: func(ctx context.Context, c *conversation.Conversation) error {
			created = c
			return nil
		},
	}
	engine, token := newConversationRouter(t, repo)

	t.Run("with title", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/conversations", strings.NewReader(`{"title":"Budget Talk"}`))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if created == nil || created.Title != "Budget Talk" {
			t.Errorf("created = %+v", created)
		}
	})

	t.Run("empty body defaults title", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/conversations", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if created == nil || created.Title != "New Conversation" {
			t.Errorf("created = %+v", created)
		}
	})
}

func TestConversationHandlerGetNotFound(t *testing.T) {
	engine, token := newConversationRouter(t, &mockConversationRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/conversations/conv_missing", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404, body = %s", rec.Code, rec.Body.String())
	}
}

func TestConversationHandlerDelete(t *testing.T) {
	deleted := ""
	repo := &mockConversationRepo{
		DeleteFunc: func(ctx context.Context, userID, publicID string) error {
			deleted = publicID
			return nil
		},
	}
	engine, token := newConversationRouter(t, repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/conversations/conv_1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if deleted != "conv_1" {
		t.Errorf("deleted = %q, want conv_1", deleted)
	}
}
