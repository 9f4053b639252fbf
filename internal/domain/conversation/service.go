package conversation

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/utils/idgen"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

const (
	listLimit    = 50
	messageLimit = 200
)

// Service manages conversation threads and their messages.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService constructs a conversation service.
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create starts a new conversation for the user. An empty title defaults to
// "New Conversation".
func (s *Service) Create(ctx context.Context, userID, title string) (*Conversation, error) {
	if strings.TrimSpace(title) == "" {
		title = "New Conversation"
	}

	publicID, err := idgen.GenerateSecureID("conv", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "generate conversation id")
	}

	c := &Conversation{
		PublicID: publicID,
		UserID:   userID,
		Title:    title,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create conversation")
	}
	return c, nil
}

// Get returns the user's conversation with the given public identifier.
func (s *Service) Get(ctx context.Context, userID, publicID string) (*Conversation, error) {
	c, err := s.repo.FindByPublicID(ctx, userID, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lookup conversation")
	}
	return c, nil
}

// List returns the user's conversations, most recently updated first.
func (s *Service) List(ctx context.Context, userID string) ([]*Conversation, error) {
	items, err := s.repo.ListByUser(ctx, userID, listLimit)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list conversations")
	}
	return items, nil
}

// Delete removes the conversation and all of its messages.
func (s *Service) Delete(ctx context.Context, userID, publicID string) error {
	if err := s.repo.Delete(ctx, userID, publicID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "delete conversation")
	}
	return nil
}

// AppendMessage stores a message in the conversation and bumps its updated
// timestamp.
func (s *Service) AppendMessage(ctx context.Context, userID, conversationID, sender, text string, attachments []Attachment) (*Message, error) {
	publicID, err := idgen.GenerateSecureID("msg", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "generate message id")
	}

	m := &Message{
		PublicID:       publicID,
		ConversationID: conversationID,
		UserID:         userID,
		Sender:         sender,
		Text:           text,
		Attachments:    attachments,
	}
	if err := s.repo.AppendMessage(ctx, m); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "append message")
	}
	return m, nil
}

// ListMessages returns the conversation's messages oldest first.
func (s *Service) ListMessages(ctx context.Context, userID, conversationID string) ([]*Message, error) {
	msgs, err := s.repo.ListMessages(ctx, userID, conversationID, messageLimit)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list messages")
	}
	return msgs, nil
}

// SetTitleIfPlaceholder applies a generated title only when the stored title
// is still a placeholder.
func (s *Service) SetTitleIfPlaceholder(ctx context.Context, userID, publicID, title string) (bool, error) {
	updated, err := s.repo.UpdateTitleIfPlaceholder(ctx, userID, publicID, title, TitlePlaceholders)
	if err != nil {
		return false, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "update conversation title")
	}
	return updated, nil
}
