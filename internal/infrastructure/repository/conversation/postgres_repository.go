package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/panscience/chat-server/internal/domain/conversation"
	"github.com/panscience/chat-server/internal/infrastructure/database/entities"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

// Repository persists conversations and their messages.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the conversation record.
func (r *Repository) Create(ctx context.Context, conv *domain.Conversation) error {
	entity := entities.NewSchemaConversation(conv)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation",
			err,
			"conversation-create-db-error",
		)
	}

	conv.ID = entity.ID
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByPublicID fetches the user's conversation by its public ID.
func (r *Repository) FindByPublicID(ctx context.Context, userID, publicID string) (*domain.Conversation, error) {
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("public_id = ? AND user_id = ?", publicID, userID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", publicID),
				nil,
				"conversation-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch conversation",
			err,
			"conversation-fetch-db-error",
		)
	}

	return entity.EtoD(), nil
}

// ListByUser fetches the user's conversations, most recently updated first.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Conversation, error) {
	var rows []entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversations",
			err,
			"conversation-list-db-error",
		)
	}

	out := make([]*domain.Conversation, len(rows))
	for i := range rows {
		out[i] = rows[i].EtoD()
	}
	return out, nil
}

// Delete removes the conversation and its messages in one transaction.
func (r *Repository) Delete(ctx context.Context, userID, publicID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("public_id = ? AND user_id = ?", publicID, userID).
			Delete(&entities.Conversation{})
		if res.Error != nil {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to delete conversation",
				res.Error,
				"conversation-delete-db-error",
			)
		}
		if res.RowsAffected == 0 {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", publicID),
				nil,
				"conversation-delete-not-found",
			)
		}

		if err := tx.Where("conversation_id = ? AND user_id = ?", publicID, userID).
			Delete(&entities.Message{}).Error; err != nil {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to delete conversation messages",
				err,
				"message-delete-db-error",
			)
		}
		return nil
	})
}

// UpdateTitleIfPlaceholder sets the title only while the stored title is
// still one of the placeholders.
func (r *Repository) UpdateTitleIfPlaceholder(ctx context.Context, userID, publicID, title string, placeholders []string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("public_id = ? AND user_id = ? AND title IN ?", publicID, userID, placeholders).
		Update("title", title)
	if res.Error != nil {
		return false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update conversation title",
			res.Error,
			"conversation-title-db-error",
		)
	}
	return res.RowsAffected == 1, nil
}

// AppendMessage inserts the message and bumps the conversation's updated_at.
func (r *Repository) AppendMessage(ctx context.Context, m *domain.Message) error {
	entity := entities.NewSchemaMessage(m)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to append message",
				err,
				"message-create-db-error",
			)
		}

		if err := tx.Model(&entities.Conversation{}).
			Where("public_id = ? AND user_id = ?", m.ConversationID, m.UserID).
			Update("updated_at", time.Now().UTC()).Error; err != nil {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to touch conversation",
				err,
				"conversation-touch-db-error",
			)
		}

		m.ID = entity.ID
		m.CreatedAt = entity.CreatedAt
		return nil
	})
}

// ListMessages fetches the conversation's messages oldest first.
func (r *Repository) ListMessages(ctx context.Context, userID, conversationID string, limit int) ([]*domain.Message, error) {
	var rows []entities.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list messages",
			err,
			"message-list-db-error",
		)
	}

	out := make([]*domain.Message, len(rows))
	for i := range rows {
		out[i] = rows[i].EtoD()
	}
	return out, nil
}

// Ensure interface compliance.
var _ domain.Repository = (*Repository)(nil)
