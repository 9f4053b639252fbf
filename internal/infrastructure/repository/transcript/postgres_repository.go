package transcript

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/panscience/chat-server/internal/domain/transcript"
	"github.com/panscience/chat-server/internal/infrastructure/database/entities"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

// Repository persists media transcripts.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a transcript repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the transcript record.
func (r *Repository) Create(ctx context.Context, t *domain.Transcript) error {
	entity := entities.NewSchemaTranscript(t)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create transcript",
			err,
			"transcript-create-db-error",
		)
	}

	t.ID = entity.ID
	t.CreatedAt = entity.CreatedAt
	t.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByPublicID fetches the user's transcript by its public ID.
func (r *Repository) FindByPublicID(ctx context.Context, userID, publicID string) (*domain.Transcript, error) {
	var entity entities.Transcript
	if err := r.db.WithContext(ctx).
		Where("public_id = ? AND user_id = ?", publicID, userID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("transcript not found: %s", publicID),
				nil,
				"transcript-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch transcript",
			err,
			"transcript-fetch-db-error",
		)
	}

	return entity.EtoD(), nil
}

// ListByUser fetches the user's transcripts, most recent first.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Transcript, error) {
	var rows []entities.Transcript
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list transcripts",
			err,
			"transcript-list-db-error",
		)
	}

	out := make([]*domain.Transcript, len(rows))
	for i := range rows {
		out[i] = rows[i].EtoD()
	}
	return out, nil
}

// Ensure interface compliance.
var _ domain.Repository = (*Repository)(nil)
