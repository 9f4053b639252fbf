package document

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/panscience/chat-server/internal/domain/document"
	"github.com/panscience/chat-server/internal/infrastructure/database/entities"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

// Repository persists parsed documents.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a document repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the document record.
func (r *Repository) Create(ctx context.Context, d *domain.Document) error {
	entity := entities.NewSchemaDocument(d)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create document",
			err,
			"document-create-db-error",
		)
	}

	d.ID = entity.ID
	d.CreatedAt = entity.CreatedAt
	d.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByPublicID fetches the user's document by its public ID.
func (r *Repository) FindByPublicID(ctx context.Context, userID, publicID string) (*domain.Document, error) {
	var entity entities.Document
	if err := r.db.WithContext(ctx).
		Where("public_id = ? AND user_id = ?", publicID, userID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("document not found: %s", publicID),
				nil,
				"document-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch document",
			err,
			"document-fetch-db-error",
		)
	}

	return entity.EtoD(), nil
}

// ListByUser fetches the user's documents, most recent first.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Document, error) {
	var rows []entities.Document
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list documents",
			err,
			"document-list-db-error",
		)
	}

	out := make([]*domain.Document, len(rows))
	for i := range rows {
		out[i] = rows[i].EtoD()
	}
	return out, nil
}

// Ensure interface compliance.
var _ domain.Repository = (*Repository)(nil)
