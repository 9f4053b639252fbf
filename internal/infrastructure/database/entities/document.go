package entities

import (
	"time"

	"github.com/panscience/chat-server/internal/domain/document"
)

// Document represents the database schema for parsed documents
type Document struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_document_user_created,priority:2"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID string  `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID   string  `gorm:"type:varchar(50);index:idx_document_user_created,priority:1;not null"`
	Filename string  `gorm:"type:varchar(512)"`
	Mimetype string  `gorm:"type:varchar(255)"`
	Content  string  `gorm:"type:text"`
	Metadata JSONMap `gorm:"type:jsonb"`
}

// TableName specifies the table name for Document.
func (Document) TableName() string {
	return "documents"
}

// EtoD converts database entity to domain model
func (d *Document) EtoD() *document.Document {
	return &document.Document{
		ID:        d.ID,
		PublicID:  d.PublicID,
		UserID:    d.UserID,
		Filename:  d.Filename,
		Mimetype:  d.Mimetype,
		Content:   d.Content,
		Metadata:  d.Metadata,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// NewSchemaDocument creates a database entity from domain model
func NewSchemaDocument(d *document.Document) *Document {
	return &Document{
		ID:        d.ID,
		PublicID:  d.PublicID,
		UserID:    d.UserID,
		Filename:  d.Filename,
		Mimetype:  d.Mimetype,
		Content:   d.Content,
		Metadata:  d.Metadata,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
