package document

import (
	"context"
	"time"
)

// Document is the extracted text of one uploaded file, owned by the user who
// uploaded it.
type Document struct {
	ID        uint
	PublicID  string
	UserID    string
	Filename  string
	Mimetype  string
	Content   string
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Parsed is the output of a document parser.
type Parsed struct {
	Content  string
	Metadata map[string]any
}

// Parser extracts text content from raw document bytes.
type Parser interface {
	Parse(ctx context.Context, data []byte, mimetype, filename string) (*Parsed, error)
}

// Repository persists documents.
type Repository interface {
	Create(ctx context.Context, d *Document) error
	FindByPublicID(ctx context.Context, userID, publicID string) (*Document, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*Document, error)
}
