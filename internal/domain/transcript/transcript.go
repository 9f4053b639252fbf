package transcript

import (
	"context"
	"time"
)

// Transcript is a stored transcription of one uploaded media file, owned by
// the user who uploaded it.
type Transcript struct {
	ID        uint
	PublicID  string
	UserID    string
	Filename  string
	Mimetype  string
	Duration  *float64
	Segments  []Segment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Result is the output of a transcription backend.
type Result struct {
	Segments []Segment
	Duration *float64
}

// Transcriber converts raw media bytes into timestamped segments.
type Transcriber interface {
	Transcribe(ctx context.Context, data []byte, mimetype, filename, language string) (*Result, error)
}

// Repository persists transcripts.
type Repository interface {
	Create(ctx context.Context, t *Transcript) error
	FindByPublicID(ctx context.Context, userID, publicID string) (*Transcript, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*Transcript, error)
}
