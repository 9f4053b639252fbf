package entities

import (
	"time"

	"github.com/panscience/chat-server/internal/domain/transcript"
)

// Transcript represents the database schema for media transcripts
type Transcript struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_transcript_user_created,priority:2"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID string      `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID   string      `gorm:"type:varchar(50);index:idx_transcript_user_created,priority:1;not null"`
	Filename string      `gorm:"type:varchar(512)"`
	Mimetype string      `gorm:"type:varchar(255)"`
	Duration *float64    `gorm:"type:double precision"`
	Segments SegmentList `gorm:"type:jsonb"`
}

// TableName specifies the table name for Transcript.
func (Transcript) TableName() string {
	return "transcripts"
}

// EtoD converts database entity to domain model
func (t *Transcript) EtoD() *transcript.Transcript {
	return &transcript.Transcript{
		ID:        t.ID,
		PublicID:  t.PublicID,
		UserID:    t.UserID,
		Filename:  t.Filename,
		Mimetype:  t.Mimetype,
		Duration:  t.Duration,
		Segments:  t.Segments,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// NewSchemaTranscript creates a database entity from domain model
func NewSchemaTranscript(t *transcript.Transcript) *Transcript {
	return &Transcript{
		ID:        t.ID,
		PublicID:  t.PublicID,
		UserID:    t.UserID,
		Filename:  t.Filename,
		Mimetype:  t.Mimetype,
		Duration:  t.Duration,
		Segments:  t.Segments,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
