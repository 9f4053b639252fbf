package transcript

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/infrastructure/metrics"
	"github.com/panscience/chat-server/internal/utils/idgen"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

const listLimit = 25

// Service transcribes uploaded media and manages stored transcripts.
type Service struct {
	repo           Repository
	transcriber    Transcriber
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewService constructs a transcript service.
func NewService(repo Repository, transcriber Transcriber, maxUploadBytes int64, logger zerolog.Logger) *Service {
	return &Service{
		repo:           repo,
		transcriber:    transcriber,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Transcribe runs the transcription backend over the uploaded bytes and
// persists the resulting transcript under the user's account.
func (s *Service) Transcribe(ctx context.Context, userID string, data []byte, mimetype, filename, language string) (*Transcript, error) {
	if len(data) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "empty file", nil, "")
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeTooLarge,
			fmt.Sprintf("file too large (>%d bytes)", s.maxUploadBytes), nil, "")
	}

	result, err := s.transcriber.Transcribe(ctx, data, mimetype, filename, language)
	if err != nil {
		metrics.RecordTranscription("error")
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "transcribe media")
	}
	metrics.RecordTranscription("success")

	publicID, err := idgen.GenerateSecureID("tr", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "generate transcript id")
	}

	t := &Transcript{
		PublicID: publicID,
		UserID:   userID,
		Filename: filename,
		Mimetype: mimetype,
		Duration: result.Duration,
		Segments: result.Segments,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "store transcript")
	}

	s.logger.Info().
		Str("transcript_id", t.PublicID).
		Str("user_id", userID).
		Int("segments", len(t.Segments)).
		Msg("transcript stored")
	return t, nil
}

// Get returns the user's transcript with the given public identifier.
func (s *Service) Get(ctx context.Context, userID, publicID string) (*Transcript, error) {
	t, err := s.repo.FindByPublicID(ctx, userID, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lookup transcript")
	}
	return t, nil
}

// List returns the user's most recent transcripts.
func (s *Service) List(ctx context.Context, userID string) ([]*Transcript, error) {
	items, err := s.repo.ListByUser(ctx, userID, listLimit)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list transcripts")
	}
	return items, nil
}
