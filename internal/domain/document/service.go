package document

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/utils/idgen"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

const (
	listLimit = 25

	// maxContentChars bounds stored document text so a single file cannot
	// blow up prompts or rows.
	maxContentChars  = 100000
	truncationNotice = "\n\n[Content truncated due to size...]"
)

// Service parses uploaded documents and manages stored extractions.
type Service struct {
	repo           Repository
	parser         Parser
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewService constructs a document service.
func NewService(repo Repository, parser Parser, maxUploadBytes int64, logger zerolog.Logger) *Service {
	return &Service{
		repo:           repo,
		parser:         parser,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Parse extracts text from the uploaded bytes and persists the document under
// the user's account. Content above maxContentChars is cut and flagged in the
// document metadata.
func (s *Service) Parse(ctx context.Context, userID string, data []byte, mimetype, filename string) (*Document, error) {
	if len(data) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "empty file", nil, "")
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeTooLarge,
			fmt.Sprintf("file too large (>%d bytes)", s.maxUploadBytes), nil, "")
	}

	parsed, err := s.parser.Parse(ctx, data, mimetype, filename)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "parse document")
	}

	content := parsed.Content
	metadata := parsed.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	if len(content) > maxContentChars {
		content = content[:maxContentChars] + truncationNotice
		metadata["truncated"] = true
	}

	publicID, err := idgen.GenerateSecureID("doc", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "generate document id")
	}

	if filename == "" {
		filename = "document"
	}

	d := &Document{
		PublicID: publicID,
		UserID:   userID,
		Filename: filename,
		Mimetype: mimetype,
		Content:  content,
		Metadata: metadata,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "store document")
	}

	s.logger.Info().
		Str("document_id", d.PublicID).
		Str("user_id", userID).
		Int("content_chars", len(d.Content)).
		Msg("document stored")
	return d, nil
}

// Get returns the user's document with the given public identifier.
func (s *Service) Get(ctx context.Context, userID, publicID string) (*Document, error) {
	d, err := s.repo.FindByPublicID(ctx, userID, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lookup document")
	}
	return d, nil
}

// List returns the user's most recent documents.
func (s *Service) List(ctx context.Context, userID string) ([]*Document, error) {
	items, err := s.repo.ListByUser(ctx, userID, listLimit)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list documents")
	}
	return items, nil
}

// Preview returns the first n characters of content with an ellipsis when
// content was cut.
func Preview(content string, n int) string {
	if len(content) <= n {
		return content
	}
	return content[:n] + "..."
}
