package docparser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/panscience/chat-server/internal/domain/document"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

// Parser extracts text from PDF, JSON, and plain text uploads.
type Parser struct{}

// NewParser constructs a document parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse dispatches on mimetype and filename extension.
func (p *Parser) Parse(ctx context.Context, data []byte, mimetype, filename string) (*document.Parsed, error) {
	mimeLower := strings.ToLower(mimetype)
	nameLower := strings.ToLower(filename)

	switch {
	case strings.Contains(mimeLower, "pdf") || strings.HasSuffix(nameLower, ".pdf"):
		return p.parsePDF(ctx, data)

	case strings.Contains(mimeLower, "json") || strings.HasSuffix(nameLower, ".json"):
		return p.parseJSON(ctx, data)

	case strings.Contains(mimeLower, "text") ||
		strings.HasSuffix(nameLower, ".txt") ||
		strings.HasSuffix(nameLower, ".csv") ||
		strings.HasSuffix(nameLower, ".md"):
		return &document.Parsed{
			Content: string(data),
			Metadata: map[string]any{
				"format":   "Plain Text",
				"encoding": "utf-8",
			},
		}, nil

	default:
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unsupported document type: %s", mimetype),
			nil,
			"docparser-unsupported-type",
		)
	}
}

// parsePDF extracts page text, prefixing each non-empty page with its number.
func (p *Parser) parsePDF(ctx context.Context, data []byte) (*document.Parsed, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeValidation,
			"failed to parse document",
			err,
			"docparser-pdf-error",
		)
	}

	pageCount := reader.NumPage()
	pages := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, fmt.Sprintf("[Page %d]\n%s", i, text))
	}

	return &document.Parsed{
		Content: strings.Join(pages, "\n\n"),
		Metadata: map[string]any{
			"page_count": pageCount,
			"format":     "PDF",
		},
	}, nil
}

// parseJSON pretty prints the payload so the model sees consistent structure.
func (p *Parser) parseJSON(ctx context.Context, data []byte) (*document.Parsed, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeValidation,
			"failed to parse document",
			err,
			"docparser-json-error",
		)
	}

	pretty, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeValidation,
			"failed to render document",
			err,
			"docparser-json-render-error",
		)
	}

	return &document.Parsed{
		Content: string(pretty),
		Metadata: map[string]any{
			"format": "JSON",
			"type":   fmt.Sprintf("%T", value),
		},
	}, nil
}

// Ensure interface compliance.
var _ document.Parser = (*Parser)(nil)
