package docparser_test

import (
	"context"
	"strings"
	"testing"

	"github.com/panscience/chat-server/internal/infrastructure/docparser"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

func TestParsePlainText(t *testing.T) {
	parser := docparser.NewParser()

	tests := []struct {
		name     string
		mimetype string
		filename string
	}{
		{name: "text mimetype", mimetype: "text/plain", filename: "notes"},
		{name: "txt extension", mimetype: "application/octet-stream", filename: "notes.txt"},
		{name: "csv extension", mimetype: "application/octet-stream", filename: "data.csv"},
		{name: "md extension", mimetype: "application/octet-stream", filename: "readme.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parser.Parse(context.Background(), []byte("line one\nline two"), tt.mimetype, tt.filename)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if parsed.Content != "line one\nline two" {
				t.Errorf("Content = %q", parsed.Content)
			}
			if parsed.Metadata["format"] != "Plain Text" {
				t.Errorf("format = %v, want Plain Text", parsed.Metadata["format"])
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	parser := docparser.NewParser()

	t.Run("pretty prints valid payloads", func(t *testing.T) {
		parsed, err := parser.Parse(context.Background(), []byte(`{"b":2,"a":1}`), "application/json", "data.json")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if !strings.Contains(parsed.Content, "\n  \"a\": 1") {
			t.Errorf("Content = %q, want two-space indentation", parsed.Content)
		}
		if parsed.Metadata["format"] != "JSON" {
			t.Errorf("format = %v, want JSON", parsed.Metadata["format"])
		}
	})

	t.Run("rejects invalid payloads", func(t *testing.T) {
		_, err := parser.Parse(context.Background(), []byte("{not json"), "application/json", "data.json")
		if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestParseRejectsUnsupportedTypes(t *testing.T) {
	parser := docparser.NewParser()

	_, err := parser.Parse(context.Background(), []byte("binary"), "application/vnd.ms-excel", "sheet.xls")
	if err == nil {
		t.Fatal("expected error for unsupported type")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "unsupported document type") {
		t.Errorf("error = %v, want unsupported document type message", err)
	}
}

func TestParseRejectsCorruptPDF(t *testing.T) {
	parser := docparser.NewParser()

	_, err := parser.Parse(context.Background(), []byte("not a pdf"), "application/pdf", "broken.pdf")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
