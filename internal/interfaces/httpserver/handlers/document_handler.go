package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/domain/document"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/middlewares"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/responses"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

const previewChars = 500

// DocumentHandler exposes HTTP entrypoints for document parsing and retrieval.
type DocumentHandler struct {
	documents *document.Service
	log       zerolog.Logger
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(documents *document.Service, log zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		log:       log.With().Str("handler", "document").Logger(),
	}
}

// Parse handles POST /api/documents/parse
func (h *DocumentHandler) Parse(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing authentication", "document-parse-principal")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "missing file", "document-parse-file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.HandleError(c, err, "failed to read upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		responses.HandleError(c, err, "failed to read upload")
		return
	}

	mimetype := fileHeader.Header.Get("Content-Type")
	if mimetype == "" {
		mimetype = "application/octet-stream"
	}

	d, err := h.documents.Parse(c.Request.Context(), principal.UserID, data, mimetype, fileHeader.Filename)
	if err != nil {
		responses.HandleError(c, err, "failed to parse document")
		return
	}

	c.JSON(http.StatusOK, responses.ParseDocumentPayload{
		DocumentID:     d.PublicID,
		Filename:       d.Filename,
		Mimetype:       d.Mimetype,
		ContentPreview: document.Preview(d.Content, previewChars),
		Metadata:       d.Metadata,
	})
}

// List handles GET /api/documents
func (h *DocumentHandler) List(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing authentication", "document-list-principal")
		return
	}

	items, err := h.documents.List(c.Request.Context(), principal.UserID)
	if err != nil {
		responses.HandleError(c, err, "failed to list documents")
		return
	}

	out := make([]responses.DocumentSummaryPayload, len(items))
	for i, d := range items {
		out[i] = responses.FromDocumentSummary(d)
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /api/documents/:document_id
func (h *DocumentHandler) Get(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "missing authentication", "document-get-principal")
		return
	}
	documentID := c.Param("document_id")

	d, err := h.documents.Get(c.Request.Context(), principal.UserID, documentID)
	if err != nil {
		responses.HandleError(c, err, "failed to get document")
		return
	}

	c.JSON(http.StatusOK, responses.FromDocument(d))
}
