package handlers

import (
	"net/http"
	"time"

	"chunkmark/internal/contextutil"
	"chunkmark/internal/service"
)

// DocumentsHandler lists and deletes stored documents.
type DocumentsHandler struct {
	svc service.HighlightService
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(svc service.HighlightService) *DocumentsHandler {
	return &DocumentsHandler{svc: svc}
}

// DocumentResponse describes a stored document.
//
// swagger:model DocumentResponse
type DocumentResponse struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Hash        string `json:"hash"`
	UpdatedAt   string `json:"updated_at"`
}

// ServeHTTP handles HTTP requests on stored documents.
//
// swagger:route GET /api/v1/documents listDocuments
//
// # List stored documents
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Stored documents ordered by URL
//	  schema:
//	    type: array
//	    items:
//	      "$ref": "#/definitions/DocumentResponse"
//
// swagger:route DELETE /api/v1/documents deleteDocument
//
// # Delete a stored document
//
// The document is selected with the url query parameter. Open views are
// left untouched.
//
// ---
// responses:
//
//	'204':
//	  description: Deleted
//	'404':
//	  description: No such document
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *DocumentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	switch r.Method {
	case http.MethodGet:
		docs, err := h.svc.ListDocuments(ctx)
		if err != nil {
			writeServiceError(ctx, w, err)
			return
		}
		resp := make([]DocumentResponse, 0, len(docs))
		for _, doc := range docs {
			resp = append(resp, DocumentResponse{
				ID:          doc.ID,
				URL:         doc.URL,
				ContentType: doc.ContentType,
				Hash:        doc.Hash,
				UpdatedAt:   doc.UpdatedAt.Format(time.RFC3339),
			})
		}
		writeJSON(ctx, w, http.StatusOK, resp)
	case http.MethodDelete:
		if err := h.svc.DeleteDocument(ctx, r.URL.Query().Get("url")); err != nil {
			writeServiceError(ctx, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
