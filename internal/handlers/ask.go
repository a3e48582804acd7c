package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chunkmark/internal/contextutil"
	"chunkmark/internal/service"
)

// AskHandler handles HTTP requests that highlight the chunks answering a question.
type AskHandler struct {
	svc service.HighlightService
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(svc service.HighlightService) *AskHandler {
	return &AskHandler{svc: svc}
}

// AskRequest represents the HTTP request payload for ask queries.
//
// swagger:model AskRequest
type AskRequest struct {
	Question string `json:"question"`
	// Maximum number of chunks to highlight (default 5, max 20)
	K int `json:"k,omitempty"`
}

// AskResponse represents the HTTP response payload for ask queries.
//
// swagger:model AskResponse
type AskResponse struct {
	// Chunk positions returned by the locator, best match first
	Positions []int             `json:"positions"`
	Highlight HighlightResponse `json:"highlight"`
}

// ServeHTTP handles HTTP requests for ask queries.
//
// swagger:route POST /api/v1/views/{id}/ask askView
//
// # Highlight the answer to a question
//
// Locates the chunks of the view's document closest to the question and
// highlights them as one batch.
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Chunks located and highlighted
//	  schema:
//	    "$ref": "#/definitions/AskResponse"
//	'400':
//	  description: Empty question
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'404':
//	  description: Unknown view
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'502':
//	  description: Embedding service or vector store failed
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'503':
//	  description: Locator not configured
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.svc.Ask(ctx, chi.URLParam(r, "id"), service.AskRequest{
		Question: req.Question,
		K:        req.K,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	positions := resp.Positions
	if positions == nil {
		positions = []int{}
	}
	writeJSON(ctx, w, http.StatusOK, AskResponse{
		Positions: positions,
		Highlight: toHighlightResponse(resp.Result),
	})
}
