package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"chunkmark/internal/contextutil"
	"chunkmark/internal/highlight"
	"chunkmark/internal/service"
)

// CreateViewRequest represents the HTTP request payload for opening a view.
//
// swagger:model CreateViewRequest
type CreateViewRequest struct {
	// URL identifying the document
	URL string `json:"url"`
	// Media type of Body: text/html (default), text/markdown or text/plain
	ContentType string `json:"content_type,omitempty"`
	// Document source; omit to open the stored document with this URL
	Body string `json:"body,omitempty"`
}

// ViewResponse describes an open view.
//
// swagger:model ViewResponse
type ViewResponse struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	// Characters per chunk position
	UnitSize int `json:"unit_size"`
	// Length of the document's offset space
	Chars     int    `json:"chars"`
	Marks     int    `json:"marks"`
	CreatedAt string `json:"created_at"`
}

// ChunkResponse describes what one requested position produced.
//
// swagger:model ChunkResponse
type ChunkResponse struct {
	Index   int  `json:"index"`
	Start   int  `json:"start"`
	End     int  `json:"end"`
	Marks   int  `json:"marks"`
	Skipped bool `json:"skipped,omitempty"`
}

// HighlightResponse summarises a highlight batch.
//
// swagger:model HighlightResponse
type HighlightResponse struct {
	Marks        int             `json:"marks"`
	Chunks       []ChunkResponse `json:"chunks"`
	ScrollTarget string          `json:"scroll_target,omitempty"`
}

func toViewResponse(info service.ViewInfo) ViewResponse {
	return ViewResponse{
		ID:          info.ID,
		URL:         info.URL,
		ContentType: info.ContentType,
		UnitSize:    info.UnitSize,
		Chars:       info.Chars,
		Marks:       info.Marks,
		CreatedAt:   info.CreatedAt.Format(time.RFC3339),
	}
}

func toHighlightResponse(res highlight.Result) HighlightResponse {
	chunks := make([]ChunkResponse, 0, len(res.Chunks))
	for _, c := range res.Chunks {
		chunks = append(chunks, ChunkResponse{
			Index:   c.Index,
			Start:   c.Range.Start,
			End:     c.Range.End,
			Marks:   c.Marks,
			Skipped: c.Skipped,
		})
	}
	return HighlightResponse{
		Marks:        res.Marks,
		Chunks:       chunks,
		ScrollTarget: res.ScrollTarget,
	}
}

// ViewsHandler lists and opens views.
type ViewsHandler struct {
	svc service.HighlightService
}

// NewViewsHandler creates a new ViewsHandler.
func NewViewsHandler(svc service.HighlightService) *ViewsHandler {
	return &ViewsHandler{svc: svc}
}

// ServeHTTP handles HTTP requests on the view collection.
//
// swagger:route POST /api/v1/views openView
//
// # Open a document view
//
// Parses the document into a new view and stores its source. When body is
// omitted the stored document with the same URL is opened.
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'201':
//	  description: View opened
//	  schema:
//	    "$ref": "#/definitions/ViewResponse"
//	'400':
//	  description: Invalid url, content type or body
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'404':
//	  description: No stored document for the URL
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ViewsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	switch r.Method {
	case http.MethodGet:
		infos := h.svc.ListViews(ctx)
		resp := make([]ViewResponse, 0, len(infos))
		for _, info := range infos {
			resp = append(resp, toViewResponse(info))
		}
		writeJSON(ctx, w, http.StatusOK, resp)
	case http.MethodPost:
		var req CreateViewRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			logger.WarnContext(ctx, "invalid request body", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		info, err := h.svc.OpenView(ctx, service.OpenViewRequest{
			URL:         req.URL,
			ContentType: req.ContentType,
			Body:        req.Body,
		})
		if err != nil {
			writeServiceError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, toViewResponse(info))
	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// ViewHandler serves and closes a single view.
type ViewHandler struct {
	svc service.HighlightService
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(svc service.HighlightService) *ViewHandler {
	return &ViewHandler{svc: svc}
}

// ServeHTTP handles HTTP requests on one view.
//
// swagger:route GET /api/v1/views/{id} renderView
//
// # Render a view
//
// Returns the document HTML with the current marks. When the last batch
// produced a scroll target, a script scrolling it into view is appended.
//
// ---
// produces:
// - text/html
// responses:
//
//	'200':
//	  description: Rendered document
//	'404':
//	  description: Unknown view
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ViewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	id := chi.URLParam(r, "id")

	switch r.Method {
	case http.MethodGet:
		// Render into memory first so errors still produce a JSON response
		var buf bytes.Buffer
		if err := h.svc.Render(ctx, id, &buf); err != nil {
			writeServiceError(ctx, w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			logger.ErrorContext(ctx, "failed to write view", "view_id", id, "error", err)
		}
	case http.MethodDelete:
		if err := h.svc.CloseView(ctx, id); err != nil {
			writeServiceError(ctx, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// MessageHandler forwards inbound messages to a view.
type MessageHandler struct {
	svc service.HighlightService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(svc service.HighlightService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// ServeHTTP handles HTTP requests carrying view messages.
//
// swagger:route POST /api/v1/views/{id}/messages sendMessage
//
// # Send a message to a view
//
// Accepts {"action": "highlightChunks", "positions": [...]} or
// {"action": "clearHighlights"}. A highlight request replaces the previous
// batch. Malformed positions are treated as an empty list.
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Message handled
//	  schema:
//	    "$ref": "#/definitions/HighlightResponse"
//	'400':
//	  description: Body is not a JSON object, or the action is unknown
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'404':
//	  description: Unknown view
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *MessageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logger.WarnContext(ctx, "failed to read request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.svc.SendMessage(ctx, chi.URLParam(r, "id"), raw)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toHighlightResponse(res))
}
