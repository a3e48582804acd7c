package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_indexer.go -package=mocks chunkmark/internal/service DocumentIndexer
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_highlight_service.go -package=mocks -mock_names=HighlightService=MockHighlightService chunkmark/internal/service HighlightService

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"chunkmark/internal/contextutil"
	"chunkmark/internal/highlight"
	"chunkmark/internal/indexer"
	"chunkmark/internal/locator"
	"chunkmark/internal/storage"
	"chunkmark/internal/view"
)

// MaxK bounds the number of chunks an ask request may highlight.
const MaxK = 20

// DocumentIndexer keeps the chunk embeddings of stored documents current.
// This interface is defined from the service layer's perspective (consumer-first).
type DocumentIndexer interface {
	// IndexDocument replaces the embeddings of url with those of text.
	IndexDocument(ctx context.Context, url, text string) (indexer.IndexStats, error)
	// RemoveDocument deletes the embeddings of url.
	RemoveDocument(ctx context.Context, url string) error
	// IndexVersion identifies the embedding model and unit size in use.
	IndexVersion() string
}

// OpenViewRequest asks for a new view. An empty Body opens the stored
// document with the same URL.
type OpenViewRequest struct {
	URL         string
	ContentType string
	Body        string
}

// ViewInfo describes an open view.
type ViewInfo struct {
	ID          string
	URL         string
	ContentType string
	UnitSize    int
	Chars       int
	Marks       int
	CreatedAt   time.Time
}

// AskRequest asks which chunks of a view answer a question.
type AskRequest struct {
	Question string
	K        int
}

// AskResponse carries the located positions and the highlight they produced.
type AskResponse struct {
	Positions []int
	Result    highlight.Result
}

// HighlightService drives document views for the HTTP and MCP surfaces.
type HighlightService interface {
	// OpenView parses a document into a new view, storing its source.
	OpenView(ctx context.Context, req OpenViewRequest) (ViewInfo, error)
	// GetView describes an open view.
	GetView(ctx context.Context, viewID string) (ViewInfo, error)
	// ListViews describes every open view.
	ListViews(ctx context.Context) []ViewInfo
	// SendMessage decodes a raw inbound message and runs it against a view.
	SendMessage(ctx context.Context, viewID string, raw []byte) (highlight.Result, error)
	// Highlight replaces the marks of a view with marks for positions.
	Highlight(ctx context.Context, viewID string, positions []int) (highlight.Result, error)
	// ClearHighlights removes every mark from a view.
	ClearHighlights(ctx context.Context, viewID string) error
	// Ask locates the chunks answering a question and highlights them.
	Ask(ctx context.Context, viewID string, req AskRequest) (AskResponse, error)
	// Render writes the current HTML of a view.
	Render(ctx context.Context, viewID string, w io.Writer) error
	// CloseView tears a view down.
	CloseView(ctx context.Context, viewID string) error
	// ListDocuments returns the stored documents without their bodies.
	ListDocuments(ctx context.Context) ([]storage.DocumentRecord, error)
	// DeleteDocument removes a stored document and its embeddings.
	DeleteDocument(ctx context.Context, url string) error
}

// Option configures the highlight service.
type Option func(*highlightService)

// WithLocator enables Ask.
func WithLocator(l locator.Locator) Option {
	return func(s *highlightService) {
		s.locator = l
	}
}

// WithIndexer keeps embeddings in step with stored documents.
func WithIndexer(ix DocumentIndexer) Option {
	return func(s *highlightService) {
		s.indexer = ix
	}
}

// highlightService implements HighlightService.
type highlightService struct {
	registry  *view.Registry
	documents storage.DocumentStore
	locator   locator.Locator
	indexer   DocumentIndexer
}

// NewHighlightService creates a new HighlightService. documents may be nil,
// in which case sources are not persisted.
func NewHighlightService(registry *view.Registry, documents storage.DocumentStore, opts ...Option) HighlightService {
	s := &highlightService{
		registry:  registry,
		documents: documents,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenView opens a view from the request body, or from the stored document
// when the body is empty.
func (s *highlightService) OpenView(ctx context.Context, req OpenViewRequest) (ViewInfo, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.URL) == "" {
		logger.WarnContext(ctx, "empty url in open view request")
		return ViewInfo{}, &ValidationError{Field: "url", Message: "cannot be empty"}
	}

	src := view.Source{URL: req.URL, ContentType: req.ContentType, Body: req.Body}
	fromStore := req.Body == ""
	var stored *storage.DocumentRecord
	if fromStore {
		doc, err := s.loadDocument(ctx, req.URL)
		if err != nil {
			return ViewInfo{}, err
		}
		stored = doc
		src = view.Source{URL: doc.URL, ContentType: doc.ContentType, Body: doc.Body}
	}

	v, err := s.registry.Open(ctx, src)
	if err != nil {
		return ViewInfo{}, mapViewError(err)
	}

	if fromStore {
		if s.needsIndex(stored) {
			s.indexView(ctx, v)
		}
	} else if err := s.storeDocument(ctx, v, src.Body); err != nil {
		_ = s.registry.Close(ctx, v.ID)
		return ViewInfo{}, err
	}

	return infoOf(v), nil
}

func (s *highlightService) loadDocument(ctx context.Context, url string) (*storage.DocumentRecord, error) {
	if s.documents == nil {
		return nil, classify(ErrNotFound, errors.New("document storage is disabled"))
	}
	doc, err := s.documents.GetByURL(ctx, url)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, classify(ErrNotFound, err)
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load document", "url", url, "error", err)
		return nil, WrapError(err, "failed to load document")
	}
	return doc, nil
}

// storeDocument persists the source of a freshly opened view and re-indexes
// it unless the stored copy is unchanged and already indexed.
func (s *highlightService) storeDocument(ctx context.Context, v *view.View, body string) error {
	if s.documents == nil {
		return nil
	}
	logger := contextutil.LoggerFromContext(ctx)

	existing, err := s.documents.GetByURL(ctx, v.URL)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.ErrorContext(ctx, "failed to check stored document", "url", v.URL, "error", err)
		return WrapError(err, "failed to check stored document")
	}

	unchanged := existing != nil && existing.Hash == storage.HashBody(body) && existing.ContentType == v.ContentType
	if unchanged && !s.needsIndex(existing) {
		logger.DebugContext(ctx, "document unchanged", "url", v.URL)
		return nil
	}

	if !unchanged {
		doc := &storage.DocumentRecord{URL: v.URL, ContentType: v.ContentType, Body: body}
		if err := s.documents.Upsert(ctx, doc); err != nil {
			logger.ErrorContext(ctx, "failed to store document", "url", v.URL, "error", err)
			return WrapError(err, "failed to store document")
		}
		// Upsert cleared any recorded version.
		existing = nil
	}

	if s.needsIndex(existing) {
		s.indexView(ctx, v)
	}
	return nil
}

// needsIndex reports whether doc lacks embeddings of the current index
// version. A nil doc was just written and always needs them.
func (s *highlightService) needsIndex(doc *storage.DocumentRecord) bool {
	if s.indexer == nil {
		return false
	}
	return doc == nil || doc.IndexVersion != s.indexer.IndexVersion()
}

// indexView embeds the text of a view and records the index version on the
// stored document. Failures are logged and leave the version unset, so the
// next open retries.
func (s *highlightService) indexView(ctx context.Context, v *view.View) {
	logger := contextutil.LoggerFromContext(ctx)

	// The view has no marks yet, so its text is the plain offset space.
	if _, err := s.indexer.IndexDocument(ctx, v.URL, v.Text()); err != nil {
		logger.WarnContext(ctx, "failed to index document", "url", v.URL, "error", err)
		return
	}
	version := s.indexer.IndexVersion()
	if err := s.documents.MarkIndexed(ctx, v.URL, version); err != nil {
		logger.WarnContext(ctx, "failed to record index version", "url", v.URL, "error", err)
	}
}

func (s *highlightService) getView(viewID string) (*view.View, error) {
	v, err := s.registry.Get(viewID)
	if err != nil {
		return nil, mapViewError(err)
	}
	return v, nil
}

// GetView describes an open view.
func (s *highlightService) GetView(ctx context.Context, viewID string) (ViewInfo, error) {
	v, err := s.getView(viewID)
	if err != nil {
		return ViewInfo{}, err
	}
	return infoOf(v), nil
}

// ListViews describes every open view, oldest first.
func (s *highlightService) ListViews(ctx context.Context) []ViewInfo {
	views := s.registry.List()
	infos := make([]ViewInfo, 0, len(views))
	for _, v := range views {
		infos = append(infos, infoOf(v))
	}
	return infos
}

// SendMessage decodes raw and runs it against the view.
func (s *highlightService) SendMessage(ctx context.Context, viewID string, raw []byte) (highlight.Result, error) {
	msg, err := view.DecodeMessage(raw)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "malformed message", "view_id", viewID, "error", err)
		return highlight.Result{}, classify(ErrInvalidInput, err)
	}
	return s.handle(ctx, viewID, msg)
}

// Highlight replaces the marks of a view with marks for positions.
func (s *highlightService) Highlight(ctx context.Context, viewID string, positions []int) (highlight.Result, error) {
	if positions == nil {
		positions = []int{}
	}
	return s.handle(ctx, viewID, view.Message{Action: view.ActionHighlightChunks, Positions: positions})
}

// ClearHighlights removes every mark from a view.
func (s *highlightService) ClearHighlights(ctx context.Context, viewID string) error {
	_, err := s.handle(ctx, viewID, view.Message{Action: view.ActionClearHighlights})
	return err
}

func (s *highlightService) handle(ctx context.Context, viewID string, msg view.Message) (highlight.Result, error) {
	v, err := s.getView(viewID)
	if err != nil {
		return highlight.Result{}, err
	}
	res, err := v.HandleMessage(ctx, msg)
	if err != nil {
		return highlight.Result{}, mapViewError(err)
	}
	return res, nil
}

// Ask locates the chunks of the view's document that answer the question
// and highlights them as one batch.
func (s *highlightService) Ask(ctx context.Context, viewID string, req AskRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if s.locator == nil {
		return AskResponse{}, classify(ErrUnavailable, errors.New("chunk locator is not configured"))
	}
	if strings.TrimSpace(req.Question) == "" {
		logger.WarnContext(ctx, "empty question in ask request")
		return AskResponse{}, &ValidationError{Field: "question", Message: "cannot be empty"}
	}
	// Zero means the locator's default
	k := min(max(req.K, 0), MaxK)

	v, err := s.getView(viewID)
	if err != nil {
		return AskResponse{}, err
	}

	positions, err := s.locator.Locate(ctx, v.URL, req.Question, k)
	if err != nil {
		logger.ErrorContext(ctx, "failed to locate chunks", "view_id", viewID, "error", err)
		return AskResponse{}, classify(ErrExternalService, err)
	}

	res, err := v.HandleMessage(ctx, view.Message{Action: view.ActionHighlightChunks, Positions: positions})
	if err != nil {
		return AskResponse{}, mapViewError(err)
	}

	logger.InfoContext(ctx, "ask request processed", "view_id", viewID, "positions", positions, "marks", res.Marks)
	return AskResponse{Positions: positions, Result: res}, nil
}

// Render writes the current HTML of a view.
func (s *highlightService) Render(ctx context.Context, viewID string, w io.Writer) error {
	v, err := s.getView(viewID)
	if err != nil {
		return err
	}
	if err := v.Render(w); err != nil {
		return WrapError(err, "failed to render view")
	}
	return nil
}

// CloseView tears a view down.
func (s *highlightService) CloseView(ctx context.Context, viewID string) error {
	return mapViewError(s.registry.Close(ctx, viewID))
}

// ListDocuments returns the stored documents without their bodies.
func (s *highlightService) ListDocuments(ctx context.Context) ([]storage.DocumentRecord, error) {
	if s.documents == nil {
		return []storage.DocumentRecord{}, nil
	}
	docs, err := s.documents.ListAll(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list documents", "error", err)
		return nil, WrapError(err, "failed to list documents")
	}
	return docs, nil
}

// DeleteDocument removes a stored document and its embeddings. Open views
// of the document are not affected.
func (s *highlightService) DeleteDocument(ctx context.Context, url string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(url) == "" {
		return &ValidationError{Field: "url", Message: "cannot be empty"}
	}
	if s.documents == nil {
		return classify(ErrNotFound, errors.New("document storage is disabled"))
	}

	err := s.documents.DeleteByURL(ctx, url)
	if errors.Is(err, storage.ErrNotFound) {
		return classify(ErrNotFound, err)
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete document", "url", url, "error", err)
		return WrapError(err, "failed to delete document")
	}

	if s.indexer != nil {
		if err := s.indexer.RemoveDocument(ctx, url); err != nil {
			logger.WarnContext(ctx, "failed to remove document embeddings", "url", url, "error", err)
		}
	}
	logger.InfoContext(ctx, "document deleted", "url", url)
	return nil
}

func infoOf(v *view.View) ViewInfo {
	return ViewInfo{
		ID:          v.ID,
		URL:         v.URL,
		ContentType: v.ContentType,
		UnitSize:    v.UnitSize(),
		Chars:       v.Chars(),
		Marks:       v.MarkCount(),
		CreatedAt:   v.CreatedAt,
	}
}

// mapViewError translates view errors into service errors.
func mapViewError(err error) error {
	if err == nil {
		return nil
	}
	var validationErr *view.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return &ValidationError{Field: validationErr.Field, Message: validationErr.Message}
	case errors.Is(err, view.ErrNotFound):
		return classify(ErrNotFound, err)
	case errors.Is(err, view.ErrMalformedMessage), errors.Is(err, view.ErrUnknownAction):
		return classify(ErrInvalidInput, err)
	default:
		return err
	}
}
