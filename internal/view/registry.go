package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"chunkmark/internal/contextutil"
	"chunkmark/internal/highlight"
)

// ErrNotFound is returned when no open view has the requested ID.
var ErrNotFound = errors.New("view not found")

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Options configures the views a Registry opens.
type Options struct {
	UnitSize  int
	MarkClass string
	MarkStyle string
}

// Registry holds the open document views. Highlight state is kept per view,
// never shared between views.
type Registry struct {
	mu    sync.RWMutex
	views map[string]*View
	opts  Options
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.UnitSize <= 0 {
		opts.UnitSize = DefaultUnitSize
	}
	if opts.MarkClass == "" {
		opts.MarkClass = highlight.DefaultClass
	}
	return &Registry{
		views: make(map[string]*View),
		opts:  opts,
	}
}

// Open parses src and registers a new view for it.
func (r *Registry) Open(ctx context.Context, src Source) (*View, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(src.URL) == "" {
		return nil, &ValidationError{Field: "url", Message: "cannot be empty"}
	}
	mediaType, err := MediaType(src.ContentType)
	if err != nil {
		return nil, &ValidationError{Field: "content_type", Message: err.Error()}
	}
	src.ContentType = mediaType

	root, err := Parse(src)
	if err != nil {
		logger.ErrorContext(ctx, "failed to parse document", "url", src.URL, "error", err)
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	id := uuid.New().String()
	v := newView(id, src, root, r.opts.UnitSize,
		highlight.WithClass(r.opts.MarkClass),
		highlight.WithStyle(r.opts.MarkStyle),
		highlight.WithLogger(slog.Default().With("view_id", id)),
	)

	r.mu.Lock()
	r.views[id] = v
	r.mu.Unlock()

	logger.InfoContext(ctx, "view opened", "view_id", id, "url", src.URL, "content_type", mediaType)
	return v, nil
}

// Get returns the open view with id.
func (r *Registry) Get(id string) (*View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.views[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return v, nil
}

// Close tears a view down and forgets it.
func (r *Registry) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	v.Unload(ctx)
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "view closed", "view_id", id, "url", v.URL)
	return nil
}

// CloseAll tears every view down, used on shutdown.
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*View)
	r.mu.Unlock()

	for _, v := range views {
		v.Unload(ctx)
	}
}

// List returns the open views ordered by creation time.
func (r *Registry) List() []*View {
	r.mu.RLock()
	views := make([]*View, 0, len(r.views))
	for _, v := range r.views {
		views = append(views, v)
	}
	r.mu.RUnlock()

	slices.SortFunc(views, func(a, b *View) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return views
}
