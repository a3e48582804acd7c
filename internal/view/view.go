package view

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"chunkmark/internal/contextutil"
	"chunkmark/internal/highlight"
	"chunkmark/internal/textindex"
)

// DefaultUnitSize is the chunk size in characters used when none is configured.
const DefaultUnitSize = 1000

// View is one loaded document together with the highlight state that belongs
// to it. Marks never outlive the view.
type View struct {
	ID          string
	URL         string
	ContentType string
	CreatedAt   time.Time

	unitSize int

	// mu serialises requests so a new batch always starts from a fully
	// cleared tree, and keeps renders from observing a half-applied batch.
	mu          sync.Mutex
	root        *html.Node
	highlighter *highlight.Highlighter
}

func newView(id string, src Source, root *html.Node, unitSize int, opts ...highlight.Option) *View {
	if unitSize <= 0 {
		unitSize = DefaultUnitSize
	}
	return &View{
		ID:          id,
		URL:         src.URL,
		ContentType: src.ContentType,
		CreatedAt:   time.Now().UTC(),
		unitSize:    unitSize,
		root:        root,
		highlighter: highlight.New(root, opts...),
	}
}

// UnitSize returns the chunk size this view resolves positions with.
func (v *View) UnitSize() int {
	return v.unitSize
}

// HandleMessage runs an inbound request against the view. A highlightChunks
// request always clears the previous batch before applying the new one, so
// at most one batch is active at any time.
func (v *View) HandleMessage(ctx context.Context, msg Message) (highlight.Result, error) {
	logger := contextutil.LoggerFromContext(ctx).With("view_id", v.ID)

	v.mu.Lock()
	defer v.mu.Unlock()

	switch msg.Action {
	case ActionHighlightChunks:
		v.highlighter.ClearMarks()
		res, err := v.highlighter.Apply(msg.Positions, v.unitSize)
		if err != nil {
			logger.ErrorContext(ctx, "failed to apply highlights", "error", err)
			return highlight.Result{}, fmt.Errorf("failed to apply highlights: %w", err)
		}
		logger.InfoContext(ctx, "chunks highlighted",
			"positions", len(msg.Positions),
			"marks", res.Marks,
			"scroll_target", res.ScrollTarget,
		)
		return res, nil
	case ActionClearHighlights:
		v.highlighter.ClearMarks()
		logger.InfoContext(ctx, "highlights cleared")
		return highlight.Result{}, nil
	default:
		logger.WarnContext(ctx, "unknown message action", "action", msg.Action)
		return highlight.Result{}, fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action)
	}
}

// Unload is the teardown hook for a view that is being discarded.
func (v *View) Unload(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()

	marks := len(v.highlighter.Marks())
	v.highlighter.ClearMarks()
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "view unloaded", "view_id", v.ID, "marks_cleared", marks)
}

// MarkCount returns the number of marks currently in the document.
func (v *View) MarkCount() int {
	return len(v.highlighter.Marks())
}

// Text returns the document text as seen by the offset indexer.
func (v *View) Text() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return textindex.Text(textindex.Index(v.root))
}

// Chars returns the length of the document's offset space.
func (v *View) Chars() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return textindex.Extent(textindex.Index(v.root))
}

// Render writes the document as HTML. When a batch produced a scroll target,
// a script bringing it into view is appended to the body.
func (v *View) Render(w io.Writer) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	target := v.highlighter.ScrollTarget()
	if target == "" {
		return html.Render(w, v.root)
	}

	parent := textindex.Body(v.root)
	if parent == nil {
		parent = v.root
	}
	script := &html.Node{Type: html.ElementNode, Data: atom.Script.String(), DataAtom: atom.Script}
	script.AppendChild(&html.Node{Type: html.TextNode, Data: highlight.ScrollScript(target, highlight.CenterSmooth)})
	parent.AppendChild(script)
	defer parent.RemoveChild(script)

	return html.Render(w, v.root)
}
