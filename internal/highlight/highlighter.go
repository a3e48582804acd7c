package highlight

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"chunkmark/internal/textindex"
)

const (
	// DefaultClass is the marker class carried by every mark element.
	DefaultClass = "vsa-highlight-chunk"
	// DefaultStyle is the inline style applied to marks.
	DefaultStyle = "background: yellow; border-radius: 3px; padding: 0 2px"
	// ChunkAttr records the chunk index a mark belongs to.
	ChunkAttr = "data-chunk"
)

// ErrInvalidUnitSize is returned when the chunk unit size is not positive.
var ErrInvalidUnitSize = errors.New("unit size must be greater than 0")

// ChunkResult describes what one requested chunk index produced.
type ChunkResult struct {
	Index int
	Range textindex.Range
	Marks int
	// Skipped is set for indices that cannot describe a range (negative, or
	// too large for the offset space).
	Skipped bool
}

// Result summarises one Apply call.
type Result struct {
	Marks        int
	Chunks       []ChunkResult
	ScrollTarget string
}

// Highlighter marks chunk ranges in one document tree and owns the marks it
// creates. All operations are serialised; the tree must not be mutated by
// anything else while a call is running.
type Highlighter struct {
	mu       sync.Mutex
	root     *html.Node
	class    string
	style    string
	scroller Scroller
	logger   *slog.Logger

	marks        []*html.Node
	scrollTarget string
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithClass sets the marker class.
func WithClass(class string) Option {
	return func(h *Highlighter) {
		if class != "" {
			h.class = class
		}
	}
}

// WithStyle sets the inline style of marks. An empty style omits the attribute.
func WithStyle(style string) Option {
	return func(h *Highlighter) {
		h.style = style
	}
}

// WithScroller replaces the default AnchorScroller.
func WithScroller(s Scroller) Option {
	return func(h *Highlighter) {
		h.scroller = s
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(h *Highlighter) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a Highlighter for the document rooted at root.
func New(root *html.Node, opts ...Option) *Highlighter {
	h := &Highlighter{
		root:     root,
		class:    DefaultClass,
		style:    DefaultStyle,
		scroller: AnchorScroller{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Class returns the marker class.
func (h *Highlighter) Class() string {
	return h.class
}

// Marks returns the tracked marks in creation order.
func (h *Highlighter) Marks() []*html.Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.marks)
}

// ScrollTarget returns the id of the current scroll target, "" when none.
func (h *Highlighter) ScrollTarget() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scrollTarget
}

// ClearMarks unwraps every tracked mark back into plain text and forgets it.
// Calling it with nothing tracked is a no-op.
func (h *Highlighter) ClearMarks() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clearLocked()
}

func (h *Highlighter) clearLocked() {
	if len(h.marks) == 0 {
		return
	}
	parents := make(map[*html.Node]struct{})
	for _, mark := range h.marks {
		// Nested marks are moved when their outer mark is unwrapped, so the
		// parent is read at unwrap time.
		parent := mark.Parent
		if parent == nil {
			continue
		}
		for c := mark.FirstChild; c != nil; {
			next := c.NextSibling
			mark.RemoveChild(c)
			parent.InsertBefore(c, mark)
			c = next
		}
		parent.RemoveChild(mark)
		parents[parent] = struct{}{}
	}
	for parent := range parents {
		mergeText(parent)
	}
	h.logger.Debug("highlight marks cleared", "count", len(h.marks))
	h.marks = nil
	h.scrollTarget = ""
}

// Highlight marks a single chunk. See Apply.
func (h *Highlighter) Highlight(chunkIndex, unitSize int) (Result, error) {
	return h.Apply([]int{chunkIndex}, unitSize)
}

type cut struct {
	relStart int
	relEnd   int
	chunk    int
	order    int
}

type createdMark struct {
	node  *html.Node
	chunk int
	order int
}

// inRawText reports whether n is the content of an element whose children
// are serialised verbatim. A mark inside one would render as literal markup,
// so such text keeps its offsets but is never wrapped.
func inRawText(n *html.Node) bool {
	p := n.Parent
	if p == nil || p.Type != html.ElementNode || p.Namespace != "" {
		return false
	}
	switch p.DataAtom {
	case atom.Iframe, atom.Noembed, atom.Noframes, atom.Noscript, atom.Plaintext,
		atom.Script, atom.Style, atom.Textarea, atom.Title, atom.Xmp:
		return true
	}
	return false
}

// Apply marks every chunk in indices against a single fresh index of the
// tree. Indices are processed in the order given and marks are tracked in
// creation order. When at least one mark was created the first one is handed
// to the scroller. Marks from earlier calls stay in place; callers wanting a
// clean slate call ClearMarks first.
func (h *Highlighter) Apply(indices []int, unitSize int) (Result, error) {
	if unitSize <= 0 {
		return Result{}, ErrInvalidUnitSize
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	spans := textindex.Index(h.root)
	cuts := make(map[int][]cut)
	result := Result{Chunks: make([]ChunkResult, 0, len(indices))}
	order := 0

	for _, idx := range indices {
		target, err := textindex.ChunkRange(idx, unitSize)
		if err != nil {
			h.logger.Warn("skipping chunk index", "index", idx, "unit_size", unitSize, "error", err)
			result.Chunks = append(result.Chunks, ChunkResult{Index: idx, Skipped: true})
			continue
		}
		result.Chunks = append(result.Chunks, ChunkResult{Index: idx, Range: target})
		for i, span := range spans {
			if inRawText(span.Node) {
				continue
			}
			relStart, relEnd, ok := span.Overlap(target)
			if !ok {
				continue
			}
			cuts[i] = append(cuts[i], cut{relStart: relStart, relEnd: relEnd, chunk: idx, order: order})
			order++
		}
	}

	var created []createdMark
	for i, span := range spans {
		nodeCuts, ok := cuts[i]
		if !ok {
			continue
		}
		created = append(created, h.wrap(span.Node, mergeCuts(nodeCuts))...)
	}
	slices.SortStableFunc(created, func(a, b createdMark) int {
		return a.order - b.order
	})

	perChunk := make(map[int]int)
	for _, m := range created {
		h.marks = append(h.marks, m.node)
		perChunk[m.chunk]++
	}
	counted := make(map[int]bool)
	for i := range result.Chunks {
		c := &result.Chunks[i]
		if c.Skipped || counted[c.Index] {
			continue
		}
		c.Marks = perChunk[c.Index]
		counted[c.Index] = true
	}
	result.Marks = len(created)

	if len(created) > 0 && h.scroller != nil {
		if h.scrollTarget != "" {
			for _, m := range h.marks {
				if getAttr(m, "id") == h.scrollTarget {
					removeAttr(m, "id")
				}
			}
		}
		h.scrollTarget = h.scroller.ScrollIntoView(created[0].node, CenterSmooth)
		result.ScrollTarget = h.scrollTarget
	}

	h.logger.Debug("highlight applied",
		"indices", len(indices),
		"unit_size", unitSize,
		"indexed_nodes", len(spans),
		"marks", len(created),
	)
	return result, nil
}

// mergeCuts orders the cuts of one node and folds overlapping ones together,
// keeping the earliest request as owner. Touching cuts stay separate so each
// chunk keeps its own mark.
func mergeCuts(cs []cut) []cut {
	slices.SortStableFunc(cs, func(a, b cut) int {
		if a.relStart != b.relStart {
			return a.relStart - b.relStart
		}
		return a.order - b.order
	})
	out := cs[:1]
	for _, c := range cs[1:] {
		last := &out[len(out)-1]
		if c.relStart < last.relEnd {
			last.relEnd = max(last.relEnd, c.relEnd)
			if c.order < last.order {
				last.order = c.order
				last.chunk = c.chunk
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// wrap replaces node with plain text and mark elements for the given cuts,
// which must be sorted and disjoint. Empty plain-text pieces are omitted.
func (h *Highlighter) wrap(node *html.Node, cs []cut) []createdMark {
	parent := node.Parent
	if parent == nil {
		h.logger.Warn("indexed text node is detached, skipping")
		return nil
	}

	text := node.Data
	pos := 0
	var created []createdMark
	for _, c := range cs {
		seg := Split(text, c.relStart-pos, c.relEnd-pos)
		if seg.Empty() {
			continue
		}
		if seg.Before != "" {
			parent.InsertBefore(textNode(seg.Before), node)
		}
		mark := h.newMark(seg.Marked, c.chunk)
		parent.InsertBefore(mark, node)
		created = append(created, createdMark{node: mark, chunk: c.chunk, order: c.order})
		text = seg.After
		pos = c.relEnd
	}
	if len(created) == 0 {
		return nil
	}
	if text != "" {
		parent.InsertBefore(textNode(text), node)
	}
	parent.RemoveChild(node)
	return created
}

func (h *Highlighter) newMark(text string, chunk int) *html.Node {
	mark := &html.Node{
		Type:     html.ElementNode,
		Data:     atom.Span.String(),
		DataAtom: atom.Span,
		Attr: []html.Attribute{
			{Key: "class", Val: h.class},
			{Key: ChunkAttr, Val: strconv.Itoa(chunk)},
		},
	}
	if h.style != "" {
		mark.Attr = append(mark.Attr, html.Attribute{Key: "style", Val: h.style})
	}
	mark.AppendChild(textNode(text))
	return mark
}

// IsMark reports whether n is a mark element carrying class.
func IsMark(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	return slices.Contains(strings.Fields(getAttr(n, "class")), class)
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// mergeText joins runs of adjacent text children of parent into one node.
func mergeText(parent *html.Node) {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			continue
		}
		for next := c.NextSibling; next != nil && next.Type == html.TextNode; next = c.NextSibling {
			c.Data += next.Data
			parent.RemoveChild(next)
		}
	}
}
