package textindex

import (
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrInvalidChunk is returned when a chunk index or unit size cannot describe a range.
var ErrInvalidChunk = errors.New("invalid chunk")

// Range is a half-open [Start, End) interval in the linear text offset space.
type Range struct {
	Start int
	End   int
}

// Len returns the number of characters covered by the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// ChunkRange returns the target range of chunk index for the given unit size.
func ChunkRange(index, unitSize int) (Range, error) {
	if index < 0 || unitSize <= 0 {
		return Range{}, ErrInvalidChunk
	}
	// The end offset must fit in an int.
	if index > (math.MaxInt-unitSize)/unitSize {
		return Range{}, ErrInvalidChunk
	}
	start := index * unitSize
	return Range{Start: start, End: start + unitSize}, nil
}

// Span ties an indexed text node to its range in the offset space.
// End - Start equals the rune length of Node.Data at indexing time.
type Span struct {
	Node  *html.Node
	Start int
	End   int
}

// Overlap returns the node-relative bounds of the part of the span that falls
// inside target. ok is false when the intersection is empty.
func (s Span) Overlap(target Range) (relStart, relEnd int, ok bool) {
	if s.End <= target.Start || s.Start >= target.End {
		return 0, 0, false
	}
	relStart = max(target.Start-s.Start, 0)
	relEnd = min(s.End, target.End) - s.Start
	if relEnd <= relStart {
		return 0, 0, false
	}
	return relStart, relEnd, true
}

// Index walks the text nodes under the document body in document order and
// assigns each non-blank node a contiguous range. Whitespace-only nodes are
// left out of the offset space entirely; interior whitespace of indexed nodes
// is counted.
//
// The result always reflects the tree at call time. Callers must not keep
// spans across mutations of the tree, including their own.
func Index(root *html.Node) []Span {
	if root == nil {
		return nil
	}
	base := Body(root)
	if base == nil {
		base = root
	}

	var spans []Span
	offset := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if strings.TrimSpace(n.Data) != "" {
				length := utf8.RuneCountInString(n.Data)
				spans = append(spans, Span{Node: n, Start: offset, End: offset + length})
				offset += length
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(base)
	return spans
}

// Text concatenates the text of the indexed nodes.
func Text(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Node.Data)
	}
	return b.String()
}

// Extent returns the end of the offset space, 0 for an empty index.
func Extent(spans []Span) int {
	if len(spans) == 0 {
		return 0
	}
	return spans[len(spans)-1].End
}

// Body finds the first <body> element under root in pre-order.
func Body(root *html.Node) *html.Node {
	if root == nil {
		return nil
	}
	if root.Type == html.ElementNode && root.DataAtom == atom.Body {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if b := Body(c); b != nil {
			return b
		}
	}
	return nil
}
