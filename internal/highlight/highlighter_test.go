package highlight

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"chunkmark/internal/textindex"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

// renderBody serialises the children of <body>.
func renderBody(t *testing.T, doc *html.Node) string {
	t.Helper()
	body := textindex.Body(doc)
	require.NotNil(t, body)
	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		require.NoError(t, html.Render(&buf, c))
	}
	return buf.String()
}

// textContent concatenates every text node under body, ignoring element boundaries.
func textContent(doc *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(textindex.Body(doc))
	return b.String()
}

func markTexts(marks []*html.Node) []string {
	out := make([]string, 0, len(marks))
	for _, m := range marks {
		var b strings.Builder
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			b.WriteString(c.Data)
		}
		out = append(out, b.String())
	}
	return out
}

// recordingScroller remembers every scroll request.
type recordingScroller struct {
	targets []*html.Node
	opts    []ScrollOptions
}

func (r *recordingScroller) ScrollIntoView(mark *html.Node, opts ScrollOptions) string {
	r.targets = append(r.targets, mark)
	r.opts = append(r.opts, opts)
	return "recorded"
}

const helloWorld = "<html><body>Hello <b>World</b></body></html>"

func TestHighlight_PrefixOfFirstNode(t *testing.T) {
	doc := parse(t, helloWorld)
	h := New(doc, WithStyle(""))

	res, err := h.Highlight(0, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Marks)
	assert.Equal(t, []string{"Hello"}, markTexts(h.Marks()))
	assert.Equal(t,
		`<span class="vsa-highlight-chunk" data-chunk="0" id="chunkmark-scroll-target">Hello</span> <b>World</b>`,
		renderBody(t, doc))
}

func TestHighlight_SpansTwoNodes(t *testing.T) {
	doc := parse(t, helloWorld)
	scroller := &recordingScroller{}
	h := New(doc, WithStyle(""), WithScroller(scroller))

	res, err := h.Highlight(1, 5)
	require.NoError(t, err)

	marks := h.Marks()
	require.Len(t, marks, 2)
	assert.Equal(t, []string{" ", "Worl"}, markTexts(marks))
	assert.Equal(t,
		`Hello<span class="vsa-highlight-chunk" data-chunk="1"> </span><b><span class="vsa-highlight-chunk" data-chunk="1">Worl</span>d</b>`,
		renderBody(t, doc))

	require.Len(t, scroller.targets, 1)
	assert.Same(t, marks[0], scroller.targets[0])
	assert.Equal(t, CenterSmooth, scroller.opts[0])
	assert.Equal(t, "recorded", res.ScrollTarget)
}

func TestHighlight_WholeNodeHasNoLeftovers(t *testing.T) {
	doc := parse(t, "<body><p>abc</p><p>defgh</p><p>ij</p></body>")
	h := New(doc, WithStyle(""))

	_, err := h.Apply([]int{0}, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"abc", "defgh", "ij"}, markTexts(h.Marks()))
	for _, m := range h.Marks() {
		assert.Nil(t, m.PrevSibling, "no plain text before a fully covered node")
		assert.Nil(t, m.NextSibling, "no plain text after a fully covered node")
	}
}

func TestHighlight_BoundaryInclusivity(t *testing.T) {
	doc := parse(t, "<body><p>0123456789</p></body>")
	h := New(doc, WithStyle(""))

	res, err := h.Apply([]int{1}, 3)
	require.NoError(t, err)

	require.Equal(t, 1, res.Marks)
	assert.Equal(t, []string{"345"}, markTexts(h.Marks()))
	assert.Equal(t, textindex.Range{Start: 3, End: 6}, res.Chunks[0].Range)
}

func TestApply_AdjacentChunksInOneNode(t *testing.T) {
	doc := parse(t, "<body><p>0123456789</p></body>")
	h := New(doc, WithStyle(""))

	res, err := h.Apply([]int{1, 0}, 4)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Marks)
	// Tracked in request order, so chunk 1 first.
	assert.Equal(t, []string{"4567", "0123"}, markTexts(h.Marks()))
	assert.Equal(t,
		`<p><span class="vsa-highlight-chunk" data-chunk="0">0123</span><span class="vsa-highlight-chunk" data-chunk="1" id="chunkmark-scroll-target">4567</span>89</p>`,
		renderBody(t, doc))
	assert.Equal(t, 1, res.Chunks[0].Marks)
	assert.Equal(t, 1, res.Chunks[1].Marks)
}

func TestApply_DuplicateIndicesYieldOneMark(t *testing.T) {
	doc := parse(t, "<body><p>0123456789</p></body>")
	h := New(doc)

	res, err := h.Apply([]int{0, 0}, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Marks)
	assert.Equal(t, []string{"01234"}, markTexts(h.Marks()))
}

func TestApply_BatchFirstScrollTarget(t *testing.T) {
	doc := parse(t, "<body><p>aaaaa</p><p>bbbbb</p><p>ccccc</p></body>")
	scroller := &recordingScroller{}
	h := New(doc, WithScroller(scroller))

	_, err := h.Apply([]int{2, 0}, 5)
	require.NoError(t, err)

	require.Len(t, scroller.targets, 1)
	assert.Equal(t, []string{"ccccc"}, markTexts(scroller.targets))
}

func TestApply_WhitespaceNodesSkipped(t *testing.T) {
	doc := parse(t, "<body><p>abc</p>\n\n<p>def</p></body>")
	h := New(doc, WithStyle(""))

	_, err := h.Apply([]int{1}, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"def"}, markTexts(h.Marks()))
}

func TestApply_GracefulNoOps(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		indices []int
	}{
		{name: "empty document", src: "<body></body>", indices: []int{0}},
		{name: "whitespace only document", src: "<body>\n  <div> </div>\n</body>", indices: []int{0}},
		{name: "range beyond text", src: helloWorld, indices: []int{3}},
		{name: "negative index", src: helloWorld, indices: []int{-1}},
		{name: "index overflowing offsets", src: helloWorld, indices: []int{1 << 61}},
		{name: "max int index", src: helloWorld, indices: []int{math.MaxInt}},
		{name: "no indices", src: helloWorld, indices: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.src)
			before := renderBody(t, doc)
			scroller := &recordingScroller{}
			h := New(doc, WithScroller(scroller))

			res, err := h.Apply(tt.indices, 5)
			require.NoError(t, err)

			assert.Zero(t, res.Marks)
			assert.Empty(t, h.Marks())
			assert.Empty(t, scroller.targets)
			assert.Equal(t, before, renderBody(t, doc))
		})
	}
}

func TestApply_NegativeIndexReportedAsSkipped(t *testing.T) {
	h := New(parse(t, helloWorld))

	res, err := h.Apply([]int{-2, 0}, 5)
	require.NoError(t, err)

	require.Len(t, res.Chunks, 2)
	assert.True(t, res.Chunks[0].Skipped)
	assert.False(t, res.Chunks[1].Skipped)
	assert.Equal(t, 1, res.Marks)
}

func TestApply_InvalidUnitSize(t *testing.T) {
	h := New(parse(t, helloWorld))

	_, err := h.Apply([]int{0}, 0)
	assert.ErrorIs(t, err, ErrInvalidUnitSize)
}

func TestClearMarks_RestoresDocument(t *testing.T) {
	doc := parse(t, "<body><h1>Title</h1>\n<p>Some <em>emphasised</em> text, and more.</p></body>")
	before := renderBody(t, doc)
	beforeSpans := textindex.Index(doc)
	h := New(doc)

	_, err := h.Apply([]int{0, 1, 2}, 7)
	require.NoError(t, err)
	require.NotEmpty(t, h.Marks())

	h.ClearMarks()

	assert.Empty(t, h.Marks())
	assert.Empty(t, h.ScrollTarget())
	assert.Equal(t, before, renderBody(t, doc))
	afterSpans := textindex.Index(doc)
	require.Len(t, afterSpans, len(beforeSpans))
	for i := range beforeSpans {
		assert.Equal(t, beforeSpans[i].Start, afterSpans[i].Start)
		assert.Equal(t, beforeSpans[i].End, afterSpans[i].End)
	}
}

func TestClearMarks_Idempotent(t *testing.T) {
	doc := parse(t, helloWorld)
	before := renderBody(t, doc)
	h := New(doc)

	_, err := h.Highlight(1, 5)
	require.NoError(t, err)

	h.ClearMarks()
	once := renderBody(t, doc)
	h.ClearMarks()

	assert.Equal(t, before, once)
	assert.Equal(t, once, renderBody(t, doc))
	assert.Empty(t, h.Marks())
}

func TestClearMarks_NothingTracked(t *testing.T) {
	doc := parse(t, helloWorld)
	before := renderBody(t, doc)

	New(doc).ClearMarks()

	assert.Equal(t, before, renderBody(t, doc))
}

func TestClearMarks_NestedMarks(t *testing.T) {
	doc := parse(t, "<body><p>0123456789</p></body>")
	before := renderBody(t, doc)
	h := New(doc)

	_, err := h.Apply([]int{0}, 8)
	require.NoError(t, err)
	// Without clearing, the second call marks text inside the first mark.
	_, err = h.Apply([]int{1}, 3)
	require.NoError(t, err)
	require.Len(t, h.Marks(), 2)

	h.ClearMarks()
	assert.Equal(t, before, renderBody(t, doc))
}

func TestApply_OnlyOneScrollAnchor(t *testing.T) {
	doc := parse(t, "<body><p>aaaaa</p><p>bbbbb</p></body>")
	h := New(doc)

	_, err := h.Highlight(0, 5)
	require.NoError(t, err)
	_, err = h.Highlight(1, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(renderBody(t, doc), DefaultScrollID))
	assert.Equal(t, DefaultScrollID, getAttr(h.Marks()[1], "id"))
}

func TestSupersession(t *testing.T) {
	doc := parse(t, "<body><p>aaaaa</p><p>bbbbb</p><p>ccccc</p></body>")
	h := New(doc)

	h.ClearMarks()
	_, err := h.Apply([]int{0}, 5)
	require.NoError(t, err)

	h.ClearMarks()
	_, err = h.Apply([]int{2}, 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"ccccc"}, markTexts(h.Marks()))
	out := renderBody(t, doc)
	assert.Equal(t, 1, strings.Count(out, DefaultClass))
	assert.NotContains(t, out, `data-chunk="0"`)
}

func TestContentPreservation(t *testing.T) {
	docs := []string{
		helloWorld,
		"<body><h1>Heading</h1>\n<p>Paragraph with <a href=\"#\">a link</a> and <code>code</code>.</p>\n<ul><li>one</li> <li>two</li></ul></body>",
		"<body><p>ünïcödé ✓ text</p><p>  spaced  </p></body>",
	}
	batches := [][]int{{0}, {1}, {0, 1, 2}, {3, 1}, {0, 0, 5}}

	for _, src := range docs {
		for _, batch := range batches {
			for _, unit := range []int{1, 3, 7, 1000} {
				doc := parse(t, src)
				before := textContent(doc)
				h := New(doc)

				_, err := h.Apply(batch, unit)
				require.NoError(t, err)
				assert.Equal(t, before, textContent(doc), "batch %v unit %d", batch, unit)

				h.ClearMarks()
				assert.Equal(t, before, textContent(doc), "after clear, batch %v unit %d", batch, unit)
			}
		}
	}
}

func TestApply_RawTextElementsSurviveRender(t *testing.T) {
	src := "<html><head><title>Page title</title></head><body>" +
		"<p>Intro words here</p>" +
		"<script>var answer = 42;</script>" +
		"<style>p { color: red }</style>" +
		"<textarea>draft note text</textarea>" +
		"<noscript>enable scripts</noscript>" +
		"<p>Closing words</p></body></html>"
	doc := parse(t, src)
	before := textindex.Text(textindex.Index(doc))
	h := New(doc)

	indices := make([]int, 0)
	for i := 0; i*4 < len(before); i++ {
		indices = append(indices, i)
	}
	res, err := h.Apply(indices, 4)
	require.NoError(t, err)
	assert.Equal(t, len("Intro words hereClosing words"), markedRunes(h.Marks()))
	assert.Positive(t, res.Marks)

	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, doc))
	reparsed := parse(t, buf.String())

	assert.Equal(t, before, textindex.Text(textindex.Index(reparsed)))
	for _, span := range textindex.Index(reparsed) {
		assert.NotContains(t, span.Node.Data, DefaultClass)
	}
}

func markedRunes(marks []*html.Node) int {
	n := 0
	for _, text := range markTexts(marks) {
		n += len([]rune(text))
	}
	return n
}

func TestHighlighter_ConcurrentRequests(t *testing.T) {
	doc := parse(t, "<body><p>"+strings.Repeat("abcdefghij", 20)+"</p></body>")
	before := textContent(doc)
	h := New(doc)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.ClearMarks()
			_, _ = h.Apply([]int{i % 4}, 10)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, before, textContent(doc))
	h.ClearMarks()
	assert.Empty(t, h.Marks())
}

func TestIsMark(t *testing.T) {
	doc := parse(t, helloWorld)
	h := New(doc)
	_, err := h.Highlight(0, 5)
	require.NoError(t, err)

	assert.True(t, IsMark(h.Marks()[0], DefaultClass))
	assert.False(t, IsMark(textindex.Body(doc), DefaultClass))
	assert.False(t, IsMark(nil, DefaultClass))
}

func TestWithClass(t *testing.T) {
	doc := parse(t, helloWorld)
	h := New(doc, WithClass("custom-mark"))
	_, err := h.Highlight(0, 5)
	require.NoError(t, err)

	assert.Equal(t, "custom-mark", h.Class())
	assert.True(t, IsMark(h.Marks()[0], "custom-mark"))
}

func TestScrollScript(t *testing.T) {
	got := ScrollScript(DefaultScrollID, CenterSmooth)
	assert.Contains(t, got, `document.getElementById("chunkmark-scroll-target")`)
	assert.Contains(t, got, `scrollIntoView({"behavior":"smooth","block":"center"})`)
}
