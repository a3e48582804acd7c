// Package locator finds the chunk positions of a document that answer a
// question.
package locator

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_locator.go -package=mocks chunkmark/internal/locator Locator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chunkmark/internal/contextutil"
	"chunkmark/internal/llm"
	"chunkmark/internal/vectorstore"
)

// DefaultK is the number of positions returned when k is not positive.
const DefaultK = 5

// ErrEmptyQuestion is returned when the question is blank.
var ErrEmptyQuestion = errors.New("question cannot be empty")

// Locator maps a question about a document to chunk positions in it.
type Locator interface {
	// Locate returns up to k chunk positions of url, best match first.
	Locate(ctx context.Context, url, question string, k int) ([]int, error)
}

// VectorLocator answers questions by nearest-neighbour search over the
// chunk embeddings written by the indexing pipeline.
type VectorLocator struct {
	embedder     llm.Embedder
	vectorStore  vectorstore.VectorStore
	collection   string
	minScore     float32
	indexVersion string
}

// Option configures a VectorLocator.
type Option func(*VectorLocator)

// WithMinScore drops search hits scoring below score.
func WithMinScore(score float32) Option {
	return func(l *VectorLocator) {
		l.minScore = score
	}
}

// WithIndexVersion restricts searches to points written with version, so
// embeddings from another model or unit size never map to positions.
func WithIndexVersion(version string) Option {
	return func(l *VectorLocator) {
		l.indexVersion = version
	}
}

// NewVectorLocator creates a VectorLocator.
func NewVectorLocator(embedder llm.Embedder, vectorStore vectorstore.VectorStore, collection string, opts ...Option) *VectorLocator {
	l := &VectorLocator{
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate embeds the question and searches the points of url.
func (l *VectorLocator) Locate(ctx context.Context, url, question string, k int) ([]int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if k <= 0 {
		k = DefaultK
	}

	embeddings, err := l.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed question", "error", err)
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for question")
	}

	filter := map[string]any{"url": url}
	if l.indexVersion != "" {
		filter["index_version"] = l.indexVersion
	}
	results, err := l.vectorStore.Search(ctx, l.collection, embeddings[0], k, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}

	positions := make([]int, 0, len(results))
	seen := make(map[int]bool, len(results))
	for _, result := range results {
		if result.Score < l.minScore {
			continue
		}
		pos, ok := payloadInt(result.Meta["position"])
		if !ok || pos < 0 {
			logger.WarnContext(ctx, "search hit without usable position", "point_id", result.PointID)
			continue
		}
		if seen[pos] {
			continue
		}
		seen[pos] = true
		positions = append(positions, pos)
	}

	logger.InfoContext(ctx, "located chunks", "url", url, "k", k, "hits", len(results), "positions", positions)
	return positions, nil
}

// payloadInt reads an integer payload value. Qdrant returns integers as
// int64; JSON round trips may produce float64.
func payloadInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
