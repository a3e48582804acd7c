package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"chunkmark/internal/contextutil"
	"chunkmark/internal/llm"
	"chunkmark/internal/vectorstore"
)

const (
	defaultBatchSize   = 32
	defaultConcurrency = 4
)

// ErrInvalidUnitSize is returned by NewPipeline for a non-positive unit size.
var ErrInvalidUnitSize = errors.New("unit size must be greater than 0")

// Pipeline embeds a document's chunks and stores them in the vector store,
// keyed by the document URL and chunk position.
type Pipeline struct {
	embedder     llm.Embedder
	vectorStore  vectorstore.VectorStore
	collection   string
	unitSize     int
	batchSize    int
	concurrency  int
	indexVersion string
}

// NewPipeline creates a new indexing pipeline. model is only used to derive
// the index version stored with each point.
func NewPipeline(
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	model string,
	unitSize int,
) (*Pipeline, error) {
	if unitSize <= 0 {
		return nil, ErrInvalidUnitSize
	}
	return &Pipeline{
		embedder:     embedder,
		vectorStore:  vectorStore,
		collection:   collection,
		unitSize:     unitSize,
		batchSize:    defaultBatchSize,
		concurrency:  defaultConcurrency,
		indexVersion: IndexVersion(model, unitSize),
	}, nil
}

// IndexVersion returns the version stamped on every point this pipeline writes.
func (p *Pipeline) IndexVersion() string {
	return p.indexVersion
}

// PointID returns the stable point ID for a chunk of a document.
func PointID(url string, position int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%d", url, position))).String()
}

// IndexDocument replaces every stored point of url with embeddings of the
// chunks of text. Blank chunks are not embedded; their positions simply
// never match a search.
func (p *Pipeline) IndexDocument(ctx context.Context, url, text string) (IndexStats, error) {
	logger := contextutil.LoggerFromContext(ctx)

	stats := IndexStats{URL: url, IndexVersion: p.indexVersion}

	// Drop old points first so positions past the new end disappear
	if err := p.vectorStore.DeleteWhere(ctx, p.collection, map[string]any{"url": url}); err != nil {
		logger.WarnContext(ctx, "failed to delete old points", "url", url, "error", err)
		// Continue anyway - overlapping positions are overwritten below
	}

	chunks := SplitChunks(text, p.unitSize)
	stats.Chunks = len(chunks)

	embeddable := make([]Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if isBlank(chunk) {
			stats.SkippedBlank++
			continue
		}
		embeddable = append(embeddable, chunk)
	}

	// Batches are embedded concurrently; the first failure cancels the rest.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	var embedded atomic.Int64

	for start := 0; start < len(embeddable); start += p.batchSize {
		end := min(start+p.batchSize, len(embeddable))
		batch := embeddable[start:end]

		g.Go(func() error {
			if err := p.indexBatch(gctx, url, batch); err != nil {
				return err
			}
			embedded.Add(int64(len(batch)))
			return nil
		})
	}

	err := g.Wait()
	stats.Embedded = int(embedded.Load())
	if err != nil {
		return stats, err
	}

	logger.InfoContext(ctx, "indexed document",
		"url", url,
		"chunks", stats.Chunks,
		"embedded", stats.Embedded,
		"skipped_blank", stats.SkippedBlank,
	)
	return stats, nil
}

// indexBatch embeds one batch of chunks and upserts the resulting points.
func (p *Pipeline) indexBatch(ctx context.Context, url string, batch []Chunk) error {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Text
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(batch) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(embeddings))
	}

	points := make([]vectorstore.Point, len(batch))
	for i, chunk := range batch {
		points[i] = vectorstore.Point{
			ID:  PointID(url, chunk.Position),
			Vec: embeddings[i],
			Meta: map[string]any{
				"url":           url,
				"position":      chunk.Position,
				"unit_size":     p.unitSize,
				"index_version": p.indexVersion,
			},
		}
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}
	return nil
}

// RemoveDocument deletes every stored point of url.
func (p *Pipeline) RemoveDocument(ctx context.Context, url string) error {
	if err := p.vectorStore.DeleteWhere(ctx, p.collection, map[string]any{"url": url}); err != nil {
		return fmt.Errorf("failed to delete document points: %w", err)
	}
	return nil
}
