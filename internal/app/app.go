// Package app wires the configured backends into a highlight service. Both
// the HTTP API and the MCP server start from here.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"chunkmark/internal/config"
	"chunkmark/internal/indexer"
	"chunkmark/internal/llm"
	"chunkmark/internal/locator"
	"chunkmark/internal/service"
	"chunkmark/internal/storage"
	"chunkmark/internal/vectorstore"
	"chunkmark/internal/view"
)

// Deps holds the long-lived application dependencies.
type Deps struct {
	DB       *sql.DB
	Registry *view.Registry
	Service  service.HighlightService
	// VectorStore is nil when the locator is disabled.
	VectorStore vectorstore.VectorStore

	qdrant *vectorstore.QdrantStore
	redis  *redis.Client
}

// NewLogger builds the process logger from the configured level and format.
func NewLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Build opens the database, and the vector store when configured, and
// returns the service built on them.
func Build(ctx context.Context, cfg *config.Config) (*Deps, error) {
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	deps := &Deps{
		DB: db,
		Registry: view.NewRegistry(view.Options{
			UnitSize:  cfg.ChunkUnitSize,
			MarkClass: cfg.MarkClass,
			MarkStyle: cfg.MarkStyle,
		}),
	}

	var opts []service.Option
	if cfg.LocatorEnabled() {
		locatorOpts, err := deps.buildLocator(ctx, cfg)
		if err != nil {
			deps.Close(ctx)
			return nil, err
		}
		opts = locatorOpts
	} else {
		slog.Info("Question answering disabled", "reason", "QDRANT_VECTOR_SIZE not set")
	}

	deps.Service = service.NewHighlightService(deps.Registry, storage.NewDocumentRepo(db), opts...)
	return deps, nil
}

func (d *Deps) buildLocator(ctx context.Context, cfg *config.Config) ([]service.Option, error) {
	store, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}
	d.qdrant = store
	d.VectorStore = store

	if err := store.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		return nil, fmt.Errorf("failed to ensure Qdrant collection: %w", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	client := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	if _, err := client.EmbedTexts(ctx, []string{"test"}); err != nil {
		return nil, fmt.Errorf("failed to validate embedding client: %w", err)
	}
	slog.Info("Embedding client validated", "model", cfg.EmbeddingModelName, "vector_size", cfg.QdrantVectorSize)

	var embedder llm.Embedder = client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		d.redis = redis.NewClient(opts)
		if err := d.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		embedder = llm.NewCachedEmbedder(client, d.redis, cfg.EmbeddingModelName, cfg.EmbeddingCacheTTL)
		slog.Info("Embedding cache enabled", "ttl", cfg.EmbeddingCacheTTL)
	}

	pipeline, err := indexer.NewPipeline(embedder, store, cfg.QdrantCollection, cfg.EmbeddingModelName, cfg.ChunkUnitSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexing pipeline: %w", err)
	}

	locatorOpts := []locator.Option{locator.WithIndexVersion(pipeline.IndexVersion())}
	if cfg.LocatorMinScore > 0 {
		locatorOpts = append(locatorOpts, locator.WithMinScore(float32(cfg.LocatorMinScore)))
	}

	return []service.Option{
		service.WithIndexer(pipeline),
		service.WithLocator(locator.NewVectorLocator(embedder, store, cfg.QdrantCollection, locatorOpts...)),
	}, nil
}

// Close tears down open views and releases backend connections.
func (d *Deps) Close(ctx context.Context) {
	if d.Registry != nil {
		d.Registry.CloseAll(ctx)
	}
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			slog.Warn("failed to close Redis client", "error", err)
		}
	}
	if d.qdrant != nil {
		if err := d.qdrant.Close(); err != nil {
			slog.Warn("failed to close Qdrant client", "error", err)
		}
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			slog.Warn("failed to close database", "error", err)
		}
	}
}
