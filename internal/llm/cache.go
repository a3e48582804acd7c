package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"chunkmark/internal/contextutil"
)

const embeddingKeyPrefix = "embedding:"

// CachedEmbedder serves repeated texts from Redis and only sends misses to
// the wrapped embedder. Cache failures fall through to the embedder.
type CachedEmbedder struct {
	next   Embedder
	client *redis.Client
	model  string
	ttl    time.Duration
}

// NewCachedEmbedder wraps next with a Redis cache. model is part of every
// key, so switching models never serves stale vectors.
func NewCachedEmbedder(next Embedder, client *redis.Client, model string, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		next:   next,
		client: client,
		model:  model,
		ttl:    ttl,
	}
}

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + text))
	return embeddingKeyPrefix + hex.EncodeToString(sum[:])
}

// EmbedTexts implements Embedder.
func (c *CachedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}
	logger := contextutil.LoggerFromContext(ctx)

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = c.key(text)
	}

	result := make([][]float32, len(texts))
	cached, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		logger.WarnContext(ctx, "embedding cache read failed", "error", err)
		cached = nil
	}

	var missIdx []int
	var missTexts []string
	for i := range texts {
		if i < len(cached) {
			if s, ok := cached[i].(string); ok {
				var vec []float32
				if err := json.Unmarshal([]byte(s), &vec); err == nil {
					result[i] = vec
					continue
				}
			}
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, texts[i])
	}

	if len(missTexts) == 0 {
		return result, nil
	}

	embeddings, err := c.next.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(embeddings) != len(missTexts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(missTexts), len(embeddings))
	}

	pipe := c.client.Pipeline()
	for j, i := range missIdx {
		result[i] = embeddings[j]
		data, err := json.Marshal(embeddings[j])
		if err != nil {
			continue
		}
		pipe.Set(ctx, keys[i], data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.WarnContext(ctx, "embedding cache write failed", "error", err)
	}

	logger.DebugContext(ctx, "embedded texts", "cached", len(texts)-len(missTexts), "embedded", len(missTexts))
	return result, nil
}
