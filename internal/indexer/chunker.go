package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ChunkerVersion identifies the segmentation rules. Update it when they
// change so stale points can be told apart.
const ChunkerVersion = "fixed-v1"

// SplitChunks cuts text into consecutive segments of unitSize characters
// (runes). Segment i covers [i*unitSize, (i+1)*unitSize) of the text, the
// same range a highlight request for position i marks. The last segment may
// be shorter.
func SplitChunks(text string, unitSize int) []Chunk {
	if unitSize <= 0 || text == "" {
		return []Chunk{}
	}

	chunks := make([]Chunk, 0, utf8.RuneCountInString(text)/unitSize+1)
	start, runes := 0, 0
	for i := range text {
		if runes > 0 && runes%unitSize == 0 {
			chunks = append(chunks, Chunk{Position: len(chunks), Text: text[start:i]})
			start = i
		}
		runes++
	}
	chunks = append(chunks, Chunk{Position: len(chunks), Text: text[start:]})
	return chunks
}

// isBlank reports whether a chunk has nothing worth embedding.
func isBlank(c Chunk) bool {
	return strings.TrimSpace(c.Text) == ""
}

// IndexVersion hashes the parameters that decide chunk boundaries.
func IndexVersion(model string, unitSize int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", ChunkerVersion, model, unitSize)))
	return hex.EncodeToString(sum[:])[:16]
}
