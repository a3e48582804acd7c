package indexer

// Chunk is one fixed-size segment of a document's text. Position is the
// chunk index a highlight request uses to address it.
type Chunk struct {
	Position int
	Text     string
}

// IndexStats summarises one IndexDocument call.
type IndexStats struct {
	URL          string `json:"url"`
	Chunks       int    `json:"chunks"`
	Embedded     int    `json:"embedded"`
	SkippedBlank int    `json:"skipped_blank"`
	IndexVersion string `json:"index_version"`
}
