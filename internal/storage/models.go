package storage

import "time"

// DocumentRecord is a source document that views can be opened from.
type DocumentRecord struct {
	ID           string    // UUID
	URL          string    // Unique per document
	ContentType  string    // e.g. "text/html", "text/markdown"
	Body         string    // Raw source as received
	Hash         string    // SHA256 hex string of Body
	IndexVersion string    // Version the body was embedded with, empty until indexed
	UpdatedAt    time.Time
}
