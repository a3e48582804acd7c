package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks chunkmark/internal/storage DocumentStore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DocumentStore defines the interface for source document storage.
type DocumentStore interface {
	// Upsert inserts a new document or replaces the source of an existing one (by URL).
	// The ID and Hash of doc are filled in.
	Upsert(ctx context.Context, doc *DocumentRecord) error
	// GetByURL gets a document by URL. Returns ErrNotFound if not found.
	GetByURL(ctx context.Context, url string) (*DocumentRecord, error)
	// GetByID gets a document by ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*DocumentRecord, error)
	// ListAll returns every stored document without its body, ordered by URL.
	ListAll(ctx context.Context) ([]DocumentRecord, error)
	// DeleteByURL removes a document. Returns ErrNotFound if nothing was deleted.
	DeleteByURL(ctx context.Context, url string) error
	// MarkIndexed records that the current body of url is embedded with
	// indexVersion. Returns ErrNotFound if there is no such document.
	MarkIndexed(ctx context.Context, url, indexVersion string) error
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// HashBody returns the SHA256 hex digest used for DocumentRecord.Hash.
func HashBody(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// Upsert inserts a new document or updates an existing one.
// If the document doesn't exist (by url), generates a new UUID.
// If it exists, updates content type, body and hash while preserving the ID.
// A changed body or content type clears the recorded index version.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *DocumentRecord) error {
	existing, err := r.GetByURL(ctx, doc.URL)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to check existing document: %w", err)
	}

	if existing != nil {
		doc.ID = existing.ID
	} else if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	doc.Hash = HashBody(doc.Body)

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO documents (id, url, content_type, body, hash, updated_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (url) DO UPDATE SET
		 index_version = CASE
		   WHEN documents.hash = excluded.hash AND documents.content_type = excluded.content_type
		   THEN documents.index_version ELSE '' END,
		 content_type = excluded.content_type, body = excluded.body,
		 hash = excluded.hash, updated_at = CURRENT_TIMESTAMP`,
		doc.ID, doc.URL, doc.ContentType, doc.Body, doc.Hash,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	return nil
}

// GetByURL gets a document by URL. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByURL(ctx context.Context, url string) (*DocumentRecord, error) {
	return r.getOne(ctx,
		"SELECT id, url, content_type, body, hash, index_version, updated_at FROM documents WHERE url = ?", url)
}

// GetByID gets a document by ID. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*DocumentRecord, error) {
	return r.getOne(ctx,
		"SELECT id, url, content_type, body, hash, index_version, updated_at FROM documents WHERE id = ?", id)
}

func (r *DocumentRepo) getOne(ctx context.Context, query string, arg any) (*DocumentRecord, error) {
	var doc DocumentRecord
	var updatedAtStr string

	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&doc.ID, &doc.URL, &doc.ContentType, &doc.Body, &doc.Hash, &doc.IndexVersion, &updatedAtStr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	doc.UpdatedAt, err = parseTimestamp(updatedAtStr)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListAll returns every stored document without its body, ordered by URL.
// Returns an empty slice if there are none (not an error).
func (r *DocumentRepo) ListAll(ctx context.Context) ([]DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, url, content_type, hash, index_version, updated_at FROM documents ORDER BY url")
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	docs := []DocumentRecord{}
	for rows.Next() {
		var doc DocumentRecord
		var updatedAtStr string
		if err := rows.Scan(&doc.ID, &doc.URL, &doc.ContentType, &doc.Hash, &doc.IndexVersion, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if doc.UpdatedAt, err = parseTimestamp(updatedAtStr); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}

// DeleteByURL removes a document. Returns ErrNotFound if nothing was deleted.
func (r *DocumentRepo) DeleteByURL(ctx context.Context, url string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE url = ?", url)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkIndexed records the index version of the current body of url.
func (r *DocumentRepo) MarkIndexed(ctx context.Context, url, indexVersion string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE documents SET index_version = ? WHERE url = ?", indexVersion, url)
	if err != nil {
		return fmt.Errorf("failed to mark document indexed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// parseTimestamp parses a SQLite DATETIME column.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	// SQLite might use a different format
	t, err = time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
	}
	return t, nil
}
