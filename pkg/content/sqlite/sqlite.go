// Package sqlite provides a SQLite-backed content store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/foliohq/folio/pkg/content"
)

// Store implements content.Store using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates a SQLite-backed content store.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		collection TEXT NOT NULL,
		slug TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		published INTEGER NOT NULL DEFAULT 0,
		unlisted INTEGER NOT NULL DEFAULT 0,
		embedding BLOB,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE(collection, slug)
	);

	CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);
	CREATE INDEX IF NOT EXISTS idx_documents_published ON documents(collection, published);
	`

	_, err := s.db.Exec(schema)
	return err
}

// serializeEmbedding converts a float32 slice to a little-endian BLOB.
// The format matches the sqlite-vec driver so the two stay interchangeable.
func serializeEmbedding(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func deserializeEmbedding(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d: must be divisible by 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// Put inserts or updates a document keyed by (collection, slug).
func (s *Store) Put(ctx context.Context, collection content.Collection, doc *content.Document) (*content.Document, error) {
	if doc == nil {
		return nil, errors.New("cannot store nil document")
	}
	if doc.Slug == "" {
		return nil, errors.New("document slug is required")
	}

	now := time.Now()
	stored := *doc
	stored.UpdatedAt = now

	// Keep the existing ID and creation time on upsert.
	var existingID string
	var existingCreated time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM documents WHERE collection = ? AND slug = ?`,
		string(collection), doc.Slug,
	).Scan(&existingID, &existingCreated)

	switch {
	case err == nil:
		stored.ID = existingID
		stored.CreatedAt = existingCreated
	case errors.Is(err, sql.ErrNoRows):
		if stored.ID == "" {
			stored.ID = uuid.NewString()
		}
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = now
		}
	default:
		return nil, fmt.Errorf("failed to look up document %s: %w", doc.Slug, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (
			id, collection, slug, title, content, description,
			published, unlisted, embedding, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, slug) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			description = excluded.description,
			published = excluded.published,
			unlisted = excluded.unlisted,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`,
		stored.ID, string(collection), stored.Slug, stored.Title, stored.Content,
		stored.Description, stored.Published, stored.Unlisted,
		serializeEmbedding(stored.Embedding), stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert document %s: %w", stored.Slug, err)
	}

	return &stored, nil
}

func (s *Store) scanDocument(row *sql.Row, collection content.Collection, ref string) (*content.Document, error) {
	var doc content.Document
	var blob []byte
	err := row.Scan(
		&doc.ID, &doc.Slug, &doc.Title, &doc.Content, &doc.Description,
		&doc.Published, &doc.Unlisted, &blob, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, content.NotFoundError{Collection: collection, Ref: ref}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}

	doc.Embedding, err = deserializeEmbedding(blob)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

const selectColumns = `id, slug, title, content, description, published, unlisted, embedding, created_at, updated_at`

// GetByID retrieves a document by its opaque ID.
func (s *Store) GetByID(ctx context.Context, collection content.Collection, id string) (*content.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM documents WHERE collection = ? AND id = ?`,
		string(collection), id,
	)
	return s.scanDocument(row, collection, id)
}

// GetBySlug retrieves a document by its slug.
func (s *Store) GetBySlug(ctx context.Context, collection content.Collection, slug string) (*content.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM documents WHERE collection = ? AND slug = ?`,
		string(collection), slug,
	)
	return s.scanDocument(row, collection, slug)
}

func (s *Store) queryDocuments(ctx context.Context, query string, args ...any) ([]*content.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var result []*content.Document
	for rows.Next() {
		var doc content.Document
		var blob []byte
		if err := rows.Scan(
			&doc.ID, &doc.Slug, &doc.Title, &doc.Content, &doc.Description,
			&doc.Published, &doc.Unlisted, &blob, &doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.Embedding, err = deserializeEmbedding(blob)
		if err != nil {
			return nil, err
		}
		result = append(result, &doc)
	}

	return result, rows.Err()
}

// List returns all documents in the collection.
func (s *Store) List(ctx context.Context, collection content.Collection) ([]*content.Document, error) {
	return s.queryDocuments(ctx,
		`SELECT `+selectColumns+` FROM documents WHERE collection = ? ORDER BY created_at DESC`,
		string(collection),
	)
}

// ListWithoutEmbedding returns up to limit documents lacking an embedding.
func (s *Store) ListWithoutEmbedding(ctx context.Context, collection content.Collection, limit int) ([]*content.Document, error) {
	return s.queryDocuments(ctx,
		`SELECT `+selectColumns+` FROM documents
		 WHERE collection = ? AND (embedding IS NULL OR length(embedding) = 0)
		 LIMIT ?`,
		string(collection), limit,
	)
}

// SaveEmbedding persists the embedding vector onto the document.
func (s *Store) SaveEmbedding(ctx context.Context, collection content.Collection, id string, embedding []float32) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE documents SET embedding = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		serializeEmbedding(embedding), time.Now(), string(collection), id,
	)
	if err != nil {
		return fmt.Errorf("failed to save embedding for %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return content.NotFoundError{Collection: collection, Ref: id}
	}

	return nil
}

// Delete removes a document by ID.
func (s *Store) Delete(ctx context.Context, collection content.Collection, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		string(collection), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return content.NotFoundError{Collection: collection, Ref: id}
	}

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ content.Store = (*Store)(nil)
