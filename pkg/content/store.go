package content

import "context"

// Store defines the interface for persisting and retrieving documents in a
// storage backend. The search subsystem only reads from it; the single
// writer of the Embedding field at runtime is the backfill worker, via
// SaveEmbedding.
type Store interface {
	// Put inserts or updates a document, keyed by (collection, slug).
	// Returns the stored document with its ID populated.
	Put(ctx context.Context, collection Collection, doc *Document) (*Document, error)

	// GetByID retrieves a document by its opaque ID.
	// Returns NotFoundError if no such document exists.
	GetByID(ctx context.Context, collection Collection, id string) (*Document, error)

	// GetBySlug retrieves a document by its slug.
	// Returns NotFoundError if no such document exists.
	GetBySlug(ctx context.Context, collection Collection, slug string) (*Document, error)

	// List returns all documents in the collection.
	List(ctx context.Context, collection Collection) ([]*Document, error)

	// ListWithoutEmbedding returns up to limit documents lacking an
	// embedding. Order is unspecified.
	ListWithoutEmbedding(ctx context.Context, collection Collection, limit int) ([]*Document, error)

	// SaveEmbedding persists the embedding vector onto the document.
	// The vector replaces any previous one wholesale.
	SaveEmbedding(ctx context.Context, collection Collection, id string, embedding []float32) error

	// Delete removes a document by ID.
	Delete(ctx context.Context, collection Collection, id string) error

	// Close releases any resources held by the store.
	Close() error
}
