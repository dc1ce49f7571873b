// Package vector provides interfaces and implementations for vector storage
// and nearest-neighbor lookup over document embeddings.
package vector

import (
	"context"
	"fmt"
)

// Document represents an indexed document with its embedding and the
// metadata needed to hydrate and filter results.
type Document struct {
	// ID is the content store's opaque document identifier.
	ID string

	// Slug is the document's URL-safe identifier, carried for observability.
	Slug string

	// Published mirrors the document's published flag at index time.
	// Queries filter on it server-side; the live document state is
	// re-checked at hydration since the two can diverge.
	Published bool

	// Embedding is the vector representation of the document content.
	Embedding []float32
}

// QueryResult represents a search result with similarity score.
type QueryResult struct {
	Document

	// Score is the similarity score (higher = more similar). The scale is
	// driver-defined and only comparable within a single query.
	Score float32
}

// Driver handles storage and retrieval of vector embeddings for a single
// document collection. A deployment runs one driver per collection.
type Driver interface {
	// Add stores documents with their embeddings.
	// If a document with the same ID already exists, implementers should
	// update the document.
	Add(ctx context.Context, docs []Document) error

	// Query finds the topK most similar published documents to the given
	// embedding.
	Query(ctx context.Context, embedding []float32, topK int) ([]QueryResult, error)

	// Get retrieves documents by their IDs.
	Get(ctx context.Context, ids []string) ([]Document, error)

	// Delete removes documents by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Close releases any resources held by the driver.
	Close() error
}

// GetOne fetches a single document from a driver by ID. Drivers omit
// missing IDs from Get results, so absence is turned into ErrNotFound here
// for callers that need to distinguish it from a lookup failure.
func GetOne(ctx context.Context, d Driver, id string) (*Document, error) {
	docs, err := d.Get(ctx, []string{id})
	if err != nil {
		return nil, err
	}

	for i := range docs {
		if docs[i].ID == id {
			return &docs[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}
