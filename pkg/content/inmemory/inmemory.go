// Package inmemory provides a map-backed content store for tests and dev.
package inmemory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foliohq/folio/pkg/content"
)

// Store implements content.Store using in-memory maps.
type Store struct {
	// mu guards the per-collection document maps
	mu sync.RWMutex

	// docs maps collection -> document ID -> document
	docs map[content.Collection]map[string]*content.Document
}

// NewStore creates a new in-memory content store.
func NewStore() *Store {
	docs := make(map[content.Collection]map[string]*content.Document, len(content.Collections))
	for _, c := range content.Collections {
		docs[c] = make(map[string]*content.Document)
	}
	return &Store{docs: docs}
}

// Put inserts or updates a document keyed by (collection, slug).
func (s *Store) Put(_ context.Context, collection content.Collection, doc *content.Document) (*content.Document, error) {
	if doc == nil {
		return nil, errors.New("cannot store nil document")
	}
	if doc.Slug == "" {
		return nil, errors.New("document slug is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	stored := *doc

	// Upsert by slug: reuse the existing ID and creation time.
	for _, existing := range s.docs[collection] {
		if existing.Slug == doc.Slug {
			stored.ID = existing.ID
			stored.CreatedAt = existing.CreatedAt
			stored.UpdatedAt = now
			s.docs[collection][stored.ID] = &stored
			return &stored, nil
		}
	}

	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.docs[collection][stored.ID] = &stored

	return &stored, nil
}

// GetByID retrieves a document by its opaque ID.
func (s *Store) GetByID(_ context.Context, collection content.Collection, id string) (*content.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[collection][id]
	if !ok {
		return nil, content.NotFoundError{Collection: collection, Ref: id}
	}

	cp := *doc
	return &cp, nil
}

// GetBySlug retrieves a document by its slug.
func (s *Store) GetBySlug(_ context.Context, collection content.Collection, slug string) (*content.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.docs[collection] {
		if doc.Slug == slug {
			cp := *doc
			return &cp, nil
		}
	}

	return nil, content.NotFoundError{Collection: collection, Ref: slug}
}

// List returns all documents in the collection.
func (s *Store) List(_ context.Context, collection content.Collection) ([]*content.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*content.Document, 0, len(s.docs[collection]))
	for _, doc := range s.docs[collection] {
		cp := *doc
		result = append(result, &cp)
	}

	return result, nil
}

// ListWithoutEmbedding returns up to limit documents lacking an embedding.
func (s *Store) ListWithoutEmbedding(_ context.Context, collection content.Collection, limit int) ([]*content.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*content.Document
	for _, doc := range s.docs[collection] {
		if len(doc.Embedding) > 0 {
			continue
		}
		cp := *doc
		result = append(result, &cp)
		if limit > 0 && len(result) >= limit {
			break
		}
	}

	return result, nil
}

// SaveEmbedding persists the embedding vector onto the document.
func (s *Store) SaveEmbedding(_ context.Context, collection content.Collection, id string, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[collection][id]
	if !ok {
		return content.NotFoundError{Collection: collection, Ref: id}
	}

	cp := make([]float32, len(embedding))
	copy(cp, embedding)
	doc.Embedding = cp
	doc.UpdatedAt = time.Now()

	return nil
}

// Delete removes a document by ID.
func (s *Store) Delete(_ context.Context, collection content.Collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[collection][id]; !ok {
		return content.NotFoundError{Collection: collection, Ref: id}
	}

	delete(s.docs[collection], id)
	return nil
}

// Close releases resources. No-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

var _ content.Store = (*Store)(nil)
