// Package content defines the document model for the site and the Store
// interface that persistence backends implement.
package content

import "time"

// Collection identifies which document collection a record belongs to.
type Collection string

const (
	// CollectionPosts holds dated blog posts.
	CollectionPosts Collection = "posts"

	// CollectionPages holds standalone pages.
	CollectionPages Collection = "pages"
)

// Collections lists every collection in a stable order. Posts come first,
// which also fixes the encounter order when search results are merged.
var Collections = []Collection{CollectionPosts, CollectionPages}

// Valid reports whether c names a known collection.
func (c Collection) Valid() bool {
	return c == CollectionPosts || c == CollectionPages
}

// Document is a single markdown-backed post or page.
//
// Documents are addressable by slug. The embedding is populated
// asynchronously by the backfill worker and may be absent; a document is
// eligible for semantic search only when the embedding is present, the
// document is published, and (for posts) it is not unlisted.
type Document struct {
	// ID is an opaque unique identifier assigned at creation.
	ID string

	// Slug is the unique, human-assigned, URL-safe identifier.
	Slug string

	// Title is the document title.
	Title string

	// Content is the raw markdown body.
	Content string

	// Description is a short summary. Posts only; empty for pages.
	Description string

	// Published controls visibility everywhere.
	Published bool

	// Unlisted excludes a published post from listings and search while
	// keeping it addressable by slug. Posts only.
	Unlisted bool

	// Embedding is the document's vector representation, or nil if it has
	// not been generated yet.
	Embedding []float32

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Searchable reports whether the document may appear in search results of
// either mode. It intentionally ignores the embedding: keyword search does
// not need one, and the semantic engine checks presence separately.
func (d *Document) Searchable() bool {
	return d.Published && !d.Unlisted
}
