// Package keyword implements the full-text search engine over document
// titles and content, backed by a Bleve index. Only published, listed
// documents are indexed, so the index itself enforces the visibility filter.
package keyword

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"go.uber.org/zap"

	"github.com/foliohq/folio/pkg/content"
	"github.com/foliohq/folio/pkg/search"
	"github.com/foliohq/folio/pkg/snippet"
)

const snippetLength = 120

// Engine wraps a Bleve full-text index plus the content store used to
// hydrate hits into search results.
type Engine struct {
	index  bleve.Index
	store  content.Store
	logger *zap.Logger
}

// indexedDocument is the shape stored in the Bleve index.
type indexedDocument struct {
	Collection string
	Slug       string
	Title      string
	Content    string
}

// Open opens or creates a Bleve index at path.
func Open(path string, store content.Store, logger *zap.Logger) (*Engine, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	return &Engine{index: idx, store: store, logger: logger}, nil
}

// NewMemOnly creates an in-memory engine for tests and dev.
func NewMemOnly(store content.Store, logger *zap.Logger) (*Engine, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &Engine{index: idx, store: store, logger: logger}, nil
}

// buildIndexMapping creates the index mapping. Titles use the English
// analyzer for stemming; the standard analyzer covers content.
func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = "en"

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Collection", bleve.NewKeywordFieldMapping())
	docMapping.AddFieldMappingsAt("Slug", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Title", titleFieldMapping)
	docMapping.AddFieldMappingsAt("Content", textFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

// indexKey namespaces document IDs by collection inside the shared index.
func indexKey(collection content.Collection, id string) string {
	return string(collection) + "/" + id
}

// IndexDocument adds or updates a document in the index. Documents that are
// not searchable (unpublished, or unlisted posts) are removed instead, so
// visibility changes take effect on the next index pass.
func (e *Engine) IndexDocument(collection content.Collection, doc *content.Document) error {
	key := indexKey(collection, doc.ID)
	if !doc.Searchable() {
		return e.index.Delete(key)
	}

	return e.index.Index(key, &indexedDocument{
		Collection: string(collection),
		Slug:       doc.Slug,
		Title:      doc.Title,
		Content:    doc.Content,
	})
}

// Delete removes a document from the index.
func (e *Engine) Delete(collection content.Collection, id string) error {
	return e.index.Delete(indexKey(collection, id))
}

// RebuildFromStore re-indexes every searchable document in every collection.
func (e *Engine) RebuildFromStore(ctx context.Context) error {
	batch := e.index.NewBatch()

	for _, collection := range content.Collections {
		docs, err := e.store.List(ctx, collection)
		if err != nil {
			return fmt.Errorf("list %s: %w", collection, err)
		}

		for _, doc := range docs {
			if !doc.Searchable() {
				continue
			}
			err := batch.Index(indexKey(collection, doc.ID), &indexedDocument{
				Collection: string(collection),
				Slug:       doc.Slug,
				Title:      doc.Title,
				Content:    doc.Content,
			})
			if err != nil {
				return fmt.Errorf("batch index %s/%s: %w", collection, doc.ID, err)
			}
		}
	}

	if err := e.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	return nil
}

// Search performs a full-text query and hydrates the hits into ranked
// results. Hits whose backing document has vanished or become unsearchable
// since indexing are dropped.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	if limit <= 0 {
		limit = 15
	}

	// Query-string syntax: supports quoted phrases, boolean operators,
	// and fuzzy ~. A boosted title match is OR'd in so documents whose
	// title carries the terms rank above body-only matches.
	qs := bleve.NewQueryStringQuery(query)
	title := bleve.NewMatchQuery(query)
	title.SetField("Title")
	title.SetBoost(2.0)

	q := bleve.NewDisjunctionQuery(qs, title)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"Collection", "Slug"}

	res, err := e.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := make([]search.Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		collectionField, _ := hit.Fields["Collection"].(string)
		collection := content.Collection(collectionField)
		if !collection.Valid() {
			continue
		}

		// Strip the collection prefix applied by indexKey.
		id := hit.ID[len(collectionField)+1:]

		doc, err := e.store.GetByID(ctx, collection, id)
		if err != nil {
			continue
		}
		if !doc.Searchable() {
			continue
		}

		kind := search.KindPage
		if collection == content.CollectionPosts {
			kind = search.KindPost
		}

		results = append(results, search.Result{
			Kind:        kind,
			ID:          doc.ID,
			Slug:        doc.Slug,
			Title:       doc.Title,
			Description: doc.Description,
			Snippet:     snippet.Extract(doc.Content, snippetLength),
			Score:       float32(hit.Score),
		})
	}

	return results, nil
}

// Count returns the number of documents in the index.
func (e *Engine) Count() (uint64, error) {
	return e.index.DocCount()
}

// Close closes the index.
func (e *Engine) Close() error {
	return e.index.Close()
}
