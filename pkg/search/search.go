// Package search implements the semantic search engine: it embeds a query,
// runs nearest-neighbor lookups against the post and page vector indexes,
// hydrates full documents from the content store, and merges the candidates
// into one ranked result list.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/foliohq/folio/pkg/content"
	"github.com/foliohq/folio/pkg/snippet"
	"github.com/foliohq/folio/pkg/vector"
)

const (
	// perIndexLimit is how many nearest neighbors each collection's index
	// contributes before the merge.
	perIndexLimit = 10

	// maxResults caps the merged, ranked result list.
	maxResults = 15

	// snippetLength bounds the generated excerpt for each result.
	snippetLength = 120
)

// Searcher performs semantic search over the post and page collections.
type Searcher struct {
	embedder  Embedder
	postIndex vector.Driver
	pageIndex vector.Driver
	store     content.Store
	logger    *zap.Logger
}

// Embedder is the subset of pkg/embeddings used by the searcher.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewSearcher creates a semantic searcher. A nil embedder means no
// embedding credential is configured; Semantic then degrades to empty
// results instead of erroring.
func NewSearcher(embedder Embedder, postIndex, pageIndex vector.Driver, store content.Store, logger *zap.Logger) *Searcher {
	return &Searcher{
		embedder:  embedder,
		postIndex: postIndex,
		pageIndex: pageIndex,
		store:     store,
		logger:    logger,
	}
}

// Available reports whether semantic search can serve queries. It reflects
// credential presence only, not index health.
func (s *Searcher) Available() bool {
	return s.embedder != nil && s.postIndex != nil && s.pageIndex != nil
}

// Semantic runs a semantic search and returns at most 15 results ordered by
// similarity score descending. Blank queries and an unconfigured embedder
// both yield an empty list without touching the provider.
func (s *Searcher) Semantic(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return []Result{}, nil
	}
	if !s.Available() {
		return []Result{}, nil
	}

	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results := make([]Result, 0, 2*perIndexLimit)

	// Posts are appended before pages, and the sort below is stable, so
	// equal scores keep posts first.
	postResults, err := s.collect(ctx, content.CollectionPosts, s.postIndex, queryEmbedding)
	if err != nil {
		return nil, err
	}
	results = append(results, postResults...)

	pageResults, err := s.collect(ctx, content.CollectionPages, s.pageIndex, queryEmbedding)
	if err != nil {
		return nil, err
	}
	results = append(results, pageResults...)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}

	return results, nil
}

// collect queries one collection's vector index and hydrates the candidates.
func (s *Searcher) collect(ctx context.Context, collection content.Collection, index vector.Driver, queryEmbedding []float32) ([]Result, error) {
	candidates, err := index.Query(ctx, queryEmbedding, perIndexLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s vector index: %w", collection, err)
	}

	kind := KindPage
	if collection == content.CollectionPosts {
		kind = KindPost
	}

	results := make([]Result, 0, len(candidates))
	for _, candidate := range candidates {
		doc, err := s.store.GetByID(ctx, collection, candidate.ID)
		if err != nil {
			// The document can vanish between indexing and hydration;
			// such candidates are dropped, not reported.
			var notFound content.NotFoundError
			if !errors.As(err, &notFound) {
				s.logger.Warn("failed to hydrate search candidate",
					zap.String("collection", string(collection)),
					zap.String("id", candidate.ID),
					zap.Error(err),
				)
			}
			continue
		}

		// Re-filter against live document state: the index filter and the
		// store can diverge when a document is unpublished after indexing.
		if !doc.Searchable() {
			continue
		}

		results = append(results, Result{
			Kind:        kind,
			ID:          doc.ID,
			Slug:        doc.Slug,
			Title:       doc.Title,
			Description: doc.Description,
			Snippet:     snippet.Extract(doc.Content, snippetLength),
			Score:       candidate.Score,
		})
	}

	return results, nil
}
