// Package backfill generates embeddings for documents that lack one. It is
// designed to run repeatedly (e.g. on a schedule) until the backlog is
// empty: each pass processes a bounded batch per collection, isolates
// per-item failures, and reports a combined tally.
package backfill

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/foliohq/folio/pkg/content"
	"github.com/foliohq/folio/pkg/embeddings"
	"github.com/foliohq/folio/pkg/eventstream"
	"github.com/foliohq/folio/pkg/vector"
)

// DefaultBatchLimit bounds how many documents one pass embeds per collection.
const DefaultBatchLimit = 50

// Options configures backfill behavior.
type Options struct {
	// BatchLimit is the per-collection document cap per pass.
	// Defaults to DefaultBatchLimit when zero.
	BatchLimit int
}

// Backfiller finds documents without embeddings and generates one for each.
type Backfiller struct {
	store     content.Store
	embedder  embeddings.Embedder
	postIndex vector.Driver
	pageIndex vector.Driver
	publisher eventstream.Publisher
	logger    *zap.Logger
	options   Options
}

// NewBackfiller creates a Backfiller. A nil embedder means no embedding
// credential is configured; Run then short-circuits to a skipped result.
// The publisher may be nil to disable event emission.
func NewBackfiller(
	store content.Store,
	embedder embeddings.Embedder,
	postIndex, pageIndex vector.Driver,
	publisher eventstream.Publisher,
	logger *zap.Logger,
	opts Options,
) *Backfiller {
	if opts.BatchLimit <= 0 {
		opts.BatchLimit = DefaultBatchLimit
	}

	return &Backfiller{
		store:     store,
		embedder:  embedder,
		postIndex: postIndex,
		pageIndex: pageIndex,
		publisher: publisher,
		logger:    logger,
		options:   opts,
	}
}

// Run backfills embeddings across the post and page collections and returns
// the combined tally. When no embedding provider is configured it returns a
// skipped result with zero counts instead of failing the pass.
func (b *Backfiller) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	if b.embedder == nil {
		result.Skipped = true
		b.logger.Info("backfill skipped: no embedding provider configured")
		return result, nil
	}

	posts, err := b.backfillCollection(ctx, content.CollectionPosts, b.postIndex)
	if err != nil {
		return nil, err
	}
	result.Posts = posts

	pages, err := b.backfillCollection(ctx, content.CollectionPages, b.pageIndex)
	if err != nil {
		return nil, err
	}
	result.Pages = pages

	return result, nil
}

// backfillCollection embeds up to the batch limit of documents in one
// collection. A failing item is logged and recorded, never aborts the batch.
func (b *Backfiller) backfillCollection(ctx context.Context, collection content.Collection, index vector.Driver) (CollectionResult, error) {
	result := CollectionResult{Collection: collection}

	candidates, err := b.store.ListWithoutEmbedding(ctx, collection, b.options.BatchLimit)
	if err != nil {
		return result, err
	}

	b.logger.Debug("backfill candidates",
		zap.String("collection", string(collection)),
		zap.Int("count", len(candidates)),
	)

	for _, doc := range candidates {
		if err := b.backfillOne(ctx, collection, index, doc); err != nil {
			b.logger.Warn("backfill item failed",
				zap.String("collection", string(collection)),
				zap.String("slug", doc.Slug),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, doc.Slug)
			continue
		}
		result.Processed++
	}

	return result, nil
}

func (b *Backfiller) backfillOne(ctx context.Context, collection content.Collection, index vector.Driver, doc *content.Document) error {
	embedding, err := b.indexedEmbedding(ctx, index, doc.ID)
	if err != nil {
		return err
	}

	if embedding == nil {
		input := doc.Title + "\n\n" + doc.Content
		embedding, err = b.embedder.Embed(ctx, input)
		if err != nil {
			return err
		}
	} else {
		b.logger.Debug("reusing embedding from vector index",
			zap.String("collection", string(collection)),
			zap.String("slug", doc.Slug),
		)
	}

	if err := b.store.SaveEmbedding(ctx, collection, doc.ID, embedding); err != nil {
		return err
	}

	if index != nil {
		err := index.Add(ctx, []vector.Document{{
			ID:        doc.ID,
			Slug:      doc.Slug,
			Published: doc.Published,
			Embedding: embedding,
		}})
		if err != nil {
			return err
		}
	}

	if b.publisher != nil {
		event := &eventstream.DocumentEmbeddedEvent{
			SchemaVersion: eventstream.SchemaVersionV1,
			EventType:     eventstream.EventTypeDocumentEmbedded,
			EmittedAt:     time.Now(),
			Collection:    string(collection),
			DocumentID:    doc.ID,
			Slug:          doc.Slug,
			Dimensions:    len(embedding),
		}
		if err := b.publisher.PublishDocumentEmbedded(ctx, event); err != nil {
			// Event emission is best effort; the embedding is already saved.
			b.logger.Warn("failed to publish embed event",
				zap.String("slug", doc.Slug),
				zap.Error(err),
			)
		}
	}

	return nil
}

// indexedEmbedding returns the embedding the vector index already holds for
// the document, or nil when it holds none. A candidate can reach this state
// when a prior run wrote the vector but failed before the store update;
// reusing it skips a provider round trip.
func (b *Backfiller) indexedEmbedding(ctx context.Context, index vector.Driver, id string) ([]float32, error) {
	if index == nil {
		return nil, nil
	}

	doc, err := vector.GetOne(ctx, index, id)
	if errors.Is(err, vector.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(doc.Embedding) == 0 {
		return nil, nil
	}

	return doc.Embedding, nil
}
