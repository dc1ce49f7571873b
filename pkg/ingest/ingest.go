// Package ingest loads markdown source files into the content store and the
// keyword index. The source tree mirrors the collections: posts live under
// <dir>/posts/ and pages under <dir>/pages/, one .md file per document.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/foliohq/folio/pkg/content"
	"github.com/foliohq/folio/pkg/frontmatter"
)

// Indexer receives documents as they are synced or removed. The keyword
// engine implements it; a nil Indexer disables indexing during sync.
type Indexer interface {
	IndexDocument(collection content.Collection, doc *content.Document) error
	Delete(collection content.Collection, id string) error
}

// Syncer walks a markdown tree and upserts each document into the store.
type Syncer struct {
	store   content.Store
	indexer Indexer
	logger  *zap.Logger
}

// NewSyncer creates a Syncer. The indexer may be nil.
func NewSyncer(store content.Store, indexer Indexer, logger *zap.Logger) *Syncer {
	return &Syncer{
		store:   store,
		indexer: indexer,
		logger:  logger,
	}
}

// SyncDir syncs every markdown file under dir's posts/ and pages/
// subdirectories. A file that fails to parse is logged and recorded,
// never aborts the rest of the sync. Stored documents whose source file
// has disappeared are removed, so the store mirrors the tree after every
// full sync.
func (s *Syncer) SyncDir(ctx context.Context, dir string) (*Result, error) {
	result := &Result{}

	for _, collection := range content.Collections {
		collectionDir := filepath.Join(dir, string(collection))

		info, err := os.Stat(collectionDir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", collectionDir, err)
		}
		if !info.IsDir() {
			continue
		}

		seen, err := s.syncCollection(ctx, collection, collectionDir, result)
		if err != nil {
			return nil, err
		}

		if err := s.removeOrphans(ctx, collection, seen, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (s *Syncer) syncCollection(ctx context.Context, collection content.Collection, dir string, result *Result) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		doc, err := s.SyncFile(ctx, collection, path)
		if err != nil {
			s.logger.Warn("sync file failed",
				zap.String("path", path),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, path)
			// A broken file still owns its slug. Keeping it in the seen
			// set stops the orphan pass from deleting the stored copy.
			seen[SlugFromPath(path)] = true
			continue
		}
		seen[doc.Slug] = true
		result.Synced++
	}

	return seen, nil
}

// removeOrphans deletes stored documents with no surviving source file.
func (s *Syncer) removeOrphans(ctx context.Context, collection content.Collection, seen map[string]bool, result *Result) error {
	docs, err := s.store.List(ctx, collection)
	if err != nil {
		return fmt.Errorf("list %s: %w", collection, err)
	}

	for _, doc := range docs {
		if seen[doc.Slug] {
			continue
		}

		if err := s.store.Delete(ctx, collection, doc.ID); err != nil {
			return fmt.Errorf("delete orphan %s/%s: %w", collection, doc.Slug, err)
		}
		if s.indexer != nil {
			if err := s.indexer.Delete(collection, doc.ID); err != nil {
				return fmt.Errorf("remove orphan from index: %w", err)
			}
		}

		s.logger.Info("removed document with no source file",
			zap.String("collection", string(collection)),
			zap.String("slug", doc.Slug),
		)
		result.Removed++
	}

	return nil
}

// SyncFile parses one markdown file and upserts it into the store and index.
// The slug defaults to the filename without its extension when the
// frontmatter does not set one.
func (s *Syncer) SyncFile(ctx context.Context, collection content.Collection, path string) (*content.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	meta, body, err := frontmatter.Parse(string(data))
	if err != nil {
		return nil, err
	}

	slug := meta.Slug
	if slug == "" {
		slug = SlugFromPath(path)
	}

	doc := &content.Document{
		Slug:        slug,
		Title:       meta.Title,
		Content:     body,
		Description: meta.Description,
		Published:   meta.Published,
		Unlisted:    meta.Unlisted,
	}
	if !meta.Date.IsZero() {
		doc.CreatedAt = meta.Date
	}

	stored, err := s.store.Put(ctx, collection, doc)
	if err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	if s.indexer != nil {
		if err := s.indexer.IndexDocument(collection, stored); err != nil {
			return nil, fmt.Errorf("index document: %w", err)
		}
	}

	return stored, nil
}

// RemoveFile deletes the document that corresponds to a removed source file.
func (s *Syncer) RemoveFile(ctx context.Context, collection content.Collection, path string) error {
	slug := SlugFromPath(path)

	doc, err := s.store.GetBySlug(ctx, collection, slug)
	if err != nil {
		var notFound content.NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	if err := s.store.Delete(ctx, collection, doc.ID); err != nil {
		return err
	}

	if s.indexer != nil {
		if err := s.indexer.Delete(collection, doc.ID); err != nil {
			return fmt.Errorf("remove from index: %w", err)
		}
	}

	return nil
}

// SlugFromPath derives a slug from a markdown filename.
func SlugFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
