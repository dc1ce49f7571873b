package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/foliohq/folio/pkg/content"
)

// Watch re-syncs markdown files as they change on disk. It blocks until the
// context is cancelled or the watcher fails.
func (s *Syncer) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, collection := range content.Collections {
		collectionDir := filepath.Join(dir, string(collection))
		if err := watcher.Add(collectionDir); err != nil {
			s.logger.Warn("cannot watch directory",
				zap.String("dir", collectionDir),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("watching for content changes", zap.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleEvent(ctx, dir, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (s *Syncer) handleEvent(ctx context.Context, dir string, event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".md") {
		return
	}

	collection := content.Collection(filepath.Base(filepath.Dir(event.Name)))
	if !collection.Valid() {
		return
	}

	switch {
	case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
		if _, err := s.SyncFile(ctx, collection, event.Name); err != nil {
			s.logger.Warn("re-sync failed",
				zap.String("path", event.Name),
				zap.Error(err),
			)
			return
		}
		s.logger.Info("synced",
			zap.String("collection", string(collection)),
			zap.String("path", event.Name),
		)

	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		if err := s.RemoveFile(ctx, collection, event.Name); err != nil {
			s.logger.Warn("remove failed",
				zap.String("path", event.Name),
				zap.Error(err),
			)
			return
		}
		s.logger.Info("removed",
			zap.String("collection", string(collection)),
			zap.String("path", event.Name),
		)
	}
}
