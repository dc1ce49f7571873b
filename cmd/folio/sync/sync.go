// Package synccmder provides the `folio sync` CLI command.
package synccmder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/foliohq/folio/cmd/folio/bootstrap"
	"github.com/foliohq/folio/cmd/folio/dbpath"
	"github.com/foliohq/folio/pkg/cliui"
	"github.com/foliohq/folio/pkg/dotdir"
	"github.com/foliohq/folio/pkg/config"
	"github.com/foliohq/folio/pkg/ingest"
	"github.com/foliohq/folio/pkg/logger"
	"github.com/foliohq/folio/pkg/search/keyword"
)

const syncLongDesc string = `Import markdown files into the content store.

Reads posts/ and pages/ under the content directory, parses each file's
frontmatter, and upserts the documents into the store and the keyword
index. Files that fail to parse are reported and skipped.

With --watch the command keeps running and re-syncs files as they change.

Examples:
  folio sync
  folio sync --content-dir ./site/content
  folio sync --watch`

const syncShortDesc string = "Import markdown files into the content store"

type syncCommander struct {
	contentDir string
	sqlitePath string
	watch      bool
	configDir  string
	debug      bool
}

// NewSyncCmd creates the sync cobra command.
func NewSyncCmd() *cobra.Command {
	cmder := &syncCommander{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: syncShortDesc,
		Long:  syncLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.contentDir, "content-dir", "c", "", "Root of the markdown content tree")
	cmd.Flags().StringVarP(&cmder.sqlitePath, "sqlite", "s", "", "Path to SQLite content database")
	cmd.Flags().BoolVarP(&cmder.watch, "watch", "w", false, "Keep running and re-sync files as they change")

	return cmd
}

func (c *syncCommander) run(ctx context.Context) error {
	log := logger.NewZap(c.debug)
	defer func() { _ = log.Sync() }()

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return err
	}
	if c.sqlitePath != "" {
		v.Set("storage.sqlite_path", c.sqlitePath)
	}

	contentDir := c.contentDir
	if contentDir == "" {
		contentDir = v.GetString("content.dir")
	}

	store, err := bootstrap.NewStore(ctx, v, c.configDir)
	if err != nil {
		return fmt.Errorf("creating content store: %w", err)
	}
	defer store.Close()

	indexPath, err := dbpath.ResolveIndexPath(v.GetString("index.path"), c.configDir)
	if err != nil {
		return err
	}
	kw, err := keyword.Open(indexPath, store, log)
	if err != nil {
		return fmt.Errorf("opening keyword index: %w", err)
	}
	defer kw.Close()

	syncer := ingest.NewSyncer(store, kw, log)

	var result *ingest.Result
	if err := cliui.Step(os.Stdout, "Syncing content", func() error {
		var runErr error
		result, runErr = syncer.SyncDir(ctx, contentDir)
		return runErr
	}); err != nil {
		return err
	}

	cli := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	fmt.Printf("\n  %s %s\n\n", cliui.Mark(nil), result.Summary())
	for _, path := range result.Failed {
		cli.Warn("failed to import", "path", path)
	}

	if !c.watch {
		return nil
	}

	// Watch mode runs unattended, so mirror the pretty stdout log into a
	// JSON file under the config directory for later inspection.
	if logFile, fileErr := openWatchLog(c.configDir); fileErr == nil {
		defer logFile.Close()
		cli = logger.Multi(cli, logger.New(
			logger.WithDebug(c.debug),
			logger.WithJSON(true),
			logger.WithWriter(logFile),
		))
	}

	cli.Info("watching for changes", "dir", contentDir)
	err = syncer.Watch(ctx, contentDir)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func openWatchLog(configDir string) (*os.File, error) {
	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(target, "sync.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
