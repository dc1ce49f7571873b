// Package backfillcmder provides the `folio backfill` CLI command.
package backfillcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foliohq/folio/cmd/folio/bootstrap"
	"github.com/foliohq/folio/pkg/backfill"
	"github.com/foliohq/folio/pkg/cliui"
	"github.com/foliohq/folio/pkg/config"
	"github.com/foliohq/folio/pkg/logger"
)

const backfillLongDesc string = `Generate embeddings for documents that lack one.

Scans the posts and pages collections for documents without an embedding,
generates one for each through the configured provider, and stores the
vectors for semantic search. Failed items are skipped and retried on the
next run, so the command is safe to run on a schedule.

Requires OPENAI_API_KEY in the environment for the OpenAI provider; without
a credential the run is skipped rather than failing.

Examples:
  folio backfill
  folio backfill --limit 10
  folio backfill --sqlite ./folio.db`

const backfillShortDesc string = "Generate embeddings for documents that lack one"

type backfillCommander struct {
	sqlitePath string
	limit      int
	configDir  string
	debug      bool
}

// NewBackfillCmd creates the backfill cobra command.
func NewBackfillCmd() *cobra.Command {
	cmder := &backfillCommander{}

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: backfillShortDesc,
		Long:  backfillLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.sqlitePath, "sqlite", "s", "", "Path to SQLite content database")
	cmd.Flags().IntVar(&cmder.limit, "limit", backfill.DefaultBatchLimit, "Maximum documents per collection per run")

	return cmd
}

func (c *backfillCommander) run(ctx context.Context) error {
	log := logger.NewZap(c.debug)
	defer func() { _ = log.Sync() }()

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return err
	}
	if c.sqlitePath != "" {
		v.Set("storage.sqlite_path", c.sqlitePath)
	}

	store, err := bootstrap.NewStore(ctx, v, c.configDir)
	if err != nil {
		return fmt.Errorf("creating content store: %w", err)
	}
	defer store.Close()

	postIndex, pageIndex, err := bootstrap.NewVectorDrivers(v, c.configDir, log)
	if err != nil {
		return fmt.Errorf("creating vector drivers: %w", err)
	}
	defer postIndex.Close()
	defer pageIndex.Close()

	embedder, err := bootstrap.NewEmbedder(v)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	if embedder != nil {
		defer embedder.Close()
	}

	publisher, err := bootstrap.NewPublisher(v)
	if err != nil {
		return fmt.Errorf("creating event publisher: %w", err)
	}
	defer publisher.Close()

	b := backfill.NewBackfiller(store, embedder, postIndex, pageIndex, publisher, log, backfill.Options{
		BatchLimit: c.limit,
	})

	var result *backfill.Result
	if err := cliui.Step(os.Stdout, "Backfilling embeddings", func() error {
		var runErr error
		result, runErr = b.Run(ctx)
		return runErr
	}); err != nil {
		return err
	}

	fmt.Printf("\n  %s %s\n\n", cliui.Mark(nil), result.Summary())

	if failed := result.Failed(); failed > 0 {
		cli := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))
		cli.Warn("some documents failed to embed, they will be retried next run", "failed", failed)
	}

	return nil
}
