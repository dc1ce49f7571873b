// Package servecmder provides the serve command for running the API server.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/foliohq/folio/api"
	"github.com/foliohq/folio/cmd/folio/bootstrap"
	"github.com/foliohq/folio/cmd/folio/dbpath"
	"github.com/foliohq/folio/pkg/config"
	"github.com/foliohq/folio/pkg/logger"
	"github.com/foliohq/folio/pkg/search"
	"github.com/foliohq/folio/pkg/search/keyword"
)

type ServeCommander struct {
	apiListen  string
	sqlitePath string
	indexPath  string
	configDir  string
	debug      bool
	viper      *viper.Viper
	logger     *zap.Logger
}

const serveLongDesc string = `Run the folio API server.

Serves keyword and semantic search plus the content endpoints. Semantic
search requires an embedding provider; without one the server still runs
and reports semantic search as unavailable.

Set OPENAI_API_KEY in the environment to enable the OpenAI embedding
provider. The key is never read from or written to the config file.`

const serveShortDesc string = "Run the folio API server"

var serveFlags = config.FlagSet{
	config.FlagAPIListen: {
		Name: "api-listen", Shorthand: "a", ViperKey: "api.listen",
		Description: "Address for API server to listen on",
	},
	config.FlagSQLite: {
		Name: "sqlite", Shorthand: "s", ViperKey: "storage.sqlite_path",
		Description: "Path to SQLite content database",
	},
	config.FlagIndexPath: {
		Name: "index-path", ViperKey: "index.path",
		Description: "Path to the Bleve keyword index",
	},
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return err
			}

			config.BindRegisteredFlags(v, cmd, serveFlags, []string{
				config.FlagAPIListen,
				config.FlagSQLite,
				config.FlagIndexPath,
			})
			cmder.viper = v

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, serveFlags, config.FlagAPIListen, &cmder.apiListen)
	config.AddStringFlag(cmd, serveFlags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, serveFlags, config.FlagIndexPath, &cmder.indexPath)

	return cmd
}

func (c *ServeCommander) run(ctx context.Context) error {
	c.logger = logger.NewZap(c.debug)
	defer func() { _ = c.logger.Sync() }()

	// Create shared content store
	store, err := bootstrap.NewStore(ctx, c.viper, c.configDir)
	if err != nil {
		return fmt.Errorf("creating content store: %w", err)
	}
	defer store.Close()

	// Create keyword index
	indexPath, err := dbpath.ResolveIndexPath(c.viper.GetString("index.path"), c.configDir)
	if err != nil {
		return err
	}
	kw, err := keyword.Open(indexPath, store, c.logger)
	if err != nil {
		return fmt.Errorf("opening keyword index: %w", err)
	}
	defer kw.Close()

	// Create vector drivers and embedder for semantic search
	postIndex, pageIndex, err := bootstrap.NewVectorDrivers(c.viper, c.configDir, c.logger)
	if err != nil {
		return fmt.Errorf("creating vector drivers: %w", err)
	}
	defer postIndex.Close()
	defer pageIndex.Close()

	embedder, err := bootstrap.NewEmbedder(c.viper)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	if embedder == nil {
		c.logger.Info("no embedding provider configured, semantic search disabled")
	} else {
		defer embedder.Close()
	}

	searcher := search.NewSearcher(embedder, postIndex, pageIndex, store, c.logger)

	apiServer := api.NewServer(api.Config{
		ListenAddr: c.viper.GetString("api.listen"),
	}, store, searcher, kw, c.logger)

	errChan := make(chan error, 1)
	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return apiServer.Shutdown()
	}
}
