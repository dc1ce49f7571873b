// Package foliocmder
package foliocmder

import (
	"github.com/spf13/cobra"

	backfillcmder "github.com/foliohq/folio/cmd/folio/backfill"
	configcmder "github.com/foliohq/folio/cmd/folio/config"
	findcmder "github.com/foliohq/folio/cmd/folio/find"
	searchcmder "github.com/foliohq/folio/cmd/folio/search"
	servecmder "github.com/foliohq/folio/cmd/folio/serve"
	synccmder "github.com/foliohq/folio/cmd/folio/sync"
	viewcmder "github.com/foliohq/folio/cmd/folio/view"
	versioncmder "github.com/foliohq/folio/cmd/version"
)

const folioLongDesc string = `Folio is dual-mode search for markdown content sites.

Load content using:
  folio sync           Import markdown files into the content store
  folio backfill       Generate embeddings for semantic search

Run the API server using:
  folio serve          Run the search and content API server

Search from the terminal using:
  folio search         One-shot search against a running server
  folio find           Interactive search`

const folioShortDesc string = "Folio - Content Search"

func NewFolioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folio",
		Short: folioShortDesc,
		Long:  folioLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .folio/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(backfillcmder.NewBackfillCmd())
	cmd.AddCommand(synccmder.NewSyncCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(findcmder.NewFindCmd())
	cmd.AddCommand(viewcmder.NewViewCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
