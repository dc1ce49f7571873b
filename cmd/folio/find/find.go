// Package findcmder provides the interactive find command, a terminal UI
// over the folio search API.
package findcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	searchcmder "github.com/foliohq/folio/cmd/folio/search"
	"github.com/foliohq/folio/pkg/config"
)

const findLongDesc string = `Search site content interactively.

Opens a terminal UI connected to a running folio API server. Keyword
results update on every keystroke; semantic queries wait for a short
pause after the last keystroke before the query is sent.

Keys:
  tab                     toggle between keyword and semantic mode
  up/down, ctrl+p/ctrl+n  move through results
  enter                   open the selected document
  esc, q, h               back out of the document view
  ctrl+c                  quit

Semantic mode only appears when the server has an embedding provider
configured.

Example:
  folio find
  folio find --api-target http://localhost:8081`

const findShortDesc string = "Search site content interactively"

type findCommander struct {
	apiTarget string
}

func NewFindCmd() *cobra.Command {
	cmder := &findCommander{}

	cmd := &cobra.Command{
		Use:   "find",
		Short: findShortDesc,
		Long:  findLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("api-target") {
				cmder.apiTarget = cfg.Client.APITarget
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVar(&cmder.apiTarget, "api-target", defaults.Client.APITarget, "Folio API server URL")

	return cmd
}

func (c *findCommander) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	avail, err := searchcmder.FetchAvailability(ctx, c.apiTarget)
	if err != nil {
		return fmt.Errorf("checking search availability: %w", err)
	}
	if !avail.Keyword && !avail.Semantic {
		return fmt.Errorf("no search mode is available on %s", c.apiTarget)
	}

	return runFindTUI(ctx, c.apiTarget, avail.Semantic)
}
