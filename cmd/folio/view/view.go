// Package viewcmder provides the view command for rendering a single
// document in the terminal.
package viewcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	searchcmder "github.com/foliohq/folio/cmd/folio/search"
	"github.com/foliohq/folio/pkg/cliui"
	"github.com/foliohq/folio/pkg/config"
)

const viewLongDesc string = `Render a document from the folio API.

Fetches a post (or, with --page, a page) by slug and renders its markdown
body in the terminal. Unlisted documents can be viewed this way even
though they never appear in search results.

Example:
  folio view hello-world
  folio view colophon --page
  folio view $(folio search "nix" --quiet | head -1)`

const viewShortDesc string = "Render a document in the terminal"

type viewCommander struct {
	slug      string
	page      bool
	raw       bool
	apiTarget string
}

func NewViewCmd() *cobra.Command {
	cmder := &viewCommander{}

	cmd := &cobra.Command{
		Use:   "view <slug>",
		Short: viewShortDesc,
		Long:  viewLongDesc,
		Args:  cobra.ExactArgs(1),
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
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.slug = args[0]
			return cmder.run(cmd.Context())
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().BoolVarP(&cmder.page, "page", "p", false, "Look up a page instead of a post")
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print raw markdown without rendering")
	cmd.Flags().StringVar(&cmder.apiTarget, "api-target", defaults.Client.APITarget, "Folio API server URL")

	return cmd
}

func (c *viewCommander) run(ctx context.Context) error {
	kind := "post"
	if c.page {
		kind = "page"
	}

	doc, err := searchcmder.FetchDocument(ctx, c.apiTarget, kind, c.slug)
	if err != nil {
		return err
	}

	if c.raw {
		fmt.Println(doc.Content)
		return nil
	}

	fmt.Printf("\n  %s\n", cliui.KeyStyle.Render(doc.Title))
	if doc.Description != "" {
		fmt.Printf("  %s\n", cliui.DimStyle.Render(doc.Description))
	}

	rendered, err := cliui.RenderMarkdown(doc.Content)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	fmt.Println(rendered)

	return nil
}
