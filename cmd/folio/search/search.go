// Package searchcmder provides the search command for querying the folio API.
package searchcmder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/foliohq/folio/pkg/config"
	"github.com/foliohq/folio/pkg/logger"
	"github.com/foliohq/folio/pkg/search"
	"github.com/foliohq/folio/pkg/utils"
)

var (
	rankStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	slugStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	snippetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type searchCommander struct {
	query string
	mode  string
	quiet bool

	apiTarget string

	debug  bool
	logger *slog.Logger
}

const searchLongDesc string = `Search site content via the folio API.

Runs a one-shot query against a running folio API server and prints the
ranked results. Two modes are available:

  keyword   full-text match over titles, descriptions, and bodies
  semantic  embedding similarity, requires an embedding provider

The two modes score on different scales, so results from a single run
always come from one mode only.

Use --quiet to output only slugs, one per line, for piping into other
commands like folio view.

Example:
  folio search "deploying with nix"
  folio search "posts about burnout" --mode semantic
  folio search "release notes" --api-target http://localhost:8081
  folio view $(folio search "colophon" --quiet | head -1)`

const searchShortDesc string = "Search site content"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
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
			cmder.query = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.mode, "mode", "m", "keyword", `Search mode: "keyword" or "semantic"`)
	cmd.Flags().BoolVarP(&cmder.quiet, "quiet", "q", false, "Output only slugs, one per line (for piping)")
	cmd.Flags().StringVar(&cmder.apiTarget, "api-target", defaults.Client.APITarget, "Folio API server URL")

	return cmd
}

func (c *searchCommander) run(ctx context.Context) error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))
	c.logger.Debug("querying search api", "target", c.apiTarget, "mode", c.mode)

	output, err := SearchAPI(ctx, c.apiTarget, c.query, c.mode)
	if err != nil {
		return err
	}

	if output.Count == 0 {
		if !c.quiet {
			fmt.Println("No results found.")
		}
		return nil
	}

	if c.quiet {
		for _, result := range output.Results {
			fmt.Println(result.Slug)
		}
		return nil
	}

	fmt.Printf("\n%s %s %s\n\n",
		headerStyle.Render("Search Results for:"),
		slugStyle.Render(fmt.Sprintf("%q", output.Query)),
		dimStyle.Render("("+output.Mode+")"),
	)

	for i, result := range output.Results {
		printResult(i+1, result)
	}

	return nil
}

func printResult(rank int, result search.Result) {
	fmt.Printf("  %s  %s  %s %s\n",
		rankStyle.Render(fmt.Sprintf("#%d", rank)),
		scoreStyle.Render(fmt.Sprintf("score: %.4f", result.Score)),
		kindStyle.Render("["+string(result.Kind)+"]"),
		slugStyle.Render(result.Slug),
	)

	fmt.Printf("  %s\n", titleStyle.Render(result.Title))

	if result.Description != "" {
		fmt.Printf("  %s\n", dimStyle.Render(result.Description))
	}

	if result.Snippet != "" {
		snippet := utils.Truncate(strings.ReplaceAll(result.Snippet, "\n", " "), 100)
		fmt.Printf("  %s\n", snippetStyle.Render(snippet))
	}

	fmt.Println()
}
