// Package enrich implements the enrich command for crawling discovered
// company sites.
package enrich

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/leadcrawl/cmd/common"
)

const defaultEnrichLimit = 25

// Command returns the enrich command for use in the root command.
func Command() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Crawl discovered company sites for contact signals",
		Long: `Crawl the homepage and contact subpages of pending companies, extracting
emails, phone numbers, LinkedIn profiles, and contact forms.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			pipeline, err := common.NewPipeline(deps)
			if err != nil {
				return err
			}
			defer func() { _ = pipeline.Close() }()

			companies, err := pipeline.Companies.ListForEnrichment(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list companies: %w", err)
			}

			if len(companies) == 0 {
				deps.Logger.Info("No companies pending enrichment")
				return nil
			}

			stats := pipeline.Enricher.EnrichBatch(cmd.Context(), companies)

			deps.Logger.Info("Enrichment complete",
				"attempted", stats.Attempted,
				"enriched", stats.Enriched,
				"unreachable", stats.Unreachable,
				"failed", stats.Failed,
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultEnrichLimit, "maximum companies to crawl")

	return cmd
}
