// Package score implements the score command for ranking enriched companies.
package score

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/leadcrawl/cmd/common"
)

// Command returns the score command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Score enriched companies",
		Long: `Compute fit, contact, and outreach scores for every enriched company and
pick the best outreach channel for each.`,
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

			companies, err := pipeline.Companies.ListForScoring(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list companies: %w", err)
			}

			if len(companies) == 0 {
				deps.Logger.Info("No companies pending scoring")
				return nil
			}

			scored, err := pipeline.Scorer.ScoreCompanies(cmd.Context(), companies)
			if err != nil {
				return fmt.Errorf("scoring failed: %w", err)
			}

			deps.Logger.Info("Scoring complete", "scored", scored)
			return nil
		},
	}
}
