// Package run implements the run command that executes the full pipeline.
package run

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/leadcrawl/cmd/common"
	"github.com/jonesrussell/leadcrawl/internal/discovery"
)

const (
	defaultMaxResults  = 10
	defaultEnrichLimit = 25
	defaultPlanLimit   = 25
)

// Command returns the run command for use in the root command.
func Command() *cobra.Command {
	var (
		queriesFile string
		maxResults  int
		segment     string
		enrichLimit int
		planLimit   int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: discover, enrich, score, plan",
		Long: `Run every pipeline stage in order. Sending is left to the send command or
the scheduler so a pipeline run never emails anyone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			queries := discovery.DefaultManufacturingQueries(nil)
			if queriesFile != "" {
				queries, err = discovery.LoadQueriesFromFile(queriesFile)
				if err != nil {
					return fmt.Errorf("failed to load queries: %w", err)
				}
			}

			pipeline, err := common.NewPipeline(deps)
			if err != nil {
				return err
			}
			defer func() { _ = pipeline.Close() }()

			ctx := cmd.Context()

			discoverStats, err := pipeline.Discoverer.Run(ctx, queries, maxResults, segment)
			if err != nil {
				return fmt.Errorf("discovery failed: %w", err)
			}
			deps.Logger.Info("Discovery stage complete",
				"inserted", discoverStats.Inserted, "existing", discoverStats.Existing)

			companies, err := pipeline.Companies.ListForEnrichment(ctx, enrichLimit)
			if err != nil {
				return fmt.Errorf("failed to list companies for enrichment: %w", err)
			}
			enrichStats := pipeline.Enricher.EnrichBatch(ctx, companies)
			deps.Logger.Info("Enrichment stage complete",
				"enriched", enrichStats.Enriched, "unreachable", enrichStats.Unreachable)

			toScore, err := pipeline.Companies.ListForScoring(ctx)
			if err != nil {
				return fmt.Errorf("failed to list companies for scoring: %w", err)
			}
			scored, err := pipeline.Scorer.ScoreCompanies(ctx, toScore)
			if err != nil {
				return fmt.Errorf("scoring failed: %w", err)
			}
			deps.Logger.Info("Scoring stage complete", "scored", scored)

			ranked, err := pipeline.Companies.ListRanked(ctx, planLimit)
			if err != nil {
				return fmt.Errorf("failed to list ranked companies: %w", err)
			}
			planned, err := pipeline.Planner.PlanOutreach(ctx, ranked, time.Now())
			if err != nil {
				return fmt.Errorf("planning failed: %w", err)
			}
			deps.Logger.Info("Planning stage complete", "actions_planned", planned)

			deps.Logger.Info("Pipeline run complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&queriesFile, "queries-file", "", "file with one search query per line")
	cmd.Flags().IntVar(&maxResults, "max-results", defaultMaxResults, "maximum results kept per query")
	cmd.Flags().StringVar(&segment, "segment", "", "segment label stored with discovered companies")
	cmd.Flags().IntVar(&enrichLimit, "enrich-limit", defaultEnrichLimit, "maximum companies to crawl")
	cmd.Flags().IntVar(&planLimit, "plan-limit", defaultPlanLimit, "maximum companies to plan")

	return cmd
}
