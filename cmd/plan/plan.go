// Package plan implements the plan command for scheduling outreach sequences.
package plan

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/leadcrawl/cmd/common"
)

const defaultPlanLimit = 25

// Command returns the plan command for use in the root command.
func Command() *cobra.Command {
	var (
		startDate string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Schedule outreach sequences for top-ranked companies",
		Long: `Schedule the multi-step outreach sequence for each top-ranked company on
its best channel. Re-running never duplicates steps.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			start := time.Now()
			if startDate != "" {
				parsed, parseErr := time.Parse("2006-01-02", startDate)
				if parseErr != nil {
					return fmt.Errorf("invalid --start date %q, expected YYYY-MM-DD", startDate)
				}
				start = parsed
			}

			pipeline, err := common.NewPipeline(deps)
			if err != nil {
				return err
			}
			defer func() { _ = pipeline.Close() }()

			companies, err := pipeline.Companies.ListRanked(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list companies: %w", err)
			}

			if len(companies) == 0 {
				deps.Logger.Info("No scored companies to plan")
				return nil
			}

			planned, err := pipeline.Planner.PlanOutreach(cmd.Context(), companies, start)
			if err != nil {
				return fmt.Errorf("planning failed: %w", err)
			}

			deps.Logger.Info("Planning complete", "companies", len(companies), "actions_planned", planned)
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "first-step date (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&limit, "limit", defaultPlanLimit, "maximum companies to plan")

	return cmd
}
