// Package discover implements the discover command for finding candidate
// companies via keyword search.
package discover

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/leadcrawl/cmd/common"
	"github.com/jonesrussell/leadcrawl/internal/discovery"
)

const defaultMaxResults = 10

// Command returns the discover command for use in the root command.
func Command() *cobra.Command {
	var (
		queriesFile string
		maxResults  int
		segment     string
	)

	cmd := &cobra.Command{
		Use:   "discover [query...]",
		Short: "Discover candidate companies via keyword search",
		Long: `Run keyword searches and store every new company domain found.

Queries can be passed as arguments, loaded from a file with --queries-file,
or omitted to use the built-in manufacturing query set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			queries, err := resolveQueries(args, queriesFile)
			if err != nil {
				return err
			}

			pipeline, err := common.NewPipeline(deps)
			if err != nil {
				return err
			}
			defer func() { _ = pipeline.Close() }()

			stats, err := pipeline.Discoverer.Run(cmd.Context(), queries, maxResults, segment)
			if err != nil {
				return fmt.Errorf("discovery failed: %w", err)
			}

			deps.Logger.Info("Discovery complete",
				"queries", stats.Queries,
				"results", stats.ResultsFound,
				"unique_domains", stats.UniqueDomainsFound,
				"inserted", stats.Inserted,
				"existing", stats.Existing,
				"skipped_invalid", stats.SkippedInvalid,
				"skipped_excluded", stats.SkippedExcluded,
				"upsert_errors", stats.UpsertErrors,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&queriesFile, "queries-file", "", "file with one search query per line")
	cmd.Flags().IntVar(&maxResults, "max-results", defaultMaxResults, "maximum results kept per query")
	cmd.Flags().StringVar(&segment, "segment", "", "segment label stored with discovered companies")

	return cmd
}

// resolveQueries picks queries from arguments, a file, or the built-in set,
// in that order.
func resolveQueries(args []string, queriesFile string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	if queriesFile != "" {
		queries, err := discovery.LoadQueriesFromFile(queriesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load queries: %w", err)
		}
		return queries, nil
	}

	return discovery.DefaultManufacturingQueries(nil), nil
}
