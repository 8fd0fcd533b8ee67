// Package export implements the export command for writing leads to CSV.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/leadcrawl/cmd/common"
	"github.com/jonesrussell/leadcrawl/internal/export"
)

// Command returns the export command for use in the root command.
func Command() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all companies to CSV",
		Long:  `Export every company, ranked by outreach score, as CSV. Use "-" for stdout.`,
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

			companies, err := pipeline.Companies.ListAllForExport(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list companies: %w", err)
			}

			var out io.Writer
			if output == "-" {
				out = os.Stdout
			} else {
				file, createErr := os.Create(output)
				if createErr != nil {
					return fmt.Errorf("failed to create output file: %w", createErr)
				}
				defer func() { _ = file.Close() }()
				out = file
			}

			if err := export.WriteLeads(out, companies); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if output != "-" {
				deps.Logger.Info("Export complete", "file", output, "companies", len(companies))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "leads.csv", `output file, or "-" for stdout`)

	return cmd
}
