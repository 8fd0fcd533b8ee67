// Package migrate implements the migrate command for applying database schema
// migrations.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/leadcrawl/cmd/common"
	"github.com/jonesrussell/leadcrawl/internal/database"
)

// Command returns the migrate command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  `Apply all pending database schema migrations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			if err := database.RunMigrations(cmd.Context(), deps.Config.Database.DSN()); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			deps.Logger.Info("Migrations applied")
			return nil
		},
	}
}
