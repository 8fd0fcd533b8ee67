// Package leads implements the leads command that displays ranked companies
// in a formatted table.
package leads

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/leadcrawl/cmd/common"
	"github.com/jonesrussell/leadcrawl/internal/domain"
	"github.com/jonesrussell/leadcrawl/internal/logger"
)

const defaultLeadsLimit = 25

// TableRenderer handles the display of lead data in a table format.
type TableRenderer struct {
	logger logger.Interface
}

// NewTableRenderer creates a new TableRenderer instance.
func NewTableRenderer(log logger.Interface) *TableRenderer {
	return &TableRenderer{
		logger: log,
	}
}

// RenderTable formats and displays the leads in a table format.
func (r *TableRenderer) RenderTable(leads []*domain.Company) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Domain", "Name", "Outreach", "Fit", "Contact", "Channel", "Email", "Phone"})

	for _, lead := range leads {
		t.AppendRow(table.Row{
			lead.Domain,
			orDash(lead.Name),
			fmt.Sprintf("%.1f", lead.OutreachScore),
			fmt.Sprintf("%.1f", lead.FitScore),
			fmt.Sprintf("%.1f", lead.ContactScore),
			orDash(lead.BestChannel),
			orDash(lead.PrimaryEmail),
			orDash(lead.Phone),
		})
	}

	t.Render()
	return nil
}

func orDash(value *string) string {
	if value == nil || *value == "" {
		return "-"
	}
	return *value
}

// Command returns the leads command for use in the root command.
func Command() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List top-ranked leads",
		Long:  `List scored companies ranked by outreach score in a formatted table.`,
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

			leads, err := pipeline.Companies.ListRanked(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list leads: %w", err)
			}

			if len(leads) == 0 {
				deps.Logger.Info("No scored leads yet")
				return nil
			}

			renderer := NewTableRenderer(deps.Logger)
			return renderer.RenderTable(leads)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultLeadsLimit, "maximum leads to display")

	return cmd
}
