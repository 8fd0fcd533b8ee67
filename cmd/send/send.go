// Package send implements the send command for processing due email actions.
package send

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/leadcrawl/cmd/common"
)

const defaultSendLimit = 50

// Command returns the send command for use in the root command.
func Command() *cobra.Command {
	var (
		live  bool
		limit int
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Process due email outreach actions",
		Long: `Process email actions that are due today or earlier. Without --live each
action is marked simulated instead of sent, so a dry run is the default.`,
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

			stats, err := pipeline.Sender.SendDueEmails(cmd.Context(), time.Now(), limit, live)
			if err != nil {
				return fmt.Errorf("send failed: %w", err)
			}

			deps.Logger.Info("Send complete",
				"live", live,
				"processed", stats.Processed,
				"sent", stats.Sent,
				"failed", stats.Failed,
				"skipped", stats.Skipped,
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "actually send email instead of simulating")
	cmd.Flags().IntVar(&limit, "limit", defaultSendLimit, "maximum actions to process")

	return cmd
}
