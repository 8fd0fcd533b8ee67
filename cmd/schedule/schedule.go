// Package schedule implements the scheduler command running the recurring
// send loop.
package schedule

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/leadcrawl/cmd/common"
	"github.com/jonesrussell/leadcrawl/internal/scheduler"
)

const signalChannelBufferSize = 1

// Command returns the scheduler command for use in the root command.
func Command() *cobra.Command {
	var (
		live  bool
		limit int
	)

	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Run the recurring outreach send loop",
		Long: `Run the cron-driven send loop that processes due email actions on the
configured schedule. Runs until interrupted.`,
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

			sched := scheduler.New(pipeline.Sender, deps.Logger, limit, live)
			if err := sched.Start(cmd.Context(), deps.Config.Server.SendCron); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			sigChan := make(chan os.Signal, signalChannelBufferSize)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case sig := <-sigChan:
				deps.Logger.Info("Shutdown signal received", "signal", sig.String())
			case <-cmd.Context().Done():
			}

			sched.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "actually send email instead of simulating")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum actions per run (0 for default)")

	return cmd
}
