// Package httpd implements the HTTP server command for the lead pipeline.
package httpd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/leadcrawl/cmd/common"
	"github.com/jonesrussell/leadcrawl/internal/api"
	"github.com/jonesrussell/leadcrawl/internal/logger"
)

const (
	signalChannelBufferSize = 1
	errorChannelBufferSize  = 1
	defaultShutdownTimeout  = 30 * time.Second
)

// Command returns the httpd command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server exposing leads, company detail, stats, and
pipeline trigger endpoints. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Start()
		},
	}
}

// Start starts the HTTP server and runs until interrupted.
// It handles graceful shutdown on SIGINT or SIGTERM signals.
func Start() error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	pipeline, err := common.NewPipeline(deps)
	if err != nil {
		return err
	}
	defer func() { _ = pipeline.Close() }()

	leadsHandler := api.NewLeadsHandler(
		pipeline.Companies, pipeline.Contacts, pipeline.Pages, pipeline.Actions)
	pipelineHandler := api.NewPipelineHandler(
		pipeline.Discoverer, pipeline.Enricher, pipeline.Scorer,
		pipeline.Planner, pipeline.Sender, pipeline.Companies, deps.Logger)

	server := api.StartHTTPServer(deps.Logger, &deps.Config.Server, leadsHandler, pipelineHandler)

	deps.Logger.Info("Starting HTTP server", "addr", deps.Config.Server.Address)
	errChan := make(chan error, errorChannelBufferSize)
	go func() {
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	return runServerUntilInterrupt(deps.Logger, server, errChan)
}

// runServerUntilInterrupt runs the server until interrupted by signal or error.
func runServerUntilInterrupt(log logger.Interface, server *http.Server, errChan chan error) error {
	sigChan := make(chan os.Signal, signalChannelBufferSize)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case serverErr := <-errChan:
		log.Error("Server error", "error", serverErr)
		return fmt.Errorf("server error: %w", serverErr)
	case sig := <-sigChan:
		log.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}

		log.Info("Server stopped")
		return nil
	}
}
