package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/gateway"
)

// newServeCmd creates the `canvaspilot serve` command that starts the
// HTTP gateway.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the CanvasPilot gateway: the HTTP API the canvas client talks
to for chat, sheet import, and sheet sync.

Examples:
  canvaspilot serve
  canvaspilot serve --port 9000
  canvaspilot serve --config ./config.yaml`,
		RunE: runServe,
	}

	cmd.Flags().Int("port", 0, "override the configured listen port")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	assistant, cfg, logger, err := buildAssistant(cmd)
	if err != nil {
		return err
	}

	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Gateway.Port = port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gw := gateway.New(assistant, cfg.Gateway, logger)
	if err := gw.Start(ctx); err != nil {
		return fmt.Errorf("failed to start gateway: %w", err)
	}

	logger.Info("CanvasPilot running. Press Ctrl+C to stop.",
		"name", cfg.Name,
		"model", cfg.Model,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received, stopping...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := gw.Stop(shutdownCtx); err != nil {
		logger.Warn("gateway shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
