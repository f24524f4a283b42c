package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/copilot"
	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/sheets"
)

// resolveConfig loads config from the --config flag, discovered file, or
// defaults.
func resolveConfig(cmd *cobra.Command) (*copilot.Config, error) {
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")

	if configPath != "" {
		cfg, err := copilot.LoadConfigFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}

	if found := copilot.FindConfigFile(); found != "" {
		cfg, err := copilot.LoadConfigFromFile(found)
		if err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", found, err)
		}
		return cfg, nil
	}

	// No config file: defaults plus whatever the environment provides.
	cfg := copilot.DefaultConfig()
	return cfg, nil
}

// buildLogger creates the process logger from config and the --verbose flag.
func buildLogger(cmd *cobra.Command, cfg *copilot.Config) *slog.Logger {
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	logLevel := slog.LevelInfo
	if verbose || cfg.Logging.Level == "debug" {
		logLevel = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	}
	return slog.New(handler)
}

// buildAssistant wires config, secrets, the Composio client, and the
// session database into an Assistant.
func buildAssistant(cmd *cobra.Command) (*copilot.Assistant, *copilot.Config, *slog.Logger, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := buildLogger(cmd, cfg)

	// Audit BEFORE resolving: checks the raw config values for hardcoded keys.
	copilot.AuditSecrets(cfg, logger)
	copilot.ResolveSecrets(cfg, logger)

	db, err := copilot.OpenDatabase(cfg.Database.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}

	client := sheets.NewComposio(cfg.Composio, logger)
	assistant := copilot.NewAssistant(cfg, client, db, logger)
	return assistant, cfg, logger, nil
}
