package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/asyncfuncai/deepwiki-cli/internal/config"
)

var rootCmd = &cobra.Command{
	Use:          "deepwiki",
	Short:        "DeepWiki CLI - embedding model manager and wiki cache server",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `DeepWiki manages the embedding model configuration and the generated
wiki cache, and serves both over the JSON API the front-end consumes.`,
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliLogger is the logger handed to the core packages from commands.
// Commands print their own output; the logger only surfaces trouble.
func cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// loadConfig loads the settings file with a consistent error message.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}
	return cfg, nil
}
