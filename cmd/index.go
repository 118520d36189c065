package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/adalundhe/helpline/core/config"
	"github.com/adalundhe/helpline/core/docs"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the documentation search index",
	Long: `Rebuild the documentation search index from the configured docs directory.

Examples:
  helpline index
  HELPLINE_DOCS_DIR=./support-docs helpline index`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if _, err := os.Stat(cfg.Docs.SourceDir); err != nil {
		return fmt.Errorf("docs directory %s: %w", cfg.Docs.SourceDir, err)
	}

	index, err := docs.OpenIndex(cfg.Docs.IndexPath, logger)
	if err != nil {
		return fmt.Errorf("open docs index: %w", err)
	}
	defer index.Close()

	loader, err := docs.NewLoader(index, cfg.Docs.SourceDir, cfg.Docs.Patterns)
	if err != nil {
		return fmt.Errorf("docs loader: %w", err)
	}

	loaded, err := loader.LoadAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("index docs: %w", err)
	}

	fmt.Printf("Indexed %d documents from %s (%d total in index)\n",
		loaded, cfg.Docs.SourceDir, index.DocCount())
	return nil
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
