package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adalundhe/helpline/core/config"
	"github.com/adalundhe/helpline/core/status"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the database schema and load sample data",
	Long: `Create the database schema and load a small set of sample customers,
plans, usage records and network incidents for local development.`,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := status.Open(cfg.Database.Path, status.StoreConfig{
		MaxOpen:     cfg.Database.MaxOpen,
		MaxIdle:     cfg.Database.MaxIdle,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("open status store: %w", err)
	}
	defer store.Close()

	if err := store.Seed(cmd.Context()); err != nil {
		return fmt.Errorf("seed database: %w", err)
	}

	fmt.Printf("Seeded %s\n", store.Path())
	return nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
