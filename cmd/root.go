package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	customerID string
)

var rootCmd = &cobra.Command{
	Use:   "helpline",
	Short: "Helpline - a telecom customer support assistant",
	Long: `Helpline answers telecom customer support queries: billing questions,
network diagnostics, service plan recommendations and technical how-tos.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&customerID, "customer", "CUST001", "customer account ID")
}
