package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var askInteractive bool

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Ask the support assistant a question",
	Long: `Ask the support assistant a question. With a query argument the answer is
printed once; with --interactive a prompt loop reads questions from stdin.

Examples:
  helpline ask "why is my bill so high?"
  helpline ask --customer CUST001 "is there an outage in Mumbai West?"
  helpline ask -i`,
	Args: cobra.ArbitraryArgs,
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.loader != nil {
		if _, err := a.loader.LoadAll(ctx); err != nil {
			a.logger.Warn("loading docs failed", "error", err)
		}
	}

	if !askInteractive {
		query := strings.Join(args, " ")
		fmt.Println(a.orchestrator.Process(ctx, query, customerID))
		return nil
	}

	fmt.Println("Helpline support assistant. Type your question, or 'quit' to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if trimmed := strings.TrimSpace(strings.ToLower(line)); trimmed == "quit" || trimmed == "exit" {
			break
		}
		fmt.Println(a.orchestrator.Process(ctx, line, customerID))
		fmt.Println()
	}
	return scanner.Err()
}

func init() {
	askCmd.Flags().BoolVarP(&askInteractive, "interactive", "i", false, "read questions from stdin")
	rootCmd.AddCommand(askCmd)
}
