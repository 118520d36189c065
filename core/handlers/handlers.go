// Package handlers holds the domain handlers the router dispatches to. Each
// handler returns (text, error); callers convert errors into user-safe text,
// so nothing in this package needs to be panic-safe or total.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adalundhe/helpline/core/providers"
	"github.com/adalundhe/helpline/core/status"
)

// Fixed user-facing messages owned by the pipeline's terminal nodes.
const (
	EmptyInputMessage = "It looks like you didn't ask anything — please type your question about billing, network, service plans, or technical support."

	FallbackMessage = "I'm sorry, I couldn't understand your request. Please ask about billing, network issues, service plans, or technical support."
)

// DocSearcher is the documentation collaborator shared by several handlers.
type DocSearcher interface {
	Search(ctx context.Context, query string) string
}

// withProviderProse appends a short model-written note to a deterministic
// summary. The summary is always returned as-is when no provider is
// configured or the completion fails; prose is additive, never a substitute
// for the facts.
func withProviderProse(ctx context.Context, provider providers.Provider, logger *slog.Logger, system, query, summary string) string {
	if provider == nil {
		return summary
	}

	prompt := fmt.Sprintf("Customer question: %s\n\nSummary shown to the customer:\n%s", query, summary)
	prose, err := provider.Complete(ctx, system, prompt)
	if err != nil {
		logger.Warn("provider prose unavailable", "error", err)
		return summary
	}
	if prose = strings.TrimSpace(prose); prose == "" {
		return summary
	}
	return summary + "\n\n" + prose
}

// PlanReader is the slice of the status store the billing and service
// handlers need.
type PlanReader interface {
	CustomerByID(ctx context.Context, customerID string) (*status.Customer, error)
	RecentUsage(ctx context.Context, customerID string, limit int) ([]status.Usage, error)
	Plans(ctx context.Context) ([]status.Plan, error)
	ContractTermsForPlan(ctx context.Context, planID string) ([]status.ContractTerm, error)
	AllContractTerms(ctx context.Context) ([]status.ContractTerm, error)
}
