package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adalundhe/helpline/core/providers"
)

const billingProsePrompt = "You are a telecom billing assistant. Given a customer's " +
	"billing summary, write one or two short, friendly sentences addressing their " +
	"concern. Do not repeat the numbers; do not invent any. Plain text only."

// BillingHandler answers bill and charge questions from the customer's own
// account rows. It renders markdown internally; the response surface strips
// that before anything reaches the user. A provider, when configured, adds a
// short closing note; the facts always come from the store.
type BillingHandler struct {
	store    PlanReader
	provider providers.Provider
	logger   *slog.Logger
}

func NewBillingHandler(store PlanReader, provider providers.Provider, logger *slog.Logger) *BillingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BillingHandler{store: store, provider: provider, logger: logger}
}

// Handle builds a billing summary for the customer: the latest bill, how it
// compares to the previous period, and what drove any increase.
func (h *BillingHandler) Handle(ctx context.Context, customerID, query string) (string, error) {
	customer, err := h.store.CustomerByID(ctx, customerID)
	if err != nil {
		return "", fmt.Errorf("load customer %s: %w", customerID, err)
	}

	usage, err := h.store.RecentUsage(ctx, customerID, 2)
	if err != nil {
		return "", fmt.Errorf("load usage for %s: %w", customerID, err)
	}
	if len(usage) == 0 {
		return fmt.Sprintf("Hi %s, I couldn't find any billing records on your account yet. "+
			"Your plan is %s at ₹%.0f per month.", customer.Name, customer.PlanName, customer.MonthlyCost), nil
	}

	var b strings.Builder
	current := usage[0]
	fmt.Fprintf(&b, "Hi %s, here is your billing summary.\n\n", customer.Name)
	fmt.Fprintf(&b, "## Current bill\n\n")
	fmt.Fprintf(&b, "| Period | Data used | Additional charges | Total |\n")
	fmt.Fprintf(&b, "| --- | --- | --- | --- |\n")
	for _, u := range usage {
		fmt.Fprintf(&b, "| %s to %s | %.1f GB | ₹%.0f | ₹%.0f |\n",
			u.PeriodStart, u.PeriodEnd, u.DataUsedGB, u.AdditionalCharges, u.TotalBill)
	}

	if len(usage) > 1 {
		previous := usage[1]
		diff := current.TotalBill - previous.TotalBill
		switch {
		case diff > 0:
			fmt.Fprintf(&b, "\nYour latest bill is **₹%.0f higher** than the previous period.", diff)
			if current.AdditionalCharges > 0 {
				fmt.Fprintf(&b, " ₹%.0f of that comes from additional charges", current.AdditionalCharges)
				if current.DataUsedGB > customer.DataLimitGB {
					fmt.Fprintf(&b, ", mostly data used beyond your %.0f GB plan limit (%.1f GB this period)",
						customer.DataLimitGB, current.DataUsedGB)
				}
				b.WriteString(".")
			}
		case diff < 0:
			fmt.Fprintf(&b, "\nGood news: your latest bill is ₹%.0f lower than the previous period.", -diff)
		default:
			b.WriteString("\nYour bill is unchanged from the previous period.")
		}
	}

	fmt.Fprintf(&b, "\n\nYou are on the %s plan (₹%.0f/month, %.0f GB data).",
		customer.PlanName, customer.MonthlyCost, customer.DataLimitGB)

	if current.DataUsedGB > customer.DataLimitGB {
		if note, err := h.upgradeSuggestion(ctx, customer.MonthlyCost, current.DataUsedGB); err != nil {
			h.logger.Warn("plan suggestion unavailable", "error", err)
		} else if note != "" {
			b.WriteString("\n\n")
			b.WriteString(note)
		}
	}

	return withProviderProse(ctx, h.provider, h.logger, billingProsePrompt, query, b.String()), nil
}

// upgradeSuggestion recommends the cheapest plan whose data limit covers the
// observed usage, when one exists above the current plan.
func (h *BillingHandler) upgradeSuggestion(ctx context.Context, currentCost, usedGB float64) (string, error) {
	plans, err := h.store.Plans(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range plans {
		if p.DataLimitGB >= usedGB && p.MonthlyCost > currentCost {
			return fmt.Sprintf("Since you regularly exceed your data limit, the %s plan "+
				"(₹%.0f/month, %.0f GB) may work out cheaper than paying overage charges.",
				p.Name, p.MonthlyCost, p.DataLimitGB), nil
		}
	}
	return "", nil
}
