package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/adalundhe/helpline/core/providers"
	"github.com/adalundhe/helpline/core/status"
)

const serviceProsePrompt = "You are a telecom service advisor. Given a plan comparison " +
	"and recommendation, write one or two short, friendly sentences explaining why the " +
	"recommended plan fits. Do not repeat the numbers; do not invent any. Plain text only."

// activityRates map usage activities to rough GB-per-hour figures used when a
// customer describes habits instead of numbers.
var activityRates = []struct {
	pattern *regexp.Regexp
	gbPerHr float64
	label   string
}{
	{regexp.MustCompile(`stream|netflix|video(?:s)?\b|movie|youtube`), 3.0, "video streaming"},
	{regexp.MustCompile(`video call|zoom|meet|teams`), 1.0, "video calls"},
	{regexp.MustCompile(`brows|social|whatsapp|email|scroll`), 0.1, "browsing and social media"},
	{regexp.MustCompile(`gam(?:e|ing)`), 0.3, "online gaming"},
}

var hoursPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:hours?|hrs?)`)

// ServiceHandler recommends service plans, estimating monthly data needs from
// the activities the customer mentions. A configured provider adds a short
// closing note; the comparison itself is always computed from the store.
type ServiceHandler struct {
	store    PlanReader
	provider providers.Provider
	logger   *slog.Logger
}

func NewServiceHandler(store PlanReader, provider providers.Provider, logger *slog.Logger) *ServiceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServiceHandler{store: store, provider: provider, logger: logger}
}

// Handle compares available plans against the customer's estimated usage and
// recommends the cheapest plan that covers it.
func (h *ServiceHandler) Handle(ctx context.Context, query string) (string, error) {
	plans, err := h.store.Plans(ctx)
	if err != nil {
		return "", fmt.Errorf("load plans: %w", err)
	}
	if len(plans) == 0 {
		return "We don't have any service plans on record right now. Please check back soon.", nil
	}

	estimateGB, basis := estimateMonthlyData(query)

	var b strings.Builder
	b.WriteString("Here are our current service plans:\n\n")
	b.WriteString("| Plan | Monthly cost | Data | Voice | SMS |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, p := range plans {
		fmt.Fprintf(&b, "| %s | ₹%.0f | %.0f GB | %d min | %d |\n",
			p.Name, p.MonthlyCost, p.DataLimitGB, p.VoiceMins, p.SMSCount)
	}

	if estimateGB > 0 {
		fmt.Fprintf(&b, "\nBased on %s, you'd use roughly **%.0f GB per month**.\n", basis, estimateGB)
	}

	recommended := recommendPlan(plans, estimateGB)
	if recommended != nil {
		fmt.Fprintf(&b, "\nRecommended: **%s** at ₹%.0f/month — %s",
			recommended.Name, recommended.MonthlyCost, recommended.Description)
		if term, err := h.terminationNote(ctx, recommended.ID); err != nil {
			h.logger.Warn("contract terms unavailable", "plan", recommended.ID, "error", err)
		} else if term != "" {
			b.WriteString("\n")
			b.WriteString(term)
		}
	} else if estimateGB > 0 {
		fmt.Fprintf(&b, "\nYour estimated usage of %.0f GB exceeds all our plans; the largest "+
			"option is %s with %.0f GB.", estimateGB, plans[len(plans)-1].Name, plans[len(plans)-1].DataLimitGB)
	}

	return withProviderProse(ctx, h.provider, h.logger, serviceProsePrompt, query, b.String()), nil
}

func (h *ServiceHandler) terminationNote(ctx context.Context, planID string) (string, error) {
	terms, err := h.store.ContractTermsForPlan(ctx, planID)
	if err != nil {
		return "", err
	}
	if len(terms) == 0 {
		return "", nil
	}
	t := terms[0]
	return fmt.Sprintf("Contract: %d-month term, ₹%.0f early termination fee. %s",
		t.TermMonths, t.TerminationFee, t.Notes), nil
}

// estimateMonthlyData converts described activities and hours into a 30-day
// GB estimate. Hours apply to the nearest activity mention; an activity with
// no stated hours assumes one hour per day.
func estimateMonthlyData(query string) (float64, string) {
	q := strings.ToLower(query)

	hours := 1.0
	if m := hoursPattern.FindStringSubmatch(q); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			hours = v
		}
	}

	var total float64
	var labels []string
	for _, a := range activityRates {
		if a.pattern.MatchString(q) {
			total += a.gbPerHr * hours * 30
			labels = append(labels, a.label)
		}
	}
	if total == 0 {
		return 0, ""
	}

	basis := labels[0]
	if len(labels) > 1 {
		basis = strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
	}
	return total, fmt.Sprintf("%.0f hour(s) a day of %s", hours, basis)
}

// recommendPlan picks the cheapest plan covering the estimate. With no
// estimate it falls back to the cheapest plan outright.
func recommendPlan(plans []status.Plan, estimateGB float64) *status.Plan {
	for i := range plans {
		if estimateGB == 0 || plans[i].DataLimitGB >= estimateGB {
			return &plans[i]
		}
	}
	return nil
}
