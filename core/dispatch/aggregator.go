// Package dispatch fans a multi-intent query out to every matching domain
// handler and merges the branch responses into one document.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/adalundhe/helpline/core/classify"
	"github.com/adalundhe/helpline/core/handlers"
)

const defaultBranchTimeout = 30 * time.Second

// Branch labels in merge order. Billing always renders first, Knowledge last,
// regardless of which branch finishes first.
var branchOrder = []classify.Category{
	classify.CategoryBilling,
	classify.CategoryNetwork,
	classify.CategoryService,
	classify.CategoryKnowledge,
}

var branchLabels = map[classify.Category]string{
	classify.CategoryBilling:   "Billing",
	classify.CategoryNetwork:   "Network",
	classify.CategoryService:   "Service",
	classify.CategoryKnowledge: "Knowledge",
}

// BranchResult is one handler's contribution to a merged response.
type BranchResult struct {
	Label string
	Text  string
}

// Handlers holds the per-category handler functions the aggregator invokes.
// Billing is the only branch that needs the customer identity.
type Handlers struct {
	Billing   func(ctx context.Context, customerID, query string) (string, error)
	Network   func(ctx context.Context, query string) (string, error)
	Service   func(ctx context.Context, query string) (string, error)
	Knowledge func(ctx context.Context, query string) (string, error)
}

// Aggregator runs the matched branches concurrently and merges their output.
type Aggregator struct {
	handlers      Handlers
	diagnostic    func(ctx context.Context, query string) string
	branchTimeout time.Duration
	logger        *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithBranchTimeout bounds how long any single branch may run. Non-positive
// durations keep the default.
func WithBranchTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.branchTimeout = d
		}
	}
}

// WithDiagnosticFallback installs the deterministic diagnosis used to replace
// a Network branch whose output looks like an internal error.
func WithDiagnosticFallback(fn func(ctx context.Context, query string) string) Option {
	return func(a *Aggregator) { a.diagnostic = fn }
}

func NewAggregator(h Handlers, logger *slog.Logger, opts ...Option) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Aggregator{
		handlers:      h,
		branchTimeout: defaultBranchTimeout,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate dispatches the query to every branch whose keyword group matches
// and merges the results in fixed label order. Branch failures never abort the
// whole response; each failed branch reports its own error text in place.
func (a *Aggregator) Aggregate(ctx context.Context, query, customerID string) string {
	matched := classify.MatchedGroups(query)
	if len(matched) == 0 {
		// The router only sends multi-intent queries here, so an empty match
		// set means the classification disagrees with the keyword table.
		a.logger.Warn("no branches matched multi-intent query",
			"category", classify.CategoryMulti.String())
		return handlers.FallbackMessage
	}

	type branchOutcome struct {
		category classify.Category
		result   BranchResult
	}
	resultCh := make(chan branchOutcome, len(matched))

	for _, category := range matched {
		go func(category classify.Category) {
			branchCtx, cancel := context.WithTimeout(ctx, a.branchTimeout)
			defer cancel()

			resultCh <- branchOutcome{category, a.runBranch(branchCtx, category, query, customerID)}
		}(category)
	}

	results := make(map[classify.Category]BranchResult, len(matched))
	for range matched {
		r := <-resultCh
		results[r.category] = r.result
	}

	merged := make([]string, 0, len(results))
	for _, category := range branchOrder {
		if r, ok := results[category]; ok {
			merged = append(merged, fmt.Sprintf("### %s Response\n%s\n", r.Label, r.Text))
		}
	}
	return strings.Join(merged, "\n---\n")
}

func (a *Aggregator) runBranch(ctx context.Context, category classify.Category, query, customerID string) BranchResult {
	label := branchLabels[category]

	text, err := a.invoke(ctx, category, query, customerID)
	if err != nil {
		a.logger.Warn("branch failed", "branch", label, "error", err)
		text = fmt.Sprintf("Error: %v", err)
	}

	// A Network branch that surfaces an internal failure gets replaced with
	// the deterministic diagnosis so the user still receives guidance.
	if category == classify.CategoryNetwork && a.diagnostic != nil && looksLikeInternalError(text) {
		a.logger.Warn("network branch returned internal error, substituting diagnosis",
			"text", truncate(text, 120))
		text = a.diagnostic(ctx, query)
	}

	return BranchResult{Label: label, Text: text}
}

// invoke calls one branch handler. A panic is captured as an error so one bad
// branch can never take down the fan-in or the process.
func (a *Aggregator) invoke(ctx context.Context, category classify.Category, query, customerID string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	switch category {
	case classify.CategoryBilling:
		return a.handlers.Billing(ctx, customerID, query)
	case classify.CategoryNetwork:
		return a.handlers.Network(ctx, query)
	case classify.CategoryService:
		return a.handlers.Service(ctx, query)
	case classify.CategoryKnowledge:
		return a.handlers.Knowledge(ctx, query)
	}
	return "", nil
}

// looksLikeInternalError spots handler output that leaks infrastructure
// failures rather than answering the user.
func looksLikeInternalError(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(lower, "error") ||
		strings.Contains(lower, "operationalerror") ||
		strings.Contains(lower, "no such column") ||
		strings.Contains(lower, "no such table")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
