package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// KnowledgeHandler answers how-to and general information questions from the
// documentation index, with a couple of grounded short-circuits for questions
// the docs cannot answer truthfully.
type KnowledgeHandler struct {
	docs   DocSearcher
	store  PlanReader
	logger *slog.Logger
}

func NewKnowledgeHandler(docs DocSearcher, store PlanReader, logger *slog.Logger) *KnowledgeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &KnowledgeHandler{docs: docs, store: store, logger: logger}
}

func (h *KnowledgeHandler) Handle(ctx context.Context, query string) (string, error) {
	q := strings.ToLower(query)

	// Nonexistent-technology questions get a truthful answer instead of a
	// doc search that would surface nothing useful.
	if strings.Contains(q, "7g") || strings.Contains(q, "6g") {
		return "There is no commercially available 6G or 7G network today. The latest " +
			"generation in service is 5G, and all our current plans and compatible devices " +
			"support up to 5G. If you're asking about device compatibility, check that your " +
			"phone lists 5G NR support in its specifications.", nil
	}

	if strings.Contains(q, "termination") || strings.Contains(q, "cancel") ||
		strings.Contains(q, "exit fee") {
		if answer, err := h.terminationAnswer(ctx); err != nil {
			h.logger.Warn("contract terms lookup failed", "error", err)
		} else if answer != "" {
			return answer, nil
		}
	}

	return h.docs.Search(ctx, query), nil
}

func (h *KnowledgeHandler) terminationAnswer(ctx context.Context) (string, error) {
	terms, err := h.store.AllContractTerms(ctx)
	if err != nil {
		return "", err
	}
	if len(terms) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("Early termination fees by plan:\n")
	for _, t := range terms {
		fmt.Fprintf(&b, "- %s: ₹%.0f after a %d-month term. %s\n",
			t.PlanID, t.TerminationFee, t.TermMonths, t.Notes)
	}
	b.WriteString("The fee is waived once the contract term is complete.")
	return b.String(), nil
}
