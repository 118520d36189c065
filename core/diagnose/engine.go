// Package diagnose implements the deterministic troubleshooting path for
// network queries: incident lookup, documentation search, and a generic
// checklist when neither produces something actionable. It runs before any
// inference-heavy escalation because most network complaints resolve against
// the incident table or the doc corpus.
package diagnose

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adalundhe/helpline/core/extract"
	"github.com/adalundhe/helpline/core/status"
)

const (
	// actionableMinLength is the substance threshold for a docs answer.
	actionableMinLength = 50

	noLocationMessage = "No explicit location detected in your question; skipping outage lookup."

	schemaMismatchMessage = "Unable to read network incident reports due to an internal database mismatch. " +
		"This does not prevent checking other troubleshooting steps — you may be experiencing a local network issue (calls or data may be slow) in your area."

	transientFailureMessage = "Unable to check network incident reports right now due to an internal error. " +
		"This may indicate temporary issues with our reporting system — however, you may still be experiencing a local network problem (service slow or intermittent)."
)

// StatusLookup is the incident-table collaborator. It may return any error;
// the engine converts failures into user-safe text itself.
type StatusLookup interface {
	LookupIncidents(ctx context.Context, area string) ([]status.Incident, error)
}

// DocSearcher is the documentation collaborator. Failures come back as
// error-prefixed strings, which the engine treats as signal, not noise.
type DocSearcher interface {
	Search(ctx context.Context, query string) string
}

// Engine wires the two collaborators into the deterministic pipeline.
type Engine struct {
	statuses StatusLookup
	docs     DocSearcher
	logger   *slog.Logger
}

// New creates a diagnostic engine. Either collaborator may be nil; a nil
// status lookup behaves like a transient failure and a nil doc searcher like
// an unavailable index.
func New(statuses StatusLookup, docs DocSearcher, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{statuses: statuses, docs: docs, logger: logger}
}

// Diagnose runs extraction, the outage lookup, and the doc search, then
// decides whether the combined result stands on its own or needs the generic
// checklist appended. It never returns an error: every failure mode becomes
// explanatory text.
func (e *Engine) Diagnose(ctx context.Context, query string) string {
	hints := extract.Extract(query)

	var parts []string
	var statusText string

	if hints.HasLocation() {
		statusText = e.lookupStatus(ctx, hints.Location)
		parts = append(parts, fmt.Sprintf("Network status check for '%s':\n%s", hints.Location, statusText))
	} else {
		parts = append(parts, noLocationMessage)
	}

	docQuery := query
	if hints.HasDevice() {
		docQuery = hints.Device + " " + query
	}
	docsText := e.searchDocs(ctx, docQuery)
	parts = append(parts, "Troubleshooting suggestions:\n"+docsText)

	combined := strings.Join(parts, "\n\n")

	outageReported := statusText != "" &&
		!strings.Contains(strings.ToLower(statusText), "no reported network incidents")
	actionable := docsText != "" &&
		!strings.HasPrefix(docsText, "Error") &&
		len(docsText) > actionableMinLength

	e.logger.Debug("diagnostic pass complete",
		"location", hints.Location,
		"device", hints.Device,
		"outage_reported", outageReported,
		"docs_actionable", actionable)

	if outageReported || actionable {
		return combined
	}

	return combined + "\n\n" + buildChecklist(hints)
}

// lookupStatus queries the incident table and renders matches. Lookup
// failures never propagate: schema mismatches and transient errors each get a
// fixed explanatory message that still invites further troubleshooting.
func (e *Engine) lookupStatus(ctx context.Context, location string) string {
	if e.statuses == nil {
		return transientFailureMessage
	}

	incidents, err := e.statuses.LookupIncidents(ctx, location)
	if err != nil {
		e.logger.Warn("incident lookup failed", "location", location, "error", err)
		if isSchemaMismatch(err) {
			return schemaMismatchMessage
		}
		return transientFailureMessage
	}

	if len(incidents) == 0 {
		return fmt.Sprintf("No reported network incidents found in '%s'.", location)
	}

	lines := make([]string, 0, len(incidents))
	for _, inc := range incidents {
		lines = append(lines, fmt.Sprintf("Area: %s — Status: %s. %s (updated: %s)",
			inc.Area, inc.Status, inc.Details, inc.UpdatedAt))
	}
	return strings.Join(lines, "\n")
}

func (e *Engine) searchDocs(ctx context.Context, query string) string {
	if e.docs == nil {
		return "Error: Document index not available."
	}
	return e.docs.Search(ctx, query)
}

func isSchemaMismatch(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "operationalerror")
}
