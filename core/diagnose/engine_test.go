package diagnose

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/adalundhe/helpline/core/status"
)

type stubStatuses struct {
	incidents []status.Incident
	err       error
}

func (s *stubStatuses) LookupIncidents(_ context.Context, _ string) ([]status.Incident, error) {
	return s.incidents, s.err
}

type stubDocs struct {
	result string
}

func (s *stubDocs) Search(_ context.Context, _ string) string {
	return s.result
}

var outage = status.Incident{
	Area:      "Mumbai West",
	Status:    "Outage",
	UpdatedAt: "2025-12-01",
	Details:   "Localized antenna maintenance affecting voice calls",
}

func TestDiagnoseOutageSkipsChecklist(t *testing.T) {
	e := New(
		&stubStatuses{incidents: []status.Incident{outage}},
		&stubDocs{result: "Error: Document index not available."},
		nil,
	)

	got := e.Diagnose(context.Background(), "I can't make calls from my home in Mumbai West")

	if !strings.Contains(got, "Status: Outage") {
		t.Errorf("missing outage status: %q", got)
	}
	if !strings.Contains(got, "Mumbai West") {
		t.Errorf("missing area: %q", got)
	}
	if strings.Contains(got, "Quick checks") {
		t.Errorf("checklist should be skipped when an outage is reported: %q", got)
	}
}

func TestDiagnoseActionableDocsSkipChecklist(t *testing.T) {
	longAnswer := "Open Settings, Connections, Mobile Networks, then toggle VoLTE calls on and restart the device."
	e := New(
		&stubStatuses{},
		&stubDocs{result: longAnswer},
		nil,
	)

	got := e.Diagnose(context.Background(), "no internet in Delhi. my pixel 8 won't load pages")

	if !strings.Contains(got, longAnswer) {
		t.Errorf("docs answer missing: %q", got)
	}
	if strings.Contains(got, "Quick checks") {
		t.Errorf("checklist should be skipped for actionable docs: %q", got)
	}
	if !strings.Contains(got, "No reported network incidents found in 'delhi'") {
		t.Errorf("no-incident phrase missing: %q", got)
	}
}

func TestDiagnoseFallsBackToChecklist(t *testing.T) {
	e := New(
		&stubStatuses{},
		&stubDocs{result: "Error searching docs: index corrupt"},
		nil,
	)

	got := e.Diagnose(context.Background(), "my calls keep dropping in Delhi")

	wantFragments := []string{
		"Quick checks (do these first):",
		"Toggle Airplane Mode",
		"Exact location",
		"Device model",
		"What happens when you try to call?",
		"When did the issue start?",
		"Are other users in the same location affected?",
		"escalate to field engineers",
	}
	for _, frag := range wantFragments {
		if !strings.Contains(got, frag) {
			t.Errorf("checklist missing %q", frag)
		}
	}
}

func TestDiagnoseNoLocation(t *testing.T) {
	e := New(&stubStatuses{err: errors.New("should not be called")}, &stubDocs{result: ""}, nil)

	got := e.Diagnose(context.Background(), "my phone has no bars")

	if !strings.Contains(got, "skipping outage lookup") {
		t.Errorf("missing skip message: %q", got)
	}
	if !strings.Contains(got, "Quick checks") {
		t.Errorf("checklist expected when nothing actionable: %q", got)
	}
}

func TestDiagnoseLookupFailureWording(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"schema mismatch", errors.New("no such table: network_status"), "internal database mismatch"},
		{"missing column", errors.New("no such column: area"), "internal database mismatch"},
		{"transient", errors.New("database is locked"), "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(&stubStatuses{err: tt.err}, &stubDocs{result: ""}, nil)
			got := e.Diagnose(context.Background(), "slow internet in Mumbai West")
			if !strings.Contains(got, tt.want) {
				t.Errorf("wording %q missing from %q", tt.want, got)
			}
			// Failure text must not leak the raw error.
			if strings.Contains(got, tt.err.Error()) {
				t.Errorf("raw error leaked: %q", got)
			}
		})
	}
}

func TestDiagnoseDevicePrefixedDocQuery(t *testing.T) {
	var captured string
	e := New(&stubStatuses{}, searchFunc(func(q string) string {
		captured = q
		return ""
	}), nil)

	e.Diagnose(context.Background(), "no internet on my iphone 14 in Delhi")

	if !strings.HasPrefix(captured, "iphone 14 ") {
		t.Errorf("doc query not device-prefixed: %q", captured)
	}
}

type searchFunc func(string) string

func (f searchFunc) Search(_ context.Context, q string) string { return f(q) }
