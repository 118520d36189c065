package handlers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/adalundhe/helpline/core/providers"
	"github.com/adalundhe/helpline/core/status"
)

type stubStore struct {
	customer *status.Customer
	usage    []status.Usage
	plans    []status.Plan
	terms    []status.ContractTerm
	err      error
}

func (s *stubStore) CustomerByID(context.Context, string) (*status.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.customer, nil
}

func (s *stubStore) RecentUsage(context.Context, string, int) ([]status.Usage, error) {
	return s.usage, s.err
}

func (s *stubStore) Plans(context.Context) ([]status.Plan, error) {
	return s.plans, s.err
}

func (s *stubStore) ContractTermsForPlan(_ context.Context, planID string) ([]status.ContractTerm, error) {
	var out []status.ContractTerm
	for _, t := range s.terms {
		if t.PlanID == planID {
			out = append(out, t)
		}
	}
	return out, s.err
}

func (s *stubStore) AllContractTerms(context.Context) ([]status.ContractTerm, error) {
	return s.terms, s.err
}

type stubDocs struct {
	result  string
	queries []string
}

func (d *stubDocs) Search(_ context.Context, query string) string {
	d.queries = append(d.queries, query)
	return d.result
}

func seededStore() *stubStore {
	return &stubStore{
		customer: &status.Customer{
			ID: "CUST001", Name: "Ravi Sharma", PlanID: "PLAN_BASIC",
			PlanName: "Basic Saver", MonthlyCost: 299, DataLimitGB: 2,
		},
		usage: []status.Usage{
			{PeriodStart: "2025-11-01", PeriodEnd: "2025-11-30", DataUsedGB: 3.5,
				AdditionalCharges: 50, TotalBill: 399},
			{PeriodStart: "2025-10-01", PeriodEnd: "2025-10-31", DataUsedGB: 1.8,
				TotalBill: 299},
		},
		plans: []status.Plan{
			{ID: "PLAN_BASIC", Name: "Basic Saver", MonthlyCost: 299, DataLimitGB: 2,
				VoiceMins: 300, SMSCount: 100, Description: "Light use plan."},
			{ID: "PLAN_FAMILY", Name: "Family Share", MonthlyCost: 999, DataLimitGB: 100,
				VoiceMins: 3000, SMSCount: 1000, Description: "Shared data for the whole family."},
		},
		terms: []status.ContractTerm{
			{PlanID: "PLAN_BASIC", TermMonths: 6, TerminationFee: 150, Notes: "Fee waived after term."},
			{PlanID: "PLAN_FAMILY", TermMonths: 12, TerminationFee: 499, Notes: "Fee waived after term."},
		},
	}
}

func TestBillingExplainsIncrease(t *testing.T) {
	h := NewBillingHandler(seededStore(), nil, nil)

	got, err := h.Handle(context.Background(), "CUST001", "why is my bill so high")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	for _, want := range []string{"Ravi Sharma", "₹100 higher", "₹50", "beyond your 2 GB plan limit"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
	if !strings.Contains(got, "Family Share") {
		t.Errorf("expected an upgrade suggestion for overage, got:\n%s", got)
	}
}

func TestBillingStoreFailure(t *testing.T) {
	h := NewBillingHandler(&stubStore{err: errors.New("disk gone")}, nil, nil)

	if _, err := h.Handle(context.Background(), "CUST001", "bill"); err == nil {
		t.Fatal("expected error when the store fails")
	}
}

func TestBillingAppendsProviderProse(t *testing.T) {
	p := providers.NewFakeProvider("Happy to help you keep that bill down!")
	h := NewBillingHandler(seededStore(), p, nil)

	got, err := h.Handle(context.Background(), "CUST001", "why is my bill so high")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(got, "₹100 higher") {
		t.Errorf("deterministic summary lost:\n%s", got)
	}
	if !strings.HasSuffix(got, "Happy to help you keep that bill down!") {
		t.Errorf("provider prose not appended:\n%s", got)
	}
}

func TestBillingProviderFailureKeepsSummary(t *testing.T) {
	p := providers.NewFailingProvider(errors.New("quota"))
	h := NewBillingHandler(seededStore(), p, nil)

	got, err := h.Handle(context.Background(), "CUST001", "why is my bill so high")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(got, "₹100 higher") {
		t.Errorf("summary must survive a provider failure:\n%s", got)
	}
	if strings.Contains(got, "quota") {
		t.Errorf("provider error leaked:\n%s", got)
	}
}

func TestServiceEstimatesFromActivities(t *testing.T) {
	h := NewServiceHandler(seededStore(), nil, nil)

	got, err := h.Handle(context.Background(), "I stream Netflix about 2 hours a day, which plan should I get?")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	// 3 GB/hr * 2 hrs * 30 days = 180 GB, beyond every plan.
	if !strings.Contains(got, "180 GB") {
		t.Errorf("expected 180 GB estimate, got:\n%s", got)
	}
	if !strings.Contains(got, "exceeds all our plans") {
		t.Errorf("expected exceeds-all note, got:\n%s", got)
	}
}

func TestServiceRecommendsCheapestCoveringPlan(t *testing.T) {
	h := NewServiceHandler(seededStore(), nil, nil)

	got, err := h.Handle(context.Background(), "I mostly browse and use WhatsApp for 1 hour daily")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	// 0.1 GB/hr * 30 = 3 GB, covered by Family Share but not Basic Saver.
	if !strings.Contains(got, "Recommended: **Family Share**") {
		t.Errorf("expected Family Share recommendation, got:\n%s", got)
	}
	if !strings.Contains(got, "12-month term") {
		t.Errorf("expected contract note, got:\n%s", got)
	}
}

func TestServiceNoActivityFallsBackToCheapest(t *testing.T) {
	h := NewServiceHandler(seededStore(), nil, nil)

	got, err := h.Handle(context.Background(), "recommend a plan for me")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(got, "Recommended: **Basic Saver**") {
		t.Errorf("expected cheapest plan fallback, got:\n%s", got)
	}
}

func TestServiceAppendsProviderProse(t *testing.T) {
	p := providers.NewFakeProvider("This plan suits your daily browsing well.")
	h := NewServiceHandler(seededStore(), p, nil)

	got, err := h.Handle(context.Background(), "I mostly browse and use WhatsApp for 1 hour daily")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(got, "Recommended: **Family Share**") {
		t.Errorf("deterministic recommendation lost:\n%s", got)
	}
	if !strings.HasSuffix(got, "This plan suits your daily browsing well.") {
		t.Errorf("provider prose not appended:\n%s", got)
	}
}

func TestKnowledgeSevenG(t *testing.T) {
	docs := &stubDocs{result: "should not be used"}
	h := NewKnowledgeHandler(docs, seededStore(), nil)

	got, err := h.Handle(context.Background(), "Is my phone compatible with 7G?")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(got, "no commercially available 6G or 7G") {
		t.Errorf("expected grounded 7G answer, got: %s", got)
	}
	if len(docs.queries) != 0 {
		t.Error("7G answer must not hit the doc index")
	}
}

func TestKnowledgeTerminationFee(t *testing.T) {
	h := NewKnowledgeHandler(&stubDocs{}, seededStore(), nil)

	got, err := h.Handle(context.Background(), "what is the early termination fee?")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	for _, want := range []string{"PLAN_BASIC: ₹150", "PLAN_FAMILY: ₹499"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in: %s", want, got)
		}
	}
}

func TestKnowledgeDelegatesToDocs(t *testing.T) {
	docs := &stubDocs{result: "APN Setup: go to settings"}
	h := NewKnowledgeHandler(docs, seededStore(), nil)

	got, err := h.Handle(context.Background(), "how to set up APN")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if got != docs.result {
		t.Errorf("got %q, want doc result", got)
	}
}

func TestJokeUsesProviderWithTopic(t *testing.T) {
	p := providers.NewFakeProvider("Here is a network joke.")
	h := NewJokeHandler(p, nil)

	got, err := h.Handle(context.Background(), "tell me a joke about my network")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if got != "Here is a network joke." {
		t.Errorf("got %q", got)
	}
}

func TestJokeFallsBackWhenProviderFails(t *testing.T) {
	p := providers.NewFailingProvider(errors.New("quota"))
	h := NewJokeHandler(p, nil)

	got, err := h.Handle(context.Background(), "make me laugh")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if got == "" {
		t.Fatal("expected a canned joke")
	}

	second, _ := h.Handle(context.Background(), "another joke")
	if second == got {
		t.Error("canned jokes should rotate")
	}
}

func TestJokeConcurrentRotation(t *testing.T) {
	h := NewJokeHandler(nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got, err := h.Handle(context.Background(), "joke"); err != nil || got == "" {
				t.Errorf("got %q, %v", got, err)
			}
		}()
	}
	wg.Wait()
}

func TestJokeNoProvider(t *testing.T) {
	h := NewJokeHandler(nil, nil)

	got, err := h.Handle(context.Background(), "joke please")
	if err != nil || got == "" {
		t.Fatalf("got %q, %v", got, err)
	}
}
