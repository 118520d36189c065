package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/adalundhe/helpline/core/classify"
	"github.com/adalundhe/helpline/core/handlers"
)

type stubClassifier struct {
	calls int
}

func (s *stubClassifier) Classify(_ context.Context, query string) classify.Category {
	s.calls++
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return classify.CategoryEmpty
	}
	matched := classify.MatchedGroups(query)
	switch {
	case strings.Contains(strings.ToLower(query), "joke"):
		return classify.CategoryJoke
	case len(matched) > 1:
		return classify.CategoryMulti
	case len(matched) == 1:
		return matched[0]
	}
	return classify.CategoryOther
}

type stubAggregator struct {
	response string
	calls    int
}

func (s *stubAggregator) Aggregate(context.Context, string, string) string {
	s.calls++
	return s.response
}

func testNodes() Nodes {
	return Nodes{
		Billing: func(_ context.Context, customerID, _ string) (string, error) {
			return "billing summary for " + customerID, nil
		},
		Network: func(context.Context, string) (string, error) {
			return "network diagnosis", nil
		},
		Service: func(context.Context, string) (string, error) {
			return "plan recommendation", nil
		},
		Knowledge: func(context.Context, string) (string, error) {
			return "doc answer", nil
		},
		Joke: func(context.Context, string) (string, error) {
			return "| Why | did | the | phone |? It lost its **touch**.", nil
		},
	}
}

func newTestOrchestrator(t *testing.T, opts ...Option) (*Orchestrator, *stubAggregator) {
	t.Helper()
	agg := &stubAggregator{response: "### Billing Response\nbilling\n\n---\n### Network Response\nnetwork\n"}
	return New(&stubClassifier{}, agg, testNodes(), nil, opts...), agg
}

func TestProcessEmptyInput(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	got := o.Process(context.Background(), "   ", "CUST001")
	if got != handlers.EmptyInputMessage {
		t.Errorf("empty input must return the fixed message verbatim, got %q", got)
	}
}

func TestProcessUnrecognizedInput(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	got := o.Process(context.Background(), "tell me about the weather", "CUST001")
	if got != handlers.FallbackMessage {
		t.Errorf("got %q, want fallback message", got)
	}
}

func TestProcessJokeIsSanitized(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	got := o.Process(context.Background(), "tell me a joke", "CUST001")
	if strings.Contains(got, "**") {
		t.Errorf("markdown survived sanitization: %q", got)
	}
	if !strings.Contains(got, "touch") {
		t.Errorf("joke content lost: %q", got)
	}
}

func TestProcessSingleCategory(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	got := o.Process(context.Background(), "why is my bill so high", "CUST001")
	if got != "billing summary for CUST001" {
		t.Errorf("got %q", got)
	}
}

func TestProcessMultiIntentUsesAggregator(t *testing.T) {
	o, agg := newTestOrchestrator(t)

	got := o.Process(context.Background(), "my bill is high and the network is slow", "CUST001")
	if agg.calls != 1 {
		t.Fatalf("aggregator calls = %d, want 1", agg.calls)
	}
	// Headings and separators are stripped at the response surface but the
	// branch labels survive, Billing before Network.
	if strings.Contains(got, "###") || strings.Contains(got, "\n---\n") {
		t.Errorf("markdown survived sanitization:\n%s", got)
	}
	billingIdx := strings.Index(got, "Billing Response")
	networkIdx := strings.Index(got, "Network Response")
	if billingIdx < 0 || networkIdx < 0 || billingIdx > networkIdx {
		t.Errorf("branch sections missing or misordered:\n%s", got)
	}
}

func TestProcessHandlerErrorBecomesAgentError(t *testing.T) {
	nodes := testNodes()
	nodes.Network = func(context.Context, string) (string, error) {
		return "", errors.New("probe timeout")
	}
	o := New(&stubClassifier{}, &stubAggregator{}, nodes, nil)

	got := o.Process(context.Background(), "my internet is down", "CUST001")
	if got != "Error in Network Agent: probe timeout" {
		t.Errorf("got %q", got)
	}
}

func TestProcessHandlerPanicBecomesAgentError(t *testing.T) {
	nodes := testNodes()
	nodes.Network = func(context.Context, string) (string, error) {
		panic("status store corrupted")
	}
	o := New(&stubClassifier{}, &stubAggregator{}, nodes, nil)

	got := o.Process(context.Background(), "my internet is down", "CUST001")
	if got != "Error in Network Agent: status store corrupted" {
		t.Errorf("got %q", got)
	}
}

func TestProcessCachesRepeatedQueries(t *testing.T) {
	cache, err := NewResponseCache(64, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	billingCalls := 0
	nodes := testNodes()
	nodes.Billing = func(_ context.Context, customerID, _ string) (string, error) {
		billingCalls++
		return "billing summary", nil
	}
	o := New(&stubClassifier{}, &stubAggregator{}, nodes, nil, WithResponseCache(cache))

	first := o.Process(context.Background(), "explain my bill", "CUST001")
	cache.Wait()
	second := o.Process(context.Background(), "explain my bill", "CUST001")

	if first != second {
		t.Errorf("cached response differs: %q vs %q", first, second)
	}
	if billingCalls != 1 {
		t.Errorf("billing handler ran %d times, want 1", billingCalls)
	}
}

func TestProcessCacheKeyIncludesCustomer(t *testing.T) {
	cache, err := NewResponseCache(64, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	o := New(&stubClassifier{}, &stubAggregator{}, testNodes(), nil, WithResponseCache(cache))

	first := o.Process(context.Background(), "explain my bill", "CUST001")
	cache.Wait()
	second := o.Process(context.Background(), "explain my bill", "CUST002")

	if first == second {
		t.Error("responses for different customers must not share cache entries")
	}
}

func TestJokesAreNeverCached(t *testing.T) {
	cache, err := NewResponseCache(64, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	jokeCalls := 0
	nodes := testNodes()
	nodes.Joke = func(context.Context, string) (string, error) {
		jokeCalls++
		return "a joke", nil
	}
	o := New(&stubClassifier{}, &stubAggregator{}, nodes, nil, WithResponseCache(cache))

	o.Process(context.Background(), "tell me a joke", "CUST001")
	cache.Wait()
	o.Process(context.Background(), "tell me a joke", "CUST001")

	if jokeCalls != 2 {
		t.Errorf("joke handler ran %d times, want 2", jokeCalls)
	}
}
