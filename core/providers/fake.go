package providers

import (
	"context"
	"fmt"
	"sync"
)

// FakeProvider returns scripted responses. It backs tests and offline runs
// where no API key is configured.
type FakeProvider struct {
	responses []string
	err       error
	calls     int
	mu        sync.Mutex
}

// NewFakeProvider cycles through the given responses in order, repeating the
// last one once exhausted.
func NewFakeProvider(responses ...string) *FakeProvider {
	return &FakeProvider{responses: responses}
}

// NewFailingProvider always returns the given error.
func NewFailingProvider(err error) *FakeProvider {
	return &FakeProvider{err: err}
}

func (p *FakeProvider) Name() string {
	return string(ProviderTypeFake)
}

func (p *FakeProvider) Complete(_ context.Context, _, _ string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	if p.err != nil {
		return "", p.err
	}
	if len(p.responses) == 0 {
		return "", fmt.Errorf("fake provider: no scripted responses")
	}

	idx := p.calls - 1
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return p.responses[idx], nil
}

// Calls reports how many completions were requested.
func (p *FakeProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
