package handlers

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/adalundhe/helpline/core/providers"
)

const jokeSystemPrompt = "You are a telecom support assistant with a light sense of humor. " +
	"Tell one short, clean, family-friendly joke. Plain text only, no markdown."

// Topic hints steer the joke toward whatever telecom subject the user
// mentioned alongside the request.
var jokeTopics = []string{"plan", "billing", "network", "signal", "service", "phone", "data"}

var cannedJokes = []string{
	"Why did the smartphone go to therapy? It lost its sense of touch.",
	"I told my phone a joke about unlimited data. It didn't get it — too much buffering.",
	"Why do cell towers never gossip? They only pass on what they receive.",
	"My WiFi and I are close. We have a strong connection.",
}

// JokeHandler serves joke requests. With a provider configured it asks the
// model; otherwise, or on failure, it rotates through a small canned list.
type JokeHandler struct {
	provider providers.Provider
	logger   *slog.Logger

	mu   sync.Mutex
	next int
}

func NewJokeHandler(provider providers.Provider, logger *slog.Logger) *JokeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &JokeHandler{provider: provider, logger: logger}
}

func (h *JokeHandler) Handle(ctx context.Context, query string) (string, error) {
	if h.provider != nil {
		prompt := "Tell me a joke."
		if topic := jokeTopic(query); topic != "" {
			prompt = "Tell me a joke about " + topic + "."
		}
		joke, err := h.provider.Complete(ctx, jokeSystemPrompt, prompt)
		if err == nil && strings.TrimSpace(joke) != "" {
			return strings.TrimSpace(joke), nil
		}
		if err != nil {
			h.logger.Warn("joke provider failed, using canned joke", "error", err)
		}
	}

	h.mu.Lock()
	joke := cannedJokes[h.next%len(cannedJokes)]
	h.next++
	h.mu.Unlock()
	return joke, nil
}

func jokeTopic(query string) string {
	q := strings.ToLower(query)
	for _, topic := range jokeTopics {
		if strings.Contains(q, topic) {
			return topic
		}
	}
	return ""
}
