package classify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultFallbackTimeout = 10 * time.Second
	defaultCacheSize       = 512
)

// FallbackClassifier is the single external inference call used when the
// keyword cascade cannot decide. It returns a free-text label.
type FallbackClassifier interface {
	ClassifyQuery(ctx context.Context, query string, prompt string) (string, error)
}

// Classifier maps a raw query to a Category. Classify is total: every failure
// mode collapses to CategoryOther.
type Classifier struct {
	fallback FallbackClassifier
	timeout  time.Duration
	cache    *lru.Cache[string, Category]
	logger   *slog.Logger
}

// Config configures the classifier's fallback stage.
type Config struct {
	FallbackTimeout time.Duration
	CacheSize       int
}

// New creates a Classifier. The fallback may be nil, in which case ambiguous
// queries classify as OTHER without any inference call.
func New(fallback FallbackClassifier, cfg *Config, logger *slog.Logger) *Classifier {
	timeout := defaultFallbackTimeout
	cacheSize := defaultCacheSize
	if cfg != nil {
		if cfg.FallbackTimeout > 0 {
			timeout = cfg.FallbackTimeout
		}
		if cfg.CacheSize > 0 {
			cacheSize = cfg.CacheSize
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	cache, err := lru.New[string, Category](cacheSize)
	if err != nil {
		// Only reachable with a non-positive size, which we guard above.
		cache = nil
	}

	return &Classifier{
		fallback: fallback,
		timeout:  timeout,
		cache:    cache,
		logger:   logger,
	}
}

// Classify runs the ordered cascade: empty check, joke keywords, the four
// intent keyword groups, then the inference fallback for ambiguous text.
// First match wins; the category is never revised downstream.
func (c *Classifier) Classify(ctx context.Context, query string) Category {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return CategoryEmpty
	}

	lower := strings.ToLower(trimmed)
	if isJokeRequest(lower) {
		return CategoryJoke
	}

	matched := MatchedGroups(trimmed)
	switch {
	case len(matched) > 1:
		return CategoryMulti
	case len(matched) == 1:
		return matched[0]
	}

	return c.classifyViaFallback(ctx, trimmed, lower)
}

func (c *Classifier) classifyViaFallback(ctx context.Context, query, cacheKey string) Category {
	if c.fallback == nil {
		return CategoryOther
	}

	if c.cache != nil {
		if cat, ok := c.cache.Get(cacheKey); ok {
			return cat
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	label, err := c.fallback.ClassifyQuery(ctx, query, classificationPrompt)
	if err != nil {
		c.logger.Warn("fallback classification failed", "error", err)
		return CategoryOther
	}

	cat := normalizeLabel(label)
	if c.cache != nil {
		c.cache.Add(cacheKey, cat)
	}
	return cat
}

// normalizeLabel maps free-text model output onto the five fallback labels by
// substring match, defaulting to OTHER.
func normalizeLabel(label string) Category {
	upper := strings.ToUpper(strings.TrimSpace(label))
	for _, cat := range []Category{CategoryBilling, CategoryNetwork, CategoryService, CategoryKnowledge} {
		if strings.Contains(upper, cat.String()) {
			return cat
		}
	}
	return CategoryOther
}

const classificationPrompt = `You are a query classifier for a telecom assistant.
Classify the following query into exactly one of these categories:
- BILLING: Questions about bills, charges, payments, or account balance.
- NETWORK: Questions about signal, internet issues, outages, or device connectivity.
- SERVICE: Questions about plan recommendations, upgrading, or new services.
- KNOWLEDGE: General technical questions, "how-to" guides, or factual coverage/compatibility checks.
- OTHER: Anything else.

Respond with the category name only.`
