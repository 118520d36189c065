// Package orchestrator wires classification, routing, dispatch and response
// sanitization into the single entry point the CLI calls.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/adalundhe/helpline/core/classify"
	"github.com/adalundhe/helpline/core/handlers"
	"github.com/adalundhe/helpline/core/route"
	"github.com/adalundhe/helpline/core/sanitize"
)

// Classifier decides which category a query belongs to.
type Classifier interface {
	Classify(ctx context.Context, query string) classify.Category
}

// Aggregator merges multi-intent branch responses.
type Aggregator interface {
	Aggregate(ctx context.Context, query, customerID string) string
}

// Nodes holds the single-category handlers. The orchestrator converts their
// errors into user-safe text; handlers never talk to the user about failures
// themselves.
type Nodes struct {
	Billing   func(ctx context.Context, customerID, query string) (string, error)
	Network   func(ctx context.Context, query string) (string, error)
	Service   func(ctx context.Context, query string) (string, error)
	Knowledge func(ctx context.Context, query string) (string, error)
	Joke      func(ctx context.Context, query string) (string, error)
}

type nodeFunc func(ctx context.Context, query, customerID string) string

// Orchestrator routes one query through the pipeline and always returns a
// printable response. Process never returns an error to the caller.
type Orchestrator struct {
	classifier Classifier
	aggregator Aggregator
	table      map[route.HandlerID]nodeFunc
	cache      *ResponseCache
	logger     *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithResponseCache memoizes final responses for repeated queries.
func WithResponseCache(cache *ResponseCache) Option {
	return func(o *Orchestrator) { o.cache = cache }
}

func New(classifier Classifier, aggregator Aggregator, nodes Nodes, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	o := &Orchestrator{
		classifier: classifier,
		aggregator: aggregator,
		logger:     logger,
	}

	// The dispatch table is built once and never mutated afterwards.
	o.table = map[route.HandlerID]nodeFunc{
		route.HandlerEmpty: func(context.Context, string, string) string {
			return handlers.EmptyInputMessage
		},
		route.HandlerFallback: func(context.Context, string, string) string {
			return handlers.FallbackMessage
		},
		route.HandlerJoke: func(ctx context.Context, query, _ string) string {
			return runNode(ctx, o.logger, "Joke", query, nodes.Joke)
		},
		route.HandlerAggregate: func(ctx context.Context, query, customerID string) string {
			return o.aggregator.Aggregate(ctx, query, customerID)
		},
		route.HandlerBilling: func(ctx context.Context, query, customerID string) string {
			return runNode(ctx, o.logger, "Billing", query, func(ctx context.Context, q string) (string, error) {
				return nodes.Billing(ctx, customerID, q)
			})
		},
		route.HandlerNetwork: func(ctx context.Context, query, _ string) string {
			return runNode(ctx, o.logger, "Network", query, nodes.Network)
		},
		route.HandlerService: func(ctx context.Context, query, _ string) string {
			return runNode(ctx, o.logger, "Service", query, nodes.Service)
		},
		route.HandlerKnowledge: func(ctx context.Context, query, _ string) string {
			return runNode(ctx, o.logger, "Knowledge", query, nodes.Knowledge)
		},
	}

	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Process answers one query. Every path ends in a sanitized, user-safe string;
// internal failures degrade to error text inside the response, never to a
// returned error.
func (o *Orchestrator) Process(ctx context.Context, query, customerID string) string {
	requestID := uuid.NewString()
	logger := o.logger.With("request_id", requestID)
	start := time.Now()

	category := o.classifier.Classify(ctx, query)
	handlerID := route.Route(category)
	logger.Info("query routed",
		"category", category.String(),
		"handler", handlerID.String(),
	)

	cacheKey := ""
	if o.cache != nil && cacheable(handlerID) {
		cacheKey = fmt.Sprintf("%s|%s|%s", handlerID.String(), customerID, query)
		if cached, ok := o.cache.Get(cacheKey); ok {
			logger.Info("response served from cache", "elapsed", time.Since(start))
			return cached
		}
	}

	node, ok := o.table[handlerID]
	if !ok {
		logger.Error("no node registered for handler", "handler", handlerID.String())
		return handlers.FallbackMessage
	}

	response := sanitize.Sanitize(node(ctx, query, customerID))

	if cacheKey != "" {
		o.cache.Set(cacheKey, response)
	}

	logger.Info("query answered", "elapsed", time.Since(start))
	return response
}

// cacheable excludes responses that must vary between identical queries.
func cacheable(id route.HandlerID) bool {
	return id != route.HandlerJoke && id != route.HandlerEmpty
}

// runNode invokes a handler and converts any error or panic into the
// agent-error text the rest of the pipeline expects. Process never raises.
func runNode(ctx context.Context, logger *slog.Logger, label, query string, fn func(context.Context, string) (string, error)) (out string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("handler panicked", "handler", label, "panic", r)
			out = fmt.Sprintf("Error in %s Agent: %v", label, r)
		}
	}()

	text, err := fn(ctx, query)
	if err != nil {
		logger.Warn("handler failed", "handler", label, "error", err)
		return fmt.Sprintf("Error in %s Agent: %v", label, err)
	}
	return text
}
