package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/adalundhe/helpline/core/classify"
	"github.com/adalundhe/helpline/core/config"
	"github.com/adalundhe/helpline/core/diagnose"
	"github.com/adalundhe/helpline/core/dispatch"
	"github.com/adalundhe/helpline/core/docs"
	"github.com/adalundhe/helpline/core/handlers"
	"github.com/adalundhe/helpline/core/orchestrator"
	"github.com/adalundhe/helpline/core/providers"
	"github.com/adalundhe/helpline/core/status"
)

// app owns every long-lived component the commands share.
type app struct {
	cfg          *config.Config
	logger       *slog.Logger
	store        *status.Store
	index        *docs.Index
	loader       *docs.Loader
	watcher      *docs.Watcher
	orchestrator *orchestrator.Orchestrator
	cache        *orchestrator.ResponseCache
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.Logging)

	store, err := status.Open(cfg.Database.Path, status.StoreConfig{
		MaxOpen:     cfg.Database.MaxOpen,
		MaxIdle:     cfg.Database.MaxIdle,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open status store: %w", err)
	}

	index, err := docs.OpenIndex(cfg.Docs.IndexPath, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open docs index: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, store: store, index: index}

	if _, err := os.Stat(cfg.Docs.SourceDir); err == nil {
		loader, err := docs.NewLoader(index, cfg.Docs.SourceDir, cfg.Docs.Patterns)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("docs loader: %w", err)
		}
		a.loader = loader

		if cfg.Docs.Watch {
			watcher, err := docs.NewWatcher(ctx, loader, logger)
			if err != nil {
				logger.Warn("docs watcher unavailable", "error", err)
			} else {
				a.watcher = watcher
			}
		}
	}

	registry := buildProviders(cfg.LLM, logger)
	provider := registry.Default()

	var fallback classify.FallbackClassifier
	if provider != nil {
		fallback = providerFallback{provider}
	}
	classifier := classify.New(fallback, &classify.Config{
		FallbackTimeout: cfg.Classifier.FallbackTimeout,
		CacheSize:       cfg.Classifier.CacheSize,
	}, logger)

	engine := diagnose.New(store, index, logger)

	billing := handlers.NewBillingHandler(store, provider, logger)
	service := handlers.NewServiceHandler(store, provider, logger)
	knowledge := handlers.NewKnowledgeHandler(index, store, logger)
	network := handlers.NewNetworkHandler(engine)
	joke := handlers.NewJokeHandler(provider, logger)

	aggregator := dispatch.NewAggregator(dispatch.Handlers{
		Billing:   billing.Handle,
		Network:   network.Handle,
		Service:   service.Handle,
		Knowledge: knowledge.Handle,
	}, logger,
		dispatch.WithBranchTimeout(cfg.Dispatch.BranchTimeout),
		dispatch.WithDiagnosticFallback(engine.Diagnose),
	)

	var opts []orchestrator.Option
	if cfg.Cache.Enabled {
		cache, err := orchestrator.NewResponseCache(cfg.Cache.MaxEntries, cfg.Cache.TTL)
		if err != nil {
			logger.Warn("response cache unavailable", "error", err)
		} else {
			a.cache = cache
			opts = append(opts, orchestrator.WithResponseCache(cache))
		}
	}

	a.orchestrator = orchestrator.New(classifier, aggregator, orchestrator.Nodes{
		Billing:   billing.Handle,
		Network:   network.Handle,
		Service:   service.Handle,
		Knowledge: knowledge.Handle,
		Joke:      joke.Handle,
	}, logger, opts...)

	return a, nil
}

func (a *app) Close() {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.cache != nil {
		a.cache.Close()
	}
	if a.index != nil {
		a.index.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// buildProviders registers every provider the config carries credentials for.
// Running with none is fine; the classifier and joke handler degrade cleanly.
func buildProviders(cfg config.LLMConfig, logger *slog.Logger) *providers.Registry {
	registry := providers.NewRegistry()

	if cfg.OpenAI.APIKey != "" {
		p, err := providers.NewOpenAIProvider(providers.OpenAIConfig{
			BaseConfig: providers.BaseConfig{
				APIKey:      cfg.OpenAI.APIKey,
				Model:       cfg.OpenAI.Model,
				MaxTokens:   cfg.OpenAI.MaxTokens,
				Temperature: cfg.OpenAI.Temperature,
				BaseURL:     cfg.OpenAI.BaseURL,
				Timeout:     cfg.Timeout,
			},
		})
		if err != nil {
			logger.Warn("openai provider unavailable", "error", err)
		} else {
			registry.Register(p)
		}
	}

	if cfg.Anthropic.APIKey != "" {
		p, err := providers.NewAnthropicProvider(providers.AnthropicConfig{
			BaseConfig: providers.BaseConfig{
				APIKey:      cfg.Anthropic.APIKey,
				Model:       cfg.Anthropic.Model,
				MaxTokens:   cfg.Anthropic.MaxTokens,
				Temperature: cfg.Anthropic.Temperature,
				BaseURL:     cfg.Anthropic.BaseURL,
				Timeout:     cfg.Timeout,
			},
		})
		if err != nil {
			logger.Warn("anthropic provider unavailable", "error", err)
		} else {
			registry.Register(p)
		}
	}

	if cfg.DefaultProvider != "" {
		if err := registry.SetDefault(cfg.DefaultProvider); err != nil {
			logger.Warn("configured default provider not registered",
				"provider", cfg.DefaultProvider)
		}
	}

	return registry
}

// providerFallback adapts a completion provider to the classifier's fallback
// interface: the classification instructions ride as the system prompt.
type providerFallback struct {
	provider providers.Provider
}

func (f providerFallback) ClassifyQuery(ctx context.Context, query, prompt string) (string, error) {
	return f.provider.Complete(ctx, prompt, query)
}
