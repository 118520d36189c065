// Package config loads the assistant's YAML configuration with environment
// overrides. Missing files are fine; every field has a working default.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Docs       DocsConfig       `yaml:"docs"`
	LLM        LLMConfig        `yaml:"llm"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Dispatch   DispatchConfig   `yaml:"dispatch"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type DatabaseConfig struct {
	Path        string        `yaml:"path"`
	BusyTimeout time.Duration `yaml:"busy_timeout"`
	MaxOpen     int           `yaml:"max_open"`
	MaxIdle     int           `yaml:"max_idle"`
}

type DocsConfig struct {
	IndexPath string   `yaml:"index_path"`
	SourceDir string   `yaml:"source_dir"`
	Patterns  []string `yaml:"patterns"`
	Watch     bool     `yaml:"watch"`
}

type LLMConfig struct {
	DefaultProvider string         `yaml:"default_provider"`
	Timeout         time.Duration  `yaml:"timeout"`
	OpenAI          ProviderConfig `yaml:"openai"`
	Anthropic       ProviderConfig `yaml:"anthropic"`
}

type ProviderConfig struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	BaseURL     string  `yaml:"base_url"`
}

type ClassifierConfig struct {
	FallbackTimeout time.Duration `yaml:"fallback_timeout"`
	CacheSize       int           `yaml:"cache_size"`
}

type DispatchConfig struct {
	BranchTimeout time.Duration `yaml:"branch_timeout"`
}

type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	MaxEntries int64         `yaml:"max_entries"`
	TTL        time.Duration `yaml:"ttl"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "data/helpline.db",
			BusyTimeout: 5 * time.Second,
			MaxOpen:     4,
			MaxIdle:     2,
		},
		Docs: DocsConfig{
			IndexPath: "data/docs.bleve",
			SourceDir: "docs",
			Patterns:  []string{"*.md", "*.txt"},
			Watch:     true,
		},
		LLM: LLMConfig{
			DefaultProvider: "openai",
			Timeout:         2 * time.Minute,
			OpenAI: ProviderConfig{
				Model:       "gpt-4o-mini",
				MaxTokens:   1024,
				Temperature: 0.2,
			},
			Anthropic: ProviderConfig{
				Model:       "claude-haiku-4-5-20251001",
				MaxTokens:   1024,
				Temperature: 0.2,
			},
		},
		Classifier: ClassifierConfig{
			FallbackTimeout: 10 * time.Second,
			CacheSize:       512,
		},
		Dispatch: DispatchConfig{
			BranchTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 1024,
			TTL:        5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnvironment(cfg)
	return cfg, nil
}

func applyEnvironment(cfg *Config) {
	if v := os.Getenv("HELPLINE_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("HELPLINE_DOCS_DIR"); v != "" {
		cfg.Docs.SourceDir = v
	}
	if v := os.Getenv("HELPLINE_DOCS_INDEX"); v != "" {
		cfg.Docs.IndexPath = v
	}
	if v := os.Getenv("HELPLINE_LLM_PROVIDER"); v != "" {
		cfg.LLM.DefaultProvider = v
	}
	if v := os.Getenv("HELPLINE_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = d
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.LLM.OpenAI.APIKey == "" {
		cfg.LLM.OpenAI.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && cfg.LLM.Anthropic.APIKey == "" {
		cfg.LLM.Anthropic.APIKey = v
	}
	if v := os.Getenv("HELPLINE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("HELPLINE_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = strings.ToLower(v) == "true"
	}
}
