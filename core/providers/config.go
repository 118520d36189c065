package providers

import (
	"fmt"
	"time"
)

// BaseConfig contains configuration common to all providers.
type BaseConfig struct {
	// APIKey is the authentication key for the provider.
	APIKey string `json:"api_key" yaml:"api_key"`

	// Model is the model to request completions from.
	Model string `json:"model" yaml:"model"`

	// MaxTokens bounds every completion.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature (0.0-2.0).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// BaseURL overrides the default API endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Timeout bounds each API request. Zero means the client default.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// Validate checks the base configuration.
func (c *BaseConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	return nil
}

// OpenAIConfig contains OpenAI-specific configuration.
type OpenAIConfig struct {
	BaseConfig `json:",inline" yaml:",inline"`

	// Organization sets the OpenAI-Organization header.
	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`
}

func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		BaseConfig: BaseConfig{
			Model:       "gpt-4o-mini",
			MaxTokens:   1024,
			Temperature: 0.2,
		},
	}
}

// AnthropicConfig contains Anthropic-specific configuration.
type AnthropicConfig struct {
	BaseConfig `json:",inline" yaml:",inline"`
}

func DefaultAnthropicConfig() AnthropicConfig {
	return AnthropicConfig{
		BaseConfig: BaseConfig{
			Model:       "claude-haiku-4-5-20251001",
			MaxTokens:   1024,
			Temperature: 0.2,
		},
	}
}
