// internal/decision/factory.go
package decision

import (
	"fmt"
	"time"
)

// Config selects and configures a decision backend.
type Config struct {
	Provider    string // "openai", "anthropic", "none"/""
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// NewProvider builds the configured backend. "none" and the empty
// string select the static no-override provider.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "", "none":
		return NewStatic(Starboard), nil
	case "openai":
		return NewOpenAI(OpenAIConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}), nil
	case "anthropic", "claude":
		return NewAnthropic(AnthropicConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown decision provider: %s", cfg.Provider)
	}
}
