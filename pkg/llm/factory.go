package llm

import (
	"context"
	"fmt"

	"github.com/umputun/devscope/pkg/config"
)

const openRouterEndpoint = "https://openrouter.ai/api/v1"

// NewProvider creates the configured completion backend. The rest of the
// system depends only on the Provider interface, never on a concrete backend.
func NewProvider(ctx context.Context, cfg config.LLMConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key not set for provider %q", cfg.Provider)
	}

	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg, "openai"), nil
	case "openrouter":
		if cfg.Endpoint == "" {
			cfg.Endpoint = openRouterEndpoint
		}
		return NewOpenAIProvider(cfg, "openrouter"), nil
	case "claude":
		return NewClaudeProvider(cfg), nil
	case "gemini":
		return NewGeminiProvider(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
