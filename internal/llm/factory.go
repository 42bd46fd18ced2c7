package llm

import (
	"context"
	"fmt"

	"atg/internal/config"

	"go.uber.org/zap"
)

// NewClientFromConfig creates an LLM client from the resolved configuration.
func NewClientFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Client, error) {
	switch cfg.LLM.Provider {
	case "openai":
		oc := OpenAIConfig{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.GetLLMTimeout(),
			Logger:      logger,
		}
		if oc.BaseURL == "" {
			oc.BaseURL = DefaultOpenAIConfig("").BaseURL
		}
		return NewOpenAIClientWithConfig(oc), nil

	case "gemini":
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
		})

	default:
		return nil, fmt.Errorf("unknown provider: %s (valid: %v)", cfg.LLM.Provider, config.ValidProviders)
	}
}
