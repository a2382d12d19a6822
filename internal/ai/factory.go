package ai

import "github.com/elliotmandel/AIOracle/internal/config"

func NewFromConfig(cfg config.Config) Generator {
	if cfg.LLMProvider == "anthropic" {
		return NewAnthropicClient(
			cfg.AnthropicAPIKey,
			cfg.AnthropicBaseURL,
			cfg.AnthropicModel,
			cfg.AnthropicMaxTokens,
			cfg.AnthropicRequestTimeout,
			cfg.AnthropicMaxRetries,
			cfg.AnthropicRetryBase,
		)
	}
	return NewMockClient()
}
