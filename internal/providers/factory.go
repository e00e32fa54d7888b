package providers

import (
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/config"
)

// FromConfig returns the provider selected by AI_PROVIDER. The choice is
// made once at startup; a missing credential is not an error here because
// the gateway converts it into a ConfigurationError on the first call and
// the orchestrator still owes the caller a fallback artifact.
func FromConfig(cfg *config.Config) Provider {
	if cfg.Provider == config.ProviderGemini {
		return NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ProviderTimeout)
	}
	return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.ProviderTimeout)
}
