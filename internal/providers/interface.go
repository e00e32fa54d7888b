package providers

import (
	"context"

	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/prompts"
)

// Provider is the contract every AI text-generation backend implements.
// Exactly one provider is selected at startup; callers never switch
// providers per request.
type Provider interface {
	// Name returns the provider identifier ("openai", "gemini").
	Name() string

	// IsEnabled reports whether the provider has the credential it needs.
	IsEnabled() bool

	// Complete sends the prompt to the provider and returns the generated
	// text. It returns *ConfigurationError when the credential is missing
	// and *ProviderError for any transport, status or payload failure.
	// Retry policy belongs to the caller, not the provider.
	Complete(ctx context.Context, prompt prompts.Prompt) (string, error)
}
