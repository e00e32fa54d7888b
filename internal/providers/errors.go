package providers

import "fmt"

// ConfigurationError indicates the active provider is missing its
// credential. This is a deployment defect, not transient provider trouble:
// it is never retried and should be logged loudly upstream.
type ConfigurationError struct {
	Provider string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s provider misconfigured: %s", e.Provider, e.Reason)
}

// ProviderError indicates a failed provider call: a non-success HTTP
// status, a timeout, or a response body missing the expected text. Callers
// may retry or fall back; the gateway itself never retries.
type ProviderError struct {
	Provider   string
	StatusCode int // zero for transport-level failures
	Reason     string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s provider call failed (status %d): %s", e.Provider, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("%s provider call failed: %s", e.Provider, e.Reason)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
