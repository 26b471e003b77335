// Package llm turns a task into a step-by-step breakdown using a hosted model,
// falling back to a deterministic local plan whenever the model is
// unavailable or its answer cannot be used.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
)

type Provider string

const (
	Anthropic Provider = "anthropic"
	Gemini    Provider = "gemini"
	OpenAI    Provider = "openai"
	None      Provider = "none"
)

// ErrAPIKeyRequired is returned when a provider is selected without a key.
var ErrAPIKeyRequired = errors.New("API key required")

// Generator sends a prompt to a model and returns its text answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type ProviderConfig struct {
	Provider Provider
	Model    string
	APIKey   string
}

// NewGenerator returns the generator for cfg, or nil when the provider is
// "none" or empty, in which case breakdowns use the mock plan.
func NewGenerator(cfg ProviderConfig) (Generator, error) {
	switch cfg.Provider {
	case "", None:
		return nil, nil
	case Anthropic, Gemini, OpenAI:
	default:
		return nil, fmt.Errorf("unsupported provider: %s (supported: %s, %s, %s, %s)", cfg.Provider, Anthropic, Gemini, OpenAI, None)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrAPIKeyRequired, cfg.Provider)
	}
	switch cfg.Provider {
	case Anthropic:
		return NewAnthropicGenerator(cfg.APIKey, cfg.Model), nil
	case Gemini:
		return NewGeminiGenerator(cfg.APIKey, cfg.Model), nil
	default:
		return NewOpenAIGenerator(cfg.APIKey, cfg.Model), nil
	}
}

// StatusError is a non-200 answer from a raw HTTP provider.
type StatusError struct {
	Provider   Provider
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned status %d", e.Provider, e.StatusCode)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.StatusCode)
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return retryableStatus(statusErr.StatusCode)
	}

	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
