// Package llm holds the completion clients the assistant can run on.
package llm

import (
	"context"
	"fmt"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer returns the text of a single completion.
type Completer interface {
	Complete(ctx context.Context, system string, messages []Message, maxTokens int) (string, error)
}

// New builds the Completer for provider.
func New(ctx context.Context, provider, apiKey, model string) (Completer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s api key is required", provider)
	}
	switch provider {
	case ProviderAnthropic:
		return NewAnthropic(apiKey, model), nil
	case ProviderGemini:
		return NewGemini(ctx, apiKey, model)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
