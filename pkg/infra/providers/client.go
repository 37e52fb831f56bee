package providers

import (
	"context"
)

// Config carries everything a completion call needs. The guardrail
// evaluator and the responder agent hold separate Configs so they can
// point at different models (or different vendors) independently.
type Config struct {
	Credentials  Credentials `json:"credentials"`
	Model        string      `json:"model"`
	MaxTokens    int         `json:"max_tokens,omitempty"`
	Temperature  float64     `json:"temperature,omitempty"`
	SystemPrompt string      `json:"system_prompt,omitempty"`
}

type Credentials struct {
	ApiKey  string `json:"api_key"`
	BaseURL string `json:"base_url,omitempty"`
}

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=client_mock.go --case=underscore --with-expecter

// Client is the opaque text-generation capability. Implementations must
// honor ctx cancellation and deadlines; the guardrail evaluation timeout
// relies on that.
type Client interface {
	Ask(ctx context.Context, config *Config, prompt string) (*CompletionResponse, error)
}
