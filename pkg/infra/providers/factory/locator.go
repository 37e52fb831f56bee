package factory

import (
	"fmt"

	"github.com/partsdesk/partsdesk/pkg/infra/providers"
	"github.com/partsdesk/partsdesk/pkg/infra/providers/anthropic"
	"github.com/partsdesk/partsdesk/pkg/infra/providers/openai"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	// DeepSeek exposes an OpenAI-compatible API; the openai client is
	// pointed at it through Credentials.BaseURL.
	ProviderDeepSeek = "deepseek"
)

//go:generate mockery --name=ProviderLocator --dir=. --output=./mocks --filename=provider_locator_mock.go --case=underscore --with-expecter

type ProviderLocator interface {
	Get(provider string) (providers.Client, error)
}

type providerLocator struct{}

func NewProviderLocator() ProviderLocator {
	return &providerLocator{}
}

func (f *providerLocator) Get(provider string) (providers.Client, error) {
	switch provider {
	case ProviderOpenAI, ProviderDeepSeek:
		return openai.NewOpenaiClient(), nil
	case ProviderAnthropic:
		return anthropic.NewAnthropicClient(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
