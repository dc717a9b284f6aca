// Package textgen abstracts the language model backends that drive the
// game's agents. Every agent call is a single system+user prompt pair
// producing one completion; conversation history is carried inside the
// prompts, not by the backend.
package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/kimmyTSUI/agent-story/internal/config"
)

// ProviderName identifies a supported text generation provider.
type ProviderName string

const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderMock      ProviderName = "mock"
	ProviderSmartMock ProviderName = "smart-mock"
)

// ProviderNames returns the recognized provider names.
func ProviderNames() []string {
	return []string{
		string(ProviderOpenAI),
		string(ProviderAnthropic),
		string(ProviderMock),
		string(ProviderSmartMock),
	}
}

// defaultTemperature is used for all model calls.
const defaultTemperature = 0.7

// Generator produces one completion for a system+user prompt pair.
// Implementations do not retry; errors surface to the caller unchanged.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f(ctx, systemPrompt, userPrompt)
}

// ErrUnknownProvider is returned when the configured provider is unsupported.
var ErrUnknownProvider = fmt.Errorf("unknown text generation provider")

// NewFromConfig builds a Generator from full configuration.
func NewFromConfig(cfg *config.Config) (Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("missing config")
	}
	return New(cfg.Provider)
}

// New builds a Generator from a provider configuration. An empty name
// selects the offline mock so that nothing reaches a paid API without
// being asked to.
func New(cfg config.ProviderConfig) (Generator, error) {
	switch strings.ToLower(cfg.Name) {
	case string(ProviderMock), "":
		return NewMock(), nil
	case string(ProviderSmartMock):
		return NewSmartMock(), nil
	case string(ProviderOpenAI):
		return NewOpenAIGenerator(cfg.OpenAI)
	case string(ProviderAnthropic):
		return NewAnthropicGenerator(cfg.Anthropic)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Name)
	}
}

// apiError is the error payload shape shared by both HTTP providers.
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
