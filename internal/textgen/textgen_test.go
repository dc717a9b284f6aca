package textgen

import (
	"context"
	"errors"
	"testing"

	"github.com/kimmyTSUI/agent-story/internal/config"
)

func TestNewSelectsProvider(t *testing.T) {
	tests := []struct {
		name string
		want any
	}{
		{"mock", &Mock{}},
		{"", &Mock{}},
		{"smart-mock", &SmartMock{}},
		{"MOCK", &Mock{}},
	}

	for _, tt := range tests {
		g, err := New(config.ProviderConfig{Name: tt.name})
		if err != nil {
			t.Fatalf("New(%q) error = %v", tt.name, err)
		}
		switch tt.want.(type) {
		case *Mock:
			if _, ok := g.(*Mock); !ok {
				t.Errorf("New(%q) = %T, want *Mock", tt.name, g)
			}
		case *SmartMock:
			if _, ok := g.(*SmartMock); !ok {
				t.Errorf("New(%q) = %T, want *SmartMock", tt.name, g)
			}
		}
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(config.ProviderConfig{Name: "bard"})
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("New() error = %v, want ErrUnknownProvider", err)
	}
}

func TestNewOpenAIFromProviderConfig(t *testing.T) {
	g, err := New(config.ProviderConfig{
		Name:   "openai",
		OpenAI: config.OpenAIConfig{APIKey: "k", Model: "gpt-4o"},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	og, ok := g.(*OpenAIGenerator)
	if !ok {
		t.Fatalf("New() = %T, want *OpenAIGenerator", g)
	}
	if og.Model() != "gpt-4o" {
		t.Errorf("Model() = %q, want %q", og.Model(), "gpt-4o")
	}
}

func TestGeneratorFunc(t *testing.T) {
	g := GeneratorFunc(func(_ context.Context, system, user string) (string, error) {
		return system + "|" + user, nil
	})

	got, err := g.Generate(context.Background(), "s", "u")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "s|u" {
		t.Errorf("Generate() = %q, want %q", got, "s|u")
	}
}
