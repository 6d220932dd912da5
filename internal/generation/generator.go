package generation

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/civitaslabs/planqd/internal/config"
)

// Generator produces an answer from a fully assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMGenerator adapts a langchaingo model to Generator.
type LLMGenerator struct {
	model llms.Model
}

// NewLLMGenerator wraps an existing model.
func NewLLMGenerator(model llms.Model) *LLMGenerator {
	return &LLMGenerator{model: model}
}

// NewFromConfig builds a Generator for the configured provider.
func NewFromConfig(ctx context.Context, cfg config.GenerationConfig) (*LLMGenerator, error) {
	switch cfg.Provider {
	case "googleai", "":
		model, err := googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey.Value()),
			googleai.WithDefaultModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("creating googleai model: %w", err)
		}
		return NewLLMGenerator(model), nil
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s (supported: googleai)", cfg.Provider)
	}
}

// Generate implements Generator.
func (g *LLMGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	completion, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return completion, nil
}
