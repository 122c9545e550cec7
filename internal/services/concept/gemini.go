package concept

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiConfig holds configuration for the Gemini generator
type GeminiConfig struct {
	APIKey string

	// Model defaults to DefaultModel
	Model string
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGemini creates a TextGenerator backed by the Gemini API
func NewGemini(ctx context.Context, cfg *GeminiConfig) (*geminiGenerator, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &geminiGenerator{client: client, model: model}, nil
}

// Generate sends one prompt with the sampling settings of the concept form
func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: 200,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return resp.Text(), nil
}
