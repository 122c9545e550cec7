package concept

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang/glog"
)

const promptTemplate = `Propose a brief creative concept (3 sentences) for a photo session titled %q at %q. ` +
	`Involve the photographer %s and the model %s. Minimalist and professional style.`

type service struct {
	generator TextGenerator
}

// NewService creates a new concept service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	return &service{generator: cfg.Generator}, nil
}

func (s *service) GenerateConcept(ctx context.Context, input *GenerateConceptInput) (*GenerateConceptOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Location) == "" {
		return nil, ErrMissingTitleOrLocation
	}

	if s.generator == nil {
		glog.Warning("concept requested but no Gemini API key is configured")
		return &GenerateConceptOutput{Text: UnconfiguredMessage}, nil
	}

	text, err := s.generator.Generate(ctx, Prompt(input))
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		glog.Errorf("failed to generate concept for %q: %v", input.Title, err)
		return &GenerateConceptOutput{Text: FailureMessage}, nil
	}

	return &GenerateConceptOutput{Text: strings.TrimSpace(text), Generated: true}, nil
}

// Prompt renders the model prompt for a session
func Prompt(input *GenerateConceptInput) string {
	return fmt.Sprintf(promptTemplate, input.Title, input.Location, nameOr(input.PhotographerName), nameOr(input.ModelName))
}

func nameOr(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(to be decided)"
	}
	return name
}
