package concept

//go:generate mockgen -package=mocks -destination=mocks/mock_concept.go github.com/KirkDiggler/lenslink/internal/services/concept Service,TextGenerator

import "context"

// Service proposes a short creative concept for a session
type Service interface {
	// GenerateConcept never fails because of the model; a fallback message
	// comes back with Generated=false instead
	GenerateConcept(ctx context.Context, input *GenerateConceptInput) (*GenerateConceptOutput, error)
}

// TextGenerator sends a prompt to a text generation model
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
