package concept

const (
	// DefaultModel is the Gemini model used when none is configured
	DefaultModel = "gemini-3-flash-preview"

	// UnconfiguredMessage is returned when no API key is set
	UnconfiguredMessage = "To use AI concepts, configure your Gemini API key."

	// FailureMessage is returned when the model call fails
	FailureMessage = "Could not generate a concept. Please write one manually."
)

// Config holds configuration for the concept service
type Config struct {
	// Generator is nil when no API key is configured
	Generator TextGenerator
}

type GenerateConceptInput struct {
	Title            string
	Location         string
	PhotographerName string
	ModelName        string
}

type GenerateConceptOutput struct {
	Text string

	// Generated is false when Text is one of the fallback messages
	Generated bool
}
