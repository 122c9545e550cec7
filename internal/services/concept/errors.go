package concept

// ConceptError is a custom error type for concept generation errors
type ConceptError string

// Error implements the error interface
func (e ConceptError) Error() string {
	return string(e)
}

const (
	ErrMissingTitleOrLocation ConceptError = "a title and a location are required to generate a concept"
	ErrNilConfig              ConceptError = "config cannot be nil"
	ErrNilInput               ConceptError = "input cannot be nil"
	ErrEmptyResponse          ConceptError = "model returned no text"
)
