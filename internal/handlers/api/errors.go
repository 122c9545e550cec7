package api

// ServerError is a custom error type for HTTP server setup errors
type ServerError string

// Error implements the error interface
func (e ServerError) Error() string {
	return string(e)
}

const (
	ErrNilConfig    ServerError = "config cannot be nil"
	ErrNilSchedule  ServerError = "schedule service cannot be nil"
	ErrNilConcept   ServerError = "concept service cannot be nil"
	ErrNilMessaging ServerError = "messaging service cannot be nil"
	ErrNilClock     ServerError = "clock cannot be nil"
)
