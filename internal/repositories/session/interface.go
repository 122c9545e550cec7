package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/lenslink/internal/repositories/session Repository,Remote,Dialer

import (
	"context"
)

// Repository defines the store contract shared by the local and remote
// session stores
type Repository interface {
	// GetAll returns every session ordered by date ascending
	GetAll(ctx context.Context, input *GetAllInput) (*GetAllOutput, error)

	// Upsert inserts the session or replaces the one with the same ID
	Upsert(ctx context.Context, input *UpsertInput) error

	// DeleteByID removes the session with the given ID. Deleting an ID that
	// does not exist is not an error.
	DeleteByID(ctx context.Context, input *DeleteByIDInput) error
}

// Remote is a network-backed Repository
type Remote interface {
	Repository

	// Probe performs one bounded read against the sessions table and
	// classifies the failure, if any
	Probe(ctx context.Context) error

	// Provision creates the sessions table
	Provision(ctx context.Context) error

	// Backend names the store kind, e.g. "redis" or "postgres"
	Backend() string

	// Close releases the connection
	Close() error
}

// Dialer builds Remote stores from a URL and access key
type Dialer interface {
	Dial(ctx context.Context, input *DialInput) (Remote, error)
}
