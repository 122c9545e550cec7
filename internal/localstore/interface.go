package localstore

//go:generate mockgen -package=mocks -destination=mocks/mock_store.go github.com/KirkDiggler/lenslink/internal/localstore Store

import (
	"context"

	"github.com/KirkDiggler/lenslink/internal/models"
)

// Store is the on-device key-value persistence for the session list and the
// cached remote credentials
type Store interface {
	// ReadAll returns the stored session list. A missing or unreadable list
	// yields an empty slice, never an error.
	ReadAll(ctx context.Context) []*models.Session

	// WriteAll replaces the stored session list
	WriteAll(ctx context.Context, sessions []*models.Session) error

	// Credentials returns the remote credentials entered by the user, if any
	Credentials(ctx context.Context) (*Credentials, error)

	// SaveCredentials caches remote credentials entered by the user
	SaveCredentials(ctx context.Context, creds *Credentials) error

	// Close releases the underlying database
	Close() error
}
