package cloudsync

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/lenslink/internal/services/cloudsync Service

import (
	"context"

	"github.com/KirkDiggler/lenslink/internal/repositories/session"
)

// Service decides which store is authoritative and owns the remote handle
type Service interface {
	// Load reads the session list from the remote store when it is reachable
	// and from the local store otherwise. Store failures only change the
	// status; the error return is reserved for programming errors.
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)

	// Active returns the store picked by the last Load
	Active() session.Repository

	// Save upserts one session into the active store
	Save(ctx context.Context, input *SaveInput) error

	// Remove deletes one session from the active store
	Remove(ctx context.Context, input *RemoveInput) error

	// Mirror overwrites the local store with the full list
	Mirror(ctx context.Context, input *MirrorInput) error

	// TestConnection checks candidate credentials with a throwaway client
	// and saves them only on success
	TestConnection(ctx context.Context, input *TestConnectionInput) (*TestConnectionOutput, error)

	// MigrateToCloud copies every local session to the connected remote store
	MigrateToCloud(ctx context.Context, input *MigrateToCloudInput) (*MigrateToCloudOutput, error)

	// Provision creates the sessions table in the configured remote store
	Provision(ctx context.Context, input *ProvisionInput) error

	// Status reports the current connection state
	Status() *StatusOutput

	// Reset drops the cached remote handle so the next use re-dials
	Reset() error

	// Close releases the remote handle
	Close() error
}
