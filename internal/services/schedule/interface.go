package schedule

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/lenslink/internal/services/schedule Service

import "context"

// Service is the single entry point the CLI, HTTP API and Discord bot use to
// read and change the session list
type Service interface {
	// Load refreshes the in-memory list from the authoritative store and
	// mirrors it locally once no local session awaits migration
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)

	// Create validates and stores a new session
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)

	// Delete removes a session once the caller has confirmed
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)

	// ListSessions returns the in-memory list, optionally for one day
	ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error)

	// GetSession returns one session by ID
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)

	// Upcoming returns sessions dated today or later
	Upcoming(ctx context.Context, input *UpcomingInput) (*UpcomingOutput, error)

	// Import replaces the whole list with a backup
	Import(ctx context.Context, input *ImportInput) (*ImportOutput, error)

	// TestConnection checks candidate remote credentials and reloads on success
	TestConnection(ctx context.Context, input *TestConnectionInput) (*TestConnectionOutput, error)

	// MigrateToCloud copies local sessions to the remote store and reloads
	MigrateToCloud(ctx context.Context, input *MigrateToCloudInput) (*MigrateToCloudOutput, error)

	// Provision creates the remote sessions table
	Provision(ctx context.Context, input *ProvisionInput) error

	// Status reports sync state and list size
	Status(ctx context.Context, input *StatusInput) (*StatusOutput, error)
}
