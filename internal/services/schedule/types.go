package schedule

import (
	"time"

	"github.com/KirkDiggler/lenslink/internal/common/clock"
	"github.com/KirkDiggler/lenslink/internal/common/uuid"
	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/KirkDiggler/lenslink/internal/services/cloudsync"
)

// Config holds configuration for the schedule service
type Config struct {
	Sync          cloudsync.Service
	Clock         clock.Clock
	UUIDGenerator uuid.UUID

	// Location decides which day is "today". Nil keeps the clock's zone.
	Location *time.Location
}

type LoadInput struct {
}

type LoadOutput struct {
	Sessions []*models.Session
	Status   cloudsync.Status

	// Pending counts local sessions the remote store does not hold yet
	Pending int
}

type CreateInput struct {
	Session *models.Session
}

type CreateOutput struct {
	Session *models.Session

	// Persisted is false when the active store rejected the write. The
	// in-memory list is unchanged in that case.
	Persisted bool
}

type DeleteInput struct {
	ID        string
	Confirmed bool
}

type DeleteOutput struct {
	Persisted bool
}

type ListSessionsInput struct {
	// Date filters to one YYYY-MM-DD day when set
	Date string
}

type ListSessionsOutput struct {
	Sessions []*models.Session
}

type GetSessionInput struct {
	ID string
}

type GetSessionOutput struct {
	Session *models.Session
}

type UpcomingInput struct {
	// Limit caps the result, zero means no cap
	Limit int
}

type UpcomingOutput struct {
	Sessions []*models.Session
}

type ImportInput struct {
	Sessions  []*models.Session
	Confirmed bool
}

type ImportOutput struct {
	Imported int
}

type TestConnectionInput struct {
	URL string
	Key string
}

type TestConnectionOutput struct {
	Result *cloudsync.TestConnectionOutput

	// Sessions is the list reloaded after a successful test
	Sessions []*models.Session
	Status   cloudsync.Status
	Pending  int
}

type MigrateToCloudInput struct {
}

type MigrateToCloudOutput struct {
	Result   *cloudsync.MigrateToCloudOutput
	Sessions []*models.Session
	Status   cloudsync.Status
}

type ProvisionInput struct {
}

type StatusInput struct {
}

type StatusOutput struct {
	Status *cloudsync.StatusOutput
	Count  int
	Loaded bool
}
