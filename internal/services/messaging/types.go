package messaging

import (
	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/KirkDiggler/lenslink/internal/services/cloudsync"
)

// ServiceConfig holds configuration for the messaging service
type ServiceConfig struct {
	// Signature closes every share message. Defaults to DefaultSignature.
	Signature string

	// Seed makes message selection repeatable; zero seeds from the clock
	Seed int64
}

// DefaultSignature is the closing line of a share message
const DefaultSignature = "_Generated with LensLink_"

// GetShareMessageInput contains parameters for getting a share message
type GetShareMessageInput struct {
	Session *models.Session
}

// GetShareMessageOutput contains the share text
type GetShareMessageOutput struct {
	Message string
}

// GetStatusMessageInput contains parameters for getting a status message
type GetStatusMessageInput struct {
	Status  cloudsync.Status
	Backend string
	Count   int
}

// GetStatusMessageOutput contains the status line
type GetStatusMessageOutput struct {
	Message string
}

// GetEmptyDayMessageInput contains parameters for getting an empty day message
type GetEmptyDayMessageInput struct {
	// Date is the YYYY-MM-DD day that has no sessions
	Date string
}

// GetEmptyDayMessageOutput contains the empty day message
type GetEmptyDayMessageOutput struct {
	Message string
}
