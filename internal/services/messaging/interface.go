package messaging

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/lenslink/internal/services/messaging Service

import "context"

// Service is the interface for the messaging service
type Service interface {
	// GetShareMessage returns the plain-text session summary that gets pasted
	// into a group chat
	GetShareMessage(ctx context.Context, input *GetShareMessageInput) (*GetShareMessageOutput, error)

	// GetStatusMessage returns a one-line description of the sync state
	GetStatusMessage(ctx context.Context, input *GetStatusMessageInput) (*GetStatusMessageOutput, error)

	// GetEmptyDayMessage returns a message for a day without sessions
	GetEmptyDayMessage(ctx context.Context, input *GetEmptyDayMessageInput) (*GetEmptyDayMessageOutput, error)
}
