package session

import "github.com/KirkDiggler/lenslink/internal/models"

type GetAllInput struct {
}

type GetAllOutput struct {
	Sessions []*models.Session
}

type UpsertInput struct {
	Session *models.Session
}

type DeleteByIDInput struct {
	ID string
}

// DialInput carries the remote store credentials. Key is the password for
// redis and postgres URLs.
type DialInput struct {
	URL string
	Key string
}
