package session

import "errors"

var (
	// ErrMissingTable is returned when the remote store has not been provisioned
	ErrMissingTable = errors.New("sessions table does not exist")

	// ErrPermissionDenied is returned when the remote store rejects the credentials
	// or the operation
	ErrPermissionDenied = errors.New("permission denied by remote store")

	// ErrUnsupportedScheme is returned for a remote URL no backend understands
	ErrUnsupportedScheme = errors.New("unsupported remote store URL scheme")
)

func validateUpsert(input *UpsertInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}
	return nil
}

func validateDelete(input *DeleteByIDInput) error {
	if input == nil || input.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	return nil
}
