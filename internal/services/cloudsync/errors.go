package cloudsync

// SyncError is a custom error type for sync-related errors
type SyncError string

// Error implements the error interface
func (e SyncError) Error() string {
	return string(e)
}

const (
	ErrNotConnected     SyncError = "remote store is not connected"
	ErrNothingToMigrate SyncError = "no local sessions to migrate"
	ErrNotConfigured    SyncError = "remote store credentials are not configured"
	ErrNilConfig        SyncError = "config cannot be nil"
	ErrNilLocalStore    SyncError = "local store cannot be nil"
	ErrNilDialer        SyncError = "remote dialer cannot be nil"
	ErrNilInput         SyncError = "input cannot be nil"
)
