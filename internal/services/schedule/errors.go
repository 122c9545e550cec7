package schedule

// ScheduleError is a custom error type for schedule-related errors
type ScheduleError string

// Error implements the error interface
func (e ScheduleError) Error() string {
	return string(e)
}

const (
	ErrConfirmationRequired ScheduleError = "deletion must be confirmed"
	ErrImportNotConfirmed   ScheduleError = "import replaces every session and must be confirmed"
	ErrSessionNotFound      ScheduleError = "session not found"
	ErrNilConfig            ScheduleError = "config cannot be nil"
	ErrNilSync              ScheduleError = "sync service cannot be nil"
	ErrNilClock             ScheduleError = "clock cannot be nil"
	ErrNilUUIDGenerator     ScheduleError = "UUID generator cannot be nil"
	ErrNilInput             ScheduleError = "input cannot be nil"
)
