// Package backup writes and reads whole-list session backups: the JSON file
// used for export/import, and an iCalendar feed for calendar apps.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/KirkDiggler/lenslink/internal/models"
)

var (
	// ErrNotAnArray is returned when a backup is valid JSON but not a list
	ErrNotAnArray = errors.New("backup must be a JSON array of sessions")

	// ErrInvalidBackup is returned when a backup cannot be read as sessions
	ErrInvalidBackup = errors.New("backup file is not valid")
)

// FileName returns the suggested name of a backup taken on day
func FileName(day time.Time) string {
	return fmt.Sprintf("colabos_manolakos_backup_%s.json", day.Format(models.DateLayout))
}

// ExportJSON writes the list as an indented JSON array
func ExportJSON(w io.Writer, sessions []*models.Session) error {
	if sessions == nil {
		sessions = []*models.Session{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sessions); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	return nil
}

// ImportJSON reads a backup. The document must be an array; every entry is
// normalized and validated, and IDs must be unique.
func ImportJSON(r io.Reader) ([]*models.Session, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if !json.Valid(trimmed) {
		return nil, ErrInvalidBackup
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotAnArray
	}

	var sessions []*models.Session
	if err := json.Unmarshal(trimmed, &sessions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	seen := make(map[string]bool, len(sessions))
	for i, s := range sessions {
		if s == nil {
			return nil, fmt.Errorf("%w: entry %d is null", ErrInvalidBackup, i)
		}
		s.Normalize()
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidBackup, i, err)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("%w: duplicate session ID %s", ErrInvalidBackup, s.ID)
		}
		seen[s.ID] = true
	}

	if sessions == nil {
		sessions = []*models.Session{}
	}
	return sessions, nil
}
