package backup

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/KirkDiggler/lenslink/internal/models"
	ical "github.com/arran4/golang-ical"
)

// DefaultDuration is the length given to a timed session in the feed
const DefaultDuration = 2 * time.Hour

// ICSOptions controls the iCalendar export
type ICSOptions struct {
	// Location is the zone session dates and times are in. Defaults to UTC.
	Location *time.Location

	// Duration of a timed session. Defaults to DefaultDuration.
	Duration time.Duration

	// Now stamps DTSTAMP. Defaults to the current time.
	Now time.Time
}

// ExportICS writes one VEVENT per session. Sessions without a time become
// all-day events.
func ExportICS(w io.Writer, sessions []*models.Session, opts ICSOptions) error {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	duration := opts.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//LensLink//Colabos//EN")
	cal.SetXWRCalName("Colabos")
	cal.SetXWRTimezone(loc.String())

	for _, s := range sessions {
		event := cal.AddEvent(s.ID)
		event.SetDtStampTime(now)
		event.SetSummary(s.Title)
		if s.Location != "" {
			event.SetLocation(s.Location)
		}
		if desc := eventDescription(s); desc != "" {
			event.SetDescription(desc)
		}
		if s.CreatedAt > 0 {
			event.SetCreatedTime(time.UnixMilli(s.CreatedAt))
		}

		if s.Time == "" {
			day, err := s.Day(loc)
			if err != nil {
				return fmt.Errorf("failed to export session %s: %w", s.ID, err)
			}
			event.SetAllDayStartAt(day)
			event.SetAllDayEndAt(day.AddDate(0, 0, 1))
			continue
		}

		start, err := s.StartsAt(loc)
		if err != nil {
			return fmt.Errorf("failed to export session %s: %w", s.ID, err)
		}
		event.SetStartAt(start)
		event.SetEndAt(start.Add(duration))
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}

	return nil
}

func eventDescription(s *models.Session) string {
	var lines []string
	if s.Description != "" {
		lines = append(lines, s.Description, "")
	}
	for _, m := range []models.Member{s.Photographer, s.Model, s.MUA} {
		if m.Name == "" {
			continue
		}
		line := fmt.Sprintf("%s: %s", m.Role, m.Name)
		if m.Handle() != "" {
			line += " " + m.InstagramURL()
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
