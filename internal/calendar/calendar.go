// Package calendar lays out the month grid used by every surface: leading
// blank cells up to the first weekday, one cell per day, and the markers for
// today, the selected day and days that have sessions.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KirkDiggler/lenslink/internal/models"
)

// WeekStart is the first column of the grid
type WeekStart string

const (
	Monday WeekStart = "monday"
	Sunday WeekStart = "sunday"
)

// ErrInvalidMonth is returned for a month outside 1..12
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// Cell is one day of the grid. Blank leading cells have Day == 0.
type Cell struct {
	Date        string `json:"date,omitempty"`
	Day         int    `json:"day"`
	Today       bool   `json:"today"`
	Selected    bool   `json:"selected"`
	HasSessions bool   `json:"hasSessions"`
}

// Blank reports whether the cell is padding before the first day
func (c Cell) Blank() bool {
	return c.Day == 0
}

// Month is a rendered month
type Month struct {
	Year      int        `json:"year"`
	Month     time.Month `json:"month"`
	WeekStart WeekStart  `json:"weekStart"`
	Cells     []Cell     `json:"cells"`
}

// Options controls the markers of a month
type Options struct {
	WeekStart WeekStart

	// Today is the YYYY-MM-DD date to mark as today
	Today string

	// Selected is the YYYY-MM-DD date to mark as selected
	Selected string

	Sessions []*models.Session
}

// DaysInMonth returns the number of days of month in year, leap years
// included
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LeadingBlanks returns how many empty cells precede day 1
func LeadingBlanks(year int, month time.Month, start WeekStart) int {
	weekday := int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
	if start == Sunday {
		return weekday
	}
	// Monday first: Sunday moves to the last column
	return (weekday + 6) % 7
}

// Build lays out the month grid
func Build(year int, month time.Month, opts Options) (*Month, error) {
	if month < time.January || month > time.December {
		return nil, ErrInvalidMonth
	}

	start := opts.WeekStart
	if start != Sunday {
		start = Monday
	}

	busy := make(map[string]bool, len(opts.Sessions))
	for _, s := range opts.Sessions {
		busy[s.Date] = true
	}

	blanks := LeadingBlanks(year, month, start)
	days := DaysInMonth(year, month)

	m := &Month{
		Year:      year,
		Month:     month,
		WeekStart: start,
		Cells:     make([]Cell, 0, blanks+days),
	}
	for i := 0; i < blanks; i++ {
		m.Cells = append(m.Cells, Cell{})
	}
	for d := 1; d <= days; d++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, int(month), d)
		m.Cells = append(m.Cells, Cell{
			Date:        date,
			Day:         d,
			Today:       date == opts.Today,
			Selected:    date == opts.Selected,
			HasSessions: busy[date],
		})
	}

	return m, nil
}

// Weeks splits the cells into rows of seven. The last row is not padded.
func (m *Month) Weeks() [][]Cell {
	var weeks [][]Cell
	for i := 0; i < len(m.Cells); i += 7 {
		end := i + 7
		if end > len(m.Cells) {
			end = len(m.Cells)
		}
		weeks = append(weeks, m.Cells[i:end])
	}
	return weeks
}

// Prev returns the year and month before m
func (m *Month) Prev() (int, time.Month) {
	t := time.Date(m.Year, m.Month-1, 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// Next returns the year and month after m
func (m *Month) Next() (int, time.Month) {
	t := time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// Render draws the grid as fixed-width text, five columns per day. Days with
// sessions carry a *, today is wrapped in brackets.
func (m *Month) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %d\n", m.Month, m.Year)

	header := []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}
	if m.WeekStart == Sunday {
		header = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
	}
	for _, h := range header {
		fmt.Fprintf(&b, " %-3s ", h)
	}
	b.WriteString("\n")

	for _, week := range m.Weeks() {
		for _, c := range week {
			b.WriteString(cellText(c))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func cellText(c Cell) string {
	if c.Blank() {
		return "     "
	}

	mark := " "
	if c.HasSessions {
		mark = "*"
	}
	if c.Today {
		return fmt.Sprintf("[%2d%s]", c.Day, mark)
	}
	return fmt.Sprintf(" %2d%s ", c.Day, mark)
}
