package models

import (
	"fmt"
	"sort"
	"time"
)

const (
	// DateLayout is the layout of Session.Date
	DateLayout = "2006-01-02"

	// TimeLayout is the layout of Session.Time
	TimeLayout = "15:04"
)

// ValidationError is returned when a session breaks one of its invariants
type ValidationError string

// Error implements the error interface
func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingID   ValidationError = "session ID cannot be empty"
	ErrInvalidDate ValidationError = "session date must be a valid YYYY-MM-DD date"
	ErrInvalidTime ValidationError = "session time must be a valid HH:mm time"
)

// Session is one scheduled creative photo shoot
type Session struct {
	// ID is the opaque unique identifier, assigned at creation and never changed
	ID string `json:"id"`

	// Title is the name of the session
	Title string `json:"title"`

	// Date is the calendar day of the session, YYYY-MM-DD
	Date string `json:"date"`

	// Time is the start time of the session, HH:mm. Display only.
	Time string `json:"time"`

	// Location is where the session takes place
	Location string `json:"location"`

	// Photographer is the member in the photographer slot
	Photographer Member `json:"photographer"`

	// Model is the member in the model slot
	Model Member `json:"model"`

	// MUA is the member in the makeup artist slot
	MUA Member `json:"mua"`

	// Description holds the concept notes for the session
	Description string `json:"description"`

	// CreatedAt is the creation time in epoch milliseconds. Informational only.
	CreatedAt int64 `json:"createdAt"`
}

// Normalize stamps each member with the role of the slot it occupies
func (s *Session) Normalize() {
	s.Photographer.Role = RolePhotographer
	s.Model.Role = RoleModel
	s.MUA.Role = RoleMUA
}

// Validate checks the identity and date invariants of a session
func (s *Session) Validate() error {
	if s.ID == "" {
		return ErrMissingID
	}

	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, s.Date)
	}

	if s.Time != "" {
		if _, err := time.Parse(TimeLayout, s.Time); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTime, s.Time)
		}
	}

	return nil
}

// Day returns the session date as a time in the given location
func (s *Session) Day(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, s.Date, loc)
}

// StartsAt returns the session start (date and time) in the given location.
// A session without a time starts at midnight.
func (s *Session) StartsAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if s.Time == "" {
		return s.Day(loc)
	}
	return time.ParseInLocation(DateLayout+" "+TimeLayout, s.Date+" "+s.Time, loc)
}

// DisplayDate returns the date as DD-MM-YYYY
func (s *Session) DisplayDate() string {
	day, err := s.Day(time.UTC)
	if err != nil {
		return s.Date
	}
	return day.Format("02-01-2006")
}

// Clone returns a copy of the session
func (s *Session) Clone() *Session {
	c := *s
	return &c
}

// SortByDate orders sessions ascending by date. The sort is stable, so
// sessions sharing a date keep their relative order. Dates are ISO strings,
// which order lexicographically.
func SortByDate(sessions []*Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Date < sessions[j].Date
	})
}
