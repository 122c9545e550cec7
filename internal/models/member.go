package models

import "strings"

// Role is the fixed role tag of a team member. The role is implied by the
// slot a member occupies on a session and is never chosen by the user.
type Role string

const (
	// RolePhotographer is the role of the member in the photographer slot
	RolePhotographer Role = "Photographer"

	// RoleModel is the role of the member in the model slot
	RoleModel Role = "Model"

	// RoleMUA is the role of the member in the makeup artist slot
	RoleMUA Role = "Makeup Artist"
)

// Member is a named participant of a session
type Member struct {
	// Name is the display name of the member
	Name string `json:"name"`

	// Instagram is the member's instagram handle, with or without a leading @
	Instagram string `json:"instagram"`

	// Role is the fixed role tag for the slot this member occupies
	Role Role `json:"role"`
}

// Handle returns the instagram handle without a leading @
func (m Member) Handle() string {
	return strings.TrimPrefix(strings.TrimSpace(m.Instagram), "@")
}

// InstagramURL returns the profile link for the member's handle
func (m Member) InstagramURL() string {
	return "https://instagram.com/" + m.Handle()
}
