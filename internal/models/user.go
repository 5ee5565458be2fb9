package models

import "encoding/json"

// UserRole enumerates the roles a signed-in user can act as.
type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleInstructor UserRole = "instructor"
)

// Valid reports whether the role is known.
func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleInstructor
}

// UserState is the registration state reported by the lesson service.
type UserState int

const (
	UserStateUnregistered UserState = 0
	UserStateStudent      UserState = 1
	UserStateInstructor   UserState = 2
)

// Role maps a registration state onto a role. ok is false when unregistered.
func (s UserState) Role() (UserRole, bool) {
	switch s {
	case UserStateStudent:
		return RoleStudent, true
	case UserStateInstructor:
		return RoleInstructor, true
	default:
		return "", false
	}
}

// UserStateResponse is returned by GET /api/users/getState.
type UserStateResponse struct {
	State   UserState       `json:"state"`
	ID      string          `json:"id,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
}

// DetailsID extracts the profile id from the raw details payload.
func (r UserStateResponse) DetailsID() string {
	if len(r.Details) == 0 {
		return r.ID
	}
	var probe struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(r.Details, &probe); err != nil || probe.ID == "" {
		return r.ID
	}
	return probe.ID
}

// PreferredStyles extracts a student's preferred styles from the details payload.
func (r UserStateResponse) PreferredStyles() []string {
	if len(r.Details) == 0 {
		return nil
	}
	var probe struct {
		PreferredStyles []string `json:"preferredStyles"`
	}
	if err := json.Unmarshal(r.Details, &probe); err != nil {
		return nil
	}
	return probe.PreferredStyles
}

// Pagination describes pagination metadata.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}
