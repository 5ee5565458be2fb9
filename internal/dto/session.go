package dto

import (
	"encoding/json"

	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	"github.com/noah-isme/swim-lesson-gateway/pkg/refresh"
)

// OpenSessionResponse is returned when a refresh scope is created.
type OpenSessionResponse struct {
	SessionID string                   `json:"session_id"`
	Role      models.UserRole          `json:"role"`
	ProfileID string                   `json:"profile_id,omitempty"`
	Details   json.RawMessage          `json:"details,omitempty"`
	Screens   map[string]refresh.State `json:"screens"`
}

// FocusResponse tells the client whether the focused screen should refetch.
type FocusResponse struct {
	Screen  string `json:"screen"`
	Refresh bool   `json:"refresh"`
}
