package models

import (
	"time"

	"github.com/noah-isme/swim-lesson-gateway/pkg/refresh"
)

// Session is a signed-in refresh scope.
type Session struct {
	ID              string                   `json:"session_id"`
	UserID          string                   `json:"user_id"`
	ProfileID       string                   `json:"profile_id,omitempty"`
	Role            UserRole                 `json:"role"`
	PreferredStyles []string                 `json:"preferred_styles,omitempty"`
	Screens         map[string]refresh.State `json:"screens"`
	CreatedAt       time.Time                `json:"created_at"`
}
