package service

import (
	"context"

	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
)

// mutationEffects runs after every successful write to the lesson service:
// the caller's screens must refetch and cached instructor reads are stale.
type mutationEffects struct {
	sessions *SessionService
	cache    *CacheService
}

func (e mutationEffects) apply(ctx context.Context, session *models.Session) {
	if session != nil {
		e.sessions.DataChanged(ctx, session.ID)
	}
	_ = e.cache.Invalidate(ctx, cacheInstructorPattern)
}

func requireRole(session *models.Session, role models.UserRole) error {
	if session == nil {
		return appErrors.ErrSessionNotFound
	}
	if session.Role != role {
		return appErrors.Clone(appErrors.ErrForbidden, "only "+string(role)+"s can do this")
	}
	if session.ProfileID == "" {
		return appErrors.Clone(appErrors.ErrNotRegistered, "session has no profile")
	}
	return nil
}
