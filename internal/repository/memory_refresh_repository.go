package repository

import (
	"context"
	"sync"
	"time"

	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
	"github.com/noah-isme/swim-lesson-gateway/pkg/refresh"
)

type memoryScope struct {
	session   models.Session
	tracker   *refresh.Tracker
	expiresAt time.Time
}

// MemoryRefreshRepository keeps refresh scopes in process memory. Suitable
// for a single gateway replica.
type MemoryRefreshRepository struct {
	mu     sync.Mutex
	scopes map[string]*memoryScope
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryRefreshRepository constructs the repository. A ttl of zero keeps scopes until closed.
func NewMemoryRefreshRepository(ttl time.Duration) *MemoryRefreshRepository {
	return &MemoryRefreshRepository{
		scopes: make(map[string]*memoryScope),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Open creates or replaces the scope for session, seeded with screens.
func (r *MemoryRefreshRepository) Open(_ context.Context, session models.Session, screens []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session.Screens = nil
	r.scopes[session.ID] = &memoryScope{
		session:   session,
		tracker:   refresh.NewTracker(screens...),
		expiresAt: r.deadline(),
	}
	return nil
}

// Get returns the session with a snapshot of its screens.
func (r *MemoryRefreshRepository) Get(_ context.Context, id string) (*models.Session, error) {
	scope, err := r.touch(id)
	if err != nil {
		return nil, err
	}
	session := scope.session
	session.Screens = scope.tracker.Snapshot()
	return &session, nil
}

// Claim consumes the refresh authorisation of screen.
func (r *MemoryRefreshRepository) Claim(_ context.Context, id, screen string) (bool, error) {
	scope, err := r.touch(id)
	if err != nil {
		return false, err
	}
	return scope.tracker.CanUpdate(screen), nil
}

// Reset marks every screen of the scope as needing a refresh.
func (r *MemoryRefreshRepository) Reset(_ context.Context, id string) error {
	scope, err := r.touch(id)
	if err != nil {
		return err
	}
	scope.tracker.ResetUpdates()
	return nil
}

// Close destroys the scope.
func (r *MemoryRefreshRepository) Close(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	scope, ok := r.scopes[id]
	if !ok || r.expired(scope) {
		delete(r.scopes, id)
		return appErrors.ErrSessionNotFound
	}
	delete(r.scopes, id)
	return nil
}

// Purge drops expired scopes and returns how many were removed.
func (r *MemoryRefreshRepository) Purge() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, scope := range r.scopes {
		if r.expired(scope) {
			delete(r.scopes, id)
			removed++
		}
	}
	return removed
}

func (r *MemoryRefreshRepository) touch(id string) (*memoryScope, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	scope, ok := r.scopes[id]
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	if r.expired(scope) {
		delete(r.scopes, id)
		return nil, appErrors.ErrSessionNotFound
	}
	scope.expiresAt = r.deadline()
	return scope, nil
}

func (r *MemoryRefreshRepository) deadline() time.Time {
	if r.ttl <= 0 {
		return time.Time{}
	}
	return r.now().Add(r.ttl)
}

func (r *MemoryRefreshRepository) expired(scope *memoryScope) bool {
	return !scope.expiresAt.IsZero() && !r.now().Before(scope.expiresAt)
}
