package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/swim-lesson-gateway/internal/dto"
	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
	"github.com/noah-isme/swim-lesson-gateway/pkg/refresh"
)

// RefreshScopeStore keeps one refresh tracker per session.
type RefreshScopeStore interface {
	Open(ctx context.Context, session models.Session, screens []string) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Claim(ctx context.Context, id, screen string) (bool, error)
	Reset(ctx context.Context, id string) error
	Close(ctx context.Context, id string) error
}

type stateResolver interface {
	GetState(ctx context.Context, token string) (*models.UserStateResponse, error)
}

// SessionConfig lists the screens seeded into a new scope per role.
type SessionConfig struct {
	StudentScreens    []string
	InstructorScreens []string
}

// SessionService manages the refresh scope of signed-in users.
type SessionService struct {
	store    RefreshScopeStore
	upstream stateResolver
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      SessionConfig
	now      func() time.Time
}

// NewSessionService constructs a SessionService.
func NewSessionService(store RefreshScopeStore, upstream stateResolver, metrics *MetricsService, cfg SessionConfig, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		store:    store,
		upstream: upstream,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Screens returns the default screens of role.
func (s *SessionService) Screens(role models.UserRole) []string {
	var screens []string
	switch role {
	case models.RoleStudent:
		screens = s.cfg.StudentScreens
	case models.RoleInstructor:
		screens = s.cfg.InstructorScreens
	}
	return append([]string(nil), screens...)
}

// Open resolves the caller's role and creates a fresh scope for it.
func (s *SessionService) Open(ctx context.Context, principal models.Principal) (*dto.OpenSessionResponse, error) {
	state, err := s.upstream.GetState(ctx, principal.Token)
	if err != nil {
		return nil, err
	}
	role, ok := state.State.Role()
	if !ok {
		return nil, appErrors.ErrNotRegistered
	}

	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    principal.UserID,
		ProfileID: state.DetailsID(),
		Role:      role,
		CreatedAt: s.now().UTC(),
	}
	if role == models.RoleStudent {
		session.PreferredStyles = state.PreferredStyles()
	}

	screens := s.Screens(role)
	if err := s.store.Open(ctx, session, screens); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open session")
	}

	snapshot := make(map[string]refresh.State, len(screens))
	for _, screen := range screens {
		snapshot[screen] = refresh.NeedsRefresh
	}

	s.logger.Info("session opened",
		zap.String("session_id", session.ID),
		zap.String("user_id", session.UserID),
		zap.String("role", string(role)),
	)

	return &dto.OpenSessionResponse{
		SessionID: session.ID,
		Role:      role,
		ProfileID: session.ProfileID,
		Details:   state.Details,
		Screens:   snapshot,
	}, nil
}

// Current returns the caller's session. Sessions of other users are reported as missing.
func (s *SessionService) Current(ctx context.Context, principal models.Principal, sessionID string) (*models.Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, appErrors.Clone(appErrors.ErrSessionNotFound, "session header is required")
	}
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != principal.UserID {
		return nil, appErrors.ErrSessionNotFound
	}
	return session, nil
}

// Focus reports whether screen should fetch now and consumes the authorisation.
func (s *SessionService) Focus(ctx context.Context, principal models.Principal, sessionID, screen string) (bool, error) {
	screen = strings.TrimSpace(screen)
	if screen == "" {
		return false, appErrors.Clone(appErrors.ErrValidation, "screen is required")
	}
	if _, err := s.Current(ctx, principal, sessionID); err != nil {
		return false, err
	}
	refreshed, err := s.store.Claim(ctx, sessionID, screen)
	if err != nil {
		return false, err
	}
	s.metrics.RecordRefreshGate(screen, refreshed)
	return refreshed, nil
}

// Reset marks every screen of the caller's scope as needing a refresh.
func (s *SessionService) Reset(ctx context.Context, principal models.Principal, sessionID string) error {
	if _, err := s.Current(ctx, principal, sessionID); err != nil {
		return err
	}
	return s.store.Reset(ctx, sessionID)
}

// Close destroys the caller's scope.
func (s *SessionService) Close(ctx context.Context, principal models.Principal, sessionID string) error {
	if _, err := s.Current(ctx, principal, sessionID); err != nil {
		return err
	}
	if err := s.store.Close(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info("session closed", zap.String("session_id", sessionID), zap.String("user_id", principal.UserID))
	return nil
}

// DataChanged resets the scope after a successful mutation. A missing
// scope is not an error since the mutation already happened.
func (s *SessionService) DataChanged(ctx context.Context, sessionID string) {
	if s == nil || sessionID == "" {
		return
	}
	if err := s.store.Reset(ctx, sessionID); err != nil {
		if errors.Is(err, appErrors.ErrSessionNotFound) {
			s.logger.Debug("reset skipped for missing session", zap.String("session_id", sessionID))
			return
		}
		s.logger.Warn("failed to reset refresh scope", zap.String("session_id", sessionID), zap.Error(err))
	}
}
