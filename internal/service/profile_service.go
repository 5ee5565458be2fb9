package service

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/swim-lesson-gateway/internal/dto"
	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
	"github.com/noah-isme/swim-lesson-gateway/pkg/timeslot"
)

type profileUpstream interface {
	Register(ctx context.Context, token string, role models.UserRole, payload interface{}) (json.RawMessage, error)
	UpdateInstructor(ctx context.Context, token, id string, payload interface{}) (json.RawMessage, error)
	UpdateStudent(ctx context.Context, token, id string, payload interface{}) (json.RawMessage, error)
}

// ProfileService registers callers and edits their profiles.
type ProfileService struct {
	upstream  profileUpstream
	effects   mutationEffects
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(upstream profileUpstream, sessions *SessionService, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		upstream:  upstream,
		effects:   mutationEffects{sessions: sessions, cache: cache},
		validator: validate,
		logger:    logger,
	}
}

// RegisterStudent creates the caller's student profile.
func (s *ProfileService) RegisterStudent(ctx context.Context, principal models.Principal, req dto.RegisterStudentRequest) (json.RawMessage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student registration")
	}
	created, err := s.upstream.Register(ctx, principal.Token, models.RoleStudent, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("student registered", zap.String("user_id", principal.UserID))
	return created, nil
}

// RegisterInstructor creates the caller's instructor profile.
func (s *ProfileService) RegisterInstructor(ctx context.Context, principal models.Principal, req dto.RegisterInstructorRequest) (json.RawMessage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor registration")
	}
	if err := validateWorkingHours(req.AvailableHours); err != nil {
		return nil, err
	}
	created, err := s.upstream.Register(ctx, principal.Token, models.RoleInstructor, req)
	if err != nil {
		return nil, err
	}
	_ = s.effects.cache.Invalidate(ctx, cacheInstructorPattern)
	s.logger.Info("instructor registered", zap.String("user_id", principal.UserID))
	return created, nil
}

// UpdateStudent edits the caller's student profile.
func (s *ProfileService) UpdateStudent(ctx context.Context, principal models.Principal, session *models.Session, req dto.UpdateStudentRequest) (json.RawMessage, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student profile")
	}
	updated, err := s.upstream.UpdateStudent(ctx, principal.Token, session.ProfileID, req)
	if err != nil {
		return nil, err
	}
	s.effects.apply(ctx, session)
	return updated, nil
}

// UpdateInstructor edits the caller's instructor profile.
func (s *ProfileService) UpdateInstructor(ctx context.Context, principal models.Principal, session *models.Session, req dto.UpdateInstructorRequest) (json.RawMessage, error) {
	if err := requireRole(session, models.RoleInstructor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor profile")
	}
	if err := validateWorkingHours(req.AvailableHours); err != nil {
		return nil, err
	}
	updated, err := s.upstream.UpdateInstructor(ctx, principal.Token, session.ProfileID, req)
	if err != nil {
		return nil, err
	}
	s.effects.apply(ctx, session)
	return updated, nil
}

func validateWorkingHours(hours []dto.WorkingHour) error {
	for _, h := range hours {
		if !(timeslot.Window{Start: h.Start, End: h.End}).Valid() {
			return appErrors.Clone(appErrors.ErrValidation, "working hours on "+h.Day+" must start before they end")
		}
	}
	return nil
}
