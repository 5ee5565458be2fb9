package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/swim-lesson-gateway/internal/dto"
	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
	"github.com/noah-isme/swim-lesson-gateway/pkg/timeslot"
)

type requestUpstream interface {
	ListLessonRequests(ctx context.Context, token string, filter LessonRequestFilter) ([]models.LessonRequest, error)
	CreateLessonRequest(ctx context.Context, token string, payload LessonRequestPayload) (json.RawMessage, error)
	CancelPrivateRequest(ctx context.Context, token, id string) error
	LeaveGroupRequest(ctx context.Context, token, id, studentID string) error
}

// RequestService manages the lesson requests of the calling student.
type RequestService struct {
	upstream  requestUpstream
	effects   mutationEffects
	validator *validator.Validate
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewRequestService constructs a RequestService.
func NewRequestService(upstream requestUpstream, sessions *SessionService, cache *CacheService, validate *validator.Validate, loc *time.Location, logger *zap.Logger) *RequestService {
	if validate == nil {
		validate = validator.New()
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{
		upstream:  upstream,
		effects:   mutationEffects{sessions: sessions, cache: cache},
		validator: validate,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
	}
}

// List returns the caller's requests in the week of rawDate. An empty
// statuses slice selects every status.
func (s *RequestService) List(ctx context.Context, principal models.Principal, session *models.Session, rawDate string, statuses []string) ([]models.LessonRequest, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return nil, err
	}
	date, err := parseDate(rawDate, s.loc, s.now)
	if err != nil {
		return nil, err
	}
	statuses = compactIDs(statuses)
	if err := s.validator.Var(statuses, "omitempty,dive,oneof=pending approved rejected"); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be pending, approved or rejected")
	}

	start, end := timeslot.WeekBounds(date)
	requests, err := s.upstream.ListLessonRequests(ctx, principal.Token, LessonRequestFilter{
		Students:  []string{session.ProfileID},
		Status:    statuses,
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []models.LessonRequest{}
	}
	return requests, nil
}

// Create files a pending request. The caller is always the first student.
func (s *RequestService) Create(ctx context.Context, principal models.Principal, session *models.Session, req dto.CreateLessonRequestRequest) (json.RawMessage, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson request payload")
	}
	start, end, err := lessonWindow(req.Date, req.StartTime, req.EndTime, s.loc)
	if err != nil {
		return nil, err
	}

	students := compactIDs(append([]string{session.ProfileID}, req.Students...))
	if req.Type == string(models.LessonPrivate) && len(students) > 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "private lessons cannot include other students")
	}

	created, err := s.upstream.CreateLessonRequest(ctx, principal.Token, LessonRequestPayload{
		Instructor: req.InstructorID,
		Students:   students,
		Style:      req.Style,
		Type:       req.Type,
		StartTime:  start,
		EndTime:    end,
		Status:     string(models.RequestPending),
	})
	if err != nil {
		return nil, err
	}
	s.effects.apply(ctx, session)
	s.logger.Info("lesson request created",
		zap.String("student_id", session.ProfileID),
		zap.String("instructor_id", req.InstructorID),
	)
	return created, nil
}

// Cancel withdraws the caller from a request. Group requests keep the other
// students; private requests are deleted.
func (s *RequestService) Cancel(ctx context.Context, principal models.Principal, session *models.Session, requestID, lessonType string) error {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return err
	}
	if strings.TrimSpace(requestID) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "request id is required")
	}

	var err error
	switch models.LessonType(strings.ToLower(strings.TrimSpace(lessonType))) {
	case models.LessonGroup:
		err = s.upstream.LeaveGroupRequest(ctx, principal.Token, requestID, session.ProfileID)
	case models.LessonPrivate:
		err = s.upstream.CancelPrivateRequest(ctx, principal.Token, requestID)
	default:
		return appErrors.Clone(appErrors.ErrValidation, "type must be private or group")
	}
	if err != nil {
		return err
	}
	s.effects.apply(ctx, session)
	return nil
}
