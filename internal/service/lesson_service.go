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

type lessonUpstream interface {
	WeeklyLessons(ctx context.Context, token string, date time.Time, instructorID string, sorted bool) (models.WeeklyLessons, error)
	StudentWeeklyLessons(ctx context.Context, token string, q StudentWeeklyQuery) (models.WeeklyLessons, error)
	CreateLesson(ctx context.Context, token string, payload LessonPayload) (json.RawMessage, error)
	DeleteLesson(ctx context.Context, token, id string) error
	LeaveLesson(ctx context.Context, token, studentID, lessonID string) error
	MatchStudents(ctx context.Context, token, style, lessonType string) ([]models.MatchedStudent, error)
}

// LessonService covers the instructor and student lesson calendars.
type LessonService struct {
	upstream  lessonUpstream
	effects   mutationEffects
	validator *validator.Validate
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewLessonService constructs a LessonService.
func NewLessonService(upstream lessonUpstream, sessions *SessionService, cache *CacheService, validate *validator.Validate, loc *time.Location, logger *zap.Logger) *LessonService {
	if validate == nil {
		validate = validator.New()
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonService{
		upstream:  upstream,
		effects:   mutationEffects{sessions: sessions, cache: cache},
		validator: validate,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
	}
}

// InstructorWeek returns the lessons in the week of rawDate. With mine set
// only the caller's lessons are listed.
func (s *LessonService) InstructorWeek(ctx context.Context, principal models.Principal, session *models.Session, rawDate string, mine bool) (models.WeeklyLessons, error) {
	if err := requireRole(session, models.RoleInstructor); err != nil {
		return nil, err
	}
	date, err := parseDate(rawDate, s.loc, s.now)
	if err != nil {
		return nil, err
	}
	return s.upstream.WeeklyLessons(ctx, principal.Token, date, session.ProfileID, mine)
}

// StudentWeek returns the caller's lessons in the week of rawDate,
// optionally restricted to some instructors.
func (s *LessonService) StudentWeek(ctx context.Context, principal models.Principal, session *models.Session, rawDate string, instructorIDs []string) (models.WeeklyLessons, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return nil, err
	}
	date, err := parseDate(rawDate, s.loc, s.now)
	if err != nil {
		return nil, err
	}
	return s.upstream.StudentWeeklyLessons(ctx, principal.Token, StudentWeeklyQuery{
		Date:          date,
		StudentID:     session.ProfileID,
		InstructorIDs: compactIDs(instructorIDs),
	})
}

// Create schedules a lesson taught by the calling instructor.
func (s *LessonService) Create(ctx context.Context, principal models.Principal, session *models.Session, req dto.CreateLessonRequest) (json.RawMessage, error) {
	if err := requireRole(session, models.RoleInstructor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}
	start, end, err := lessonWindow(req.Date, req.StartTime, req.EndTime, s.loc)
	if err != nil {
		return nil, err
	}

	created, err := s.upstream.CreateLesson(ctx, principal.Token, LessonPayload{
		Instructor: session.ProfileID,
		Students:   compactIDs(req.Students),
		Style:      req.Style,
		Type:       req.Type,
		StartTime:  start,
		EndTime:    end,
	})
	if err != nil {
		return nil, err
	}
	s.effects.apply(ctx, session)
	s.logger.Info("lesson created", zap.String("instructor_id", session.ProfileID), zap.Time("start", start))
	return created, nil
}

// Delete removes a lesson of the calling instructor.
func (s *LessonService) Delete(ctx context.Context, principal models.Principal, session *models.Session, lessonID string) error {
	if err := requireRole(session, models.RoleInstructor); err != nil {
		return err
	}
	if strings.TrimSpace(lessonID) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "lesson id is required")
	}
	if err := s.upstream.DeleteLesson(ctx, principal.Token, lessonID); err != nil {
		return err
	}
	s.effects.apply(ctx, session)
	return nil
}

// Leave removes the calling student from a lesson.
func (s *LessonService) Leave(ctx context.Context, principal models.Principal, session *models.Session, lessonID string) error {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return err
	}
	if strings.TrimSpace(lessonID) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "lesson id is required")
	}
	if err := s.upstream.LeaveLesson(ctx, principal.Token, session.ProfileID, lessonID); err != nil {
		return err
	}
	s.effects.apply(ctx, session)
	return nil
}

// MatchStudents lists students compatible with style and lessonType, never
// including the caller.
func (s *LessonService) MatchStudents(ctx context.Context, principal models.Principal, session *models.Session, style, lessonType string) ([]models.MatchedStudent, error) {
	if session == nil {
		return nil, appErrors.ErrSessionNotFound
	}
	if err := s.validator.Var(style, "required,oneof=freestyle breaststroke butterfly backstroke"); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "style is invalid")
	}
	if err := s.validator.Var(lessonType, "required,oneof=private group"); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "type must be private or group")
	}

	students, err := s.upstream.MatchStudents(ctx, principal.Token, style, lessonType)
	if err != nil {
		return nil, err
	}
	out := make([]models.MatchedStudent, 0, len(students))
	for _, st := range students {
		if st.StudentID == session.ProfileID {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

// lessonWindow combines a YYYY-MM-DD date with HH:MM bounds.
func lessonWindow(rawDate, startClock, endClock string, loc *time.Location) (time.Time, time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(rawDate), loc)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date must be formatted as YYYY-MM-DD")
	}
	start, err := timeslot.Combine(date, startClock, loc)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "start_time must be HH:MM")
	}
	end, err := timeslot.Combine(date, endClock, loc)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end_time must be HH:MM")
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}
	return start, end, nil
}

// compactIDs trims ids and drops blanks and duplicates, keeping order.
func compactIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
