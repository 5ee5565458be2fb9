package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/swim-lesson-gateway/internal/dto"
	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
	"github.com/noah-isme/swim-lesson-gateway/pkg/timeslot"
)

// Directory paging limits.
const (
	DefaultInstructorPageSize = 4
	MaxInstructorPageSize     = 50
)

type availabilityUpstream interface {
	ListInstructors(ctx context.Context, token string, page, limit int) (*models.InstructorPage, error)
	GetInstructor(ctx context.Context, token, id string) (*models.Instructor, error)
	AvailableHours(ctx context.Context, token, instructorID, date string) ([]timeslot.Window, error)
	WeeklyAvailability(ctx context.Context, token string, q WeeklyAvailabilityQuery) ([]models.WeeklyAvailability, error)
}

// AvailabilityService builds instructor timelines and time pickers.
type AvailabilityService struct {
	upstream  availabilityUpstream
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(upstream availabilityUpstream, cache *CacheService, validate *validator.Validate, loc *time.Location, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{upstream: upstream, cache: cache, validator: validate, logger: logger, loc: loc, now: time.Now}
}

// ListInstructors returns one page of the instructor directory.
func (s *AvailabilityService) ListInstructors(ctx context.Context, principal models.Principal, page, limit int) ([]models.Instructor, *models.Pagination, bool, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultInstructorPageSize
	}
	if limit > MaxInstructorPageSize {
		limit = MaxInstructorPageSize
	}

	key := fmt.Sprintf(cacheKeyInstructorPage, page, limit)
	result, hit, err := remember(ctx, s.cache, key, func() (models.InstructorPage, error) {
		p, err := s.upstream.ListInstructors(ctx, principal.Token, page, limit)
		if err != nil {
			return models.InstructorPage{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, nil, false, err
	}

	instructors := result.Instructors
	if instructors == nil {
		instructors = []models.Instructor{}
	}
	pagination := &models.Pagination{
		Page:       page,
		PageSize:   limit,
		TotalCount: result.Total,
		TotalPages: (result.Total + limit - 1) / limit,
	}
	return instructors, pagination, hit, nil
}

// Instructor returns an instructor profile with weekly working hours.
func (s *AvailabilityService) Instructor(ctx context.Context, principal models.Principal, id string) (*models.Instructor, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "instructor id is required")
	}
	key := fmt.Sprintf(cacheKeyInstructor, id)
	inst, hit, err := remember(ctx, s.cache, key, func() (models.Instructor, error) {
		found, err := s.upstream.GetInstructor(ctx, principal.Token, id)
		if err != nil {
			return models.Instructor{}, err
		}
		return *found, nil
	})
	if err != nil {
		return nil, false, err
	}
	return &inst, hit, nil
}

// Timeline lays the instructor's free hours on rawDate over a 15-minute grid
// spanning the instructor's working hours for that weekday.
func (s *AvailabilityService) Timeline(ctx context.Context, principal models.Principal, instructorID, rawDate string) (*dto.TimelineResponse, bool, error) {
	date, err := parseDate(rawDate, s.loc, s.now)
	if err != nil {
		return nil, false, err
	}
	inst, hit, err := s.Instructor(ctx, principal, instructorID)
	if err != nil {
		return nil, false, err
	}

	day := timeslot.DayOfWeek(date)
	outer := timeslot.WindowsForDay(inst.AvailableHours, day)

	declared, err := s.upstream.AvailableHours(ctx, principal.Token, inst.ID, date.Format(dateLayout))
	if err != nil {
		return nil, hit, err
	}

	free := make([]timeslot.Window, 0, len(declared))
	labels := make([]string, 0, len(declared))
	for _, w := range declared {
		if !w.Valid() {
			s.logger.Debug("ignoring malformed free window", zap.String("instructor_id", inst.ID), zap.String("window", w.String()))
			continue
		}
		free = append(free, w)
		labels = append(labels, w.String())
	}

	return &dto.TimelineResponse{
		InstructorID: inst.ID,
		Date:         date.Format(dateLayout),
		Day:          day,
		Slots:        timeslot.BuildTimeline(free, outer),
		FreeHours:    labels,
		FreeWindows:  free,
	}, hit, nil
}

// TimePicker lists the grid times selectable inside [start, end].
func (s *AvailabilityService) TimePicker(start, end string, granularity int) dto.TimePickerResponse {
	times := timeslot.SlotsBetween(strings.TrimSpace(start), strings.TrimSpace(end), granularity)
	resp := dto.TimePickerResponse{Times: times}
	if len(times) > 0 {
		resp.DefaultStart = times[0]
		resp.DefaultEnd = times[len(times)-1]
	}
	return resp
}

// DayOptions lists every quarter hour of a day.
func (s *AvailabilityService) DayOptions() []string {
	return timeslot.DayOptions()
}

// WeeklyAvailability searches instructors' free time in the week of req.Date.
// Students searching without styles get their preferred styles.
func (s *AvailabilityService) WeeklyAvailability(ctx context.Context, principal models.Principal, session *models.Session, req dto.WeeklyAvailabilityRequest) ([]models.WeeklyAvailability, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability search")
	}
	date, err := parseDate(req.Date, s.loc, s.now)
	if err != nil {
		return nil, err
	}

	styles := req.Styles
	if len(styles) == 0 && session != nil {
		styles = session.PreferredStyles
	}

	result, err := s.upstream.WeeklyAvailability(ctx, principal.Token, WeeklyAvailabilityQuery{
		Date:          date,
		Styles:        styles,
		InstructorIDs: req.InstructorIDs,
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []models.WeeklyAvailability{}
	}
	return result, nil
}
