package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/swim-lesson-gateway/internal/dto"
	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
	"github.com/noah-isme/swim-lesson-gateway/pkg/export"
	"github.com/noah-isme/swim-lesson-gateway/pkg/timeslot"
)

type weekSource interface {
	InstructorWeek(ctx context.Context, principal models.Principal, session *models.Session, rawDate string, mine bool) (models.WeeklyLessons, error)
	StudentWeek(ctx context.Context, principal models.Principal, session *models.Session, rawDate string, instructorIDs []string) (models.WeeklyLessons, error)
}

// ExportFile is a rendered schedule ready to be streamed to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

var lessonExportHeaders = []string{"Day", "Date", "Start", "End", "Style", "Type", "Instructor", "Students"}

// ExportService renders the caller's weekly schedule as a downloadable file.
type ExportService struct {
	lessons weekSource
	loc     *time.Location
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(lessons weekSource, loc *time.Location, logger *zap.Logger) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{lessons: lessons, loc: loc, logger: logger, now: time.Now}
}

// WeeklySchedule exports the week containing rawDate. Instructors get their
// own lessons, students the lessons they attend.
func (s *ExportService) WeeklySchedule(ctx context.Context, principal models.Principal, session *models.Session, rawDate, rawFormat string) (*ExportFile, error) {
	if session == nil {
		return nil, appErrors.ErrSessionNotFound
	}
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	date, err := parseDate(rawDate, s.loc, s.now)
	if err != nil {
		return nil, err
	}
	day := date.Format(dateLayout)

	var week models.WeeklyLessons
	switch session.Role {
	case models.RoleInstructor:
		week, err = s.lessons.InstructorWeek(ctx, principal, session, day, true)
	case models.RoleStudent:
		week, err = s.lessons.StudentWeek(ctx, principal, session, day, nil)
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role cannot export schedules")
	}
	if err != nil {
		return nil, err
	}

	weekStart, _ := timeslot.WeekBounds(date)
	payload, err := export.Render(format, lessonDataset(LessonRows(week, s.loc), weekStart))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule")
	}

	s.logger.Info("schedule exported",
		zap.String("session_id", session.ID),
		zap.String("format", string(format)),
		zap.Int("bytes", len(payload)),
	)
	return &ExportFile{
		Filename:    fmt.Sprintf("lessons-%s.%s", weekStart.Format(dateLayout), format.Extension()),
		ContentType: format.ContentType(),
		Payload:     payload,
	}, nil
}

// LessonRows flattens a week into rows ordered by weekday and start time.
func LessonRows(week models.WeeklyLessons, loc *time.Location) []dto.LessonExportRow {
	if loc == nil {
		loc = time.UTC
	}
	rows := make([]dto.LessonExportRow, 0)
	for _, day := range models.Weekdays {
		entry, ok := week[day]
		if !ok {
			continue
		}
		lessons := append([]models.Lesson(nil), entry.Lessons...)
		sort.SliceStable(lessons, func(i, j int) bool {
			return lessons[i].StartTime.Before(lessons[j].StartTime)
		})
		for _, l := range lessons {
			start := l.StartTime.In(loc)
			date := entry.Date
			if date == "" {
				date = start.Format(dateLayout)
			}
			rows = append(rows, dto.LessonExportRow{
				Day:        day,
				Date:       date,
				Start:      start.Format("15:04"),
				End:        l.EndTime.In(loc).Format("15:04"),
				Style:      l.Style,
				Type:       string(l.Type),
				Instructor: l.InstructorName(),
				Students:   l.StudentCount(),
			})
		}
	}
	return rows
}

func lessonDataset(rows []dto.LessonExportRow, weekStart time.Time) export.Dataset {
	data := export.Dataset{
		Title:   "Lessons for the week of " + weekStart.Format(dateLayout),
		Headers: lessonExportHeaders,
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		data.Rows = append(data.Rows, []string{
			r.Day, r.Date, r.Start, r.End, r.Style, r.Type, r.Instructor, strconv.Itoa(r.Students),
		})
	}
	return data
}
