package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
)

func sampleWeek() models.WeeklyLessons {
	return models.WeeklyLessons{
		"Wednesday": {Date: "2024-06-05", Lessons: []models.Lesson{
			{
				Style:      "butterfly",
				Type:       models.LessonGroup,
				StartTime:  time.Date(2024, time.June, 5, 11, 0, 0, 0, time.UTC),
				EndTime:    time.Date(2024, time.June, 5, 11, 45, 0, 0, time.UTC),
				Instructor: json.RawMessage(`{"_id":"ins-1","name":"Dana"}`),
				Students:   json.RawMessage(`["stu-1","stu-2"]`),
			},
			{
				Style:     "freestyle",
				Type:      models.LessonPrivate,
				StartTime: time.Date(2024, time.June, 5, 9, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2024, time.June, 5, 9, 45, 0, 0, time.UTC),
			},
		}},
		"Monday": {Lessons: []models.Lesson{{
			Style:     "backstroke",
			Type:      models.LessonPrivate,
			StartTime: time.Date(2024, time.June, 3, 8, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2024, time.June, 3, 8, 30, 0, 0, time.UTC),
		}}},
	}
}

func TestLessonRowsCalendarOrder(t *testing.T) {
	rows := LessonRows(sampleWeek(), time.UTC)

	require.Len(t, rows, 3)
	assert.Equal(t, "Monday", rows[0].Day)
	assert.Equal(t, "2024-06-03", rows[0].Date)
	assert.Equal(t, "09:00", rows[1].Start)
	assert.Equal(t, "11:00", rows[2].Start)
	assert.Equal(t, "Dana", rows[2].Instructor)
	assert.Equal(t, 2, rows[2].Students)
}

type fakeWeekSource struct {
	week        models.WeeklyLessons
	mine        bool
	studentWeek bool
	date        string
}

func (f *fakeWeekSource) InstructorWeek(_ context.Context, _ models.Principal, _ *models.Session, rawDate string, mine bool) (models.WeeklyLessons, error) {
	f.mine, f.date = mine, rawDate
	return f.week, nil
}

func (f *fakeWeekSource) StudentWeek(_ context.Context, _ models.Principal, _ *models.Session, rawDate string, _ []string) (models.WeeklyLessons, error) {
	f.studentWeek, f.date = true, rawDate
	return f.week, nil
}

func TestWeeklyScheduleCSV(t *testing.T) {
	src := &fakeWeekSource{week: sampleWeek()}
	svc := NewExportService(src, time.UTC, nil)
	svc.now = fixedNow

	file, err := svc.WeeklySchedule(context.Background(), instructorPrincipal, instructorSession(), "", "")
	require.NoError(t, err)
	assert.True(t, src.mine)
	assert.Equal(t, "2024-06-05", src.date)
	assert.Equal(t, "lessons-2024-06-02.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, lessonExportHeaders, records[0])
	assert.Equal(t, []string{"Wednesday", "2024-06-05", "11:00", "11:45", "butterfly", "group", "Dana", "2"}, records[3])
}

func TestWeeklySchedulePDFForStudent(t *testing.T) {
	src := &fakeWeekSource{week: sampleWeek()}
	svc := NewExportService(src, time.UTC, nil)

	file, err := svc.WeeklySchedule(context.Background(), studentPrincipal, studentSession(), "2024-06-05", "pdf")
	require.NoError(t, err)
	assert.True(t, src.studentWeek)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("%PDF")))

	_, err = svc.WeeklySchedule(context.Background(), studentPrincipal, studentSession(), "2024-06-05", "docx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	_, err = svc.WeeklySchedule(context.Background(), studentPrincipal, nil, "2024-06-05", "csv")
	assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)
}
