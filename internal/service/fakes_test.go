package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
	"github.com/noah-isme/swim-lesson-gateway/pkg/timeslot"
)

// fakeUpstream records the calls made against the lesson service.
type fakeUpstream struct {
	mu sync.Mutex

	instructors map[string]models.Instructor
	page        models.InstructorPage
	freeHours   []timeslot.Window
	weekly      []models.WeeklyAvailability
	week        models.WeeklyLessons
	matches     []models.MatchedStudent
	requests    []models.LessonRequest
	err         error

	calls          map[string]int
	lastDate       time.Time
	lastMine       bool
	lastInstructor string
	lastWeeklyQ    WeeklyAvailabilityQuery
	lastStudentQ   StudentWeeklyQuery
	lastLesson     LessonPayload
	lastRequest    LessonRequestPayload
	lastFilter     LessonRequestFilter
	lastIDs        []string
	lastRole       models.UserRole
	lastPayload    interface{}
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{instructors: map[string]models.Instructor{}, calls: map[string]int{}}
}

func (f *fakeUpstream) record(op string, ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	f.lastIDs = ids
}

func (f *fakeUpstream) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeUpstream) ListInstructors(_ context.Context, _ string, _, _ int) (*models.InstructorPage, error) {
	f.record("ListInstructors")
	if f.err != nil {
		return nil, f.err
	}
	page := f.page
	return &page, nil
}

func (f *fakeUpstream) GetInstructor(_ context.Context, _ string, id string) (*models.Instructor, error) {
	f.record("GetInstructor", id)
	if f.err != nil {
		return nil, f.err
	}
	inst, ok := f.instructors[id]
	if !ok {
		return nil, errNotFoundUpstream
	}
	return &inst, nil
}

func (f *fakeUpstream) AvailableHours(_ context.Context, _ string, instructorID, date string) ([]timeslot.Window, error) {
	f.record("AvailableHours", instructorID, date)
	return f.freeHours, f.err
}

func (f *fakeUpstream) WeeklyAvailability(_ context.Context, _ string, q WeeklyAvailabilityQuery) ([]models.WeeklyAvailability, error) {
	f.record("WeeklyAvailability")
	f.lastWeeklyQ = q
	return f.weekly, f.err
}

func (f *fakeUpstream) WeeklyLessons(_ context.Context, _ string, date time.Time, instructorID string, sorted bool) (models.WeeklyLessons, error) {
	f.record("WeeklyLessons", instructorID)
	f.lastDate, f.lastMine = date, sorted
	return f.week, f.err
}

func (f *fakeUpstream) StudentWeeklyLessons(_ context.Context, _ string, q StudentWeeklyQuery) (models.WeeklyLessons, error) {
	f.record("StudentWeeklyLessons", q.StudentID)
	f.lastStudentQ = q
	return f.week, f.err
}

func (f *fakeUpstream) CreateLesson(_ context.Context, _ string, payload LessonPayload) (json.RawMessage, error) {
	f.record("CreateLesson")
	f.lastLesson = payload
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"_id":"lesson-1"}`), nil
}

func (f *fakeUpstream) DeleteLesson(_ context.Context, _ string, id string) error {
	f.record("DeleteLesson", id)
	return f.err
}

func (f *fakeUpstream) LeaveLesson(_ context.Context, _ string, studentID, lessonID string) error {
	f.record("LeaveLesson", studentID, lessonID)
	return f.err
}

func (f *fakeUpstream) MatchStudents(_ context.Context, _ string, _, _ string) ([]models.MatchedStudent, error) {
	f.record("MatchStudents")
	return f.matches, f.err
}

func (f *fakeUpstream) ListLessonRequests(_ context.Context, _ string, filter LessonRequestFilter) ([]models.LessonRequest, error) {
	f.record("ListLessonRequests")
	f.lastFilter = filter
	return f.requests, f.err
}

func (f *fakeUpstream) CreateLessonRequest(_ context.Context, _ string, payload LessonRequestPayload) (json.RawMessage, error) {
	f.record("CreateLessonRequest")
	f.lastRequest = payload
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"_id":"request-1"}`), nil
}

func (f *fakeUpstream) CancelPrivateRequest(_ context.Context, _ string, id string) error {
	f.record("CancelPrivateRequest", id)
	return f.err
}

func (f *fakeUpstream) LeaveGroupRequest(_ context.Context, _ string, id, studentID string) error {
	f.record("LeaveGroupRequest", id, studentID)
	return f.err
}

func (f *fakeUpstream) Register(_ context.Context, _ string, role models.UserRole, payload interface{}) (json.RawMessage, error) {
	f.record("Register")
	f.lastRole, f.lastPayload = role, payload
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"_id":"profile-1"}`), nil
}

func (f *fakeUpstream) UpdateInstructor(_ context.Context, _ string, id string, payload interface{}) (json.RawMessage, error) {
	f.record("UpdateInstructor", id)
	f.lastPayload = payload
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"_id":"` + id + `"}`), nil
}

func (f *fakeUpstream) UpdateStudent(_ context.Context, _ string, id string, payload interface{}) (json.RawMessage, error) {
	f.record("UpdateStudent", id)
	f.lastPayload = payload
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"_id":"` + id + `"}`), nil
}

var errNotFoundUpstream = appErrors.Clone(appErrors.ErrNotFound, "instructor not found")

var fixedNow = func() time.Time { return time.Date(2024, time.June, 5, 15, 0, 0, 0, time.UTC) }

func studentSession() *models.Session {
	return &models.Session{ID: "sess-stu", UserID: "user-1", ProfileID: "stu-1", Role: models.RoleStudent, PreferredStyles: []string{"freestyle"}}
}

func instructorSession() *models.Session {
	return &models.Session{ID: "sess-ins", UserID: "user-2", ProfileID: "ins-1", Role: models.RoleInstructor}
}
