package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/swim-lesson-gateway/internal/dto"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
)

func newRequestService(up *fakeUpstream, sessions *SessionService) *RequestService {
	svc := NewRequestService(up, sessions, nil, nil, time.UTC, nil)
	svc.now = fixedNow
	return svc
}

func TestListRequestsCoversWeek(t *testing.T) {
	up := newFakeUpstream()
	svc := newRequestService(up, nil)

	got, err := svc.List(context.Background(), studentPrincipal, studentSession(), "", []string{"pending", "approved"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, []string{"stu-1"}, up.lastFilter.Students)
	assert.Equal(t, []string{"pending", "approved"}, up.lastFilter.Status)
	assert.Equal(t, time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC), up.lastFilter.StartTime)
	assert.Equal(t, time.Saturday, up.lastFilter.EndTime.Weekday())

	_, err = svc.List(context.Background(), studentPrincipal, studentSession(), "", []string{"lost"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.List(context.Background(), instructorPrincipal, instructorSession(), "", nil)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestCreateRequestPutsCallerFirst(t *testing.T) {
	session := studentSession()
	sessions := newScopedSessions(t, session, "showMyRequests", "requestLesson")
	up := newFakeUpstream()
	svc := newRequestService(up, sessions)

	_, err := svc.Create(context.Background(), studentPrincipal, session, dto.CreateLessonRequestRequest{
		InstructorID: "ins-1",
		Date:         "2024-06-07",
		StartTime:    "16:00",
		EndTime:      "16:45",
		Style:        "backstroke",
		Type:         "group",
		Students:     []string{"stu-3", " ", "stu-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"stu-1", "stu-3"}, up.lastRequest.Students)
	assert.Equal(t, "pending", up.lastRequest.Status)
	assert.Equal(t, "ins-1", up.lastRequest.Instructor)
	assert.Equal(t, time.Date(2024, time.June, 7, 16, 0, 0, 0, time.UTC), up.lastRequest.StartTime)
	assertRearmed(t, sessions, session, "showMyRequests")
	assertRearmed(t, sessions, session, "requestLesson")
}

func TestCreatePrivateRequestRejectsOtherStudents(t *testing.T) {
	up := newFakeUpstream()
	svc := newRequestService(up, nil)

	_, err := svc.Create(context.Background(), studentPrincipal, studentSession(), dto.CreateLessonRequestRequest{
		InstructorID: "ins-1",
		Date:         "2024-06-07",
		StartTime:    "16:00",
		EndTime:      "16:45",
		Style:        "backstroke",
		Type:         "private",
		Students:     []string{"stu-3"},
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Zero(t, up.count("CreateLessonRequest"))
}

func TestCancelRequestByType(t *testing.T) {
	up := newFakeUpstream()
	svc := newRequestService(up, nil)
	ctx := context.Background()

	require.NoError(t, svc.Cancel(ctx, studentPrincipal, studentSession(), "req-1", "group"))
	assert.Equal(t, 1, up.count("LeaveGroupRequest"))
	assert.Equal(t, []string{"req-1", "stu-1"}, up.lastIDs)

	require.NoError(t, svc.Cancel(ctx, studentPrincipal, studentSession(), "req-2", "Private"))
	assert.Equal(t, 1, up.count("CancelPrivateRequest"))
	assert.Equal(t, []string{"req-2"}, up.lastIDs)

	assert.ErrorIs(t, svc.Cancel(ctx, studentPrincipal, studentSession(), "req-3", ""), appErrors.ErrValidation)
	assert.ErrorIs(t, svc.Cancel(ctx, studentPrincipal, studentSession(), "", "group"), appErrors.ErrValidation)
}
