package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/swim-lesson-gateway/internal/dto"
	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
)

func TestRegisterStudent(t *testing.T) {
	up := newFakeUpstream()
	svc := NewProfileService(up, nil, nil, nil, nil)

	req := dto.RegisterStudentRequest{
		FirstName:        "Ada",
		LastName:         "Swim",
		PreferredStyles:  []string{"freestyle"},
		LessonPreference: "both_prefer_group",
	}
	_, err := svc.RegisterStudent(context.Background(), studentPrincipal, req)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, up.lastRole)
	assert.Equal(t, req, up.lastPayload)

	req.PreferredStyles = nil
	_, err = svc.RegisterStudent(context.Background(), studentPrincipal, req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestRegisterInstructorChecksWorkingHours(t *testing.T) {
	up := newFakeUpstream()
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	require.NoError(t, cache.Set(context.Background(), "instructors:page:1:4", models.InstructorPage{}, 0))
	svc := NewProfileService(up, nil, cache, nil, nil)

	req := dto.RegisterInstructorRequest{
		Name:      "Dana",
		Expertise: []string{"butterfly"},
		AvailableHours: []dto.WorkingHour{
			{Day: "Monday", Start: "09:00", End: "12:00"},
		},
	}
	_, err := svc.RegisterInstructor(context.Background(), instructorPrincipal, req)
	require.NoError(t, err)
	assert.Equal(t, models.RoleInstructor, up.lastRole)
	assert.Contains(t, repo.deleted, "instructors:page:1:4")

	req.AvailableHours = append(req.AvailableHours, dto.WorkingHour{Day: "Tuesday", Start: "12:00", End: "11:00"})
	_, err = svc.RegisterInstructor(context.Background(), instructorPrincipal, req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	req.AvailableHours = []dto.WorkingHour{{Day: "Funday", Start: "09:00", End: "10:00"}}
	_, err = svc.RegisterInstructor(context.Background(), instructorPrincipal, req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, 1, up.count("Register"))
}

func TestUpdateProfileUsesSessionProfile(t *testing.T) {
	session := studentSession()
	sessions := newScopedSessions(t, session, "MyCalendar")
	up := newFakeUpstream()
	svc := NewProfileService(up, sessions, nil, nil, nil)

	_, err := svc.UpdateStudent(context.Background(), studentPrincipal, session, dto.UpdateStudentRequest{LessonPreference: "private"})
	require.NoError(t, err)
	assert.Equal(t, []string{"stu-1"}, up.lastIDs)
	assertRearmed(t, sessions, session, "MyCalendar")

	_, err = svc.UpdateInstructor(context.Background(), studentPrincipal, session, dto.UpdateInstructorRequest{Name: "x"})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.UpdateInstructor(context.Background(), instructorPrincipal, instructorSession(), dto.UpdateInstructorRequest{
		AvailableHours: []dto.WorkingHour{{Day: "Friday", Start: "10:00", End: "10:00"}},
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Zero(t, up.count("UpdateInstructor"))
}
