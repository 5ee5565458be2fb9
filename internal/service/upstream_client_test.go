package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
	"github.com/noah-isme/swim-lesson-gateway/pkg/middleware/requestid"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	auth   string
	reqID  string
	body   []byte
}

func newUpstream(t *testing.T, status int, response string) (*UpstreamClient, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.auth = r.Header.Get("Authorization")
		rec.reqID = r.Header.Get(requestid.Header)
		rec.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return NewUpstreamClient(srv.URL+"/", time.Second, nil, NewMetricsService(), nil), rec
}

func TestUpstreamGetState(t *testing.T) {
	client, rec := newUpstream(t, http.StatusOK, `{"state":1,"details":{"_id":"stu-1","preferredStyles":["freestyle"]}}`)
	ctx := requestid.WithValue(context.Background(), "req-1")

	state, err := client.GetState(ctx, "tok")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/api/users/getState", rec.path)
	assert.Equal(t, "Bearer tok", rec.auth)
	assert.Equal(t, "req-1", rec.reqID)
	assert.Equal(t, models.UserStateStudent, state.State)
	assert.Equal(t, "stu-1", state.DetailsID())
	assert.Equal(t, []string{"freestyle"}, state.PreferredStyles())
}

func TestUpstreamListInstructorsQuery(t *testing.T) {
	client, rec := newUpstream(t, http.StatusOK, `{"instructors":[{"_id":"i1","name":"Dana"}],"total":9}`)

	page, err := client.ListInstructors(context.Background(), "tok", 2, 4)
	require.NoError(t, err)

	assert.Equal(t, "/api/instructors", rec.path)
	assert.Equal(t, "limit=4&page=2", rec.query)
	assert.Equal(t, 9, page.Total)
	require.Len(t, page.Instructors, 1)
	assert.Equal(t, "Dana", page.Instructors[0].Name)
}

func TestUpstreamAvailableHours(t *testing.T) {
	client, rec := newUpstream(t, http.StatusOK, `{"availableHours":[{"start":"09:00","end":"10:00"}]}`)

	windows, err := client.AvailableHours(context.Background(), "tok", "i1", "2024-06-05")
	require.NoError(t, err)

	assert.Equal(t, "/api/instructors/available-hours", rec.path)
	assert.Equal(t, "date=2024-06-05&instructorId=i1", rec.query)
	require.Len(t, windows, 1)
	assert.Equal(t, "09:00", windows[0].Start)
}

func TestUpstreamCreateLessonBody(t *testing.T) {
	client, rec := newUpstream(t, http.StatusCreated, `{"_id":"l1"}`)
	start := time.Date(2024, time.June, 5, 9, 0, 0, 0, time.UTC)

	out, err := client.CreateLesson(context.Background(), "tok", LessonPayload{
		Instructor: "i1",
		Students:   []string{"s1"},
		Style:      "freestyle",
		Type:       "private",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"l1"}`, string(out))

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "i1", sent["instructor"])
	assert.Equal(t, "2024-06-05T09:00:00Z", sent["startTime"])
	assert.Equal(t, "2024-06-05T10:00:00Z", sent["endTime"])
}

func TestUpstreamDeletePaths(t *testing.T) {
	client, rec := newUpstream(t, http.StatusNoContent, "")
	ctx := context.Background()

	require.NoError(t, client.LeaveGroupRequest(ctx, "tok", "r1", "s1"))
	assert.Equal(t, "/api/lesson-requests/r1/students/s1", rec.path)
	assert.Equal(t, http.MethodDelete, rec.method)

	require.NoError(t, client.CancelPrivateRequest(ctx, "tok", "r2"))
	assert.Equal(t, "/api/lesson-requests/r2", rec.path)

	require.NoError(t, client.LeaveLesson(ctx, "tok", "s1", "l1"))
	assert.Equal(t, "/api/students/s1/lessons/l1", rec.path)
}

func TestUpstreamWeeklyLessonsQuery(t *testing.T) {
	client, rec := newUpstream(t, http.StatusOK, `{"Monday":{"date":"2024-06-03","lessons":[]}}`)
	date := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)

	week, err := client.WeeklyLessons(context.Background(), "tok", date, "i1", true)
	require.NoError(t, err)

	assert.Equal(t, "date=2024-06-05T00%3A00%3A00Z&instructorId=i1&sort=true", rec.query)
	assert.Equal(t, "2024-06-03", week["Monday"].Date)
}

func TestUpstreamClientErrorsKeepMessage(t *testing.T) {
	cases := []struct {
		status int
		want   *appErrors.Error
	}{
		{http.StatusBadRequest, appErrors.ErrValidation},
		{http.StatusUnauthorized, appErrors.ErrUnauthorized},
		{http.StatusForbidden, appErrors.ErrForbidden},
		{http.StatusNotFound, appErrors.ErrNotFound},
		{http.StatusConflict, appErrors.ErrConflict},
	}
	for _, tc := range cases {
		client, _ := newUpstream(t, tc.status, `{"error":"Instructor is not available"}`)

		_, err := client.CreateLesson(context.Background(), "tok", LessonPayload{})
		require.Error(t, err)
		assert.ErrorIs(t, err, tc.want)
		appErr := appErrors.FromError(err)
		assert.Equal(t, tc.want.Status, appErr.Status)
		assert.Equal(t, "Instructor is not available", appErr.Message)
	}
}

func TestUpstreamServerErrorBecomesBadGateway(t *testing.T) {
	client, _ := newUpstream(t, http.StatusInternalServerError, `{"error":"database exploded"}`)

	_, err := client.GetState(context.Background(), "tok")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErr.Code)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
	assert.NotContains(t, appErr.Message, "database exploded")
}

func TestUpstreamUnreachable(t *testing.T) {
	client := NewUpstreamClient("http://127.0.0.1:1", 100*time.Millisecond, nil, nil, nil)

	_, err := client.GetState(context.Background(), "tok")
	assert.ErrorIs(t, err, appErrors.ErrUpstream)
}

func TestUpstreamMalformedBody(t *testing.T) {
	client, _ := newUpstream(t, http.StatusOK, `{"state":`)

	_, err := client.GetState(context.Background(), "tok")
	assert.ErrorIs(t, err, appErrors.ErrUpstream)
}
