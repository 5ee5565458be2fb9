package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
	"github.com/noah-isme/swim-lesson-gateway/pkg/middleware/requestid"
	"github.com/noah-isme/swim-lesson-gateway/pkg/timeslot"
)

const maxErrorBody = 64 << 10

// UpstreamClient talks to the remote swimming-pool API.
type UpstreamClient struct {
	baseURL    string
	httpClient *http.Client
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewUpstreamClient constructs the client. A nil httpClient gets a client with timeout.
func NewUpstreamClient(baseURL string, timeout time.Duration, httpClient *http.Client, metrics *MetricsService, logger *zap.Logger) *UpstreamClient {
	if httpClient == nil {
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpstreamClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		metrics:    metrics,
		logger:     logger,
	}
}

type upstreamCall struct {
	op     string
	method string
	path   string
	token  string
	query  url.Values
	body   interface{}
}

func (c *UpstreamClient) do(ctx context.Context, call upstreamCall, out interface{}) error {
	endpoint := c.baseURL + call.path
	if len(call.query) > 0 {
		endpoint += "?" + call.query.Encode()
	}

	var body io.Reader
	if call.body != nil {
		payload, err := json.Marshal(call.body)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", call.op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, call.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", call.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if call.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if call.token != "" {
		req.Header.Set("Authorization", "Bearer "+call.token)
	}
	if reqID := requestid.FromContext(ctx); reqID != "" {
		req.Header.Set(requestid.Header, reqID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(call.op, 0, time.Since(start))
		c.logger.Warn("lesson service unreachable", zap.String("operation", call.op), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, appErrors.ErrUpstream.Message)
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream(call.op, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.mapStatus(call.op, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "malformed lesson service response")
	}
	return nil
}

// mapStatus turns a non-2xx response into a gateway error. Client errors
// keep the upstream message; everything else becomes UPSTREAM_ERROR.
func (c *UpstreamClient) mapStatus(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &payload)
	message := payload.Error
	if message == "" {
		message = payload.Message
	}

	var base *appErrors.Error
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		base = appErrors.ErrValidation
	case http.StatusUnauthorized:
		base = appErrors.ErrUnauthorized
	case http.StatusForbidden:
		base = appErrors.ErrForbidden
	case http.StatusNotFound:
		base = appErrors.ErrNotFound
	case http.StatusConflict:
		base = appErrors.ErrConflict
	default:
		c.logger.Error("lesson service failure",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message),
		)
		err := fmt.Errorf("%s: upstream status %d: %s", op, resp.StatusCode, message)
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, appErrors.ErrUpstream.Message)
	}
	return appErrors.Clone(base, message)
}

// GetState resolves the registration state of the token's user.
func (c *UpstreamClient) GetState(ctx context.Context, token string) (*models.UserStateResponse, error) {
	var out models.UserStateResponse
	err := c.do(ctx, upstreamCall{op: "get_state", method: http.MethodGet, path: "/api/users/getState", token: token}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates the student or instructor profile of the token's user.
func (c *UpstreamClient) Register(ctx context.Context, token string, role models.UserRole, payload interface{}) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, upstreamCall{op: "register", method: http.MethodPost, path: "/api/users/register/" + url.PathEscape(string(role)), token: token, body: payload}, &out)
	return out, err
}

// ListInstructors returns one page of the instructor directory.
func (c *UpstreamClient) ListInstructors(ctx context.Context, token string, page, limit int) (*models.InstructorPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	var out models.InstructorPage
	if err := c.do(ctx, upstreamCall{op: "list_instructors", method: http.MethodGet, path: "/api/instructors", token: token, query: query}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetInstructor returns an instructor with weekly working hours.
func (c *UpstreamClient) GetInstructor(ctx context.Context, token, id string) (*models.Instructor, error) {
	var out models.Instructor
	if err := c.do(ctx, upstreamCall{op: "get_instructor", method: http.MethodGet, path: "/api/instructors/" + url.PathEscape(id), token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AvailableHours returns the free windows of an instructor on date (YYYY-MM-DD).
func (c *UpstreamClient) AvailableHours(ctx context.Context, token, instructorID, date string) ([]timeslot.Window, error) {
	query := url.Values{}
	query.Set("instructorId", instructorID)
	query.Set("date", date)
	var out models.AvailableHoursResponse
	if err := c.do(ctx, upstreamCall{op: "available_hours", method: http.MethodGet, path: "/api/instructors/available-hours", token: token, query: query}, &out); err != nil {
		return nil, err
	}
	return out.AvailableHours, nil
}

// WeeklyAvailability searches the free hours of instructors over a week.
func (c *UpstreamClient) WeeklyAvailability(ctx context.Context, token string, q WeeklyAvailabilityQuery) ([]models.WeeklyAvailability, error) {
	var out models.WeeklyAvailabilityResponse
	if err := c.do(ctx, upstreamCall{op: "weekly_availability", method: http.MethodPost, path: "/api/instructors/weekly-available-hours", token: token, body: q}, &out); err != nil {
		return nil, err
	}
	return out.WeeklyAvailability, nil
}

// UpdateInstructor edits an instructor profile.
func (c *UpstreamClient) UpdateInstructor(ctx context.Context, token, id string, payload interface{}) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, upstreamCall{op: "update_instructor", method: http.MethodPut, path: "/api/instructors/" + url.PathEscape(id), token: token, body: payload}, &out)
	return out, err
}

// UpdateStudent edits a student profile.
func (c *UpstreamClient) UpdateStudent(ctx context.Context, token, id string, payload interface{}) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, upstreamCall{op: "update_student", method: http.MethodPut, path: "/api/students/" + url.PathEscape(id), token: token, body: payload}, &out)
	return out, err
}

// MatchStudents lists students compatible with a style and lesson type.
func (c *UpstreamClient) MatchStudents(ctx context.Context, token, style, lessonType string) ([]models.MatchedStudent, error) {
	query := url.Values{}
	query.Set("style", style)
	query.Set("type", lessonType)
	var out []models.MatchedStudent
	if err := c.do(ctx, upstreamCall{op: "match_students", method: http.MethodGet, path: "/api/students/match", token: token, query: query}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WeeklyLessons returns the lessons of the week around date. When sorted is
// set only the lessons of instructorID are returned.
func (c *UpstreamClient) WeeklyLessons(ctx context.Context, token string, date time.Time, instructorID string, sorted bool) (models.WeeklyLessons, error) {
	query := url.Values{}
	query.Set("date", date.UTC().Format(time.RFC3339))
	if instructorID != "" {
		query.Set("instructorId", instructorID)
	}
	if sorted {
		query.Set("sort", "true")
	}
	out := models.WeeklyLessons{}
	if err := c.do(ctx, upstreamCall{op: "weekly_lessons", method: http.MethodGet, path: "/api/lessons/weekly", token: token, query: query}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StudentWeeklyLessons returns a student's lessons over the week around the query date.
func (c *UpstreamClient) StudentWeeklyLessons(ctx context.Context, token string, q StudentWeeklyQuery) (models.WeeklyLessons, error) {
	out := models.WeeklyLessons{}
	if err := c.do(ctx, upstreamCall{op: "student_weekly_lessons", method: http.MethodPost, path: "/api/lessons/student-weekly", token: token, body: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateLesson schedules a lesson.
func (c *UpstreamClient) CreateLesson(ctx context.Context, token string, payload LessonPayload) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, upstreamCall{op: "create_lesson", method: http.MethodPost, path: "/api/lessons", token: token, body: payload}, &out)
	return out, err
}

// DeleteLesson removes a lesson.
func (c *UpstreamClient) DeleteLesson(ctx context.Context, token, id string) error {
	return c.do(ctx, upstreamCall{op: "delete_lesson", method: http.MethodDelete, path: "/api/lessons/" + url.PathEscape(id), token: token}, nil)
}

// LeaveLesson removes a student from a lesson.
func (c *UpstreamClient) LeaveLesson(ctx context.Context, token, studentID, lessonID string) error {
	path := fmt.Sprintf("/api/students/%s/lessons/%s", url.PathEscape(studentID), url.PathEscape(lessonID))
	return c.do(ctx, upstreamCall{op: "leave_lesson", method: http.MethodDelete, path: path, token: token}, nil)
}

// ListLessonRequests searches lesson requests.
func (c *UpstreamClient) ListLessonRequests(ctx context.Context, token string, filter LessonRequestFilter) ([]models.LessonRequest, error) {
	var out models.LessonRequestList
	if err := c.do(ctx, upstreamCall{op: "list_lesson_requests", method: http.MethodPost, path: "/api/lesson-requests/all", token: token, body: filter}, &out); err != nil {
		return nil, err
	}
	return out.LessonRequests, nil
}

// CreateLessonRequest files a lesson request.
func (c *UpstreamClient) CreateLessonRequest(ctx context.Context, token string, payload LessonRequestPayload) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, upstreamCall{op: "create_lesson_request", method: http.MethodPost, path: "/api/lesson-requests", token: token, body: payload}, &out)
	return out, err
}

// CancelPrivateRequest deletes a private lesson request.
func (c *UpstreamClient) CancelPrivateRequest(ctx context.Context, token, id string) error {
	return c.do(ctx, upstreamCall{op: "cancel_lesson_request", method: http.MethodDelete, path: "/api/lesson-requests/" + url.PathEscape(id), token: token}, nil)
}

// LeaveGroupRequest removes a student from a group lesson request.
func (c *UpstreamClient) LeaveGroupRequest(ctx context.Context, token, id, studentID string) error {
	path := fmt.Sprintf("/api/lesson-requests/%s/students/%s", url.PathEscape(id), url.PathEscape(studentID))
	return c.do(ctx, upstreamCall{op: "leave_lesson_request", method: http.MethodDelete, path: path, token: token}, nil)
}
