package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/swim-lesson-gateway/internal/dto"
	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	"github.com/noah-isme/swim-lesson-gateway/internal/service"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
	"github.com/noah-isme/swim-lesson-gateway/pkg/response"
)

type lessonService interface {
	InstructorWeek(ctx context.Context, principal models.Principal, session *models.Session, rawDate string, mine bool) (models.WeeklyLessons, error)
	StudentWeek(ctx context.Context, principal models.Principal, session *models.Session, rawDate string, instructorIDs []string) (models.WeeklyLessons, error)
	Create(ctx context.Context, principal models.Principal, session *models.Session, req dto.CreateLessonRequest) (json.RawMessage, error)
	Delete(ctx context.Context, principal models.Principal, session *models.Session, lessonID string) error
	Leave(ctx context.Context, principal models.Principal, session *models.Session, lessonID string) error
	MatchStudents(ctx context.Context, principal models.Principal, session *models.Session, style, lessonType string) ([]models.MatchedStudent, error)
}

type scheduleExporter interface {
	WeeklySchedule(ctx context.Context, principal models.Principal, session *models.Session, rawDate, rawFormat string) (*service.ExportFile, error)
}

// LessonHandler exposes the lesson calendars.
type LessonHandler struct {
	service  lessonService
	exporter scheduleExporter
}

// NewLessonHandler builds a new handler.
func NewLessonHandler(service lessonService, exporter scheduleExporter) *LessonHandler {
	return &LessonHandler{service: service, exporter: exporter}
}

// InstructorWeek godoc
// @Summary Weekly lessons for instructors
// @Tags Lessons
// @Produce json
// @Param date query string false "YYYY-MM-DD (defaults to today)"
// @Param mine query bool false "Only the caller's lessons"
// @Success 200 {object} response.Envelope
// @Router /lessons/weekly [get]
func (h *LessonHandler) InstructorWeek(c *gin.Context) {
	mine, _ := strconv.ParseBool(c.DefaultQuery("mine", "true"))
	week, err := h.service.InstructorWeek(c.Request.Context(), principalFromContext(c), sessionFromContext(c), c.Query("date"), mine)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// StudentWeek godoc
// @Summary Weekly lessons of the calling student
// @Tags Lessons
// @Produce json
// @Param date query string false "YYYY-MM-DD (defaults to today)"
// @Param instructor_id query []string false "Instructor filter"
// @Success 200 {object} response.Envelope
// @Router /lessons/student-weekly [get]
func (h *LessonHandler) StudentWeek(c *gin.Context) {
	week, err := h.service.StudentWeek(c.Request.Context(), principalFromContext(c), sessionFromContext(c), c.Query("date"), queryList(c, "instructor_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// Create godoc
// @Summary Schedule a lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param payload body dto.CreateLessonRequest true "Lesson"
// @Success 201 {object} response.Envelope
// @Router /lessons [post]
func (h *LessonHandler) Create(c *gin.Context) {
	var req dto.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lesson payload"))
		return
	}
	created, err := h.service.Create(c.Request.Context(), principalFromContext(c), sessionFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Delete godoc
// @Summary Delete a lesson
// @Tags Lessons
// @Param id path string true "Lesson ID"
// @Success 204
// @Router /lessons/{id} [delete]
func (h *LessonHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), principalFromContext(c), sessionFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Leave godoc
// @Summary Leave a lesson
// @Tags Lessons
// @Param id path string true "Lesson ID"
// @Success 204
// @Router /students/me/lessons/{id} [delete]
func (h *LessonHandler) Leave(c *gin.Context) {
	if err := h.service.Leave(c.Request.Context(), principalFromContext(c), sessionFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// MatchStudents godoc
// @Summary Students compatible with a lesson
// @Tags Lessons
// @Produce json
// @Param style query string true "Swimming style"
// @Param type query string true "private or group"
// @Success 200 {object} response.Envelope
// @Router /students/match [get]
func (h *LessonHandler) MatchStudents(c *gin.Context) {
	students, err := h.service.MatchStudents(c.Request.Context(), principalFromContext(c), sessionFromContext(c), c.Query("style"), c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Export godoc
// @Summary Download the week's lessons
// @Tags Lessons
// @Produce text/csv
// @Produce application/pdf
// @Param date query string false "YYYY-MM-DD (defaults to today)"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /lessons/weekly/export [get]
func (h *LessonHandler) Export(c *gin.Context) {
	file, err := h.exporter.WeeklySchedule(c.Request.Context(), principalFromContext(c), sessionFromContext(c), c.Query("date"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Payload)
}
