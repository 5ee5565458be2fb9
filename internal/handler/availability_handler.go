package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/swim-lesson-gateway/internal/dto"
	"github.com/noah-isme/swim-lesson-gateway/internal/middleware"
	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
	"github.com/noah-isme/swim-lesson-gateway/pkg/response"
)

// Hints shown by the client when a result is empty.
const (
	HintNoAvailability   = "No availability"
	HintInvalidTimeRange = "Invalid time range"
)

type availabilityService interface {
	ListInstructors(ctx context.Context, principal models.Principal, page, limit int) ([]models.Instructor, *models.Pagination, bool, error)
	Instructor(ctx context.Context, principal models.Principal, id string) (*models.Instructor, bool, error)
	Timeline(ctx context.Context, principal models.Principal, instructorID, rawDate string) (*dto.TimelineResponse, bool, error)
	TimePicker(start, end string, granularity int) dto.TimePickerResponse
	DayOptions() []string
	WeeklyAvailability(ctx context.Context, principal models.Principal, session *models.Session, req dto.WeeklyAvailabilityRequest) ([]models.WeeklyAvailability, error)
}

// AvailabilityHandler serves instructor directories, timelines and time pickers.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler builds a new handler.
func NewAvailabilityHandler(service availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// ListInstructors godoc
// @Summary List instructors
// @Tags Availability
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size (default 4)"
// @Success 200 {object} response.Envelope
// @Router /instructors [get]
func (h *AvailabilityHandler) ListInstructors(c *gin.Context) {
	items, pagination, hit, err := h.service.ListInstructors(c.Request.Context(), principalFromContext(c), queryInt(c, "page", 1), queryInt(c, "limit", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, dto.InstructorListResponse{Instructors: items}, pagination, middleware.ExtractMeta(c))
}

// GetInstructor godoc
// @Summary Get an instructor with weekly working hours
// @Tags Availability
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id} [get]
func (h *AvailabilityHandler) GetInstructor(c *gin.Context) {
	inst, hit, err := h.service.Instructor(c.Request.Context(), principalFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, inst, nil, middleware.ExtractMeta(c))
}

// Timeline godoc
// @Summary Busy/free/partial 15-minute timeline of an instructor
// @Tags Availability
// @Produce json
// @Param id path string true "Instructor ID"
// @Param date query string false "YYYY-MM-DD (defaults to today)"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id}/timeline [get]
func (h *AvailabilityHandler) Timeline(c *gin.Context) {
	resp, hit, err := h.service.Timeline(c.Request.Context(), principalFromContext(c), c.Param("id"), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	if len(resp.Slots) == 0 {
		middleware.SetEmpty(c, HintNoAvailability)
	}
	response.JSON(c, http.StatusOK, resp, nil, middleware.ExtractMeta(c))
}

// TimePicker godoc
// @Summary Selectable times inside a window
// @Tags Availability
// @Produce json
// @Param start query string true "HH:MM"
// @Param end query string true "HH:MM"
// @Param granularity query int false "Minutes (default 15)"
// @Success 200 {object} response.Envelope
// @Router /pickers/times [get]
func (h *AvailabilityHandler) TimePicker(c *gin.Context) {
	resp := h.service.TimePicker(c.Query("start"), c.Query("end"), queryInt(c, "granularity", 0))
	if len(resp.Times) == 0 {
		middleware.SetEmpty(c, HintInvalidTimeRange)
	}
	response.JSON(c, http.StatusOK, resp, nil, middleware.ExtractMeta(c))
}

// DayOptions godoc
// @Summary Every quarter hour of the day
// @Tags Availability
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /pickers/day-options [get]
func (h *AvailabilityHandler) DayOptions(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.DayOptions(), nil)
}

// Weekly godoc
// @Summary Search instructors' free time in a week
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body dto.WeeklyAvailabilityRequest true "Search"
// @Success 200 {object} response.Envelope
// @Router /availability/weekly [post]
func (h *AvailabilityHandler) Weekly(c *gin.Context) {
	var req dto.WeeklyAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability search"))
		return
	}
	result, err := h.service.WeeklyAvailability(c.Request.Context(), principalFromContext(c), sessionFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(result) == 0 {
		middleware.SetEmpty(c, HintNoAvailability)
	}
	response.JSON(c, http.StatusOK, result, nil, middleware.ExtractMeta(c))
}
