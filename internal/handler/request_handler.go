package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/swim-lesson-gateway/internal/dto"
	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
	"github.com/noah-isme/swim-lesson-gateway/pkg/response"
)

type requestService interface {
	List(ctx context.Context, principal models.Principal, session *models.Session, rawDate string, statuses []string) ([]models.LessonRequest, error)
	Create(ctx context.Context, principal models.Principal, session *models.Session, req dto.CreateLessonRequestRequest) (json.RawMessage, error)
	Cancel(ctx context.Context, principal models.Principal, session *models.Session, requestID, lessonType string) error
}

// RequestHandler exposes the calling student's lesson requests.
type RequestHandler struct {
	service requestService
}

// NewRequestHandler builds a new handler.
func NewRequestHandler(service requestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// List godoc
// @Summary Lesson requests in a week
// @Tags Lesson Requests
// @Produce json
// @Param date query string false "YYYY-MM-DD (defaults to today)"
// @Param status query []string false "pending, approved, rejected"
// @Success 200 {object} response.Envelope
// @Router /lesson-requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), principalFromContext(c), sessionFromContext(c), c.Query("date"), queryList(c, "status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Create godoc
// @Summary Request a lesson
// @Tags Lesson Requests
// @Accept json
// @Produce json
// @Param payload body dto.CreateLessonRequestRequest true "Request"
// @Success 201 {object} response.Envelope
// @Router /lesson-requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	var req dto.CreateLessonRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lesson request payload"))
		return
	}
	created, err := h.service.Create(c.Request.Context(), principalFromContext(c), sessionFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Cancel godoc
// @Summary Withdraw from a lesson request
// @Tags Lesson Requests
// @Param id path string true "Request ID"
// @Param type query string true "private or group"
// @Success 204
// @Router /lesson-requests/{id} [delete]
func (h *RequestHandler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), principalFromContext(c), sessionFromContext(c), c.Param("id"), c.Query("type")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
