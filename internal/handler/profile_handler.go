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

type profileService interface {
	RegisterStudent(ctx context.Context, principal models.Principal, req dto.RegisterStudentRequest) (json.RawMessage, error)
	RegisterInstructor(ctx context.Context, principal models.Principal, req dto.RegisterInstructorRequest) (json.RawMessage, error)
	UpdateStudent(ctx context.Context, principal models.Principal, session *models.Session, req dto.UpdateStudentRequest) (json.RawMessage, error)
	UpdateInstructor(ctx context.Context, principal models.Principal, session *models.Session, req dto.UpdateInstructorRequest) (json.RawMessage, error)
}

// ProfileHandler registers callers and edits their profiles.
type ProfileHandler struct {
	service profileService
}

// NewProfileHandler builds a new handler.
func NewProfileHandler(service profileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Register godoc
// @Summary Register the caller as a student or instructor
// @Tags Profile
// @Accept json
// @Produce json
// @Param role path string true "student or instructor"
// @Success 201 {object} response.Envelope
// @Router /register/{role} [post]
func (h *ProfileHandler) Register(c *gin.Context) {
	ctx, principal := c.Request.Context(), principalFromContext(c)

	var (
		created json.RawMessage
		err     error
	)
	switch models.UserRole(c.Param("role")) {
	case models.RoleStudent:
		var req dto.RegisterStudentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student registration"))
			return
		}
		created, err = h.service.RegisterStudent(ctx, principal, req)
	case models.RoleInstructor:
		var req dto.RegisterInstructorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid instructor registration"))
			return
		}
		created, err = h.service.RegisterInstructor(ctx, principal, req)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "role must be student or instructor"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Update godoc
// @Summary Edit the caller's profile
// @Tags Profile
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	ctx, principal, session := c.Request.Context(), principalFromContext(c), sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrSessionNotFound)
		return
	}

	var (
		updated json.RawMessage
		err     error
	)
	switch session.Role {
	case models.RoleStudent:
		var req dto.UpdateStudentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student profile"))
			return
		}
		updated, err = h.service.UpdateStudent(ctx, principal, session, req)
	case models.RoleInstructor:
		var req dto.UpdateInstructorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid instructor profile"))
			return
		}
		updated, err = h.service.UpdateInstructor(ctx, principal, session, req)
	default:
		response.Error(c, appErrors.ErrForbidden)
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}
