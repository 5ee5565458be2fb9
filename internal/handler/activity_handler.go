package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	"github.com/noah-isme/swim-lesson-gateway/pkg/response"
)

type activityLister interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]models.AuditLog, error)
}

// ActivityHandler lists the caller's recorded mutations.
type ActivityHandler struct {
	repo activityLister
}

// NewActivityHandler builds a new handler.
func NewActivityHandler(repo activityLister) *ActivityHandler {
	return &ActivityHandler{repo: repo}
}

// List godoc
// @Summary Recent activity of the caller
// @Tags Activity
// @Produce json
// @Param limit query int false "Max entries (default 20)"
// @Success 200 {object} response.Envelope
// @Router /activity [get]
func (h *ActivityHandler) List(c *gin.Context) {
	entries, err := h.repo.ListByUser(c.Request.Context(), principalFromContext(c).UserID, queryInt(c, "limit", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	if entries == nil {
		entries = []models.AuditLog{}
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
