package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/swim-lesson-gateway/internal/dto"
	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	"github.com/noah-isme/swim-lesson-gateway/pkg/response"
)

type sessionService interface {
	Open(ctx context.Context, principal models.Principal) (*dto.OpenSessionResponse, error)
	Current(ctx context.Context, principal models.Principal, sessionID string) (*models.Session, error)
	Focus(ctx context.Context, principal models.Principal, sessionID, screen string) (bool, error)
	Reset(ctx context.Context, principal models.Principal, sessionID string) error
	Close(ctx context.Context, principal models.Principal, sessionID string) error
}

// SessionHandler manages refresh scopes.
type SessionHandler struct {
	service sessionService
}

// NewSessionHandler builds a new handler.
func NewSessionHandler(service sessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Open godoc
// @Summary Open a refresh scope for the caller
// @Tags Sessions
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Open(c *gin.Context) {
	resp, err := h.service.Open(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Current godoc
// @Summary Show the caller's refresh scope
// @Tags Sessions
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/current [get]
func (h *SessionHandler) Current(c *gin.Context) {
	session, err := h.service.Current(c.Request.Context(), principalFromContext(c), sessionHeader(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Focus godoc
// @Summary Report that a screen became visible
// @Description Returns refresh=true at most once per screen between data changes.
// @Tags Sessions
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param screen path string true "Screen ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/current/screens/{screen}/focus [post]
func (h *SessionHandler) Focus(c *gin.Context) {
	screen := c.Param("screen")
	refresh, err := h.service.Focus(c.Request.Context(), principalFromContext(c), sessionHeader(c), screen)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.FocusResponse{Screen: screen, Refresh: refresh}, nil)
}

// Reset godoc
// @Summary Mark every screen as needing a refresh
// @Tags Sessions
// @Param X-Session-ID header string true "Session ID"
// @Success 204
// @Router /sessions/current/reset [post]
func (h *SessionHandler) Reset(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context(), principalFromContext(c), sessionHeader(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Close godoc
// @Summary Destroy the caller's refresh scope
// @Tags Sessions
// @Param X-Session-ID header string true "Session ID"
// @Success 204
// @Router /sessions/current [delete]
func (h *SessionHandler) Close(c *gin.Context) {
	if err := h.service.Close(c.Request.Context(), principalFromContext(c), sessionHeader(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
