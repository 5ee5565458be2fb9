package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
	"github.com/noah-isme/swim-lesson-gateway/pkg/logger"
	"github.com/noah-isme/swim-lesson-gateway/pkg/response"
)

// ContextSessionKey stores the caller's refresh scope.
const ContextSessionKey = "session"

type sessionResolver interface {
	Current(ctx context.Context, principal models.Principal, sessionID string) (*models.Session, error)
}

// Session loads the scope named by the X-Session-ID header. It must run
// after JWT.
func Session(sessions sessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		session, err := sessions.Current(c.Request.Context(), principal, c.GetHeader(logger.SessionHeader))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

// SessionFrom returns the scope loaded by Session, or nil.
func SessionFrom(c *gin.Context) *models.Session {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil
	}
	session, _ := value.(*models.Session)
	return session
}
