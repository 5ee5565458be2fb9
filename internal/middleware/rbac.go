package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
	"github.com/noah-isme/swim-lesson-gateway/pkg/response"
)

// RequireRoles admits callers whose session role is one of roles. It must
// run after Session.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if session == nil {
			response.Error(c, appErrors.ErrSessionNotFound)
			c.Abort()
			return
		}
		if _, ok := allowed[session.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
