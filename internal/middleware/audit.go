package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	"github.com/noah-isme/swim-lesson-gateway/pkg/logger"
)

type auditRecorder interface {
	Record(ctx context.Context, entry *models.AuditLog)
}

// Audit records a trail entry after every successful request on the route.
// The resource id is taken from the :id path parameter when present.
func Audit(recorder auditRecorder, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if recorder == nil || c.Writer.Status() >= 400 {
			return
		}

		entry := &models.AuditLog{
			Action:    action,
			Resource:  resource,
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
			CreatedAt: start,
		}
		if principal, ok := PrincipalFrom(c); ok && principal.UserID != "" {
			userID := principal.UserID
			entry.UserID = &userID
		}
		if session := SessionFrom(c); session != nil {
			sessionID := session.ID
			entry.SessionID = &sessionID
		} else if header := c.GetHeader(logger.SessionHeader); header != "" {
			entry.SessionID = &header
		}
		if id := c.Param("id"); id != "" {
			entry.ResourceID = &id
		}

		entry.NewValues, _ = json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})

		recorder.Record(context.WithoutCancel(c.Request.Context()), entry)
	}
}
