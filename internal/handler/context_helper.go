package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/swim-lesson-gateway/internal/middleware"
	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	"github.com/noah-isme/swim-lesson-gateway/pkg/logger"
)

func principalFromContext(c *gin.Context) models.Principal {
	principal, _ := middleware.PrincipalFrom(c)
	return principal
}

func sessionFromContext(c *gin.Context) *models.Session {
	return middleware.SessionFrom(c)
}

func sessionHeader(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(logger.SessionHeader))
}

// queryList accepts both repeated (?a=x&a=y) and comma separated (?a=x,y) values.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
