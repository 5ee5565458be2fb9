package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/swim-lesson-gateway/internal/middleware"
	"github.com/noah-isme/swim-lesson-gateway/internal/models"
)

// Handlers groups every API handler. Activity may be nil when the audit
// trail is disabled.
type Handlers struct {
	Sessions     *SessionHandler
	Profile      *ProfileHandler
	Availability *AvailabilityHandler
	Lessons      *LessonHandler
	Requests     *RequestHandler
	Activity     *ActivityHandler
}

// RouteMiddleware carries the request guards shared by the API routes.
type RouteMiddleware struct {
	Authenticate gin.HandlerFunc
	LoadSession  gin.HandlerFunc
	Audit        func(action, resource string) gin.HandlerFunc
}

// RegisterRoutes mounts the API under api. Every route requires a bearer
// token; routes acting on a profile also require the X-Session-ID scope.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, mw RouteMiddleware) {
	audit := mw.Audit
	if audit == nil {
		audit = func(string, string) gin.HandlerFunc { return func(c *gin.Context) { c.Next() } }
	}
	student := middleware.RequireRoles(models.RoleStudent)
	instructor := middleware.RequireRoles(models.RoleInstructor)

	authed := api.Group("", mw.Authenticate)

	sessions := authed.Group("/sessions")
	sessions.POST("", audit(models.AuditActionSessionOpen, "session"), h.Sessions.Open)
	sessions.GET("/current", h.Sessions.Current)
	sessions.POST("/current/screens/:screen/focus", h.Sessions.Focus)
	sessions.POST("/current/reset", h.Sessions.Reset)
	sessions.DELETE("/current", audit(models.AuditActionSessionClose, "session"), h.Sessions.Close)

	authed.POST("/register/:role", audit(models.AuditActionRegister, "profile"), h.Profile.Register)

	authed.GET("/instructors", h.Availability.ListInstructors)
	authed.GET("/instructors/:id", h.Availability.GetInstructor)
	authed.GET("/instructors/:id/timeline", h.Availability.Timeline)
	authed.GET("/pickers/times", h.Availability.TimePicker)
	authed.GET("/pickers/day-options", h.Availability.DayOptions)

	if h.Activity != nil {
		authed.GET("/activity", h.Activity.List)
	}

	scoped := authed.Group("", mw.LoadSession)
	scoped.PUT("/profile", audit(models.AuditActionProfileUpdate, "profile"), h.Profile.Update)
	scoped.GET("/students/match", h.Lessons.MatchStudents)
	scoped.GET("/lessons/weekly/export", h.Lessons.Export)
	scoped.POST("/availability/weekly", student, h.Availability.Weekly)

	scoped.GET("/lessons/weekly", instructor, h.Lessons.InstructorWeek)
	scoped.POST("/lessons", instructor, audit(models.AuditActionLessonCreate, "lesson"), h.Lessons.Create)
	scoped.DELETE("/lessons/:id", instructor, audit(models.AuditActionLessonDelete, "lesson"), h.Lessons.Delete)

	scoped.GET("/lessons/student-weekly", student, h.Lessons.StudentWeek)
	scoped.DELETE("/students/me/lessons/:id", student, audit(models.AuditActionLessonLeave, "lesson"), h.Lessons.Leave)
	scoped.GET("/lesson-requests", student, h.Requests.List)
	scoped.POST("/lesson-requests", student, audit(models.AuditActionRequestCreate, "lesson_request"), h.Requests.Create)
	scoped.DELETE("/lesson-requests/:id", student, audit(models.AuditActionRequestCancel, "lesson_request"), h.Requests.Cancel)
}
