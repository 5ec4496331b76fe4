package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sports-school-ops/internal/middleware"
	"github.com/noah-isme/sports-school-ops/internal/models"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth         *AuthHandler
	Sync         *SyncHandler
	Students     *StudentHandler
	Classes      *ClassHandler
	Attendance   *AttendanceHandler
	TrialLessons *TrialLessonHandler
	Retention    *RetentionHandler
	Messages     *MessageHandler
	Settings     *SettingsHandler
	Dashboard    *DashboardHandler
	Metrics      *MetricsHandler
}

// RegisterRoutes mounts the public probes at the root and the API under prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, tokens middleware.TokenValidator) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))
	secured.GET("/auth/me", h.Auth.Me)

	secured.GET("/sync/status", h.Sync.Status)
	secured.POST("/sync", h.Sync.Trigger)

	secured.GET("/students", h.Students.List)
	secured.GET("/students/:id", h.Students.Get)
	secured.GET("/classes", h.Classes.List)
	secured.GET("/enrollments", h.Classes.Enrollments)

	secured.GET("/attendance", h.Attendance.List)
	secured.POST("/attendance", h.Attendance.Record)

	secured.GET("/trial-lessons", h.TrialLessons.List)
	secured.PATCH("/trial-lessons/:id", h.TrialLessons.Update)
	secured.POST("/trial-lessons/:id/notify", h.TrialLessons.Notify)

	secured.GET("/retention/alerts", h.Retention.Alerts)
	secured.GET("/retention/alerts/export", h.Retention.Export)
	secured.POST("/retention/alerts/:id/actions", h.Retention.MarkHandled)
	secured.POST("/retention/alerts/:id/notify", h.Retention.Notify)

	secured.POST("/messages/preview", h.Messages.Preview)
	secured.POST("/messages/send", h.Messages.Send)

	secured.GET("/settings", middleware.RequireRoles(models.RoleAdmin), h.Settings.Get)
	secured.PUT("/settings", middleware.RequireRoles(models.RoleAdmin), h.Settings.Update)

	secured.GET("/dashboard", h.Dashboard.Summary)
}
