package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campusops/faculty-leave-api/internal/middleware"
	"github.com/campusops/faculty-leave-api/internal/models"
	"github.com/campusops/faculty-leave-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth         *AuthHandler
	Faculty      *FacultyHandler
	Leave        *LeaveHandler
	Reports      *ReportHandler
	Lectures     *LectureHandler
	Invigilation *InvigilationHandler
	Messages     *MessageHandler
	Dashboard    *DashboardHandler
}

// RegisterRoutes mounts the API under prefix. Everything except login and
// token refresh sits behind JWT auth; mutations and admin views additionally
// require the admin role, while /me/* routes serve whichever account the
// token belongs to.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService) {
	api := r.Group(prefix)

	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	authed := api.Group("", middleware.JWT(auth))
	authed.POST("/auth/logout", h.Auth.Logout)

	admin := authed.Group("", middleware.RequireRoles(models.RoleAdmin))

	admin.GET("/faculty", h.Faculty.List)
	admin.GET("/faculty/:key", h.Faculty.Get)
	admin.PUT("/faculty", h.Faculty.Save)
	admin.DELETE("/faculty/:key", h.Faculty.Delete)
	admin.POST("/faculty/import", h.Faculty.Import)

	admin.POST("/leave/requests", h.Leave.Submit)
	admin.GET("/leave/ledger", h.Leave.Ledger)
	admin.DELETE("/leave/ledger/:id", h.Leave.Delete)
	// entitlement upload shares the faculty CSV format
	admin.POST("/leave/import", h.Faculty.Import)

	admin.GET("/reports/leave-balance", h.Reports.LeaveBalance)
	admin.GET("/reports/leave-balance/export", h.Reports.Export)

	authed.GET("/lectures", h.Lectures.List)
	admin.POST("/lectures", h.Lectures.Create)
	admin.PUT("/lectures/:id", h.Lectures.Update)
	admin.DELETE("/lectures/:id", h.Lectures.Delete)
	admin.POST("/lectures/import", h.Lectures.Import)
	authed.GET("/lectures/projection", h.Lectures.Projection)

	authed.GET("/invigilation", h.Invigilation.List)
	admin.POST("/invigilation", h.Invigilation.Create)
	admin.PUT("/invigilation/:id", h.Invigilation.Update)
	admin.DELETE("/invigilation/:id", h.Invigilation.Delete)
	admin.POST("/invigilation/import", h.Invigilation.Import)

	admin.POST("/messages", h.Messages.Send)
	admin.GET("/messages", h.Messages.List)
	admin.PUT("/messages/:id", h.Messages.Update)
	admin.DELETE("/messages/:id", h.Messages.Delete)
	authed.POST("/messages/:id/read", h.Messages.MarkRead)

	admin.GET("/dashboard/summary", h.Dashboard.Summary)

	me := authed.Group("/me")
	me.GET("/balance", h.Reports.MyBalance)
	me.GET("/leave", h.Leave.MyLedger)
	me.GET("/schedule", h.Lectures.MySchedule)
	me.GET("/invigilation", h.Invigilation.MyDuties)
	me.GET("/messages", h.Messages.MyMessages)
}
