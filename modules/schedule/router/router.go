package router

import (
	"github.com/labstack/echo/v4"

	"stagecrew-api/core/middleware"
	"stagecrew-api/modules/schedule/controller"
)

// ScheduleRouter handles schedule routes
type ScheduleRouter struct {
	ScheduleController *controller.ScheduleController
}

// NewScheduleRouter creates a new router
func NewScheduleRouter(scheduleController *controller.ScheduleController) *ScheduleRouter {
	return &ScheduleRouter{ScheduleController: scheduleController}
}

// Setup registers schedule routes
func (r *ScheduleRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	eventScoped := privateRoutes.Group("/events/:id/schedules", mw.AuthMiddleware())
	eventScoped.POST("", r.ScheduleController.CreateSchedule)
	eventScoped.GET("", r.ScheduleController.ListSchedules)
	eventScoped.POST("/conflicts", r.ScheduleController.ListConflicts)
	eventScoped.POST("/reorder", r.ScheduleController.ReorderSchedules)

	scheduleRoutes := privateRoutes.Group("/schedules", mw.AuthMiddleware())
	scheduleRoutes.PUT("/:id", r.ScheduleController.UpdateSchedule)
	scheduleRoutes.DELETE("/:id", r.ScheduleController.DeleteSchedule)
}
