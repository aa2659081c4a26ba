package router

import (
	"github.com/labstack/echo/v4"

	"stagecrew-api/core/middleware"
	"stagecrew-api/modules/assignment/controller"
)

// AssignmentRouter handles assignment routes
type AssignmentRouter struct {
	AssignmentController *controller.AssignmentController
}

// NewAssignmentRouter creates a new router
func NewAssignmentRouter(assignmentController *controller.AssignmentController) *AssignmentRouter {
	return &AssignmentRouter{AssignmentController: assignmentController}
}

// Setup registers assignment routes
func (r *AssignmentRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	eventScoped := privateRoutes.Group("/events/:id", mw.AuthMiddleware())
	eventScoped.POST("/assignments", r.AssignmentController.CreateAssignment)
	eventScoped.GET("/assignments", r.AssignmentController.ListAssignments)
	eventScoped.POST("/assignments/complete", r.AssignmentController.CompleteAssignments)
	eventScoped.POST("/team/finalize", r.AssignmentController.FinalizeTeam)

	assignmentRoutes := privateRoutes.Group("/assignments", mw.AuthMiddleware())
	assignmentRoutes.GET("/mine", r.AssignmentController.ListMyAssignments)
	assignmentRoutes.POST("/:id/respond", r.AssignmentController.Respond)
	assignmentRoutes.POST("/:id/revoke", r.AssignmentController.Revoke)
	assignmentRoutes.POST("/:id/decline", r.AssignmentController.Decline)
}
