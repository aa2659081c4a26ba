package assignment

import (
	"github.com/labstack/echo/v4"

	"stagecrew-api/core/database"
	"stagecrew-api/core/middleware"
	"stagecrew-api/modules/assignment/controller"
	"stagecrew-api/modules/assignment/repository"
	"stagecrew-api/modules/assignment/router"
	"stagecrew-api/modules/assignment/service"
)

// Init initializes the assignment module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, events service.EventStore, notif service.Notifier) {
	repo := repository.NewAssignmentRepository(db)
	svc := service.NewAssignmentService(repo, events, db, notif)
	ctrl := controller.NewAssignmentController(svc)
	rtr := router.NewAssignmentRouter(ctrl)

	rtr.Setup(e, mw)
}
