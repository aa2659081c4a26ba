package schedule

import (
	"github.com/labstack/echo/v4"

	"stagecrew-api/core/database"
	"stagecrew-api/core/middleware"
	"stagecrew-api/modules/schedule/controller"
	"stagecrew-api/modules/schedule/repository"
	"stagecrew-api/modules/schedule/router"
	"stagecrew-api/modules/schedule/service"
)

// Init initializes the schedule module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, events service.EventStore) {
	repo := repository.NewScheduleRepository(db)
	svc := service.NewScheduleService(repo, events, db)
	ctrl := controller.NewScheduleController(svc)
	rtr := router.NewScheduleRouter(ctrl)

	rtr.Setup(e, mw)
}
