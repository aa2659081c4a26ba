package event

import (
	"github.com/labstack/echo/v4"

	"stagecrew-api/core/database"
	"stagecrew-api/core/middleware"
	"stagecrew-api/modules/event/controller"
	"stagecrew-api/modules/event/repository"
	"stagecrew-api/modules/event/router"
	"stagecrew-api/modules/event/service"
)

// Init initializes the event module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, notif service.Notifier) service.EventServiceInterface {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, db, notif)
	ctrl := controller.NewEventController(svc)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
