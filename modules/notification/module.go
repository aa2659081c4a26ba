package notification

import (
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"

	"stagecrew-api/core/cache"
	"stagecrew-api/core/database"
	"stagecrew-api/core/middleware"
	"stagecrew-api/modules/notification/controller"
	"stagecrew-api/modules/notification/repository"
	"stagecrew-api/modules/notification/router"
	"stagecrew-api/modules/notification/service"
)

// Init initializes the notification module and registers routes. The
// returned service is the Notifier the other modules publish through.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, c *cache.Cache, queue *asynq.Client) service.NotificationServiceInterface {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo, c, queue)
	ctrl := controller.NewNotificationController(svc)
	rtr := router.NewNotificationRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
