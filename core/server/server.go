package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"stagecrew-api/core/cache"
	"stagecrew-api/core/config"
	"stagecrew-api/core/constants"
	"stagecrew-api/core/database"
	"stagecrew-api/core/logger"
	"stagecrew-api/core/middleware"
	"stagecrew-api/modules/assignment"
	"stagecrew-api/modules/event"
	eventRepository "stagecrew-api/modules/event/repository"
	"stagecrew-api/modules/notification"
	"stagecrew-api/modules/notification/tasks"
	"stagecrew-api/modules/schedule"
)

// Run boots the API server and blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	db, err := database.InitDB(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	c, err := cache.Init(cfg.Redis)
	if err != nil {
		return err
	}
	defer c.Close()

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	queue := asynq.NewClient(redisOpt)
	defer queue.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORS())

	mw := middleware.NewMiddleware(cfg)

	// The event repository doubles as the shared event store: the schedule
	// and assignment modules read event state, take the per-event lock and
	// append audit entries through it.
	eventStore := eventRepository.NewEventRepository(db)

	notifier := notification.Init(e, db, mw, c, queue)
	event.Init(e, db, mw, notifier)
	schedule.Init(e, db, mw, eventStore)
	assignment.Init(e, db, mw, eventStore, notifier)

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Background delivery worker, sharing the process with the API.
	worker := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 5})
	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskNotificationDeliver, tasks.HandleDeliverTask)
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("task worker stopped", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", err)
		}
	}()
	logger.Info("server started", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}
