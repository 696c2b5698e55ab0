package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	assistantCtrl "agrimind/pkg/assistant/controller"
	authCtrl "agrimind/pkg/auth/controller"
	healthCtrl "agrimind/pkg/health/controller"
	"agrimind/pkg/logger"
	"agrimind/pkg/metrics"
	"agrimind/pkg/middleware"
	snapshotCtrl "agrimind/pkg/snapshot/controller"
	transferCtrl "agrimind/pkg/transfer/controller"
)

type Options struct {
	AuthRequired bool
	BodyLimit    string // echo size string, e.g. "20M"; empty disables the limit
}

func New(
	e *echo.Echo,
	log zerolog.Logger,
	opts Options,
	m *metrics.Metrics,
	auth authCtrl.AuthController,
	health healthCtrl.HealthController,
	transfer transferCtrl.TransferController,
	snapshot snapshotCtrl.SnapshotController,
	assistant assistantCtrl.AssistantController,
) *echo.Echo {
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(logger.RequestLogger(log))
	if opts.BodyLimit != "" {
		e.Use(echoMiddleware.BodyLimit(opts.BodyLimit))
	}

	e.GET("/health", health.Health)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	api := e.Group("/api", middleware.Auth(opts.AuthRequired))
	api.GET("/whoami", auth.WhoAmI)
	if !opts.AuthRequired {
		api.GET("/devlogin", auth.DevLogin)
	}

	api.POST("/import", transfer.Import)
	api.GET("/import/runs", transfer.Runs)
	api.GET("/export", transfer.Export)

	api.POST("/localstorage/save", snapshot.Save)
	api.GET("/localstorage/load", snapshot.Load)

	api.POST("/assistant/chat", assistant.Chat)
	return e
}
