package handler

import (
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahmednasr/ai-in-action/embed-api/internal/middleware"
	"github.com/ahmednasr/ai-in-action/embed-api/internal/service"
)

// AppOptions tunes the Fiber app. Zero values mean "no limit".
type AppOptions struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	BodyLimitMB    int
	MetricsEnabled bool
}

// NewApp builds the Fiber app with middleware and every route registered.
func NewApp(svc service.EmbedService, opts AppOptions) *fiber.App {
	bodyLimit := math.MaxInt32
	if opts.BodyLimitMB > 0 {
		bodyLimit = opts.BodyLimitMB * 1024 * 1024
	}

	app := fiber.New(fiber.Config{
		AppName:               "embed-api",
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		BodyLimit:             bodyLimit,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logging())
	if opts.MetricsEnabled {
		app.Use(middleware.Metrics())
	}

	RegisterRoutes(app, svc, opts.MetricsEnabled)
	return app
}

// RegisterRoutes mounts the API on app.
func RegisterRoutes(app *fiber.App, svc service.EmbedService, metricsEnabled bool) {
	NewHealthHandler(svc).Register(app)
	NewEmbedHandler(svc).Register(app)

	if metricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}
}
