package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/lodgeroll/membership/internal/api/docs"
	"github.com/lodgeroll/membership/internal/api/handler"
	"github.com/lodgeroll/membership/internal/api/middleware"
	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Store      ports.DocumentStore
	Backend    string
	Directory  ports.DirectoryService
	Events     ports.EventCatalog
	Ledger     ports.AttendanceLedger
	Auth       ports.AuthService
	Refresher  handler.Refresher
	Dispatcher handler.RollCallDispatcher
	JWTSecret  string
	Log        zerolog.Logger

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// process-wide default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "lodge",
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(d.Store, d.Backend)
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – is the document store reachable?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/login", authHandler.Login)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(d.JWTSecret, d.Directory))
	readers := middleware.RequireLevel(domain.LevelProspect)

	v1.GET("/roles", handler.ListRoles)

	members := handler.NewMemberHandler(d.Directory)
	v1.GET("/members", members.List, readers)
	v1.GET("/members/:id", members.Get, readers)
	// Mutations are gated by the directory service itself.
	v1.POST("/members", members.Create)
	v1.PUT("/members/:id", members.Update)
	v1.PUT("/members/:id/active", members.SetActive)
	v1.PUT("/members/:id/password", authHandler.SetPassword)

	events := handler.NewEventHandler(d.Events, d.Refresher)
	v1.GET("/events", events.List, readers)
	v1.POST("/refresh", events.Refresh, readers)

	attendance := handler.NewAttendanceHandler(d.Ledger, d.Dispatcher)
	v1.GET("/events/:event_id/attendance", attendance.Summary, readers)
	v1.POST("/events/:event_id/attendance/batch", attendance.RollCall, middleware.RequireLevel(domain.LevelLeadership))
	v1.GET("/events/:event_id/attendance/:member_id", attendance.Get, readers)
	v1.PUT("/events/:event_id/attendance/:member_id", attendance.Record)

	admin := v1.Group("/admin", middleware.RequireSystemAdmin())
	admin.GET("/credentials", authHandler.ListCredentials)

	return e
}

// requestLogger writes one structured zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
