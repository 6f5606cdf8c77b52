package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sirpyerre/members-only/docs"
	"github.com/sirpyerre/members-only/internal/api/handler"
	"github.com/sirpyerre/members-only/internal/api/middleware"
	"github.com/sirpyerre/members-only/internal/api/web"
	"github.com/sirpyerre/members-only/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	AuthService       ports.AuthService
	MembershipService ports.MembershipService
	Cookies           *middleware.SessionCookies
	HealthChecks      map[string]handler.Check

	// Registerer and Gatherer back the HTTP metrics and /metrics. They
	// default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = web.MustNewRenderer()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: deps.Registerer,
		Skipper:    skipOperational,
	}))
	e.Use(middleware.SessionWithConfig(middleware.SessionConfig{
		Resolver: deps.AuthService,
		Cookies:  deps.Cookies,
		Skipper:  skipSessionLookup,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.Cookies, deps.Log)
	membershipHandler := handler.NewMembershipHandler(deps.MembershipService, deps.Log)
	pageHandler := handler.NewPageHandler()
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)

	authenticated := middleware.RequireAuthenticated()
	member := middleware.RequireMember()

	// --- Public pages ---
	e.GET("/", pageHandler.Index)
	e.GET("/sign-up", authHandler.SignUpForm)
	e.POST("/sign-up", authHandler.SignUp)
	e.GET("/log-in", authHandler.LogInForm)
	e.POST("/log-in", authHandler.LogIn)
	e.GET("/log-out", authHandler.LogOut)

	// --- Authenticated pages ---
	e.GET("/membership", membershipHandler.Form, authenticated)
	e.POST("/membership", membershipHandler.Join, authenticated)
	e.POST("/lose-membership", membershipHandler.Leave, authenticated)

	// --- Member-only pages ---
	e.GET("/create-post", pageHandler.CreatePost, member)

	// --- Operations (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func skipOperational(c echo.Context) bool {
	switch c.Path() {
	case "/metrics", "/health", "/health/ready":
		return true
	}
	return false
}

// skipSessionLookup covers routes that never read the identity. Log-out must
// clear the cookie even when the session store is unavailable.
func skipSessionLookup(c echo.Context) bool {
	return c.Path() == "/log-out" || skipOperational(c)
}

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
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
