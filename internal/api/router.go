package api

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/unrolled/secure"

	_ "github.com/edu-ti/BidFlow-CRM/docs"
	"github.com/edu-ti/BidFlow-CRM/internal/api/handler"
	"github.com/edu-ti/BidFlow-CRM/internal/api/middleware"
	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
	"github.com/edu-ti/BidFlow-CRM/internal/core/ports"
	"github.com/edu-ti/BidFlow-CRM/internal/core/service"
)

// Dependencies are the wired services the router exposes.
type Dependencies struct {
	JWTSecret      string
	Development    bool
	LoginRateLimit int

	Auth       *service.AuthService
	Sessions   *service.SessionRegistry
	Handles    middleware.HandleChecker
	Team       ports.TeamService
	Theme      ports.ThemeService
	Audit      ports.AuditService
	Dispatcher handler.AuditEnqueuer
	Checks     []handler.DependencyCheck
	// Registerer receives the HTTP request metrics; nil means the default.
	Registerer prometheus.Registerer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echo.WrapMiddleware(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      deps.Development,
	}).Handler))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, handler.HeaderBrowserID},
	}))
	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "bidflow",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(deps.Sessions, deps.Auth, deps.Dispatcher, deps.Log)
	navigationHandler := handler.NewNavigationHandler(deps.Dispatcher)
	preferenceHandler := handler.NewPreferenceHandler(deps.Theme)
	teamHandler := handler.NewTeamHandler(deps.Team)
	auditHandler := handler.NewAuditHandler(deps.Audit)
	authHandler := handler.NewAuthHandler(deps.Auth)

	authMiddleware := middleware.Auth(middleware.AuthConfig{
		Secret:   deps.JWTSecret,
		Sessions: deps.Sessions,
		Handles:  deps.Handles,
	})
	lenientAuth := middleware.Auth(middleware.AuthConfig{
		Secret:   deps.JWTSecret,
		Sessions: deps.Sessions,
		Handles:  deps.Handles,
		Optional: true,
	})
	loginLimit := deps.LoginRateLimit
	if loginLimit <= 0 {
		loginLimit = 10
	}
	loginRate := echo.WrapMiddleware(httprate.Limit(loginLimit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"too many login attempts"}`))
		}),
	))

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register, loginRate)

	// --- Sessions ---
	v1 := e.Group("/v1")
	v1.POST("/sessions", sessionHandler.Bootstrap)
	v1.GET("/sessions/current", sessionHandler.Current, authMiddleware)
	v1.POST("/sessions/current/client", sessionHandler.LoginClient, loginRate, authMiddleware)
	v1.POST("/sessions/current/admin", sessionHandler.LoginAdmin, loginRate, authMiddleware)
	v1.DELETE("/sessions/current", sessionHandler.Logout, lenientAuth)

	// --- Navigation & preferences (any role) ---
	nav := v1.Group("/navigation", authMiddleware)
	nav.GET("/resolve", navigationHandler.Resolve)
	nav.GET("/sidebar", navigationHandler.Sidebar)

	prefs := v1.Group("/preferences", authMiddleware)
	prefs.GET("/theme", preferenceHandler.GetTheme)
	prefs.PUT("/theme", preferenceHandler.PutTheme)
	prefs.POST("/theme/toggle", preferenceHandler.ToggleTheme)

	// --- Admin area: each endpoint shares the predicate of its view ---
	admin := v1.Group("/admin", authMiddleware, middleware.RBAC(domain.RoleSuperAdmin))
	team := admin.Group("/team", middleware.RequireRoute("/admin/team"))
	team.GET("", teamHandler.List)
	team.POST("", teamHandler.Create)
	team.PUT("/:id", teamHandler.Update)
	team.PATCH("/:id/status", teamHandler.ToggleStatus)
	admin.GET("/logs", auditHandler.List, middleware.RequireRoute("/admin/logs"))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
