package http

import (
	"context"
	stdhttp "net/http"
	"strconv"
	"time"

	"card-service/internal/auth"
	"card-service/internal/config"
	"card-service/internal/http/handler"
	"card-service/internal/http/middleware"
	"card-service/internal/service"
	"card-service/pkg/metrics"
	"card-service/pkg/profiling"
	"card-service/pkg/validator"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	jsonKeyStatus = "status"
	statusOK      = "ok"
	statusFailed  = "unavailable"

	apiPrefix          = "/api/v1"
	jsonBodyLimit      = "1M"
	multipartOverhead  = 1 << 20
	healthCheckTimeout = 2 * time.Second
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// ServerDependencies are built by the caller. EditTokenTTL sets the Max-Age
// of the edit-token cookie.
type ServerDependencies struct {
	Config       *config.Config
	Logger       *zap.Logger
	Services     *service.Services
	Gate         *auth.Gate
	Admin        handler.AdminLogin
	Audit        handler.AuditLog
	Metrics      *metrics.Metrics
	Health       HealthChecker
	EditTokenTTL time.Duration
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = NewErrorHandler(log)
	e.Validator = validator.New()

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders(deps.Config.Server.CookieSecure))
	e.Use(requestLogger(log))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.Config.Server.CORSAllowedOrigins,
		AllowMethods:     []string{stdhttp.MethodGet, stdhttp.MethodPost, stdhttp.MethodPatch, stdhttp.MethodDelete, stdhttp.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderXRequestID, "X-Admin-Key"},
		AllowCredentials: true,
	}))
	e.Use(deps.Metrics.Middleware())

	jsonLimit := echomiddleware.BodyLimit(jsonBodyLimit)
	uploadLimit := echomiddleware.BodyLimit(strconv.FormatInt(deps.Config.App.ImageMaxSize+multipartOverhead, 10))

	codeHandler := handler.NewCodeHandler(deps.Services.Codes, handler.CookieConfig{
		Secure: deps.Config.Server.CookieSecure,
		MaxAge: deps.EditTokenTTL,
	})
	cardHandler := handler.NewCardHandler(deps.Services.Cards)
	socialHandler := handler.NewSocialHandler(deps.Services.Socials)
	assetHandler := handler.NewAssetHandler(deps.Services.Assets)
	adminHandler := handler.NewAdminHandler(deps.Admin, deps.Services.Cards, deps.Services.Codes, deps.Audit, deps.Metrics)

	e.GET("/health", healthCheck(deps.Health))
	metrics.RegisterMetricsRoute(e, deps.Metrics)

	requireEdit := deps.Gate.RequireEditAccess()

	// Edit routes take the gate per route; a gated group with an empty
	// prefix would also answer every unknown /api/v1 path with 401.
	api := e.Group(apiPrefix)
	api.POST("/codes/redeem", codeHandler.Redeem, jsonLimit)
	api.GET("/codes/verify-token", codeHandler.VerifyToken, requireEdit)
	api.GET("/cards/me", cardHandler.GetMe, requireEdit)
	api.GET("/cards/:id", cardHandler.GetPublic)
	api.PATCH("/cards/:id", cardHandler.Patch, requireEdit, jsonLimit)
	api.POST("/socials", socialHandler.Create, requireEdit, jsonLimit)
	api.PATCH("/socials/:social_id", socialHandler.Patch, requireEdit, jsonLimit)
	api.DELETE("/socials/:social_id", socialHandler.Delete, requireEdit)
	api.POST("/assets/avatar", assetHandler.UploadAvatar, requireEdit, uploadLimit)
	api.POST("/assets/logo", assetHandler.UploadIcon, requireEdit, uploadLimit)

	api.POST("/admin/session", adminHandler.CreateSession)

	admin := api.Group("/admin", deps.Gate.RequireAdminAccess())
	admin.POST("/cards", adminHandler.CreateCard, jsonLimit)
	admin.DELETE("/cards/:id", adminHandler.DeleteCard)
	admin.GET("/cards/:id/audit", adminHandler.ListAudit)
	admin.POST("/codes/regenerate", adminHandler.RegenerateCode, jsonLimit)

	if deps.Config.Server.EnableProfiling {
		profiling.RegisterPprofRoutes(e, deps.Gate.RequireAdminAccess())
	}

	return &Server{
		echo: e,
		deps: deps,
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() stdhttp.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("path", v.URIPath),
				zap.String("route", v.RoutePath),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}

func healthCheck(checker HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
			defer cancel()
			if err := checker.Ping(ctx); err != nil {
				return c.JSON(stdhttp.StatusServiceUnavailable, map[string]string{
					jsonKeyStatus: statusFailed,
				})
			}
		}
		return c.JSON(stdhttp.StatusOK, map[string]string{
			jsonKeyStatus: statusOK,
		})
	}
}
