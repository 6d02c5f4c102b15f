// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/caribelex/expedientes/app/dto"
	"github.com/caribelex/expedientes/app/handlers"
	"github.com/caribelex/expedientes/app/middleware"
	"github.com/caribelex/expedientes/config"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app                 *fiber.App
	cfg                 *config.ProductionConfig
	authHandler         handlers.AuthHandlerInterface
	expedienteHandler   handlers.ExpedienteHandlerInterface
	actuacionHandler    handlers.ActuacionHandlerInterface
	catalogoHandler     handlers.CatalogoHandlerInterface
	alertsHandler       handlers.AlertsHandlerInterface
	reportHandler       handlers.ReportHandlerInterface
	notificacionHandler handlers.NotificacionHandlerInterface
	authMiddleware      *middleware.AuthMiddleware
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	cfg *config.ProductionConfig,
	authHandler handlers.AuthHandlerInterface,
	expedienteHandler handlers.ExpedienteHandlerInterface,
	actuacionHandler handlers.ActuacionHandlerInterface,
	catalogoHandler handlers.CatalogoHandlerInterface,
	alertsHandler handlers.AlertsHandlerInterface,
	reportHandler handlers.ReportHandlerInterface,
	notificacionHandler handlers.NotificacionHandlerInterface,
	authMiddleware *middleware.AuthMiddleware,
) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Expedientes API",
		ServerHeader: "Expedientes",
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ProxyHeader:  cfg.Server.ProxyHeader,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:                 app,
		cfg:                 cfg,
		authHandler:         authHandler,
		expedienteHandler:   expedienteHandler,
		actuacionHandler:    actuacionHandler,
		catalogoHandler:     catalogoHandler,
		alertsHandler:       alertsHandler,
		reportHandler:       reportHandler,
		notificacionHandler: notificacionHandler,
		authMiddleware:      authMiddleware,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	if r.cfg.Server.EnableMetrics {
		r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	api.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.GlobalRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Auth routes with stricter rate limiting
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.AuthRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	}))

	auth.Post("/login", r.authHandler.Login)
	auth.Post("/refresh", r.authHandler.RefreshToken)
	auth.Post("/logout", r.authHandler.Logout, r.authMiddleware.Authenticate())

	authenticated := r.authMiddleware.Authenticate()
	writers := r.authMiddleware.RequireRoles(models.RoleAdmin, models.RoleGestor)
	adminOnly := r.authMiddleware.RequireRoles(models.RoleAdmin)

	// Case management
	expedientes := api.Group("/expedientes", authenticated)
	expedientes.Post("/", r.expedienteHandler.CreateExpediente, writers)
	expedientes.Get("/", r.expedienteHandler.ListExpedientes)
	expedientes.Get("/:uuid", r.expedienteHandler.GetExpediente)
	expedientes.Put("/:uuid", r.expedienteHandler.UpdateExpediente, writers)
	expedientes.Post("/:uuid/reassign", r.expedienteHandler.ReassignExpediente, writers)
	expedientes.Get("/:uuid/actuaciones", r.actuacionHandler.ListActuaciones)
	expedientes.Post("/:uuid/actuaciones", r.actuacionHandler.CreateActuacion, writers)

	// Catalogs: reads for everyone, mutations for administrators
	catalogos := api.Group("/catalogos", authenticated)
	catalogos.Get("/:kind", r.catalogoHandler.ListCatalogos)
	catalogos.Post("/:kind", r.catalogoHandler.CreateCatalogo, adminOnly)
	catalogos.Patch("/:kind/:id", r.catalogoHandler.ToggleCatalogo, adminOnly)

	// Alerts and dashboard
	api.Get("/alertas", r.alertsHandler.ListAlertas, authenticated)
	api.Get("/dashboard/kpis", r.alertsHandler.DashboardKPIs, authenticated)

	// Report downloads
	reportes := api.Group("/reportes", authenticated)
	reportes.Get("/alertas", r.reportHandler.AlertsReport)
	reportes.Get("/actuaciones", r.reportHandler.ActuacionesReport)
	reportes.Get("/productividad", r.reportHandler.ProductivityReport)

	// Notifications
	notificaciones := api.Group("/notificaciones", authenticated)
	notificaciones.Get("/", r.notificacionHandler.ListNotificaciones)
	notificaciones.Post("/:id/read", r.notificacionHandler.MarkRead)
	notificaciones.Post("/read-all", r.notificacionHandler.MarkAllRead)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000, // 1 year
		ContentSecurityPolicy: "default-src 'self'; frame-ancestors 'none';",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// CORS middleware with production settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     r.cfg.Security.AllowedOrigins,
		AllowMethods:     r.cfg.Security.AllowedMethods,
		AllowHeaders:     r.cfg.Security.AllowedHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: r.cfg.Security.AllowCredentials,
	}))

	// Compression middleware for performance
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			contentType := c.Get("Content-Type")
			return strings.HasPrefix(contentType, "image/") ||
				strings.HasPrefix(contentType, "video/")
		},
	}))

	// Structured request logging
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent}}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	if r.cfg.Server.EnableMetrics {
		r.app.Use(middleware.Metrics())
	}

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "expedientes-api",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error: dto.ErrorDetail{
			Code: "RATE_LIMIT_EXCEEDED",
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
