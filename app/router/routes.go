// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/amirphl/desa-ngasem/app/dto"
	"github.com/amirphl/desa-ngasem/app/handlers"
	"github.com/amirphl/desa-ngasem/app/middleware"
	"github.com/amirphl/desa-ngasem/config"
	_ "github.com/amirphl/desa-ngasem/docs"
	"github.com/amirphl/desa-ngasem/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	Shutdown() error
	GetApp() *fiber.App
}

// ResourceRoute mounts one entity type under /api/v1/admin/<Path>, and under
// /api/v1/public/<Path> when Public is set
type ResourceRoute struct {
	Path    string
	Public  bool
	Handler handlers.ResourceHandlerInterface
}

// Handlers groups every handler the router mounts
type Handlers struct {
	Auth       handlers.AdminAuthHandlerInterface
	Public     handlers.PublicHandlerInterface
	AdminTools handlers.AdminToolsHandlerInterface
	System     handlers.SystemHandlerInterface
	Resources  []ResourceRoute
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app      *fiber.App
	handlers Handlers
	session  *middleware.SessionMiddleware
	server   config.ServerConfig
	security config.SecurityConfig
	logging  config.LoggingConfig
	logger   *zap.Logger
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(h Handlers, session *middleware.SessionMiddleware, cfg *config.ProductionConfig, logger *zap.Logger) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Desa Ngasem API",
		ServerHeader: "Desa-Ngasem",
		ErrorHandler: errorHandler(logger),
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		TrustProxy:   len(cfg.Server.TrustedProxies) > 0,
		TrustProxyConfig: fiber.TrustProxyConfig{
			Proxies: cfg.Server.TrustedProxies,
		},
		ProxyHeader: cfg.Server.ProxyHeader,
	})

	return &FiberRouter{
		app:      app,
		handlers: h,
		session:  session,
		server:   cfg.Server,
		security: cfg.Security,
		logging:  cfg.Logging,
		logger:   logger,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	r.setupMiddleware()

	r.app.Get("/health", r.handlers.System.Health)
	r.app.Get("/swagger/doc.json", r.serveSwaggerJSON)
	r.app.Get("/uploads/*", r.handlers.System.ServeUpload)

	api := r.app.Group("/api/v1")

	// Public site: no session needed
	public := api.Group("/public")
	public.Get("/news/:id", r.handlers.Public.NewsDetail)
	public.Post("/applications", r.handlers.Public.SubmitApplication)
	for _, res := range r.handlers.Resources {
		if res.Public {
			public.Get("/"+res.Path, res.Handler.ListPublic)
		}
	}

	// Admin dashboard: every request carries a session, only /auth is reachable logged out
	admin := api.Group("/admin", r.session.Attach())

	auth := admin.Group("/auth")
	auth.Post("/login", r.handlers.Auth.Login)
	auth.Post("/logout", r.handlers.Auth.Logout)
	auth.Get("/session", r.handlers.Auth.Session)

	requireAdmin := r.session.RequireAdmin()
	admin.Get("/dashboard", requireAdmin, r.handlers.AdminTools.Dashboard)
	admin.Post("/uploads/images", requireAdmin, r.handlers.AdminTools.UploadImage)
	admin.Get("/applications/export", requireAdmin, r.handlers.AdminTools.ExportApplications)

	for _, res := range r.handlers.Resources {
		base := "/" + res.Path
		admin.Get(base, requireAdmin, res.Handler.List)
		admin.Post(base, requireAdmin, res.Handler.Create)
		admin.Get(base+"/:id", requireAdmin, res.Handler.Get)
		admin.Put(base+"/:id", requireAdmin, res.Handler.Update)
		admin.Patch(base+"/:id", requireAdmin, res.Handler.Update)
		admin.Delete(base+"/:id", requireAdmin, res.Handler.Delete)
	}

	r.app.Use(r.notFoundHandler)

	r.logger.Info("Routes configured", zap.Int("resources", len(r.handlers.Resources)))
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			r.logger.Error("panic recovered",
				zap.String("request_id", requestid.FromContext(c)),
				zap.Any("error", e),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("ip", c.IP()))
		},
	}))

	r.app.Use(middleware.Metrics())

	if r.logging.EnableAccessLog {
		r.app.Use(middleware.AccessLog(r.logger))
	}

	maxAge := r.security.CORSMaxAge
	if maxAge == 0 {
		maxAge = utils.CORSMaxAge
	}
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     r.security.AllowedOrigins,
		AllowMethods:     r.security.AllowedMethods,
		AllowHeaders:     r.security.AllowedHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: r.security.AllowCredentials,
		MaxAge:           maxAge,
	}))

	if r.server.EnableCompression {
		r.app.Use(compress.New(compress.Config{
			Level: compress.Level(r.server.CompressionLevel),
			Next: func(c fiber.Ctx) bool {
				// images are already compressed
				return strings.HasPrefix(c.Path(), "/uploads/")
			},
		}))
	}
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	r.logger.Info("Starting server", zap.String("address", address))
	return r.app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops accepting connections and waits for in-flight requests
func (r *FiberRouter) Shutdown() error {
	timeout := r.server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return r.app.ShutdownWithTimeout(timeout)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// serveSwaggerJSON serves the registered OpenAPI document
func (r *FiberRouter) serveSwaggerJSON(c fiber.Ctx) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: "Failed to load Swagger documentation",
			Error: dto.ErrorDetail{
				Code: "SWAGGER_LOAD_ERROR",
			},
		})
	}
	c.Set("Content-Type", "application/json")
	return c.SendString(doc)
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestid.FromContext(c),
			},
		},
	})
}

// errorHandler renders errors that escaped the handlers in the standard envelope
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "An internal server error occurred"
		errorCode := "INTERNAL_ERROR"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
			errorCode = "HTTP_ERROR"
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("Unhandled error",
				zap.Int("status", code),
				zap.String("request_id", requestid.FromContext(c)),
				zap.Error(err))
		}

		return c.Status(code).JSON(dto.APIResponse{
			Success: false,
			Message: message,
			Error: dto.ErrorDetail{
				Code: errorCode,
				Details: fiber.Map{
					"timestamp":  utils.UTCNow().Unix(),
					"request_id": requestid.FromContext(c),
				},
			},
		})
	}
}
