package server

import (
	"time"

	"swanchat/internal/cache"
	"swanchat/internal/catalog"
	"swanchat/internal/chat"
	"swanchat/internal/config"
	"swanchat/internal/handlers"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Server represents the application server
type Server struct {
	echo     *echo.Echo
	config   *config.Config
	logger   zerolog.Logger
	sessions *chat.Manager
	catalog  chat.CatalogClient
	products *cache.Cache[[]catalog.Product]
}

// New creates a new server instance
func New(cfg *config.Config, sessions *chat.Manager, catalogClient chat.CatalogClient, logger zerolog.Logger) *Server {
	return &Server{
		config:   cfg,
		logger:   logger,
		sessions: sessions,
		catalog:  catalogClient,
		products: cache.New[[]catalog.Product](),
	}
}

// zerologMiddleware creates a zerolog-based logging middleware for Echo
func (s *Server) zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()

			s.logger.Info().
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("remote_ip", c.RealIP()).
				Int("status", res.Status).
				Int64("latency_ms", time.Since(start).Milliseconds()).
				Str("user_agent", req.UserAgent()).
				Msg("HTTP request")

			return err
		}
	}
}

// Initialize sets up the Echo framework with middleware and routes
func (s *Server) Initialize() {
	s.echo = echo.New()

	// Middleware
	s.echo.Use(s.zerologMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())

	// Hide Echo banner
	s.echo.HideBanner = true

	// Setup routes
	s.setupRoutes()
}

// setupRoutes configures all the application routes
func (s *Server) setupRoutes() {
	// API group with /api prefix
	api := s.echo.Group("/api")

	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// Health endpoint (keep at root level for monitoring)
	s.echo.GET("/healthz", handlers.HealthHandler(s.config.Version))

	// API endpoints under /api prefix
	api.GET("/", handlers.RootHandler(s.config.Version))
	api.GET("/products", handlers.ProductsHandler(s.catalog, s.products, time.Duration(s.config.ProductCacheTTL)*time.Minute))
	api.GET("/widget/config", handlers.WidgetConfigHandler(s.config))

	api.POST("/sessions", handlers.CreateSessionHandler(s.sessions))
	api.GET("/sessions/:id", handlers.GetSessionHandler(s.sessions))
	api.DELETE("/sessions/:id", handlers.DeleteSessionHandler(s.sessions))
	api.POST("/sessions/:id/panel", handlers.PanelHandler(s.sessions))
	api.POST("/sessions/:id/messages", handlers.SubmitMessageHandler(s.sessions))
	api.PUT("/sessions/:id/language", handlers.SetLanguageHandler(s.sessions))
	api.PUT("/sessions/:id/enquiry", handlers.UpdateEnquiryHandler(s.sessions))
	api.POST("/sessions/:id/enquiry", handlers.SubmitEnquiryHandler(s.sessions))
	api.DELETE("/sessions/:id/enquiry", handlers.CancelEnquiryHandler(s.sessions))
	api.GET("/sessions/:id/events", handlers.EventsHandler(s.sessions, s.logger))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().Str("port", s.config.Port).Msg("Server starting")
	return s.echo.Start(":" + s.config.Port)
}
