package server

import (
	"log"

	"ta-chatbot-be/internal/bootstrap"
	"ta-chatbot-be/internal/config"
	"ta-chatbot-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // course PDFs can be large
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api")

	jwt := serverutils.JwtMiddleware(cfg.Auth.CookieName, cfg.Auth.SigningKey)

	// The auth gate itself is reachable without a session. Logout and the
	// status probe read the session claims when present.
	api.Use("/auth", serverutils.OptionalJwtMiddleware(cfg.Auth.CookieName, cfg.Auth.SigningKey))
	c.AuthController.RegisterRoutes(api)

	// Chatting requires an authenticated session.
	api.Use("/chat", jwt)
	c.ChatController.RegisterRoutes(api)

	// Admin surface: documents, index, settings, roster.
	for _, prefix := range []string{"/documents", "/index", "/settings", "/roster"} {
		api.Use(prefix, jwt, serverutils.AdminOnly())
	}
	c.DocumentController.RegisterRoutes(api)
	c.RosterController.RegisterRoutes(api)
}
