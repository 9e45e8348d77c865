package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/convene-app/convene/internal/config"
	"github.com/convene-app/convene/internal/handler"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	RoomHandler    *handler.RoomHandler
	MessageHandler *handler.MessageHandler
	TopicHandler   *handler.TopicHandler
	UserHandler    *handler.UserHandler
	JWTRequired    fiber.Handler
	JWTOptional    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtRequired := deps.JWTRequired
	if jwtRequired == nil {
		jwtRequired = func(c *fiber.Ctx) error { return c.Next() }
	}
	jwtOptional := deps.JWTOptional
	if jwtOptional == nil {
		jwtOptional = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Auth endpoints see the identity when one is presented (login
	// short-circuit, logout revocation) but never require it.
	if deps.AuthHandler != nil {
		auth := api.Group("/auth", jwtOptional)
		deps.AuthHandler.Register(auth)
	}

	// Listing and detail are public; mutations require identity.
	if deps.RoomHandler != nil {
		deps.RoomHandler.RegisterPublic(api.Group("/rooms", jwtOptional))
		deps.RoomHandler.RegisterProtected(api.Group("/rooms", jwtRequired))
	}

	if deps.MessageHandler != nil {
		deps.MessageHandler.RegisterPublic(api.Group("/messages", jwtOptional))
		deps.MessageHandler.RegisterProtected(api.Group("/messages", jwtRequired))
		deps.MessageHandler.RegisterActivity(api.Group("/activity", jwtOptional))
	}

	if deps.TopicHandler != nil {
		deps.TopicHandler.Register(api.Group("/topics", jwtOptional))
	}

	// Public routes go first: the protected group's middleware guards every
	// method under the prefix once registered.
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterPublic(api.Group("/users", jwtOptional))
		deps.UserHandler.RegisterProtected(api.Group("/users", jwtRequired))
	}
}
