// Package http is the Fiber gateway: the same command surface as the gRPC server
// over JSON, plus the live stream over a WebSocket.
package http

import (
	"context"
	"log/slog"
	"meeting-lab/auth"
	"meeting-lab/domain"
	"meeting-lab/services"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const identityKey = "identity"

type Gateway struct {
	app             *fiber.App
	ctx             context.Context
	stop            context.CancelFunc
	services        services.Services
	interceptor     *auth.Interceptor
	log             *slog.Logger
	deliveryTimeout time.Duration
}

func NewGateway(log *slog.Logger, svc services.Services, interceptor *auth.Interceptor, deliveryTimeout time.Duration) *Gateway {
	g := &Gateway{
		services:        svc,
		interceptor:     interceptor,
		log:             log,
		deliveryTimeout: deliveryTimeout,
	}
	g.ctx, g.stop = context.WithCancel(context.Background())
	g.app = fiber.New(fiber.Config{
		AppName:               "meeting-lab",
		DisableStartupMessage: true,
		ErrorHandler:          g.errorHandler,
	})
	g.app.Use(recover.New())
	g.app.Use(requestLogger(log))
	g.registerRoutes()
	return g
}

func (g *Gateway) App() *fiber.App {
	return g.app
}

func (g *Gateway) Listen(addr string) error {
	g.log.Info("Starting HTTP gateway", "address", addr)
	return g.app.Listen(addr)
}

// Shutdown ends the live websocket sessions then stops accepting requests.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.stop()
	return g.app.ShutdownWithContext(ctx)
}

func (g *Gateway) registerRoutes() {
	g.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	g.app.Use("/chat", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		identity, err := g.interceptor.Authenticate(c.Query("token"))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Please authenticate first!")
		}
		c.Locals(identityKey, identity)
		return c.Next()
	})
	g.app.Get("/chat", websocket.New(g.handleChat))

	api := g.app.Group("/api")
	api.Post("/login", g.login)
	api.Post("/redeem", g.redeem)

	api.Get("/me", g.authRequired, g.me)
	api.Post("/post", g.authRequired, g.post)
	api.Post("/mgmt", g.authRequired, g.moderate)
	api.Post("/proxy", g.authRequired, g.proxy)
	api.Post("/invite", g.authRequired, g.invite)
	api.Get("/export", g.authRequired, g.export)
	api.Get("/search", g.authRequired, g.search)
}

// authRequired validates the bearer token and stores the identity for the handlers.
func (g *Gateway) authRequired(c *fiber.Ctx) error {
	identity, err := g.interceptor.Authenticate(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(domain.Failed("Please authenticate first!"))
	}
	c.Locals(identityKey, identity)
	return c.Next()
}

func identityOf(c *fiber.Ctx) domain.Identity {
	identity, _ := c.Locals(identityKey).(domain.Identity)
	return identity
}

func (g *Gateway) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Oops, something went terribly wrong here!"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	if code >= fiber.StatusInternalServerError {
		g.log.Error("HTTP error", "code", code, "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(domain.Failed(message))
}

// requestLogger writes one structured line per request.
func requestLogger(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Debug("HTTP request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start))
		return err
	}
}
