package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"

	"github.com/yourorg/wallboard/internal/auth"
	"github.com/yourorg/wallboard/internal/config"
	"github.com/yourorg/wallboard/internal/handlers"
	"github.com/yourorg/wallboard/internal/ws"
)

// New assembles the fiber app: upload and viewer routes, the websocket
// upgrade, and static serving of the media directories. When a JWT
// secret is configured the mutating routes require a bearer token.
func New(cfg *config.Config, h *handlers.Handler, wsrv *ws.Server, v *auth.Validator) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.MaxUploadBytes) + 1<<20,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		ProxyHeader:  cfg.App.ProxyHeader,
	})
	app.Use(fiberlogger.New())

	var guards []fiber.Handler
	if v != nil {
		guards = append(guards, auth.RequireToken(v))
	}

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/last-media", h.LastMedia)
	app.Get("/last-sound", h.LastSound)

	app.Post("/upload", append(guards, h.Upload)...)
	app.Post("/upload-sound", append(guards, h.UploadSound)...)
	app.Post("/push-url", append(guards, h.PushURL)...)

	app.Get("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(wsrv.HandleWS()))

	app.Static("/uploads", cfg.Media.UploadsDir)
	app.Static("/sounds", cfg.Media.SoundsDir)

	return app
}
