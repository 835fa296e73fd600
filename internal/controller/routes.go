package controller

import (
	"errors"
	"strings"

	"github.com/benbeisheim/chessai-backend/internal/middleware"
	"github.com/benbeisheim/chessai-backend/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

type Routes struct {
	Game         *GameController
	Engine       *EngineController
	WebSocket    *WebSocketController
	AllowOrigins string
	Logger       zerolog.Logger
}

// NewApp wires the middleware stack and every route.
func NewApp(r Routes) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(fiberrecover.New())
	app.Use(requestid.New())
	app.Use(middleware.AccessLog(r.Logger.With().Str("component", "http").Logger()))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     r.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// Set up WebSocket routes
	app.Use("/ws/*", middleware.EnsurePlayerID(model.EnginePlayerID))
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(r.WebSocket.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         splitOrigins(r.AllowOrigins),
	}))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsurePlayerID(model.EnginePlayerID))

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", r.Game.CreateGame)
	gameRoutes.Post("/join/:gameId", r.Game.JoinGame)
	gameRoutes.Get("/:gameId", r.Game.GetGameState)
	gameRoutes.Get("/:gameId/moves", r.Game.LegalMoves)

	engineRoutes := api.Group("/engine")
	engineRoutes.Post("/search", r.Engine.Search)
	engineRoutes.Post("/validate", r.Engine.Validate)
	engineRoutes.Post("/attacks", r.Engine.Attacks)

	return app
}

// errorHandler renders errors that escape a handler, including recovered
// panics, in the same {"error": ...} shape the handlers use.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
