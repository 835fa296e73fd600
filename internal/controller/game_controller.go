package controller

import (
	"fmt"

	"github.com/benbeisheim/chessai-backend/internal/chess"
	"github.com/benbeisheim/chessai-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	AIColor *chess.Color `json:"aiColor"`
	FEN     string       `json:"fen"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return sendError(c, fmt.Errorf("%w: %w", errBadRequest, err))
		}
	}
	opts := service.CreateOptions{FEN: req.FEN}
	if req.AIColor != nil {
		opts.AIColor = *req.AIColor
	}

	gameID, err := gc.gameService.CreateGame(opts)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.Params("gameId"), playerID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

// LegalMoves returns the highlight squares for the piece at ?row=&col=.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	from := chess.Square{Row: c.QueryInt("row", -1), Col: c.QueryInt("col", -1)}
	moves, err := gc.gameService.LegalTargets(c.Params("gameId"), from)
	if err != nil {
		return sendError(c, err)
	}
	if moves == nil {
		moves = []chess.Square{}
	}
	return c.JSON(fiber.Map{
		"moves": moves,
	})
}
