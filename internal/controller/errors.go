package controller

import (
	"errors"

	"github.com/benbeisheim/chessai-backend/internal/chess"
	"github.com/benbeisheim/chessai-backend/internal/middleware"
	"github.com/benbeisheim/chessai-backend/internal/model"
	"github.com/benbeisheim/chessai-backend/internal/service"
	"github.com/benbeisheim/chessai-backend/internal/worker"
	"github.com/gofiber/fiber/v2"
)

var errBadRequest = errors.New("bad request")

var badRequest = []error{
	errBadRequest,
	chess.ErrMalformedBoard,
	chess.ErrMissingKing,
	chess.ErrInvalidSquare,
	chess.ErrInvalidColor,
	chess.ErrInvalidPieceCode,
	chess.ErrInvalidFEN,
	chess.ErrInconsistentRights,
	chess.ErrOpponentInCheck,
	worker.ErrMissingField,
	model.ErrIllegalMove,
	model.ErrNoPiece,
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, worker.ErrBusy):
		return fiber.StatusTooManyRequests
	case errors.Is(err, model.ErrNotInGame):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull), errors.Is(err, model.ErrNotYourTurn), errors.Is(err, model.ErrGameOver):
		return fiber.StatusConflict
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return fiber.StatusBadRequest
		}
	}
	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func playerID(c *fiber.Ctx) string {
	return middleware.PlayerID(c)
}
