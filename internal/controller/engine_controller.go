package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbeisheim/chessai-backend/internal/chess"
	"github.com/benbeisheim/chessai-backend/internal/service"
	"github.com/benbeisheim/chessai-backend/internal/worker"
	"github.com/gofiber/fiber/v2"
)

type EngineController struct {
	engineService *service.EngineService
	searchTimeout time.Duration
}

func NewEngineController(engineService *service.EngineService, searchTimeout time.Duration) *EngineController {
	return &EngineController{engineService: engineService, searchTimeout: searchTimeout}
}

// Search answers with the worker's response shape, including for errors.
func (ec *EngineController) Search(c *fiber.Ctx) error {
	var req worker.Request
	if err := c.BodyParser(&req); err != nil {
		err = fmt.Errorf("%w: %w", errBadRequest, err)
		return c.Status(statusFor(err)).JSON(worker.Failed(err))
	}
	if _, err := req.State(); err != nil {
		return c.Status(statusFor(err)).JSON(worker.Failed(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), ec.searchTimeout)
	defer cancel()
	resp, err := ec.engineService.Search(ctx, req)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusGatewayTimeout).JSON(worker.Failed(err))
	case err != nil:
		return c.Status(statusFor(err)).JSON(worker.Failed(err))
	case !resp.OK():
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
	return c.JSON(resp)
}

func (ec *EngineController) Validate(c *fiber.Ctx) error {
	var req service.ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fmt.Errorf("%w: %w", errBadRequest, err))
	}
	legal, err := ec.engineService.Validate(req)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"legal": legal,
	})
}

func (ec *EngineController) Attacks(c *fiber.Ctx) error {
	var req service.AttacksRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fmt.Errorf("%w: %w", errBadRequest, err))
	}
	squares, err := ec.engineService.AttackedSquares(req)
	if err != nil {
		return sendError(c, err)
	}
	if squares == nil {
		squares = []chess.Square{}
	}
	return c.JSON(fiber.Map{
		"squares": squares,
	})
}
