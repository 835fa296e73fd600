package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/chessai-backend/internal/middleware"
	"github.com/benbeisheim/chessai-backend/internal/service"
	"github.com/benbeisheim/chessai-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

type WebSocketController struct {
	gameService *service.GameService
	log         zerolog.Logger
}

func NewWebSocketController(gameService *service.GameService, log zerolog.Logger) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		log:         log.With().Str("component", "ws").Logger(),
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	log := wsc.log.With().Str("game", gameID).Str("player", playerID).Logger()

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warn().Err(err).Msg("failed to register connection")
		c.WriteJSON(ws.NewErrorMessage(err))
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Msg("read loop ended")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.reportError(log, gameID, playerID, fmt.Errorf("%w: %w", errBadRequest, err))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			wsc.reportError(log, gameID, playerID, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move ws.MovePayload
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("%w: %w", errBadRequest, err)
		}
		return wsc.gameService.HandleMove(gameID, playerID, move.Move())
	case ws.MessageTypeReset:
		return wsc.gameService.ResetGame(gameID, playerID)
	case ws.MessageTypeRetry:
		return wsc.gameService.RetryAIMove(gameID, playerID)
	default:
		return fmt.Errorf("%w: unknown message type %q", errBadRequest, msg.Type)
	}
}

func (wsc *WebSocketController) reportError(log zerolog.Logger, gameID, playerID string, err error) {
	log.Debug().Err(err).Msg("message rejected")
	if sendErr := wsc.gameService.SendError(gameID, playerID, err); sendErr != nil {
		log.Warn().Err(sendErr).Msg("failed to send error")
	}
}
