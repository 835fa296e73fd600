package service

import (
	"fmt"

	"github.com/benbeisheim/chessai-backend/internal/chess"
	"github.com/benbeisheim/chessai-backend/internal/model"
	"github.com/benbeisheim/chessai-backend/internal/ws"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame(opts CreateOptions) (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID, opts); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID, playerID string) (chess.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) HandleMove(gameID, playerID string, move chess.Move) error {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) LegalTargets(gameID string, from chess.Square) ([]chess.Square, error) {
	return gs.gameManager.LegalTargets(gameID, from)
}

func (gs *GameService) ResetGame(gameID, playerID string) error {
	return gs.gameManager.ResetGame(gameID, playerID)
}

func (gs *GameService) RetryAIMove(gameID, playerID string) error {
	return gs.gameManager.RetryAIMove(gameID, playerID)
}

func (gs *GameService) RegisterConnection(gameID, playerID string, conn model.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID, playerID string, conn model.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

// SendError reports err to one player over its game connection.
func (gs *GameService) SendError(gameID, playerID string, err error) error {
	return gs.gameManager.SendTo(gameID, playerID, ws.NewErrorMessage(err))
}
