// service/game_manager.go
package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessai-backend/internal/chess"
	"github.com/benbeisheim/chessai-backend/internal/model"
	"github.com/benbeisheim/chessai-backend/internal/worker"
	"github.com/benbeisheim/chessai-backend/internal/ws"
	"github.com/rs/zerolog"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// CreateOptions configures a new game.
type CreateOptions struct {
	AIColor chess.Color
	FEN     string
}

type GameManager struct {
	games     map[string]*model.Game
	mu        sync.RWMutex
	searcher  worker.Searcher
	clockTime time.Duration
	log       zerolog.Logger
}

// NewGameManager creates a registry whose AI games search with searcher.
func NewGameManager(searcher worker.Searcher, clockTime time.Duration, log zerolog.Logger) *GameManager {
	return &GameManager{
		games:     make(map[string]*model.Game),
		searcher:  searcher,
		clockTime: clockTime,
		log:       log.With().Str("component", "games").Logger(),
	}
}

func (gm *GameManager) CreateGame(gameID string, opts CreateOptions) error {
	gameOpts := model.Options{
		AIColor:   opts.AIColor,
		Searcher:  gm.searcher,
		ClockTime: gm.clockTime,
		Logger:    &gm.log,
	}
	if opts.FEN != "" {
		start, err := chess.FromFEN(opts.FEN)
		if err != nil {
			return err
		}
		gameOpts.Start = &start
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	if _, exists := gm.games[gameID]; exists {
		return fmt.Errorf("%w: %s", ErrGameExists, gameID)
	}
	game, err := model.NewGame(gameID, gameOpts)
	if err != nil {
		return err
	}
	gm.games[gameID] = game
	gm.log.Info().Str("game", gameID).Str("ai", opts.AIColor.String()).Msg("game created")
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return game, nil
}

// The per-game calls below resolve the game under the registry lock and
// release it before touching the game, which has its own lock.

func (gm *GameManager) AddPlayerToGame(gameID, playerID string) (chess.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return chess.NoColor, err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID, playerID string, move chess.Move) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.MakeMove(playerID, move)
}

func (gm *GameManager) LegalTargets(gameID string, from chess.Square) ([]chess.Square, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalTargets(from)
}

func (gm *GameManager) ResetGame(gameID, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Reset(playerID)
}

func (gm *GameManager) RetryAIMove(gameID, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RetryAIMove(playerID)
}

func (gm *GameManager) RegisterConnection(gameID, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID, playerID string, conn model.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

func (gm *GameManager) SendTo(gameID, playerID string, msg ws.Message) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.SendTo(playerID, msg)
}

// RemoveGame closes a game and forgets it.
func (gm *GameManager) RemoveGame(gameID string) error {
	gm.mu.Lock()
	game, exists := gm.games[gameID]
	delete(gm.games, gameID)
	gm.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	game.Close()
	return nil
}

func (gm *GameManager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

// Close shuts down every game.
func (gm *GameManager) Close() {
	gm.mu.Lock()
	games := gm.games
	gm.games = make(map[string]*model.Game)
	gm.mu.Unlock()

	for _, game := range games {
		game.Close()
	}
}
