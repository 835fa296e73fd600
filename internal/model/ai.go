package model

import (
	"github.com/benbeisheim/chessai-backend/internal/chess"
	"github.com/benbeisheim/chessai-backend/internal/worker"
)

// maybeRequestAIMove asks the engine for a move when it is the engine's turn
// in a started game. Called with g.mu held.
func (g *Game) maybeRequestAIMove() {
	if g.worker == nil || g.aiThinking || g.resolve != nil {
		return
	}
	if g.state.ToMove != g.aiColor || !g.players.full() {
		return
	}
	reply, err := g.worker.Submit(worker.NewRequest(g.state))
	if err != nil {
		g.log.Warn().Err(err).Msg("engine request refused")
		return
	}
	g.aiThinking = true
	g.aiError = ""
	g.version++
	go g.awaitAIMove(g.worker, reply)
}

// awaitAIMove applies the engine's reply unless the game has moved on to a
// different worker in the meantime.
func (g *Game) awaitAIMove(w *worker.Worker, reply <-chan worker.Response) {
	resp, ok := <-reply

	g.mu.Lock()
	if !ok || w != g.worker {
		g.mu.Unlock()
		g.log.Debug().Msg("ignoring reply from abandoned engine search")
		return
	}
	g.aiThinking = false
	g.version++
	switch {
	case !resp.OK():
		g.aiError = resp.Message
		g.log.Error().Str("error", resp.Message).Msg("engine search failed")
	case resp.Move == nil:
		g.log.Info().Msg("engine has no legal move")
	case !g.state.IsLegal(*resp.Move):
		g.aiError = "engine proposed an illegal move"
		g.log.Error().Str("move", resp.Move.String()).Msg("engine proposed an illegal move")
	default:
		if err := g.play(*resp.Move); err != nil {
			g.log.Error().Err(err).Str("move", resp.Move.String()).Msg("engine move not applied")
		}
	}
	snap := g.snapshotLocked()
	g.mu.Unlock()

	g.broadcast(snap)
}

// RetryAIMove re-submits the engine's turn after a failed search.
func (g *Game) RetryAIMove(playerID string) error {
	g.mu.Lock()
	if g.players.colorOf(playerID) == chess.NoColor {
		g.mu.Unlock()
		return ErrNotInGame
	}
	g.maybeRequestAIMove()
	snap := g.snapshotLocked()
	g.mu.Unlock()

	g.broadcast(snap)
	return nil
}
