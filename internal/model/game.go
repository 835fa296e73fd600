package model

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessai-backend/internal/chess"
	"github.com/benbeisheim/chessai-backend/internal/worker"
	"github.com/rs/zerolog"
)

const DefaultClockTime = 600 * time.Second

type Resolution string

const (
	Checkmate Resolution = "checkmate"
	Stalemate Resolution = "stalemate"
	Timeout   Resolution = "timeout"
)

type Options struct {
	// AIColor seats the engine. NoColor means two human players.
	AIColor chess.Color
	// Start is the opening position; nil means the standard one.
	Start     *chess.GameState
	Searcher  worker.Searcher
	ClockTime time.Duration
	Logger    *zerolog.Logger
}

// The Game struct focuses on a single game's state and its observers
type Game struct {
	ID string

	mu          sync.Mutex
	initial     chess.GameState
	state       chess.GameState
	history     []Move
	captured    CapturedPieces
	lastMove    *chess.Move
	sound       string
	resolve     *Resolution
	winner      chess.Color
	players     Players
	version     uint64
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock

	aiColor    chess.Color
	searcher   worker.Searcher
	worker     *worker.Worker
	aiThinking bool
	aiError    string

	log zerolog.Logger
}

// GameState is what clients see.
type GameState struct {
	Version        uint64               `json:"version"`
	Sound          string               `json:"sound"`
	Board          chess.Board          `json:"board"`
	ToMove         chess.Color          `json:"toMove"`
	CastlingRights chess.CastlingRights `json:"castlingRights"`
	FEN            string               `json:"fen"`
	MoveHistory    []Move               `json:"moveHistory"`
	CapturedPieces CapturedPieces       `json:"capturedPieces"`
	IsCheck        bool                 `json:"isCheck"`
	Resolve        *Resolution          `json:"resolve"`
	Winner         *chess.Color         `json:"winner"`
	Players        Players              `json:"players"`
	AIColor        *chess.Color         `json:"aiColor"`
	AIThinking     bool                 `json:"aiThinking"`
	AIError        string               `json:"aiError,omitempty"`
	LastMove       *chess.Move          `json:"lastMove"`
}

// CapturedPieces lists the pieces each side has taken.
type CapturedPieces struct {
	White []chess.Piece `json:"white"`
	Black []chess.Piece `json:"black"`
}

func NewGame(id string, opts Options) (*Game, error) {
	start := chess.NewGameState()
	if opts.Start != nil {
		start = *opts.Start
	}
	if err := start.Validate(); err != nil {
		return nil, fmt.Errorf("invalid start position: %w", err)
	}
	if opts.AIColor != chess.NoColor && opts.AIColor != chess.White && opts.AIColor != chess.Black {
		return nil, fmt.Errorf("%w: ai color %d", chess.ErrInvalidColor, opts.AIColor)
	}
	if opts.AIColor != chess.NoColor && opts.Searcher == nil {
		return nil, ErrNoSearcher
	}
	clockTime := opts.ClockTime
	if clockTime <= 0 {
		clockTime = DefaultClockTime
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	g := &Game{
		ID:          id,
		initial:     start,
		connections: NewGameConnections(),
		whiteClock:  NewClock(clockTime),
		blackClock:  NewClock(clockTime),
		aiColor:     opts.AIColor,
		searcher:    opts.Searcher,
		log:         log.With().Str("component", "game").Str("game", id).Logger(),
	}
	g.players.White.Color = chess.White
	g.players.Black.Color = chess.Black
	if g.aiColor != chess.NoColor {
		seat := g.players.seat(g.aiColor)
		seat.ID = EnginePlayerID
		seat.IsAI = true
		g.worker = worker.New(g.searcher, g.log)
	}
	g.resetLocked()
	return g, nil
}

func (g *Game) resetLocked() {
	g.state = g.initial
	g.history = nil
	g.captured = CapturedPieces{White: []chess.Piece{}, Black: []chess.Piece{}}
	g.lastMove = nil
	g.sound = ""
	g.resolve = nil
	g.winner = chess.NoColor
	g.aiThinking = false
	g.aiError = ""
	g.whiteClock.Reset()
	g.blackClock.Reset()
	g.resolveLocked()
	g.version++
}

// AddPlayer seats playerID and returns its color. Joining twice returns the
// same seat.
func (g *Game) AddPlayer(playerID string) (chess.Color, error) {
	g.mu.Lock()
	if c := g.players.colorOf(playerID); c != chess.NoColor {
		g.mu.Unlock()
		return c, nil
	}

	var color chess.Color
	switch {
	case g.players.White.ID == "":
		color = chess.White
	case g.players.Black.ID == "":
		color = chess.Black
	default:
		g.mu.Unlock()
		return chess.NoColor, ErrGameFull
	}
	g.players.seat(color).ID = playerID
	g.log.Info().Str("player", playerID).Str("color", color.String()).Msg("player joined")
	g.version++
	g.maybeRequestAIMove()
	snap := g.snapshotLocked()
	g.mu.Unlock()

	g.broadcast(snap)
	return color, nil
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.players.colorOf(playerID) != chess.NoColor
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Position returns the authoritative chess position.
func (g *Game) Position() chess.GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// LegalTargets returns where the piece on from may move. Pieces of the side
// not on move, and every piece once the game is over, have no targets.
func (g *Game) LegalTargets(from chess.Square) ([]chess.Square, error) {
	if !from.Valid() {
		return nil, fmt.Errorf("%w: %v", chess.ErrInvalidSquare, from)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	piece := g.state.Board.At(from)
	if piece.IsEmpty() {
		return nil, ErrNoPiece
	}
	if piece.Color != g.state.ToMove || g.resolve != nil {
		return []chess.Square{}, nil
	}
	return chess.LegalTargets(&g.state.Board, from, piece.Color, g.state.Rights), nil
}

// MakeMove plays m for playerID after checking it through the legality filter.
func (g *Game) MakeMove(playerID string, m chess.Move) error {
	g.mu.Lock()
	if err := g.checkMoveLocked(playerID, m); err != nil {
		g.mu.Unlock()
		return err
	}
	err := g.play(m)
	if err == nil {
		g.maybeRequestAIMove()
	}
	snap := g.snapshotLocked()
	g.mu.Unlock()

	// a flag fall is still news to the other side
	if err == nil || errors.Is(err, ErrGameOver) {
		g.broadcast(snap)
	}
	return err
}

func (g *Game) checkMoveLocked(playerID string, m chess.Move) error {
	color := g.players.colorOf(playerID)
	if color == chess.NoColor {
		return ErrNotInGame
	}
	if g.resolve != nil {
		return ErrGameOver
	}
	if g.players.seat(color).IsAI || color != g.state.ToMove {
		return ErrNotYourTurn
	}
	if !m.From.Valid() || !m.To.Valid() {
		return fmt.Errorf("%w: %v", chess.ErrInvalidSquare, m)
	}
	piece := g.state.Board.At(m.From)
	if piece.IsEmpty() {
		return ErrNoPiece
	}
	if piece.Color != color {
		return fmt.Errorf("%w: %s does not own %s", ErrIllegalMove, color, m.From)
	}
	if !g.state.IsLegal(m) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	return nil
}

// play applies a move already known to be legal for the side to move.
func (g *Game) play(m chess.Move) error {
	before := g.state
	mover := before.ToMove
	moverClock, nextClock := g.clocks(mover)
	if moverClock.Expired() {
		moverClock.Stop()
		r := Timeout
		g.resolve = &r
		g.winner = mover.Opponent()
		g.version++
		return ErrGameOver
	}

	after, err := before.Next(m)
	if err != nil {
		return err
	}
	ply := newPly(before, after, m)

	moverClock.Stop()
	nextClock.Start()

	g.state = after
	g.lastMove = &m
	if !ply.CapturedPiece.IsEmpty() {
		if mover == chess.White {
			g.captured.White = append(g.captured.White, ply.CapturedPiece)
		} else {
			g.captured.Black = append(g.captured.Black, ply.CapturedPiece)
		}
	}
	g.recordPly(mover, ply)

	switch {
	case after.InCheck():
		g.sound = "check"
	case !ply.CapturedPiece.IsEmpty():
		g.sound = "capture"
	default:
		g.sound = "move"
	}
	g.resolveLocked()
	g.version++

	g.log.Debug().Str("move", m.String()).Str("notation", ply.Notation).Str("fen", after.FEN()).Msg("move played")
	return nil
}

func (g *Game) recordPly(mover chess.Color, ply *Ply) {
	if mover == chess.White {
		g.history = append(g.history, Move{WhitePly: ply})
		return
	}
	if n := len(g.history); n > 0 && g.history[n-1].BlackPly == nil {
		g.history[n-1].BlackPly = ply
		return
	}
	g.history = append(g.history, Move{BlackPly: ply})
}

// resolveLocked marks checkmate or stalemate for the side to move.
func (g *Game) resolveLocked() {
	if g.state.HasLegalMove() {
		return
	}
	r := Stalemate
	if g.state.InCheck() {
		r = Checkmate
		g.winner = g.state.ToMove.Opponent()
	}
	g.resolve = &r
	g.whiteClock.Stop()
	g.blackClock.Stop()
	g.log.Info().Str("resolve", string(r)).Msg("game over")
}

func (g *Game) clocks(mover chess.Color) (*Clock, *Clock) {
	if mover == chess.White {
		return g.whiteClock, g.blackClock
	}
	return g.blackClock, g.whiteClock
}

// Reset restores the starting position. Players keep their seats; an engine
// search still running is abandoned.
func (g *Game) Reset(playerID string) error {
	g.mu.Lock()
	if g.players.colorOf(playerID) == chess.NoColor {
		g.mu.Unlock()
		return ErrNotInGame
	}
	if g.worker != nil {
		g.worker.Terminate()
		g.worker = worker.New(g.searcher, g.log)
	}
	g.resetLocked()
	g.maybeRequestAIMove()
	snap := g.snapshotLocked()
	g.mu.Unlock()

	g.log.Info().Str("player", playerID).Msg("game reset")
	g.broadcast(snap)
	return nil
}

// Close stops the engine and drops every connection.
func (g *Game) Close() {
	g.mu.Lock()
	if g.worker != nil {
		g.worker.Terminate()
		g.worker = nil
	}
	g.aiThinking = false
	g.mu.Unlock()

	g.connections.closeAll()
}

func (g *Game) snapshotLocked() GameState {
	s := GameState{
		Version:        g.version,
		Sound:          g.sound,
		Board:          g.state.Board,
		ToMove:         g.state.ToMove,
		CastlingRights: g.state.Rights,
		FEN:            g.state.FEN(),
		MoveHistory:    append([]Move{}, g.history...),
		CapturedPieces: CapturedPieces{
			White: append([]chess.Piece{}, g.captured.White...),
			Black: append([]chess.Piece{}, g.captured.Black...),
		},
		IsCheck:    g.state.InCheck(),
		Players:    g.players,
		AIThinking: g.aiThinking,
		AIError:    g.aiError,
	}
	if g.resolve != nil {
		r := *g.resolve
		s.Resolve = &r
	}
	if g.winner != chess.NoColor {
		w := g.winner
		s.Winner = &w
	}
	if g.aiColor != chess.NoColor {
		c := g.aiColor
		s.AIColor = &c
	}
	if g.lastMove != nil {
		m := *g.lastMove
		s.LastMove = &m
	}
	s.Players.White.TimeLeft = deciseconds(g.whiteClock.Remaining())
	s.Players.Black.TimeLeft = deciseconds(g.blackClock.Remaining())
	return s
}
