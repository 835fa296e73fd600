package search

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/benbeisheim/chessai-backend/internal/chess"
	"github.com/rs/zerolog"
)

const (
	DefaultMinDepth = 3
	DefaultMaxDepth = 6

	// depthBudget is divided by the number of legal moves on the board to
	// pick the search depth.
	depthBudget = 64
)

// Result is the outcome of a search. A nil Move means the side to move has no
// legal moves: checkmate or stalemate.
type Result struct {
	Move  *chess.Move
	Score float64
	Depth int
	Nodes uint64
}

type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand

	minDepth int
	maxDepth int
	log      zerolog.Logger
}

type Option func(*Engine)

// WithSeed makes the root tie-break reproducible. Zero keeps a random seed.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		if seed != 0 {
			e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		}
	}
}

func WithDepthBounds(min, max int) Option {
	return func(e *Engine) {
		e.minDepth = min
		e.maxDepth = max
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l.With().Str("component", "search").Logger()
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		minDepth: DefaultMinDepth,
		maxDepth: DefaultMaxDepth,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.minDepth < 1 {
		e.minDepth = 1
	}
	if e.maxDepth < e.minDepth {
		e.maxDepth = e.minDepth
	}
	return e
}

// MaxDepth picks the search depth for s from the number of legal moves
// available to both sides: sparse positions are searched deeper.
func (e *Engine) MaxDepth(s chess.GameState) int {
	total := len(chess.LegalMoves(&s.Board, chess.White, s.Rights)) +
		len(chess.LegalMoves(&s.Board, chess.Black, s.Rights))
	if total == 0 {
		return e.maxDepth
	}
	return min(max(depthBudget/total, e.minDepth), e.maxDepth)
}

// Search picks a best move for the side to move. Root moves with equal
// scores are chosen between at random.
func (e *Engine) Search(s chess.GameState) Result {
	start := time.Now()
	depth := e.MaxDepth(s)

	moves := s.LegalMoves()
	if len(moves) == 0 {
		return Result{Score: Evaluate(s), Depth: depth, Nodes: 1}
	}

	var nodes uint64
	maximizing := s.ToMove == chess.White
	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	var ties []chess.Move
	for _, m := range moves {
		v := alphaBeta(successor(s, m), 1, depth, math.Inf(-1), math.Inf(1), &nodes)
		switch {
		case maximizing && v > best, !maximizing && v < best:
			best = v
			ties = append(ties[:0], m)
		case v == best:
			ties = append(ties, m)
		}
	}

	m := ties[e.pick(len(ties))]
	e.log.Debug().
		Str("side", s.ToMove.String()).
		Str("move", m.String()).
		Int("depth", depth).
		Int("ties", len(ties)).
		Uint64("nodes", nodes).
		Float64("score", best).
		Dur("elapsed", time.Since(start)).
		Msg("search complete")
	return Result{Move: &m, Score: best, Depth: depth, Nodes: nodes}
}

func (e *Engine) pick(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.IntN(n)
}

// AlphaBeta returns the value of s searched depth plies deep with pruning.
func AlphaBeta(s chess.GameState, depth int) float64 {
	var nodes uint64
	return alphaBeta(s, 0, depth, math.Inf(-1), math.Inf(1), &nodes)
}

// Minimax returns the same value as AlphaBeta without pruning.
func Minimax(s chess.GameState, depth int) float64 {
	return minimax(s, 0, depth)
}

func alphaBeta(s chess.GameState, ply, depth int, alpha, beta float64, nodes *uint64) float64 {
	*nodes++
	if ply >= depth {
		return Evaluate(s)
	}
	moves := s.LegalMoves()
	if len(moves) == 0 {
		return Evaluate(s)
	}

	if s.ToMove == chess.White {
		val := math.Inf(-1)
		for _, m := range moves {
			val = math.Max(val, alphaBeta(successor(s, m), ply+1, depth, alpha, beta, nodes))
			if val >= beta {
				return val
			}
			alpha = math.Max(alpha, val)
		}
		return val
	}

	val := math.Inf(1)
	for _, m := range moves {
		val = math.Min(val, alphaBeta(successor(s, m), ply+1, depth, alpha, beta, nodes))
		if val <= alpha {
			return val
		}
		beta = math.Min(beta, val)
	}
	return val
}

func minimax(s chess.GameState, ply, depth int) float64 {
	if ply >= depth {
		return Evaluate(s)
	}
	moves := s.LegalMoves()
	if len(moves) == 0 {
		return Evaluate(s)
	}
	maximizing := s.ToMove == chess.White
	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	for _, m := range moves {
		v := minimax(successor(s, m), ply+1, depth)
		if maximizing {
			best = math.Max(best, v)
		} else {
			best = math.Min(best, v)
		}
	}
	return best
}

// successor applies a generated move. Generated moves always apply, so an
// error here is an internal fault.
func successor(s chess.GameState, m chess.Move) chess.GameState {
	next, err := s.Next(m)
	if err != nil {
		panic(fmt.Errorf("search: applying %s: %w", m, err))
	}
	return next
}
