package chess

import (
	"errors"
	"fmt"
)

// ErrOpponentInCheck marks a position where the side to move could capture
// the enemy king.
var ErrOpponentInCheck = errors.New("side not to move is in check")

// GameState is an immutable snapshot of a position. Next returns a new
// state; the receiver is never modified.
type GameState struct {
	Board  Board          `json:"board"`
	ToMove Color          `json:"player"`
	Rights CastlingRights `json:"castlingRights"`
}

func NewGameState() GameState {
	return GameState{
		Board:  NewBoard(),
		ToMove: White,
		Rights: AllCastlingRights,
	}
}

// Validate checks what must hold before any generation or search runs.
func (s GameState) Validate() error {
	if s.ToMove != White && s.ToMove != Black {
		return fmt.Errorf("%w: side to move %d", ErrInvalidColor, s.ToMove)
	}
	if err := s.Board.ValidateKings(); err != nil {
		return err
	}
	if InCheck(&s.Board, s.ToMove.Opponent()) {
		return fmt.Errorf("%w: %s king is attacked", ErrOpponentInCheck, s.ToMove.Opponent())
	}
	return s.Rights.Validate(&s.Board)
}

// Next applies m for the side to move and returns the following state.
// m is trusted to be legal.
func (s GameState) Next(m Move) (GameState, error) {
	board, err := Apply(s.Board, m)
	if err != nil {
		return GameState{}, err
	}
	return GameState{
		Board:  board,
		ToMove: s.ToMove.Opponent(),
		Rights: UpdateRights(s.Rights, &s.Board, m),
	}, nil
}

func (s GameState) LegalMoves() []Move {
	return LegalMoves(&s.Board, s.ToMove, s.Rights)
}

func (s GameState) HasLegalMove() bool {
	return HasLegalMove(&s.Board, s.ToMove, s.Rights)
}

func (s GameState) InCheck() bool {
	return InCheck(&s.Board, s.ToMove)
}

func (s GameState) IsLegal(m Move) bool {
	return IsLegal(&s.Board, m.From, m.To, s.ToMove, s.Rights)
}
