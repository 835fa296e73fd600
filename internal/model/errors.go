package model

import "errors"

var (
	ErrNotInGame    = errors.New("player not in game")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrNoPiece      = errors.New("no piece at from square")
	ErrIllegalMove  = errors.New("illegal move")
	ErrGameOver     = errors.New("game is over")
	ErrGameFull     = errors.New("game is full")
	ErrNoSearcher   = errors.New("ai game needs a searcher")
	ErrNotConnected = errors.New("player not connected")
)
