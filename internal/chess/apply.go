package chess

import (
	"errors"
	"fmt"
)

var ErrCastlingRookMissing = errors.New("castling rook missing")

// Apply returns the board after m. The input board is not modified.
// A pawn reaching the last rank becomes a queen. A king moving two files
// also brings its rook across; if that rook is not in its corner the
// legality check upstream has failed and an error is returned.
func Apply(b Board, m Move) (Board, error) {
	piece := b.At(m.From)
	b.Set(m.To, piece)
	b.Set(m.From, NoPiece)

	if piece.Type == Pawn && m.To.Row == promotionRow(piece.Color) {
		b.Set(m.To, Piece{Color: piece.Color, Type: Queen})
	}

	if m.isCastle(piece) {
		rookFrom, rookTo := castleRookSquares(m)
		rook := Piece{Color: piece.Color, Type: Rook}
		if b.At(rookFrom) != rook {
			return Board{}, fmt.Errorf("%w: %s expected on %s for %s", ErrCastlingRookMissing, rook, rookFrom, m)
		}
		b.Set(rookTo, rook)
		b.Set(rookFrom, NoPiece)
	}
	return b, nil
}

func mustApply(b Board, m Move) Board {
	next, err := Apply(b, m)
	if err != nil {
		panic(err)
	}
	return next
}

type corner struct {
	square   Square
	color    Color
	kingside bool
}

var rookCorners = [4]corner{
	{Square{Row: 7, Col: 7}, White, true},
	{Square{Row: 7, Col: 0}, White, false},
	{Square{Row: 0, Col: 7}, Black, true},
	{Square{Row: 0, Col: 0}, Black, false},
}

// UpdateRights derives the rights after m from the rights and the board
// before m. A king move drops both of its side's rights. A rook leaving its
// corner, or anything landing on a corner that still holds its original
// rook, drops that corner's right.
func UpdateRights(r CastlingRights, before *Board, m Move) CastlingRights {
	moved := before.At(m.From)
	if moved.Type == King {
		r = r.withoutKingside(moved.Color).withoutQueenside(moved.Color)
	}
	for _, sq := range [2]Square{m.From, m.To} {
		for _, c := range rookCorners {
			if sq != c.square || before.At(sq) != (Piece{Color: c.color, Type: Rook}) {
				continue
			}
			if c.kingside {
				r = r.withoutKingside(c.color)
			} else {
				r = r.withoutQueenside(c.color)
			}
		}
	}
	return r
}
