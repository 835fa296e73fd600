package chess

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInconsistentRights = errors.New("castling rights inconsistent with board")

// Move is an ordered (from, to) pair. Castling and promotion are implied by
// the moving piece and the geometry.
type Move struct {
	From Square
	To   Square
}

// String returns the move in coordinate notation, e.g. "e2e4".
func (m Move) String() string {
	return m.From.String() + m.To.String()
}

func (m Move) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]Square{m.From, m.To})
}

func (m *Move) UnmarshalJSON(data []byte) error {
	var pair []Square
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: move needs two squares, got %d", ErrInvalidSquare, len(pair))
	}
	*m = Move{From: pair[0], To: pair[1]}
	return nil
}

func (m Move) isCastle(p Piece) bool {
	return p.Type == King && abs(m.To.Col-m.From.Col) == 2
}

// castleRookSquares returns where the rook starts and ends for a castling king move.
func castleRookSquares(m Move) (from, to Square) {
	row := m.From.Row
	if m.To.Col > m.From.Col {
		return Square{Row: row, Col: BoardSize - 1}, Square{Row: row, Col: m.To.Col - 1}
	}
	return Square{Row: row, Col: 0}, Square{Row: row, Col: m.To.Col + 1}
}

// CastlingRights only ever go from true to false during a game.
type CastlingRights struct {
	WhiteKingside  bool `json:"wK"`
	WhiteQueenside bool `json:"wQ"`
	BlackKingside  bool `json:"bK"`
	BlackQueenside bool `json:"bQ"`
}

var AllCastlingRights = CastlingRights{
	WhiteKingside:  true,
	WhiteQueenside: true,
	BlackKingside:  true,
	BlackQueenside: true,
}

func (r CastlingRights) Kingside(c Color) bool {
	if c == White {
		return r.WhiteKingside
	}
	return r.BlackKingside
}

func (r CastlingRights) Queenside(c Color) bool {
	if c == White {
		return r.WhiteQueenside
	}
	return r.BlackQueenside
}

func (r CastlingRights) withoutKingside(c Color) CastlingRights {
	if c == White {
		r.WhiteKingside = false
	} else {
		r.BlackKingside = false
	}
	return r
}

func (r CastlingRights) withoutQueenside(c Color) CastlingRights {
	if c == White {
		r.WhiteQueenside = false
	} else {
		r.BlackQueenside = false
	}
	return r
}

// String returns the FEN castling field.
func (r CastlingRights) String() string {
	s := ""
	if r.WhiteKingside {
		s += "K"
	}
	if r.WhiteQueenside {
		s += "Q"
	}
	if r.BlackKingside {
		s += "k"
	}
	if r.BlackQueenside {
		s += "q"
	}
	if s == "" {
		return "-"
	}
	return s
}

// Validate rejects rights that claim a castle whose king or rook is not on
// its home square.
func (r CastlingRights) Validate(b *Board) error {
	for _, c := range []Color{White, Black} {
		row := homeRow(c)
		kingHome := b[row][kingStartCol] == Piece{Color: c, Type: King}
		rook := Piece{Color: c, Type: Rook}
		if r.Kingside(c) && (!kingHome || b[row][BoardSize-1] != rook) {
			return fmt.Errorf("%w: %s kingside", ErrInconsistentRights, c)
		}
		if r.Queenside(c) && (!kingHome || b[row][0] != rook) {
			return fmt.Errorf("%w: %s queenside", ErrInconsistentRights, c)
		}
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
