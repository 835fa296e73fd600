package chess

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const BoardSize = 8

var (
	ErrMalformedBoard = errors.New("malformed board")
	ErrMissingKing    = errors.New("missing king")
	ErrInvalidSquare  = errors.New("invalid square")
)

// Square is a (row, column) pair. Row 0 is black's back rank, row 7 is white's.
type Square struct {
	Row int
	Col int
}

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

// String returns the algebraic name of the square, e.g. "e4".
func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, BoardSize-s.Row)
}

func (s Square) file() string {
	return fmt.Sprintf("%c", 'a'+s.Col)
}

func (s Square) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Row, s.Col})
}

func (s *Square) UnmarshalJSON(data []byte) error {
	var rc []int
	if err := json.Unmarshal(data, &rc); err != nil || len(rc) != 2 {
		return fmt.Errorf("%w: %s", ErrInvalidSquare, data)
	}
	sq := Square{Row: rc[0], Col: rc[1]}
	if !sq.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidSquare, data)
	}
	*s = sq
	return nil
}

// Board is a fixed 8x8 grid. It is a value type: assignment copies it.
type Board [BoardSize][BoardSize]Piece

func (b *Board) At(s Square) Piece {
	return b[s.Row][s.Col]
}

func (b *Board) Set(s Square, p Piece) {
	b[s.Row][s.Col] = p
}

func (b *Board) isEmpty(row, col int) bool {
	return b[row][col].IsEmpty()
}

// FindKing returns the square of side's king.
func (b *Board) FindKing(side Color) (Square, bool) {
	king := Piece{Color: side, Type: King}
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			if b[r][c] == king {
				return Square{Row: r, Col: c}, true
			}
		}
	}
	return Square{}, false
}

// mustFindKing is used during simulation, where a missing king means the
// legality filter let something through.
func (b *Board) mustFindKing(side Color) Square {
	sq, ok := b.FindKing(side)
	if !ok {
		panic(fmt.Errorf("%w: no %s king on simulated board", ErrMissingKing, side))
	}
	return sq
}

// ValidateKings requires exactly one king of each color.
func (b *Board) ValidateKings() error {
	var white, black int
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			switch b[r][c] {
			case Piece{Color: White, Type: King}:
				white++
			case Piece{Color: Black, Type: King}:
				black++
			}
		}
	}
	if white == 0 || black == 0 {
		return fmt.Errorf("%w: white=%d black=%d", ErrMissingKing, white, black)
	}
	if white > 1 || black > 1 {
		return fmt.Errorf("%w: white=%d black=%d kings", ErrMalformedBoard, white, black)
	}
	return nil
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBoard, err)
	}
	if len(rows) != BoardSize {
		return fmt.Errorf("%w: %d rows", ErrMalformedBoard, len(rows))
	}
	var out Board
	for r, raw := range rows {
		var row []Piece
		if err := json.Unmarshal(raw, &row); err != nil {
			return fmt.Errorf("%w: row %d: %v", ErrMalformedBoard, r, err)
		}
		if len(row) != BoardSize {
			return fmt.Errorf("%w: row %d has %d squares", ErrMalformedBoard, r, len(row))
		}
		copy(out[r][:], row)
	}
	*b = out
	return nil
}

func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(b[r][c].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func NewBoard() Board {
	var b Board
	back := [BoardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for c := 0; c < BoardSize; c++ {
		b[0][c] = Piece{Color: Black, Type: back[c]}
		b[1][c] = Piece{Color: Black, Type: Pawn}
		b[6][c] = Piece{Color: White, Type: Pawn}
		b[7][c] = Piece{Color: White, Type: back[c]}
	}
	return b
}

// Per-color geometry.

func homeRow(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

func pawnDirection(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

func promotionRow(c Color) int {
	return homeRow(c.Opponent())
}

const kingStartCol = 4
