package chess

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidColor     = errors.New("invalid color")
	ErrInvalidPieceCode = errors.New("invalid piece code")
)

type Color uint8

const (
	NoColor Color = iota
	White
	Black
)

// Opponent returns the other side. NoColor has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) Letter() byte {
	switch c {
	case White:
		return 'w'
	case Black:
		return 'b'
	}
	return '-'
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

func ParseColor(s string) (Color, error) {
	switch s {
	case "w", "white":
		return White, nil
	case "b", "black":
		return Black, nil
	}
	return NoColor, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

func (c Color) MarshalJSON() ([]byte, error) {
	if c != White && c != Black {
		return nil, fmt.Errorf("%w: %d", ErrInvalidColor, c)
	}
	return json.Marshal(string(c.Letter()))
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidColor, data)
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (p PieceType) Letter() byte {
	switch p {
	case Pawn:
		return 'P'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Rook:
		return 'R'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	}
	return '-'
}

func pieceTypeFromLetter(b byte) (PieceType, bool) {
	switch b {
	case 'P':
		return Pawn, true
	case 'N':
		return Knight, true
	case 'B':
		return Bishop, true
	case 'R':
		return Rook, true
	case 'Q':
		return Queen, true
	case 'K':
		return King, true
	}
	return NoPieceType, false
}

// Piece is a tagged color/type pair. The zero value is an empty square.
type Piece struct {
	Color Color
	Type  PieceType
}

var NoPiece = Piece{}

func (p Piece) IsEmpty() bool {
	return p.Type == NoPieceType
}

// Code returns the two character piece code, e.g. "wK" or "bP".
// Empty squares have no code.
func (p Piece) Code() string {
	if p.IsEmpty() {
		return ""
	}
	return string([]byte{p.Color.Letter(), p.Type.Letter()})
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "--"
	}
	return p.Code()
}

func ParsePiece(code string) (Piece, error) {
	if len(code) != 2 {
		return NoPiece, fmt.Errorf("%w: %q", ErrInvalidPieceCode, code)
	}
	color, err := ParseColor(code[:1])
	if err != nil {
		return NoPiece, fmt.Errorf("%w: %q", ErrInvalidPieceCode, code)
	}
	t, ok := pieceTypeFromLetter(code[1])
	if !ok {
		return NoPiece, fmt.Errorf("%w: %q", ErrInvalidPieceCode, code)
	}
	return Piece{Color: color, Type: t}, nil
}

func (p Piece) MarshalJSON() ([]byte, error) {
	if p.IsEmpty() {
		return []byte("null"), nil
	}
	return json.Marshal(p.Code())
}

func (p *Piece) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = NoPiece
		return nil
	}
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPieceCode, data)
	}
	parsed, err := ParsePiece(code)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
