package chess

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

var ErrInvalidFEN = errors.New("invalid FEN")

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FromFEN reads piece placement, side to move and castling rights. The
// en-passant and clock fields are accepted but ignored.
func FromFEN(fen string) (GameState, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return GameState{}, fmt.Errorf("%w: %q", ErrInvalidFEN, fen)
	}
	if err := checkPlacement(fields[0]); err != nil {
		return GameState{}, err
	}
	side, err := ParseColor(fields[1])
	if err != nil {
		return GameState{}, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}
	castling := "-"
	if len(fields) > 2 {
		castling = fields[2]
	}
	rights, err := parseCastling(castling)
	if err != nil {
		return GameState{}, err
	}

	// dragontoothmg gets a normalized record so it never sees the fields we ignore.
	db := dragontoothmg.ParseFen(strings.Join([]string{fields[0], fields[1], castling, "-", "0", "1"}, " "))
	var board Board
	placeBitboards(&board, db.White, White)
	placeBitboards(&board, db.Black, Black)

	s := GameState{Board: board, ToMove: side, Rights: rights}
	if err := s.Validate(); err != nil {
		return GameState{}, err
	}
	return s, nil
}

func placeBitboards(b *Board, bb dragontoothmg.Bitboards, c Color) {
	sets := []struct {
		bits uint64
		t    PieceType
	}{
		{bb.Pawns, Pawn},
		{bb.Knights, Knight},
		{bb.Bishops, Bishop},
		{bb.Rooks, Rook},
		{bb.Queens, Queen},
		{bb.Kings, King},
	}
	for _, set := range sets {
		for x := set.bits; x != 0; x &= x - 1 {
			sq := bits.TrailingZeros64(x)
			// bit 0 is a1; row 0 is the eighth rank
			b[BoardSize-1-sq/BoardSize][sq%BoardSize] = Piece{Color: c, Type: set.t}
		}
	}
}

func checkPlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != BoardSize {
		return fmt.Errorf("%w: %d ranks", ErrInvalidFEN, len(ranks))
	}
	for i, rank := range ranks {
		width := 0
		for _, ch := range rank {
			switch {
			case ch >= '1' && ch <= '8':
				width += int(ch - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", ch):
				width++
			default:
				return fmt.Errorf("%w: rank %d has %q", ErrInvalidFEN, BoardSize-i, ch)
			}
		}
		if width != BoardSize {
			return fmt.Errorf("%w: rank %d spans %d files", ErrInvalidFEN, BoardSize-i, width)
		}
	}
	return nil
}

func parseCastling(field string) (CastlingRights, error) {
	var r CastlingRights
	if field == "-" {
		return r, nil
	}
	for _, ch := range field {
		switch ch {
		case 'K':
			r.WhiteKingside = true
		case 'Q':
			r.WhiteQueenside = true
		case 'k':
			r.BlackKingside = true
		case 'q':
			r.BlackQueenside = true
		default:
			return r, fmt.Errorf("%w: castling field %q", ErrInvalidFEN, field)
		}
	}
	return r, nil
}

// FEN renders the state with an empty en-passant field and zeroed clocks.
func (s GameState) FEN() string {
	var sb strings.Builder
	for r := 0; r < BoardSize; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < BoardSize; c++ {
			p := s.Board[r][c]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			letter := p.Type.Letter()
			if p.Color == Black {
				letter += 'a' - 'A'
			}
			sb.WriteByte(letter)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	fmt.Fprintf(&sb, " %c %s - 0 1", s.ToMove.Letter(), s.Rights)
	return sb.String()
}
