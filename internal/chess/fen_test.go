package chess

import (
	"errors"
	"testing"
)

func TestFromFENStartPosition(t *testing.T) {
	s := mustFEN(t, StartFEN)
	if s != NewGameState() {
		t.Fatalf("start FEN decoded to\n%s", s.Board)
	}
	if got := s.FEN(); got != StartFEN {
		t.Fatalf("FEN() = %q, want %q", got, StartFEN)
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"4k3/8/8/8/8/8/8/4K3 b - - 0 1",
	}
	for _, fen := range fens {
		if got := mustFEN(t, fen).FEN(); got != fen {
			t.Fatalf("round trip of %q gave %q", fen, got)
		}
	}
}

func TestFromFENIgnoresEnPassantAndClocks(t *testing.T) {
	s := mustFEN(t, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2")
	if s.Board.At(sq("e5")) != (Piece{Color: Black, Type: Pawn}) {
		t.Fatalf("e5 pawn missing")
	}
	short := mustFEN(t, "4k3/8/8/8/8/8/8/4K3 w")
	if short.Rights != (CastlingRights{}) {
		t.Fatalf("missing castling field should mean no rights, got %+v", short.Rights)
	}
}

func TestFromFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want error
	}{
		{"empty", "", ErrInvalidFEN},
		{"seven ranks", "8/8/8/8/8/8/8 w - - 0 1", ErrInvalidFEN},
		{"wide rank", "4k4/8/8/8/8/8/8/4K3 w - - 0 1", ErrInvalidFEN},
		{"bad letter", "4k3/8/8/8/8/8/8/4X3 w - - 0 1", ErrInvalidFEN},
		{"bad side", "4k3/8/8/8/8/8/8/4K3 x - - 0 1", ErrInvalidFEN},
		{"bad castling", "4k3/8/8/8/8/8/8/4K3 w Z - 0 1", ErrInvalidFEN},
		{"no black king", "8/8/8/8/8/8/8/4K3 w - - 0 1", ErrMissingKing},
		{"opponent in check", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 b kq - 0 1", ErrOpponentInCheck},
		{"rights without rook", "4k3/8/8/8/8/8/8/4K3 w K - 0 1", ErrInconsistentRights},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromFEN(tt.fen); !errors.Is(err, tt.want) {
				t.Fatalf("FromFEN(%q) error = %v, want %v", tt.fen, err, tt.want)
			}
		})
	}
}
