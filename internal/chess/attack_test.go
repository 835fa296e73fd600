package chess

import "testing"

func TestAttacked(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		target string
		by     Color
		want   bool
	}{
		{"white pawn attacks diagonally", "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", "d3", White, true},
		{"white pawn does not attack ahead", "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", "e3", White, false},
		{"black pawn attacks downwards", "4k3/4p3/8/8/8/8/8/4K3 w - - 0 1", "f6", Black, true},
		{"pawn attacks an empty square", "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", "f3", White, true},
		{"knight", "4k3/8/8/8/8/8/8/1N2K3 w - - 0 1", "c3", White, true},
		{"rook blocked by own piece", "4k3/8/8/8/8/8/8/R1N3K1 w - - 0 1", "d1", White, false},
		{"rook through empty squares", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "d1", White, true},
		{"bishop long diagonal", "4k3/8/8/8/8/8/8/B3K3 w - - 0 1", "h8", White, true},
		{"queen", "3qk3/8/8/8/8/8/8/4K3 w - - 0 1", "d1", Black, true},
		{"king", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "d2", White, true},
		{"own-occupied square is defended not attacked", "4k3/8/8/8/8/8/8/RN2K3 w - - 0 1", "b1", White, false},
		{"nothing attacks", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "a8", White, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustFEN(t, tt.fen)
			if got := Attacked(&s.Board, sq(tt.target), tt.by); got != tt.want {
				t.Fatalf("Attacked(%s, %s) = %v, want %v", tt.target, tt.by, got, tt.want)
			}
		})
	}
}

func TestAttackedSquaresInitialPosition(t *testing.T) {
	s := NewGameState()
	got := AttackedSquares(&s.Board, Black)
	sixth := 0
	for _, sqr := range got {
		if sqr.Row == 2 {
			sixth++
		}
	}
	if sixth != BoardSize {
		t.Fatalf("black attacks %d squares on the sixth rank, want 8", sixth)
	}
	for _, sqr := range got {
		if sqr.Row > 2 {
			t.Fatalf("black attacks %s from the initial position", sqr)
		}
	}
}

func TestInCheck(t *testing.T) {
	s := mustFEN(t, "4k3/8/8/8/8/8/8/4K2r w - - 0 1")
	if !s.InCheck() {
		t.Fatalf("white king on e1 facing a rook on h1 should be in check")
	}
	s = mustFEN(t, "4k3/8/8/8/8/8/8/4KN1r w - - 0 1")
	if s.InCheck() {
		t.Fatalf("knight on f1 blocks the rook")
	}
}
