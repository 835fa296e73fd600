package chess

// leavesKingSafe simulates m on a copy of b and reports whether side's king
// is unattacked afterwards.
func leavesKingSafe(b *Board, m Move, side Color) bool {
	moved := b.At(m.From)
	next := mustApply(*b, m)
	king := m.To
	if moved.Type != King {
		king = next.mustFindKing(side)
	}
	return !Attacked(&next, king, side.Opponent())
}

// LegalTargets returns the pseudo-legal targets of the piece on from that do
// not leave side's king attacked.
func LegalTargets(b *Board, from Square, side Color, rights CastlingRights) []Square {
	pseudo := PseudoLegalTargets(b, from, side, rights, GenCandidates)
	legal := pseudo[:0]
	for _, to := range pseudo {
		if leavesKingSafe(b, Move{From: from, To: to}, side) {
			legal = append(legal, to)
		}
	}
	return legal
}

// LegalMoves returns every legal move for side, scanning the board row by row.
func LegalMoves(b *Board, side Color, rights CastlingRights) []Move {
	moves := make([]Move, 0, 40)
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			if p := b[r][c]; p.IsEmpty() || p.Color != side {
				continue
			}
			from := Square{Row: r, Col: c}
			for _, to := range LegalTargets(b, from, side, rights) {
				moves = append(moves, Move{From: from, To: to})
			}
		}
	}
	return moves
}

// HasLegalMove stops at the first legal move found.
func HasLegalMove(b *Board, side Color, rights CastlingRights) bool {
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			if p := b[r][c]; p.IsEmpty() || p.Color != side {
				continue
			}
			from := Square{Row: r, Col: c}
			for _, to := range PseudoLegalTargets(b, from, side, rights, GenCandidates) {
				if leavesKingSafe(b, Move{From: from, To: to}, side) {
					return true
				}
			}
		}
	}
	return false
}

// IsLegal answers whether player may move the piece on from to to.
func IsLegal(b *Board, from, to Square, player Color, rights CastlingRights) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if p := b.At(from); p.IsEmpty() || p.Color != player {
		return false
	}
	for _, t := range LegalTargets(b, from, player, rights) {
		if t == to {
			return true
		}
	}
	return false
}
