package chess

// Attacked reports whether any piece of color by could move to target on its
// next move, ignoring whose turn it is and ignoring the attacker's own king
// safety. Pawns attack diagonally regardless of what stands on the target;
// every other piece is asked for its attack-probe targets.
func Attacked(b *Board, target Square, by Color) bool {
	pawnRow := target.Row - pawnDirection(by)
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			p := b[r][c]
			if p.IsEmpty() || p.Color != by {
				continue
			}
			if p.Type == Pawn {
				if r == pawnRow && (c == target.Col-1 || c == target.Col+1) {
					return true
				}
				continue
			}
			for _, to := range PseudoLegalTargets(b, Square{Row: r, Col: c}, by, CastlingRights{}, GenAttackProbe) {
				if to == target {
					return true
				}
			}
		}
	}
	return false
}

// AttackedSquares lists every square attacked by color by, row by row.
func AttackedSquares(b *Board, by Color) []Square {
	var out []Square
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			sq := Square{Row: r, Col: c}
			if Attacked(b, sq, by) {
				out = append(out, sq)
			}
		}
	}
	return out
}

// InCheck reports whether side's king is attacked. The board must hold
// side's king.
func InCheck(b *Board, side Color) bool {
	return Attacked(b, b.mustFindKing(side), side.Opponent())
}
