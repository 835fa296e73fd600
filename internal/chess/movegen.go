package chess

// GenMode selects how much of the movement rules the generator applies.
type GenMode int

const (
	// GenCandidates produces every pseudo-legal target, castling included.
	GenCandidates GenMode = iota
	// GenAttackProbe never synthesizes castling moves. The attack oracle uses
	// it, and castling itself asks the attack oracle, so this mode is what
	// keeps the two from recursing into each other.
	GenAttackProbe
)

type direction struct {
	dr, dc int
}

var (
	knightDirs = []direction{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingDirs   = []direction{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	rookDirs   = []direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDirs = []direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	queenDirs  = append(append([]direction{}, rookDirs...), bishopDirs...)
)

// PseudoLegalTargets returns the squares the piece on from may move to by
// movement rules alone. It returns nil unless the piece belongs to side.
// King safety is not considered.
func PseudoLegalTargets(b *Board, from Square, side Color, rights CastlingRights, mode GenMode) []Square {
	if !from.Valid() {
		return nil
	}
	piece := b.At(from)
	if piece.IsEmpty() || piece.Color != side {
		return nil
	}
	targets := make([]Square, 0, 16)
	switch piece.Type {
	case Pawn:
		targets = pawnTargets(b, from, side, targets)
	case Knight:
		targets = stepTargets(b, from, side, knightDirs, targets)
	case Bishop:
		targets = slideTargets(b, from, side, bishopDirs, targets)
	case Rook:
		targets = slideTargets(b, from, side, rookDirs, targets)
	case Queen:
		targets = slideTargets(b, from, side, queenDirs, targets)
	case King:
		targets = stepTargets(b, from, side, kingDirs, targets)
		if mode != GenAttackProbe {
			targets = castleTargets(b, from, side, rights, targets)
		}
	}
	return targets
}

func pawnTargets(b *Board, from Square, side Color, targets []Square) []Square {
	dir := pawnDirection(side)
	ahead := Square{Row: from.Row + dir, Col: from.Col}
	if !ahead.Valid() {
		return targets
	}
	if b.At(ahead).IsEmpty() {
		targets = append(targets, ahead)
		twoAhead := Square{Row: from.Row + 2*dir, Col: from.Col}
		if from.Row == pawnStartRow(side) && b.At(twoAhead).IsEmpty() {
			targets = append(targets, twoAhead)
		}
	}
	for _, dc := range [2]int{-1, 1} {
		capture := Square{Row: ahead.Row, Col: from.Col + dc}
		if !capture.Valid() {
			continue
		}
		if target := b.At(capture); !target.IsEmpty() && target.Color != side {
			targets = append(targets, capture)
		}
	}
	return targets
}

func stepTargets(b *Board, from Square, side Color, dirs []direction, targets []Square) []Square {
	for _, d := range dirs {
		to := Square{Row: from.Row + d.dr, Col: from.Col + d.dc}
		if !to.Valid() {
			continue
		}
		if target := b.At(to); target.IsEmpty() || target.Color != side {
			targets = append(targets, to)
		}
	}
	return targets
}

func slideTargets(b *Board, from Square, side Color, dirs []direction, targets []Square) []Square {
	for _, d := range dirs {
		to := Square{Row: from.Row + d.dr, Col: from.Col + d.dc}
		for to.Valid() {
			target := b.At(to)
			if target.IsEmpty() {
				targets = append(targets, to)
			} else {
				if target.Color != side {
					targets = append(targets, to)
				}
				break
			}
			to = Square{Row: to.Row + d.dr, Col: to.Col + d.dc}
		}
	}
	return targets
}

// castleTargets adds the two-file king moves. The king must stand on its
// start square, the right must be held, the squares between king and rook
// must be empty, and neither the king's square nor the squares it crosses may
// be attacked.
func castleTargets(b *Board, from Square, side Color, rights CastlingRights, targets []Square) []Square {
	row := homeRow(side)
	if from != (Square{Row: row, Col: kingStartCol}) {
		return targets
	}
	opponent := side.Opponent()
	safe := func(cols ...int) bool {
		for _, c := range cols {
			if Attacked(b, Square{Row: row, Col: c}, opponent) {
				return false
			}
		}
		return true
	}
	if rights.Kingside(side) &&
		b.isEmpty(row, kingStartCol+1) && b.isEmpty(row, kingStartCol+2) &&
		safe(kingStartCol, kingStartCol+1, kingStartCol+2) {
		targets = append(targets, Square{Row: row, Col: kingStartCol + 2})
	}
	if rights.Queenside(side) &&
		b.isEmpty(row, kingStartCol-1) && b.isEmpty(row, kingStartCol-2) && b.isEmpty(row, kingStartCol-3) &&
		safe(kingStartCol, kingStartCol-1, kingStartCol-2) {
		targets = append(targets, Square{Row: row, Col: kingStartCol - 2})
	}
	return targets
}
