package search

import "github.com/benbeisheim/chessai-backend/internal/chess"

// MateScore is returned for a checkmated position, signed toward the winner.
const MateScore = 10000.0

var pieceValues = [...]float64{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
	chess.King:   0,
}

// Evaluate scores s from white's point of view. A side to move with no legal
// moves is either mated (±MateScore) or stalemated (0).
func Evaluate(s chess.GameState) float64 {
	if !s.HasLegalMove() {
		if !s.InCheck() {
			return 0
		}
		if s.ToMove == chess.White {
			return -MateScore
		}
		return MateScore
	}
	return Material(&s.Board)
}

// Material sums piece values plus the pawn advancement and centre bonuses.
func Material(b *chess.Board) float64 {
	var score float64
	for r := 0; r < chess.BoardSize; r++ {
		for c := 0; c < chess.BoardSize; c++ {
			p := b[r][c]
			if p.IsEmpty() {
				continue
			}
			v := pieceValues[p.Type]
			if p.Type == chess.Pawn {
				v += pawnBonus(p.Color, r, c)
			}
			if p.Color == chess.White {
				score += v
			} else {
				score -= v
			}
		}
	}
	return score
}

func pawnBonus(c chess.Color, row, col int) float64 {
	var bonus float64
	advanced := 4 - row
	if c == chess.Black {
		advanced = row - 3
	}
	if advanced > 0 {
		bonus += 0.1 * float64(advanced)
	}
	if (col == 3 || col == 4) && (row == 3 || row == 4) {
		bonus += 0.2
	}
	return bonus
}
