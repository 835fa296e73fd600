package model

import (
	"strings"

	"github.com/benbeisheim/chessai-backend/internal/chess"
)

type CastleRookMove struct {
	From chess.Square `json:"from"`
	To   chess.Square `json:"to"`
}

type Ply struct {
	Piece          chess.Piece     `json:"piece"`
	From           chess.Square    `json:"from"`
	To             chess.Square    `json:"to"`
	CapturedPiece  chess.Piece     `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      bool            `json:"promotion"`
	Notation       string          `json:"notation"`
}

// Move pairs a white ply with the black reply. Either side is nil when the
// game started with black to move or black has not replied yet.
type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

// newPly describes m played from before, reaching after.
func newPly(before, after chess.GameState, m chess.Move) *Ply {
	piece := before.Board.At(m.From)
	ply := &Ply{
		Piece:         piece,
		From:          m.From,
		To:            m.To,
		CapturedPiece: before.Board.At(m.To),
		Promotion:     piece.Type == chess.Pawn && after.Board.At(m.To).Type == chess.Queen,
	}
	if piece.Type == chess.King && abs(m.To.Col-m.From.Col) == 2 {
		rook := CastleRookMove{
			From: chess.Square{Row: m.From.Row, Col: chess.BoardSize - 1},
			To:   chess.Square{Row: m.From.Row, Col: m.To.Col - 1},
		}
		if m.To.Col < m.From.Col {
			rook = CastleRookMove{
				From: chess.Square{Row: m.From.Row, Col: 0},
				To:   chess.Square{Row: m.From.Row, Col: m.To.Col + 1},
			}
		}
		ply.CastleRookMove = &rook
	}
	ply.Notation = notation(before, after, m, ply)
	return ply
}

func notation(before, after chess.GameState, m chess.Move, ply *Ply) string {
	var sb strings.Builder
	switch {
	case ply.CastleRookMove != nil && ply.CastleRookMove.From.Col == 0:
		sb.WriteString("O-O-O")
	case ply.CastleRookMove != nil:
		sb.WriteString("O-O")
	default:
		if ply.Piece.Type == chess.Pawn {
			if !ply.CapturedPiece.IsEmpty() {
				sb.WriteString(m.From.String()[:1])
			}
		} else {
			sb.WriteByte(ply.Piece.Type.Letter())
			sb.WriteString(disambiguation(before, m))
		}
		if !ply.CapturedPiece.IsEmpty() {
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
		if ply.Promotion {
			sb.WriteString("=Q")
		}
	}

	if after.InCheck() {
		if after.HasLegalMove() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	return sb.String()
}

// disambiguation returns the file, rank or both needed to tell m apart from
// another piece of the same kind that could reach the same square.
func disambiguation(before chess.GameState, m chess.Move) string {
	piece := before.Board.At(m.From)
	var sameFile, sameRank, other bool
	for _, cand := range before.LegalMoves() {
		if cand.To != m.To || cand.From == m.From || before.Board.At(cand.From) != piece {
			continue
		}
		other = true
		if cand.From.Col == m.From.Col {
			sameFile = true
		}
		if cand.From.Row == m.From.Row {
			sameRank = true
		}
	}
	name := m.From.String()
	switch {
	case !other:
		return ""
	case !sameFile:
		return name[:1]
	case !sameRank:
		return name[1:]
	}
	return name
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
