package model

import "github.com/benbeisheim/chessai-backend/internal/chess"

// EnginePlayerID occupies the engine's seat in games against the AI.
const EnginePlayerID = "engine"

type ClientPlayer struct {
	ID       string      `json:"name"`
	Color    chess.Color `json:"color"`
	TimeLeft int         `json:"timeLeft"`
	IsAI     bool        `json:"isAI"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (p *Players) seat(c chess.Color) *ClientPlayer {
	if c == chess.White {
		return &p.White
	}
	return &p.Black
}

// colorOf returns the seat held by playerID, or NoColor.
func (p *Players) colorOf(playerID string) chess.Color {
	switch {
	case playerID == "":
		return chess.NoColor
	case p.White.ID == playerID:
		return chess.White
	case p.Black.ID == playerID:
		return chess.Black
	}
	return chess.NoColor
}

func (p *Players) full() bool {
	return p.White.ID != "" && p.Black.ID != ""
}
