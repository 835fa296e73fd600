package ws

import (
	"encoding/json"

	"github.com/benbeisheim/chessai-backend/internal/chess"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove      MessageType = "move"
	MessageTypeReset     MessageType = "reset"
	MessageTypeRetry     MessageType = "retry"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type MovePayload struct {
	From chess.Square `json:"from"`
	To   chess.Square `json:"to"`
}

func (p MovePayload) Move() chess.Move {
	return chess.Move{From: p.From, To: p.To}
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewErrorMessage wraps err for sending to a client.
func NewErrorMessage(err error) Message {
	payload, _ := json.Marshal(ErrorPayload{Error: err.Error()})
	return Message{Type: MessageTypeError, Payload: payload}
}
