package worker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/chessai-backend/internal/chess"
)

var ErrMissingField = errors.New("missing request field")

// Request carries everything a search needs. All three fields are required;
// pointers distinguish an absent field from a zero value.
type Request struct {
	Board          *chess.Board          `json:"board"`
	Player         *chess.Color          `json:"player"`
	CastlingRights *chess.CastlingRights `json:"castlingRights"`
}

// NewRequest snapshots s. The request shares no memory with s.
func NewRequest(s chess.GameState) Request {
	board, player, rights := s.Board, s.ToMove, s.Rights
	return Request{Board: &board, Player: &player, CastlingRights: &rights}
}

// State validates the request and returns the position it describes.
func (r Request) State() (chess.GameState, error) {
	switch {
	case r.Board == nil:
		return chess.GameState{}, fmt.Errorf("%w: board", ErrMissingField)
	case r.Player == nil:
		return chess.GameState{}, fmt.Errorf("%w: player", ErrMissingField)
	case r.CastlingRights == nil:
		return chess.GameState{}, fmt.Errorf("%w: castlingRights", ErrMissingField)
	}
	s := chess.GameState{Board: *r.Board, ToMove: *r.Player, Rights: *r.CastlingRights}
	if err := s.Validate(); err != nil {
		return chess.GameState{}, err
	}
	return s, nil
}

type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Response is either a move (nil when the side to move has none) or an error.
type Response struct {
	Status  Status      `json:"status"`
	Move    *chess.Move `json:"move"`
	Message string      `json:"message,omitempty"`
}

func Found(m *chess.Move) Response {
	return Response{Status: StatusOK, Move: m}
}

func Failed(err error) Response {
	return Response{Status: StatusError, Message: err.Error()}
}

func (r Response) OK() bool {
	return r.Status == StatusOK
}

func (r Response) MarshalJSON() ([]byte, error) {
	if r.Status == StatusError {
		return json.Marshal(struct {
			Status  Status `json:"status"`
			Message string `json:"message"`
		}{r.Status, r.Message})
	}
	return json.Marshal(struct {
		Status Status      `json:"status"`
		Move   *chess.Move `json:"move"`
	}{r.Status, r.Move})
}
