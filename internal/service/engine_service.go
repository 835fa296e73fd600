package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/benbeisheim/chessai-backend/internal/chess"
	"github.com/benbeisheim/chessai-backend/internal/worker"
	"github.com/rs/zerolog"
)

// ValidateRequest asks whether player may move from -> to.
type ValidateRequest struct {
	worker.Request
	From *chess.Square `json:"from"`
	To   *chess.Square `json:"to"`
}

// AttacksRequest asks which squares the opponent of player attacks.
type AttacksRequest struct {
	Board  *chess.Board `json:"board"`
	Player *chess.Color `json:"player"`
}

// EngineService answers position queries that are not tied to a game. Its
// searches share one worker, so only one runs at a time.
type EngineService struct {
	searcher worker.Searcher
	log      zerolog.Logger

	mu     sync.Mutex
	worker *worker.Worker
	closed bool
}

func NewEngineService(searcher worker.Searcher, log zerolog.Logger) *EngineService {
	log = log.With().Str("component", "engine").Logger()
	return &EngineService{
		searcher: searcher,
		log:      log,
		worker:   worker.New(searcher, log),
	}
}

func (es *EngineService) current() *worker.Worker {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.worker
}

// Search runs req on the worker and waits for its response. Invalid requests
// come back as error responses, not errors; a busy worker is ErrBusy. If ctx
// ends first the search is abandoned and the worker replaced, so later
// requests do not queue behind it.
func (es *EngineService) Search(ctx context.Context, req worker.Request) (worker.Response, error) {
	w := es.current()
	reply, err := w.Submit(req)
	if err != nil {
		return worker.Response{}, err
	}
	select {
	case resp, ok := <-reply:
		if !ok {
			return worker.Response{}, worker.ErrTerminated
		}
		return resp, nil
	case <-ctx.Done():
		es.replace(w)
		return worker.Response{}, ctx.Err()
	}
}

// replace terminates w and installs a fresh worker, unless w was already
// replaced or the service is closed.
func (es *EngineService) replace(w *worker.Worker) {
	es.mu.Lock()
	defer es.mu.Unlock()
	if es.closed || es.worker != w {
		return
	}
	w.Terminate()
	es.worker = worker.New(es.searcher, es.log)
	es.log.Warn().Msg("search abandoned, worker replaced")
}

func (es *EngineService) Validate(req ValidateRequest) (bool, error) {
	state, err := req.State()
	if err != nil {
		return false, err
	}
	switch {
	case req.From == nil:
		return false, fmt.Errorf("%w: from", worker.ErrMissingField)
	case req.To == nil:
		return false, fmt.Errorf("%w: to", worker.ErrMissingField)
	}
	return chess.IsLegal(&state.Board, *req.From, *req.To, state.ToMove, state.Rights), nil
}

func (es *EngineService) AttackedSquares(req AttacksRequest) ([]chess.Square, error) {
	switch {
	case req.Board == nil:
		return nil, fmt.Errorf("%w: board", worker.ErrMissingField)
	case req.Player == nil:
		return nil, fmt.Errorf("%w: player", worker.ErrMissingField)
	}
	return chess.AttackedSquares(req.Board, req.Player.Opponent()), nil
}

func (es *EngineService) Close() {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.closed = true
	es.worker.Terminate()
}
