package worker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessai-backend/internal/chess"
	"github.com/benbeisheim/chessai-backend/internal/search"
	"github.com/rs/zerolog"
)

var (
	ErrBusy       = errors.New("a search is already in flight")
	ErrTerminated = errors.New("worker terminated")
)

type Searcher interface {
	Search(s chess.GameState) search.Result
}

type job struct {
	state chess.GameState
	reply chan Response
}

// Worker runs searches one at a time on its own goroutine. A search cannot be
// interrupted; Terminate abandons it and its response is never delivered.
type Worker struct {
	searcher Searcher
	log      zerolog.Logger

	mu         sync.Mutex
	busy       bool
	terminated bool

	jobs chan job
	done chan struct{}
}

func New(searcher Searcher, log zerolog.Logger) *Worker {
	w := &Worker{
		searcher: searcher,
		log:      log.With().Str("component", "worker").Logger(),
		jobs:     make(chan job, 1),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w
}

// Submit queues a search. The returned channel yields exactly one Response,
// or is closed without one if the worker is terminated first. Invalid
// requests are answered immediately with an error response.
func (w *Worker) Submit(req Request) (<-chan Response, error) {
	reply := make(chan Response, 1)
	state, err := req.State()
	if err != nil {
		w.log.Warn().Err(err).Msg("rejected search request")
		reply <- Failed(fmt.Errorf("invalid search request: %w", err))
		close(reply)
		return reply, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.terminated {
		return nil, ErrTerminated
	}
	if w.busy {
		return nil, ErrBusy
	}
	w.busy = true
	w.jobs <- job{state: state, reply: reply}
	return reply, nil
}

func (w *Worker) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// Terminate stops the worker. Any search still running finishes in the
// background and its result is discarded.
func (w *Worker) Terminate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.terminated {
		return
	}
	w.terminated = true
	w.busy = false
	close(w.done)
	select {
	case j := <-w.jobs:
		close(j.reply)
	default:
	}
}

func (w *Worker) loop() {
	for {
		select {
		case j := <-w.jobs:
			w.finish(j, w.run(j.state))
		case <-w.done:
			return
		}
	}
}

func (w *Worker) run(s chess.GameState) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Interface("panic", r).Str("fen", s.FEN()).Msg("search failed")
			resp = Failed(fmt.Errorf("search failed: %v", r))
		}
	}()
	start := time.Now()
	res := w.searcher.Search(s)
	w.log.Debug().
		Str("fen", s.FEN()).
		Int("depth", res.Depth).
		Uint64("nodes", res.Nodes).
		Dur("elapsed", time.Since(start)).
		Msg("search finished")
	return Found(res.Move)
}

func (w *Worker) finish(j job, resp Response) {
	w.mu.Lock()
	defer w.mu.Unlock()
	defer close(j.reply)
	if w.terminated {
		w.log.Debug().Msg("dropping response from terminated worker")
		return
	}
	w.busy = false
	j.reply <- resp
}
