package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbeisheim/chessai-backend/internal/chess"
	"github.com/benbeisheim/chessai-backend/internal/model"
	"github.com/benbeisheim/chessai-backend/internal/search"
	"github.com/benbeisheim/chessai-backend/internal/worker"
	"github.com/rs/zerolog"
)

type blockingSearcher struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingSearcher) Search(s chess.GameState) search.Result {
	b.started <- struct{}{}
	<-b.release
	return search.Result{}
}

func newGameService(t *testing.T) (*GameService, *GameManager) {
	t.Helper()
	gm := NewGameManager(search.NewEngine(search.WithSeed(1)), time.Minute, zerolog.Nop())
	t.Cleanup(gm.Close)
	return NewGameService(gm), gm
}

func sq(name string) chess.Square {
	return chess.Square{Row: int('8' - name[1]), Col: int(name[0] - 'a')}
}

func TestCreateAndJoinGame(t *testing.T) {
	gs, gm := newGameService(t)

	id, err := gs.CreateGame(CreateOptions{})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if c, err := gs.JoinGame(id, "alice"); err != nil || c != chess.White {
		t.Fatalf("JoinGame alice = %v, %v", c, err)
	}
	if c, err := gs.JoinGame(id, "bob"); err != nil || c != chess.Black {
		t.Fatalf("JoinGame bob = %v, %v", c, err)
	}
	if err := gs.HandleMove(id, "alice", chess.Move{From: sq("e2"), To: sq("e4")}); err != nil {
		t.Fatalf("HandleMove: %v", err)
	}
	state, err := gs.GetGameState(id)
	if err != nil {
		t.Fatalf("GetGameState: %v", err)
	}
	if state.ToMove != chess.Black {
		t.Fatalf("to move = %v", state.ToMove)
	}
	if gm.Count() != 1 {
		t.Fatalf("Count = %d", gm.Count())
	}
}

func TestCreateGameFromFEN(t *testing.T) {
	gs, _ := newGameService(t)

	fen := "4k3/8/8/8/8/8/4P3/4K3 b - - 0 1"
	id, err := gs.CreateGame(CreateOptions{FEN: fen})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	state, _ := gs.GetGameState(id)
	if state.FEN != fen {
		t.Fatalf("FEN = %q, want %q", state.FEN, fen)
	}

	if _, err := gs.CreateGame(CreateOptions{FEN: "not a fen"}); !errors.Is(err, chess.ErrInvalidFEN) {
		t.Fatalf("bad FEN error = %v", err)
	}
}

func TestUnknownGame(t *testing.T) {
	gs, gm := newGameService(t)

	if _, err := gs.JoinGame("nope", "alice"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("JoinGame error = %v", err)
	}
	if _, err := gs.GetGameState("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("GetGameState error = %v", err)
	}
	if err := gs.HandleMove("nope", "alice", chess.Move{}); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("HandleMove error = %v", err)
	}
	if err := gm.RemoveGame("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("RemoveGame error = %v", err)
	}
}

func TestDuplicateGameID(t *testing.T) {
	_, gm := newGameService(t)
	if err := gm.CreateGame("g1", CreateOptions{}); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if err := gm.CreateGame("g1", CreateOptions{}); !errors.Is(err, ErrGameExists) {
		t.Fatalf("error = %v, want ErrGameExists", err)
	}
	if err := gm.RemoveGame("g1"); err != nil {
		t.Fatalf("RemoveGame: %v", err)
	}
	if gm.Count() != 0 {
		t.Fatalf("game not removed")
	}
}

func TestGameAgainstEngine(t *testing.T) {
	gs, _ := newGameService(t)

	id, err := gs.CreateGame(CreateOptions{AIColor: chess.Black})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := gs.JoinGame(id, "alice"); err != nil {
		t.Fatalf("JoinGame: %v", err)
	}
	if err := gs.HandleMove(id, "alice", chess.Move{From: sq("e2"), To: sq("e4")}); err != nil {
		t.Fatalf("HandleMove: %v", err)
	}

	deadline := time.Now().Add(30 * time.Second)
	for {
		state, _ := gs.GetGameState(id)
		if state.ToMove == chess.White && !state.AIThinking {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("engine did not reply")
		}
		time.Sleep(10 * time.Millisecond)
	}

	targets, err := gs.LegalTargets(id, sq("d2"))
	if err != nil || len(targets) == 0 {
		t.Fatalf("LegalTargets = %v, %v", targets, err)
	}
	if err := gs.ResetGame(id, "alice"); err != nil {
		t.Fatalf("ResetGame: %v", err)
	}
	if err := gs.ResetGame(id, "mallory"); !errors.Is(err, model.ErrNotInGame) {
		t.Fatalf("stranger reset error = %v", err)
	}
}

func TestEngineSearch(t *testing.T) {
	es := NewEngineService(search.NewEngine(search.WithSeed(1)), zerolog.Nop())
	defer es.Close()

	s, err := chess.FromFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	resp, err := es.Search(context.Background(), worker.NewRequest(s))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !resp.OK() || resp.Move == nil || resp.Move.String() != "a1a8" {
		t.Fatalf("got %+v", resp)
	}

	resp, err = es.Search(context.Background(), worker.Request{Board: &s.Board})
	if err != nil || resp.OK() {
		t.Fatalf("incomplete request: %+v, %v", resp, err)
	}
}

func TestEngineSearchBusy(t *testing.T) {
	b := &blockingSearcher{started: make(chan struct{}, 1), release: make(chan struct{})}
	es := NewEngineService(b, zerolog.Nop())
	defer es.Close()

	req := worker.NewRequest(chess.NewGameState())
	done := make(chan error, 1)
	go func() {
		_, err := es.Search(context.Background(), req)
		done <- err
	}()
	<-b.started

	if _, err := es.Search(context.Background(), req); !errors.Is(err, worker.ErrBusy) {
		t.Fatalf("error = %v, want ErrBusy", err)
	}
	close(b.release)
	if err := <-done; err != nil {
		t.Fatalf("first search: %v", err)
	}
}

func TestEngineSearchContextCancelled(t *testing.T) {
	b := &blockingSearcher{started: make(chan struct{}, 1), release: make(chan struct{})}
	es := NewEngineService(b, zerolog.Nop())
	defer es.Close()
	defer close(b.release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-b.started
		cancel()
	}()
	if _, err := es.Search(ctx, worker.NewRequest(chess.NewGameState())); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

// stallFirstSearcher blocks its first search until release and answers the
// rest at once.
type stallFirstSearcher struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (s *stallFirstSearcher) Search(chess.GameState) search.Result {
	if s.calls.Add(1) == 1 {
		close(s.started)
		<-s.release
	}
	return search.Result{}
}

func TestEngineSearchTimeoutFreesWorker(t *testing.T) {
	b := &stallFirstSearcher{started: make(chan struct{}), release: make(chan struct{})}
	es := NewEngineService(b, zerolog.Nop())
	defer es.Close()
	defer close(b.release)

	req := worker.NewRequest(chess.NewGameState())
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-b.started
		cancel()
	}()
	if _, err := es.Search(ctx, req); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}

	// the first search is still stalled, but a new one must not be ErrBusy
	resp, err := es.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("search after timeout: %v", err)
	}
	if !resp.OK() {
		t.Fatalf("got %+v", resp)
	}
}

func TestEngineValidate(t *testing.T) {
	es := NewEngineService(search.NewEngine(), zerolog.Nop())
	defer es.Close()

	base := worker.NewRequest(chess.NewGameState())
	e2, e4, e5 := sq("e2"), sq("e4"), sq("e5")
	tests := []struct {
		name string
		req  ValidateRequest
		want bool
		err  error
	}{
		{"double step", ValidateRequest{Request: base, From: &e2, To: &e4}, true, nil},
		{"triple step", ValidateRequest{Request: base, From: &e2, To: &e5}, false, nil},
		{"missing to", ValidateRequest{Request: base, From: &e2}, false, worker.ErrMissingField},
		{"missing rights", ValidateRequest{Request: worker.Request{Board: base.Board, Player: base.Player}, From: &e2, To: &e4}, false, worker.ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := es.Validate(tt.req)
			if !errors.Is(err, tt.err) || got != tt.want {
				t.Fatalf("Validate = %v, %v; want %v, %v", got, err, tt.want, tt.err)
			}
		})
	}
}

func TestEngineAttackedSquares(t *testing.T) {
	es := NewEngineService(search.NewEngine(), zerolog.Nop())
	defer es.Close()

	board := chess.NewBoard()
	white := chess.White
	got, err := es.AttackedSquares(AttacksRequest{Board: &board, Player: &white})
	if err != nil {
		t.Fatalf("AttackedSquares: %v", err)
	}
	// nothing black attacks lies beyond the sixth rank
	for _, s := range got {
		if s.Row > 2 {
			t.Fatalf("black attacks %s in the initial position", s)
		}
	}
	if _, err := es.AttackedSquares(AttacksRequest{Board: &board}); !errors.Is(err, worker.ErrMissingField) {
		t.Fatalf("missing player error = %v", err)
	}
}
