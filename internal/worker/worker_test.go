package worker

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/benbeisheim/chessai-backend/internal/chess"
	"github.com/benbeisheim/chessai-backend/internal/search"
	"github.com/rs/zerolog"
)

type fakeSearcher struct {
	move    *chess.Move
	panics  bool
	release chan struct{}
	calls   chan chess.GameState
}

func (f *fakeSearcher) Search(s chess.GameState) search.Result {
	if f.calls != nil {
		f.calls <- s
	}
	if f.release != nil {
		<-f.release
	}
	if f.panics {
		panic(chess.ErrMissingKing)
	}
	return search.Result{Move: f.move, Depth: 1, Nodes: 1}
}

func receive(t *testing.T, ch <-chan Response) (Response, bool) {
	t.Helper()
	select {
	case resp, ok := <-ch:
		return resp, ok
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for response")
	}
	return Response{}, false
}

func startRequest() Request {
	return NewRequest(chess.NewGameState())
}

func TestSubmitReturnsMove(t *testing.T) {
	m := chess.Move{From: chess.Square{Row: 6, Col: 4}, To: chess.Square{Row: 4, Col: 4}}
	w := New(&fakeSearcher{move: &m}, zerolog.Nop())
	defer w.Terminate()

	ch, err := w.Submit(startRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	resp, ok := receive(t, ch)
	if !ok || !resp.OK() || resp.Move == nil || *resp.Move != m {
		t.Fatalf("got %+v (ok=%v)", resp, ok)
	}
	if w.Busy() {
		t.Fatalf("worker still busy after replying")
	}
}

func TestSubmitReportsNoMove(t *testing.T) {
	w := New(&fakeSearcher{}, zerolog.Nop())
	defer w.Terminate()

	ch, err := w.Submit(startRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	resp, _ := receive(t, ch)
	if !resp.OK() || resp.Move != nil {
		t.Fatalf("got %+v, want ok with no move", resp)
	}
}

func TestSubmitRejectsIncompleteRequests(t *testing.T) {
	f := &fakeSearcher{calls: make(chan chess.GameState, 1)}
	w := New(f, zerolog.Nop())
	defer w.Terminate()

	full := startRequest()
	var exposed chess.Board
	exposed[0][4] = chess.Piece{Color: chess.Black, Type: chess.King}
	exposed[7][0] = chess.Piece{Color: chess.White, Type: chess.King}
	exposed[7][4] = chess.Piece{Color: chess.White, Type: chess.Rook}
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"no board", Request{Player: full.Player, CastlingRights: full.CastlingRights}, "board"},
		{"no player", Request{Board: full.Board, CastlingRights: full.CastlingRights}, "player"},
		{"no castling rights", Request{Board: full.Board, Player: full.Player}, "castlingRights"},
		{"opponent in check", NewRequest(chess.GameState{Board: exposed, ToMove: chess.White}), "in check"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch, err := w.Submit(tt.req)
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			resp, _ := receive(t, ch)
			if resp.OK() || !strings.Contains(resp.Message, tt.want) {
				t.Fatalf("got %+v", resp)
			}
		})
	}
	select {
	case <-f.calls:
		t.Fatalf("searcher ran for an invalid request")
	default:
	}
}

func TestOneSearchInFlight(t *testing.T) {
	f := &fakeSearcher{release: make(chan struct{}), calls: make(chan chess.GameState, 1)}
	w := New(f, zerolog.Nop())
	defer w.Terminate()

	first, err := w.Submit(startRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	<-f.calls
	if _, err := w.Submit(startRequest()); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Submit error = %v, want ErrBusy", err)
	}
	close(f.release)
	if _, ok := receive(t, first); !ok {
		t.Fatalf("first response missing")
	}
	again, err := w.Submit(startRequest())
	if err != nil {
		t.Fatalf("Submit after reply: %v", err)
	}
	<-f.calls
	receive(t, again)
}

func TestSearchPanicBecomesErrorResponse(t *testing.T) {
	w := New(&fakeSearcher{panics: true}, zerolog.Nop())
	defer w.Terminate()

	ch, err := w.Submit(startRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	resp, _ := receive(t, ch)
	if resp.OK() || !strings.Contains(resp.Message, "missing king") {
		t.Fatalf("got %+v", resp)
	}
	if _, err := w.Submit(startRequest()); err != nil {
		t.Fatalf("worker unusable after a fault: %v", err)
	}
}

func TestTerminateDiscardsLateResponse(t *testing.T) {
	f := &fakeSearcher{release: make(chan struct{}), calls: make(chan chess.GameState, 1)}
	w := New(f, zerolog.Nop())

	ch, err := w.Submit(startRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	<-f.calls
	w.Terminate()
	close(f.release)

	if resp, ok := receive(t, ch); ok {
		t.Fatalf("late response delivered: %+v", resp)
	}
	if _, err := w.Submit(startRequest()); !errors.Is(err, ErrTerminated) {
		t.Fatalf("Submit after Terminate error = %v, want ErrTerminated", err)
	}
	w.Terminate()
}

func TestWorkerWithEngine(t *testing.T) {
	s, err := chess.FromFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	w := New(search.NewEngine(search.WithSeed(1)), zerolog.Nop())
	defer w.Terminate()

	ch, err := w.Submit(NewRequest(s))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	resp, _ := receive(t, ch)
	if !resp.OK() || resp.Move == nil || resp.Move.String() != "a1a8" {
		t.Fatalf("got %+v", resp)
	}
}

func TestNewRequestCopiesState(t *testing.T) {
	s := chess.NewGameState()
	req := NewRequest(s)
	s.Board[6][4] = chess.NoPiece
	s.Rights = chess.CastlingRights{}

	got, err := req.State()
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if got != chess.NewGameState() {
		t.Fatalf("request observed later changes")
	}
}

func TestRequestJSON(t *testing.T) {
	data, err := json.Marshal(startRequest())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if s, err := req.State(); err != nil || s != chess.NewGameState() {
		t.Fatalf("decoded %v, %v", s, err)
	}

	var partial Request
	if err := json.Unmarshal([]byte(`{"board":`+string(mustJSON(t, chess.NewBoard()))+`,"player":"w"}`), &partial); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, err := partial.State(); !errors.Is(err, ErrMissingField) {
		t.Fatalf("State error = %v, want ErrMissingField", err)
	}
}

func TestResponseJSON(t *testing.T) {
	m := chess.Move{From: chess.Square{Row: 7, Col: 0}, To: chess.Square{Row: 0, Col: 0}}
	tests := []struct {
		resp Response
		want string
	}{
		{Found(&m), `{"status":"ok","move":[[7,0],[0,0]]}`},
		{Found(nil), `{"status":"ok","move":null}`},
		{Failed(errors.New("boom")), `{"status":"error","message":"boom"}`},
	}
	for _, tt := range tests {
		if got := string(mustJSON(t, tt.resp)); got != tt.want {
			t.Fatalf("got %s, want %s", got, tt.want)
		}
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return data
}
