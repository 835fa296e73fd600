package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/benbeisheim/chessai-backend/internal/chess"
	"github.com/benbeisheim/chessai-backend/internal/logx"
)

func main() {
	fen := flag.String("fen", chess.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	level := flag.String("log-level", "info", "Log level")
	flag.Parse()

	logger, err := logx.NewLogger(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *depth <= 0 {
		logger.Error().Int("depth", *depth).Msg("-depth must be > 0")
		os.Exit(2)
	}
	state, err := chess.FromFEN(*fen)
	if err != nil {
		logger.Error().Err(err).Str("fen", *fen).Msg("parse FEN")
		os.Exit(2)
	}

	if *divide {
		div := chess.Divide(state, *depth)
		moves := make([]chess.Move, 0, len(div))
		var sum uint64
		for m, n := range div {
			moves = append(moves, m)
			sum += n
		}
		sort.Slice(moves, func(i, j int) bool { return moves[i].String() < moves[j].String() })
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, div[m])
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	start := time.Now()
	nodes := chess.Perft(state, *depth)
	elapsed := time.Since(start)
	logger.Debug().Dur("elapsed", elapsed).Msg("perft done")
	fmt.Printf("%d \t%d \t%s \t%.0f\n", *depth, nodes, elapsed, float64(nodes)/elapsed.Seconds())
}
