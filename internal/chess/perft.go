package chess

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(s GameState, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := s.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		nodes += Perft(s.mustNext(m), depth-1)
	}
	return nodes
}

// Divide reports the perft count below each root move.
func Divide(s GameState, depth int) map[Move]uint64 {
	out := make(map[Move]uint64)
	if depth <= 0 {
		return out
	}
	for _, m := range s.LegalMoves() {
		out[m] = Perft(s.mustNext(m), depth-1)
	}
	return out
}

// mustNext is for walking generated moves, where a failed application is an
// internal fault.
func (s GameState) mustNext(m Move) GameState {
	next, err := s.Next(m)
	if err != nil {
		panic(err)
	}
	return next
}
