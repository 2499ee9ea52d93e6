package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/masswar/internal/board"
	"github.com/lox/masswar/internal/lattice"
	"github.com/lox/masswar/internal/randutil"
)

// scriptedSource returns the queued picks in order, reduced modulo n, and 0
// once the queue runs dry.
type scriptedSource struct {
	picks []int
	calls int
}

func (s *scriptedSource) IntN(n int) int {
	if s.calls >= len(s.picks) {
		s.calls++
		return 0
	}
	p := s.picks[s.calls] % n
	s.calls++
	return p
}

// newLineGame builds a game on the 3-vertex line v0 - v1 - v2.
func newLineGame(t *testing.T, opts ...Option) (*Game, *lattice.Lattice) {
	t.Helper()
	return newLatticeGame(t, 3, 1, 1, opts...)
}

func newLatticeGame(t *testing.T, w, h int, seed int64, opts ...Option) (*Game, *lattice.Lattice) {
	t.Helper()
	l, err := lattice.New(w, h)
	require.NoError(t, err)
	g, err := New(l, randutil.New(seed), opts...)
	require.NoError(t, err)
	return g, l
}

func testResolver(rng randutil.Source, policy VitaminPolicy) resolver {
	return resolver{rng: rng, policy: policy, logger: discardLogger()}
}

func mustEdge(t *testing.T, l *lattice.Lattice, from, to board.Vertex) board.Edge {
	t.Helper()
	e, ok := l.EdgeBetween(from, to)
	require.True(t, ok, "no edge %d -> %d", from, to)
	return e
}

func sumCells[K comparable](cells map[K]board.Cell) board.Weight {
	var total board.Weight
	for _, c := range cells {
		total += c.Weight
	}
	return total
}

func aliveCells[K comparable](cells map[K]board.Cell) int {
	n := 0
	for _, c := range cells {
		if c.Alive() {
			n++
		}
	}
	return n
}

// randomMoves splits every cell of state into random chunks along random
// out-edges of l, tagging each chunk with the cell's occupant.
func randomMoves(rng randutil.Source, l *lattice.Lattice, state board.State) board.MoveSet {
	moves := make(board.MoveSet)
	for _, v := range l.Vertices() {
		c, ok := state[v]
		if !ok || c.IsVitamin() {
			continue
		}
		budget := int(c.Weight)
		for _, e := range l.OutEdges(v) {
			if budget == 0 {
				break
			}
			w := rng.IntN(budget + 1)
			if w == 0 {
				continue
			}
			moves[e] = board.NewCell(c.Occupant, board.Weight(w))
			budget -= w
		}
	}
	return moves
}
