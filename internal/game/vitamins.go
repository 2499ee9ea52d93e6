package game

import (
	"slices"

	"github.com/lox/masswar/internal/board"
	"github.com/lox/masswar/internal/randutil"
)

// AddVitamins drops up to n weight-1 vitamins on distinct free vertices
// chosen uniformly at random. It never touches an occupied vertex and adds
// nothing when n is not positive.
func (g *Game) AddVitamins(n int, state board.State) board.State {
	next := state.Clone()
	if n <= 0 {
		return next
	}

	var free []board.Vertex
	for _, v := range g.graph.Vertices() {
		if _, taken := state[v]; !taken {
			free = append(free, v)
		}
	}
	slices.Sort(free)

	for _, v := range randutil.Sample(g.rng, free, n) {
		next[v] = board.NewVitamin(1)
	}
	return next
}

// CountVitamins returns how many vertices hold a vitamin.
func (g *Game) CountVitamins(state board.State) int {
	n := 0
	for _, c := range state {
		if c.IsVitamin() {
			n++
		}
	}
	return n
}
