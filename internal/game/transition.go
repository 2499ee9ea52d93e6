package game

import (
	"fmt"

	"github.com/lox/masswar/internal/board"
	"github.com/lox/masswar/internal/keyed"
)

// Crossing resolves moves travelling along the two directions of the same
// connection.
func (g *Game) Crossing(moves board.MoveSet) board.MoveSet {
	return board.MoveSet(mergeBy(g.resolver(), map[board.Edge]board.Cell(moves),
		func(e board.Edge, _ board.Cell) board.Edge { return g.graph.EdgeSym(e) }))
}

// Reaching resolves moves arriving at the same vertex.
func (g *Game) Reaching(moves board.MoveSet) board.MoveSet {
	return board.MoveSet(mergeBy(g.resolver(), map[board.Edge]board.Cell(moves),
		func(e board.Edge, _ board.Cell) board.Vertex { return g.graph.EdgeTarget(e) }))
}

// Transition runs Crossing then Reaching over moves and records the weight
// of every moved cell before, between and after the two resolutions.
func (g *Game) Transition(moves board.MoveSet) board.Transition {
	crossed := g.Crossing(moves)
	reached := g.Reaching(crossed)

	tr := make(board.Transition, len(moves))
	for e, c := range moves {
		tr[e] = board.Trajectory{
			Occupant: c.Occupant,
			Weights:  [3]board.Weight{c.Weight, crossed[e].Weight, reached[e].Weight},
		}
	}
	return tr
}

// Final collapses a transition into the next state: every edge whose
// arrival weight is positive places its cell on the edge's target.
func (g *Game) Final(tr board.Transition) (board.State, error) {
	state := make(board.State)
	for _, e := range keyed.SortedKeys(tr) {
		t := tr[e]
		if t.Arrived() <= 0 {
			continue
		}
		v := g.graph.EdgeTarget(e)
		if prev, ok := state[v]; ok {
			return nil, fmt.Errorf("%w: vertex %d claimed by %q and %q", ErrTargetConflict, v, prev.Occupant, t.Occupant)
		}
		state[v] = board.NewCell(t.Occupant, t.Arrived())
	}
	return state, nil
}
