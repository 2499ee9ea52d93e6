package game

import (
	"github.com/lox/masswar/internal/board"
	"github.com/lox/masswar/internal/keyed"
)

// Legalise turns submitted moves into the moves that actually happen.
//
// Moves along unknown edges, explicit stay edges and non-positive weights are
// dropped. Moves leaving an empty vertex are void. For every occupied vertex
// the mother cell pays for its children in ascending edge order until it
// cannot afford the next one; a child is only accepted if it belongs to the
// mother's occupant. Whatever the mother keeps becomes a stay move, so idle
// cells and vitamins persist.
func (g *Game) Legalise(state board.State, moves board.MoveSet) board.MoveSet {
	valid := make(map[board.Edge]board.Cell, len(moves))
	for e, c := range moves {
		if !g.graph.IsEdge(e) || board.IsStay(g.graph, e) || c.Weight <= 0 {
			continue
		}
		valid[e] = c
	}

	bySource := keyed.GroupBy(valid, func(e board.Edge, _ board.Cell) board.Vertex {
		return g.graph.EdgeSource(e)
	})
	for v := range state {
		if _, ok := bySource[v]; !ok {
			bySource[v] = map[board.Edge]board.Cell{}
		}
	}

	accepted := make(map[board.Vertex]map[board.Edge]board.Cell, len(bySource))
	for v, children := range bySource {
		mother, ok := state[v]
		if !ok {
			if len(children) > 0 {
				g.logger.Debug("Moves from empty vertex dropped", "vertex", v, "moves", len(children))
			}
			continue
		}
		accepted[v] = g.acceptMoves(mother, v, children)
	}
	return board.MoveSet(keyed.Degroup(accepted))
}

// acceptMoves spends mother's weight on children and emits the residual as a
// stay move on at.
func (g *Game) acceptMoves(mother board.Cell, at board.Vertex, children map[board.Edge]board.Cell) map[board.Edge]board.Cell {
	out := make(map[board.Edge]board.Cell, len(children)+1)
	remaining := mother.Weight

	for _, e := range keyed.SortedKeys(children) {
		child := children[e]
		if child.Occupant != mother.Occupant || child.Weight > remaining {
			g.logger.Debug("Move rejected",
				"edge", e,
				"occupant", child.Occupant,
				"weight", child.Weight,
				"owner", mother.Occupant,
				"budget", remaining)
			continue
		}
		out[e] = child
		remaining -= child.Weight
	}

	if remaining != 0 {
		out[g.graph.VertexEdge(at)] = mother.WithWeight(remaining)
	}
	return out
}
