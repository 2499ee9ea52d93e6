package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/masswar/internal/board"
	"github.com/lox/masswar/internal/randutil"
)

func TestLegaliseIdleCellsStay(t *testing.T) {
	t.Parallel()

	g, l := newLineGame(t)
	v0, v2 := l.Vertex(0, 0), l.Vertex(2, 0)
	state := board.State{
		v0: board.NewCell("A", 4),
		v2: board.NewVitamin(1),
	}

	got := g.Legalise(state, board.MoveSet{})

	assert.Equal(t, board.MoveSet{
		l.VertexEdge(v0): board.NewCell("A", 4),
		l.VertexEdge(v2): board.NewVitamin(1),
	}, got)
}

func TestLonelyVitaminPersists(t *testing.T) {
	t.Parallel()

	g, l := newLineGame(t)
	v := l.Vertex(1, 0)
	state := board.State{v: board.NewVitamin(1)}

	next, _, err := g.Process(1, state, nil)
	require.NoError(t, err)
	assert.Equal(t, state, next)
}

func TestLegaliseBudgetInAscendingEdgeOrder(t *testing.T) {
	t.Parallel()

	g, l := newLineGame(t)
	v0, v1, v2 := l.Vertex(0, 0), l.Vertex(1, 0), l.Vertex(2, 0)
	e10 := mustEdge(t, l, v1, v0)
	e12 := mustEdge(t, l, v1, v2)
	require.Less(t, e10, e12)

	state := board.State{v1: board.NewCell("A", 5)}
	moves := board.MoveSet{
		e10: board.NewCell("A", 3),
		e12: board.NewCell("A", 4),
	}

	got := g.Legalise(state, moves)

	assert.Equal(t, board.MoveSet{
		e10:              board.NewCell("A", 3),
		l.VertexEdge(v1): board.NewCell("A", 2),
	}, got)
}

func TestLegaliseSkipsUnaffordableButKeepsLaterChildren(t *testing.T) {
	t.Parallel()

	g, l := newLineGame(t)
	v0, v1, v2 := l.Vertex(0, 0), l.Vertex(1, 0), l.Vertex(2, 0)
	e10 := mustEdge(t, l, v1, v0)
	e12 := mustEdge(t, l, v1, v2)

	state := board.State{v1: board.NewCell("A", 5)}
	moves := board.MoveSet{
		e10: board.NewCell("A", 6),
		e12: board.NewCell("A", 5),
	}

	got := g.Legalise(state, moves)
	assert.Equal(t, board.MoveSet{e12: board.NewCell("A", 5)}, got, "a fully spent mother leaves no stay")
}

func TestLegaliseRejectsForeignOccupant(t *testing.T) {
	t.Parallel()

	g, l := newLineGame(t)
	v0, v1 := l.Vertex(0, 0), l.Vertex(1, 0)
	e01 := mustEdge(t, l, v0, v1)

	state := board.State{v0: board.NewCell("A", 5)}
	moves := board.MoveSet{e01: board.NewCell("B", 2)}

	got := g.Legalise(state, moves)
	assert.Equal(t, board.MoveSet{l.VertexEdge(v0): board.NewCell("A", 5)}, got)
}

func TestLegaliseFiltersMalformedMoves(t *testing.T) {
	t.Parallel()

	g, l := newLineGame(t)
	v0, v1, v2 := l.Vertex(0, 0), l.Vertex(1, 0), l.Vertex(2, 0)
	e01 := mustEdge(t, l, v0, v1)
	e12 := mustEdge(t, l, v1, v2)

	state := board.State{v0: board.NewCell("A", 5)}

	tests := []struct {
		name  string
		moves board.MoveSet
	}{
		{"unknown edge", board.MoveSet{board.Edge(-4): board.NewCell("A", 1), board.Edge(10_000): board.NewCell("A", 1)}},
		{"explicit stay", board.MoveSet{l.VertexEdge(v0): board.NewCell("A", 2)}},
		{"zero weight", board.MoveSet{e01: board.NewCell("A", 0)}},
		{"negative weight", board.MoveSet{e01: board.NewCell("A", -3)}},
		{"from an empty vertex", board.MoveSet{e12: board.NewCell("A", 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := g.Legalise(state, tt.moves)
			assert.Equal(t, board.MoveSet{l.VertexEdge(v0): board.NewCell("A", 5)}, got)
		})
	}
}

func TestLegaliseDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	g, l := newLineGame(t)
	v0, v1 := l.Vertex(0, 0), l.Vertex(1, 0)
	state := board.State{v0: board.NewCell("A", 5)}
	moves := board.MoveSet{mustEdge(t, l, v0, v1): board.NewCell("A", 2)}
	stateCopy, movesCopy := state.Clone(), moves.Clone()

	g.Legalise(state, moves)

	assert.Equal(t, stateCopy, state)
	assert.Equal(t, movesCopy, moves)
}

func TestAcceptMovesBudgetBound(t *testing.T) {
	t.Parallel()

	g, l := newLatticeGame(t, 5, 5, 1)
	rng := randutil.New(77)
	mother := l.Vertex(2, 2)
	out := l.OutEdges(mother)

	for i := 0; i < 300; i++ {
		budget := board.Weight(rng.IntN(30))
		children := make(map[board.Edge]board.Cell)
		for _, e := range out {
			if rng.IntN(3) == 0 {
				continue
			}
			owner := board.Occupant("A")
			if rng.IntN(5) == 0 {
				owner = "B"
			}
			children[e] = board.NewCell(owner, board.Weight(1+rng.IntN(15)))
		}

		got := g.acceptMoves(board.NewCell("A", budget), mother, children)

		var spent board.Weight
		for e, c := range got {
			if e == l.VertexEdge(mother) {
				continue
			}
			require.Equal(t, board.Occupant("A"), c.Occupant, "foreign child accepted")
			require.Equal(t, children[e], c, "accepted child altered")
			spent += c.Weight
		}
		require.LessOrEqual(t, spent, budget)

		stay, ok := got[l.VertexEdge(mother)]
		if spent == budget {
			require.False(t, ok)
		} else {
			require.Equal(t, board.NewCell("A", budget-spent), stay)
		}
	}
}
