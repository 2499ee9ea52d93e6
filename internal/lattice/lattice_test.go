package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/masswar/internal/board"
)

func TestNewRejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := New(0, 3)
	require.ErrorIs(t, err, ErrEmptyLattice)
	_, err = New(3, -1)
	require.ErrorIs(t, err, ErrEmptyLattice)
}

func TestVerticesAndCoords(t *testing.T) {
	t.Parallel()

	l, err := New(3, 2)
	require.NoError(t, err)

	vs := l.Vertices()
	require.Len(t, vs, 6)
	x, y := l.Coords(l.Vertex(2, 1))
	assert.Equal(t, 2, x)
	assert.Equal(t, 1, y)
	assert.Equal(t, board.Vertex(5), l.Vertex(2, 1))
}

func TestStayEdge(t *testing.T) {
	t.Parallel()

	l, err := New(3, 3)
	require.NoError(t, err)

	for _, v := range l.Vertices() {
		e := l.VertexEdge(v)
		assert.True(t, l.IsEdge(e))
		assert.True(t, board.IsStay(l, e))
		assert.Equal(t, v, l.EdgeSource(e))
		assert.Equal(t, v, l.EdgeTarget(e))
		assert.Equal(t, e, l.EdgeSym(e))
	}
}

func TestEdgesStayOnBoard(t *testing.T) {
	t.Parallel()

	l, err := New(3, 3)
	require.NoError(t, err)

	corner := l.Vertex(0, 0)
	assert.Len(t, l.OutEdges(corner), 2)
	assert.Len(t, l.OutEdges(l.Vertex(1, 1)), 4)

	for _, e := range l.OutEdges(corner) {
		assert.True(t, l.IsEdge(e))
		assert.False(t, board.IsStay(l, e))
	}

	// north of the top-left corner leaves the board
	assert.False(t, l.IsEdge(l.edge(corner, 1)))
	assert.False(t, l.IsEdge(-1))
	assert.False(t, l.IsEdge(board.Edge(9*l.slots())))
}

func TestEdgeSymPairsReverseEdges(t *testing.T) {
	t.Parallel()

	l, err := New(3, 1)
	require.NoError(t, err)

	v0, v1, v2 := l.Vertex(0, 0), l.Vertex(1, 0), l.Vertex(2, 0)
	e01, ok := l.EdgeBetween(v0, v1)
	require.True(t, ok)
	e10, ok := l.EdgeBetween(v1, v0)
	require.True(t, ok)
	e21, ok := l.EdgeBetween(v2, v1)
	require.True(t, ok)

	assert.Equal(t, l.EdgeSym(e01), l.EdgeSym(e10))
	assert.NotEqual(t, l.EdgeSym(e01), l.EdgeSym(e21))
	assert.Equal(t, e10, l.Reverse(e01))
	assert.Equal(t, v1, l.EdgeTarget(e21))
}

func TestConn8(t *testing.T) {
	t.Parallel()

	l, err := New(3, 3, WithConnectivity(Conn8))
	require.NoError(t, err)
	assert.Equal(t, Conn8, l.Connectivity())
	assert.Len(t, l.OutEdges(l.Vertex(1, 1)), 8)
	assert.Len(t, l.OutEdges(l.Vertex(0, 0)), 3)

	diag, ok := l.EdgeBetween(l.Vertex(0, 0), l.Vertex(1, 1))
	require.True(t, ok)
	assert.Equal(t, l.EdgeSym(diag), l.EdgeSym(l.Reverse(diag)))
}

func TestInitialVertices(t *testing.T) {
	t.Parallel()

	l, err := New(5, 5)
	require.NoError(t, err)

	spawns := l.InitialVertices(2)
	assert.Equal(t, []board.Vertex{l.Vertex(0, 0), l.Vertex(4, 4)}, spawns)
	assert.Len(t, l.InitialVertices(9), 9)
	assert.Len(t, l.InitialVertices(20), 9)

	tiny, err := New(1, 1)
	require.NoError(t, err)
	assert.Len(t, tiny.InitialVertices(2), 1)
}

func TestKeysRoundTrip(t *testing.T) {
	t.Parallel()

	l, err := New(4, 3)
	require.NoError(t, err)

	v := l.Vertex(3, 2)
	assert.Equal(t, "3:2", l.VertexKey(v))
	got, err := l.ParseVertex("3:2")
	require.NoError(t, err)
	assert.Equal(t, v, got)

	e, ok := l.EdgeBetween(l.Vertex(1, 1), l.Vertex(1, 2))
	require.True(t, ok)
	assert.Equal(t, "1:1 > 1:2", l.EdgeKey(e))
	parsed, err := l.ParseEdge("1:1 > 1:2")
	require.NoError(t, err)
	assert.Equal(t, e, parsed)

	stay, err := l.ParseEdge("2:0 > 2:0")
	require.NoError(t, err)
	assert.Equal(t, l.VertexEdge(l.Vertex(2, 0)), stay)
}

func TestParseRejectsBadKeys(t *testing.T) {
	t.Parallel()

	l, err := New(3, 3)
	require.NoError(t, err)

	for _, key := range []string{"", "1", "a:b", "3:0", "-1:0"} {
		_, err := l.ParseVertex(key)
		assert.ErrorIs(t, err, ErrBadKey, key)
	}
	for _, key := range []string{"0:0", "0:0 > 2:0", "0:0 > 9:9", "x > 0:0"} {
		_, err := l.ParseEdge(key)
		assert.ErrorIs(t, err, ErrBadKey, key)
	}
}
