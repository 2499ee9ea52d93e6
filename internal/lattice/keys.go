package lattice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/masswar/internal/board"
)

const edgeSep = " > "

// VertexKey formats v as "x:y".
func (l *Lattice) VertexKey(v board.Vertex) string {
	x, y := l.Coords(v)
	return strconv.Itoa(x) + ":" + strconv.Itoa(y)
}

// EdgeKey formats e as "x0:y0 > x1:y1".
func (l *Lattice) EdgeKey(e board.Edge) string {
	return l.VertexKey(l.EdgeSource(e)) + edgeSep + l.VertexKey(l.EdgeTarget(e))
}

// ParseVertex parses an "x:y" key.
func (l *Lattice) ParseVertex(key string) (board.Vertex, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(key), ":")
	if !ok {
		return 0, fmt.Errorf("%w: vertex %q", ErrBadKey, key)
	}
	x, errX := strconv.Atoi(xs)
	y, errY := strconv.Atoi(ys)
	if errX != nil || errY != nil || !l.InBounds(x, y) {
		return 0, fmt.Errorf("%w: vertex %q", ErrBadKey, key)
	}
	return l.Vertex(x, y), nil
}

// ParseEdge parses an "x0:y0 > x1:y1" key. The two positions must be equal
// (a stay edge) or neighbours.
func (l *Lattice) ParseEdge(key string) (board.Edge, error) {
	from, to, ok := strings.Cut(key, ">")
	if !ok {
		return 0, fmt.Errorf("%w: edge %q", ErrBadKey, key)
	}
	u, err := l.ParseVertex(from)
	if err != nil {
		return 0, err
	}
	v, err := l.ParseVertex(to)
	if err != nil {
		return 0, err
	}
	e, ok := l.EdgeBetween(u, v)
	if !ok {
		return 0, fmt.Errorf("%w: edge %q does not join neighbours", ErrBadKey, key)
	}
	return e, nil
}
