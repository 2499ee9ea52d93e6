// Package lattice implements board.Graph for a rectangular grid.
//
// Vertices are numbered row-major (y*Width + x). Every vertex owns a block of
// edge handles: slot 0 is its stay edge, the remaining slots are the
// neighbour directions of the chosen connectivity, so an edge handle is
// vertex*slots + direction.
//
// Positions are exchanged with clients as "x:y" and edges as
// "x0:y0 > x1:y1".
package lattice

import (
	"github.com/lox/masswar/internal/board"
)

// Connectivity selects the neighbourhood of a cell.
type Connectivity int

const (
	// Conn4 links each cell to its orthogonal neighbours.
	Conn4 Connectivity = iota
	// Conn8 adds the diagonal neighbours.
	Conn8
)

// String returns "4" or "8".
func (c Connectivity) String() string {
	if c == Conn8 {
		return "8"
	}
	return "4"
}

// Option configures a Lattice.
type Option func(*Lattice)

// WithConnectivity sets the neighbourhood. Conn4 is the default.
func WithConnectivity(c Connectivity) Option {
	return func(l *Lattice) { l.conn = c }
}

// Lattice is a Width×Height grid board.
type Lattice struct {
	Width, Height int

	conn    Connectivity
	offsets [][2]int
	reverse []int
}

var _ board.Graph = (*Lattice)(nil)
var _ board.Adjacency = (*Lattice)(nil)

// New builds a width×height lattice.
func New(width, height int, opts ...Option) (*Lattice, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyLattice
	}
	l := &Lattice{Width: width, Height: height}
	for _, opt := range opts {
		opt(l)
	}

	// index 0 is the stay slot
	l.offsets = [][2]int{{0, 0}, {0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	if l.conn == Conn8 {
		l.offsets = append(l.offsets, [2]int{1, -1}, [2]int{1, 1}, [2]int{-1, 1}, [2]int{-1, -1})
	}
	l.reverse = make([]int, len(l.offsets))
	for i, d := range l.offsets {
		for j, r := range l.offsets {
			if r[0] == -d[0] && r[1] == -d[1] {
				l.reverse[i] = j
			}
		}
	}
	return l, nil
}

// Connectivity returns the neighbourhood the lattice was built with.
func (l *Lattice) Connectivity() Connectivity { return l.conn }

// InBounds reports whether (x,y) lies on the lattice.
func (l *Lattice) InBounds(x, y int) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}

// Vertex returns the handle of (x,y). The position must be in bounds.
func (l *Lattice) Vertex(x, y int) board.Vertex {
	return board.Vertex(y*l.Width + x)
}

// Coords returns the position of v.
func (l *Lattice) Coords(v board.Vertex) (x, y int) {
	return int(v) % l.Width, int(v) / l.Width
}

func (l *Lattice) slots() int { return len(l.offsets) }

func (l *Lattice) hasVertex(v board.Vertex) bool {
	return v >= 0 && int(v) < l.Width*l.Height
}

func (l *Lattice) split(e board.Edge) (board.Vertex, int) {
	return board.Vertex(int(e) / l.slots()), int(e) % l.slots()
}

func (l *Lattice) edge(v board.Vertex, dir int) board.Edge {
	return board.Edge(int(v)*l.slots() + dir)
}

// Vertices returns every vertex in ascending order.
func (l *Lattice) Vertices() []board.Vertex {
	vs := make([]board.Vertex, l.Width*l.Height)
	for i := range vs {
		vs[i] = board.Vertex(i)
	}
	return vs
}

// InitialVertices returns up to n spawn points: opposite corners first, then
// the remaining corners, side midpoints and the centre. Positions that
// coincide on small lattices are returned once.
func (l *Lattice) InitialVertices(n int) []board.Vertex {
	w, h := l.Width-1, l.Height-1
	candidates := [][2]int{
		{0, 0}, {w, h}, {w, 0}, {0, h},
		{w / 2, 0}, {w / 2, h}, {0, h / 2}, {w, h / 2},
		{w / 2, h / 2},
	}

	seen := make(map[board.Vertex]bool)
	out := make([]board.Vertex, 0, n)
	for _, c := range candidates {
		if len(out) == n {
			break
		}
		v := l.Vertex(c[0], c[1])
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// VertexEdge returns the stay edge of v.
func (l *Lattice) VertexEdge(v board.Vertex) board.Edge {
	return l.edge(v, 0)
}

// IsEdge reports whether e is a stay edge or links two in-bounds cells.
func (l *Lattice) IsEdge(e board.Edge) bool {
	if e < 0 {
		return false
	}
	v, dir := l.split(e)
	if !l.hasVertex(v) {
		return false
	}
	_, ok := l.neighbour(v, dir)
	return ok
}

func (l *Lattice) neighbour(v board.Vertex, dir int) (board.Vertex, bool) {
	x, y := l.Coords(v)
	nx, ny := x+l.offsets[dir][0], y+l.offsets[dir][1]
	if !l.InBounds(nx, ny) {
		return -1, false
	}
	return l.Vertex(nx, ny), true
}

// EdgeSource returns the vertex e leaves from.
func (l *Lattice) EdgeSource(e board.Edge) board.Vertex {
	v, _ := l.split(e)
	return v
}

// EdgeTarget returns the vertex e arrives at, or -1 if e leaves the lattice.
func (l *Lattice) EdgeTarget(e board.Edge) board.Vertex {
	v, dir := l.split(e)
	t, _ := l.neighbour(v, dir)
	return t
}

// EdgeSym returns the smaller handle of e and its reverse. Stay edges are
// their own key.
func (l *Lattice) EdgeSym(e board.Edge) board.Edge {
	v, dir := l.split(e)
	t, ok := l.neighbour(v, dir)
	if !ok || dir == 0 {
		return e
	}
	return min(e, l.edge(t, l.reverse[dir]))
}

// Reverse returns the edge running the other way along e.
func (l *Lattice) Reverse(e board.Edge) board.Edge {
	v, dir := l.split(e)
	t, ok := l.neighbour(v, dir)
	if !ok {
		return e
	}
	return l.edge(t, l.reverse[dir])
}

// EdgeBetween returns the edge from u to v. u == v yields the stay edge.
func (l *Lattice) EdgeBetween(u, v board.Vertex) (board.Edge, bool) {
	if !l.hasVertex(u) || !l.hasVertex(v) {
		return 0, false
	}
	for dir := range l.offsets {
		if t, ok := l.neighbour(u, dir); ok && t == v {
			return l.edge(u, dir), true
		}
	}
	return 0, false
}

// OutEdges returns the real edges leaving v in direction order.
func (l *Lattice) OutEdges(v board.Vertex) []board.Edge {
	if !l.hasVertex(v) {
		return nil
	}
	out := make([]board.Edge, 0, l.slots()-1)
	for dir := 1; dir < l.slots(); dir++ {
		if _, ok := l.neighbour(v, dir); ok {
			out = append(out, l.edge(v, dir))
		}
	}
	return out
}
