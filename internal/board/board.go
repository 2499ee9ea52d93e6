// Package board defines the values a mass-conquest match is made of: cells of
// weighted mass, the board state, in-flight moves and the per-edge
// transition produced by one tick.
package board

// Occupant identifies who owns a cell: a player id or the Vitamin marker.
type Occupant string

// Vitamin marks neutral one-unit pickups scattered on free vertices.
const Vitamin Occupant = "*"

// IsVitamin reports whether o is the vitamin marker.
func (o Occupant) IsVitamin() bool { return o == Vitamin }

// Weight is an amount of mass. Zero means absent.
type Weight int

// Cell is a weighted occupant. Cells are values; every transformation
// returns a new one.
type Cell struct {
	Occupant Occupant `json:"occupant"`
	Weight   Weight   `json:"weight"`
}

// NewCell returns a cell owned by o with weight w.
func NewCell(o Occupant, w Weight) Cell { return Cell{Occupant: o, Weight: w} }

// NewVitamin returns a vitamin cell with weight w.
func NewVitamin(w Weight) Cell { return Cell{Occupant: Vitamin, Weight: w} }

// WithWeight returns a copy of c carrying weight w.
func (c Cell) WithWeight(w Weight) Cell {
	c.Weight = w
	return c
}

// IsVitamin reports whether c is a vitamin.
func (c Cell) IsVitamin() bool { return c.Occupant.IsVitamin() }

// Alive reports whether c carries any mass.
func (c Cell) Alive() bool { return c.Weight > 0 }

// State maps each occupied vertex to its cell. Empty vertices are absent.
type State map[Vertex]Cell

// Clone returns a shallow copy of s.
func (s State) Clone() State {
	out := make(State, len(s))
	for v, c := range s {
		out[v] = c
	}
	return out
}

// Occupants returns the total weight held by each non-vitamin occupant.
func (s State) Occupants() map[Occupant]Weight {
	out := make(map[Occupant]Weight)
	for _, c := range s {
		if c.IsVitamin() || !c.Alive() {
			continue
		}
		out[c.Occupant] += c.Weight
	}
	return out
}

// TotalWeight returns the summed weight of every cell, vitamins included.
func (s State) TotalWeight() Weight {
	var total Weight
	for _, c := range s {
		total += c.Weight
	}
	return total
}

// MoveSet maps an edge to the cell travelling along it. A stay edge carries
// mass that does not move this tick.
type MoveSet map[Edge]Cell

// Clone returns a shallow copy of m.
func (m MoveSet) Clone() MoveSet {
	out := make(MoveSet, len(m))
	for e, c := range m {
		out[e] = c
	}
	return out
}

// Trajectory records a cell's weight on one edge across a tick: entering the
// edge, after crossing resolution and after reaching resolution.
type Trajectory struct {
	Occupant Occupant  `json:"occupant"`
	Weights  [3]Weight `json:"weights"`
}

// Entering is the weight sent along the edge.
func (t Trajectory) Entering() Weight { return t.Weights[0] }

// Crossed is the weight left after head-to-head collisions.
func (t Trajectory) Crossed() Weight { return t.Weights[1] }

// Arrived is the weight left after arrival collisions. It is authoritative for
// the next state.
func (t Trajectory) Arrived() Weight { return t.Weights[2] }

// Transition is the per-edge trajectory of one tick, used to build the next
// state and to animate it.
type Transition map[Edge]Trajectory
