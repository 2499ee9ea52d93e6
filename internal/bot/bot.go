// Package bot contains the move strategies used by simulated and networked
// players.
package bot

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/masswar/internal/board"
	"github.com/lox/masswar/internal/keyed"
	"github.com/lox/masswar/internal/randutil"
)

// Topology is a graph whose vertices can list their outgoing edges.
type Topology interface {
	board.Graph
	board.Adjacency
}

// Strategy picks the moves of one player for the next tick.
type Strategy interface {
	Name() string
	Moves(player board.Occupant, state board.State) board.MoveSet
}

// Names lists the available strategies.
var Names = []string{"random", "greedy"}

// New returns the strategy called name.
func New(name string, topo Topology, rng randutil.Source, logger *log.Logger) (Strategy, error) {
	switch name {
	case "random":
		return NewRandBot(topo, rng, logger), nil
	case "greedy":
		return NewGreedyBot(topo, rng, logger), nil
	}
	return nil, fmt.Errorf("unknown strategy %q (available: %v)", name, Names)
}

// owned returns the vertices player occupies, ascending.
func owned(player board.Occupant, state board.State) []board.Vertex {
	var vs []board.Vertex
	for _, v := range keyed.SortedKeys(state) {
		if state[v].Occupant == player && state[v].Alive() {
			vs = append(vs, v)
		}
	}
	return vs
}

// outEdges returns the real edges leaving v in ascending order.
func outEdges(topo Topology, v board.Vertex) []board.Edge {
	es := slices.Clone(topo.OutEdges(v))
	slices.Sort(es)
	return es
}
