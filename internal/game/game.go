package game

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/masswar/internal/board"
	"github.com/lox/masswar/internal/randutil"
)

// Game runs ticks of a match played on one graph.
type Game struct {
	graph  board.Graph
	rng    randutil.Source
	policy VitaminPolicy
	logger *log.Logger
}

// New returns a Game for graph. The random source drives merge tie-breaks
// and vitamin placement and is required so that randomness stays explicit:
//
//	// Production - time-seeded
//	g, err := game.New(graph, randutil.New(time.Now().UnixNano()))
//
//	// Testing - deterministic
//	g, err := game.New(graph, randutil.New(42), game.WithVitaminPolicy(game.ConserveVitamins))
func New(graph board.Graph, rng randutil.Source, opts ...Option) (*Game, error) {
	if graph == nil {
		return nil, fmt.Errorf("%w: graph is nil", ErrInvalidGraph)
	}
	if rng == nil {
		return nil, ErrNoRandSource
	}

	g := &Game{
		graph:  graph,
		rng:    rng,
		policy: AnnihilateVitamins,
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Graph returns the board topology.
func (g *Game) Graph() board.Graph { return g.graph }

// Policy returns the vitamin policy in force.
func (g *Game) Policy() VitaminPolicy { return g.policy }

func (g *Game) resolver() resolver {
	return resolver{rng: g.rng, policy: g.policy, logger: g.logger}
}

// AddPlayers places each player on the spawn point of the same index with
// the given weight. It returns a new state; the input is left untouched.
func (g *Game) AddPlayers(players []board.Occupant, weight board.Weight, state board.State) (board.State, error) {
	if weight <= 0 {
		return nil, fmt.Errorf("%w: initial weight %d", ErrInvalidWeight, weight)
	}
	seen := make(map[board.Occupant]bool, len(players))
	for _, p := range players {
		switch {
		case p == "":
			return nil, fmt.Errorf("%w: empty player id", ErrInvalidPlayers)
		case p.IsVitamin():
			return nil, fmt.Errorf("%w: %q is reserved for vitamins", ErrInvalidPlayers, p)
		case seen[p]:
			return nil, fmt.Errorf("%w: duplicate player %q", ErrInvalidPlayers, p)
		}
		seen[p] = true
	}

	spawns := g.graph.InitialVertices(len(players))
	if len(spawns) < len(players) {
		return nil, fmt.Errorf("%w: %d spawn points for %d players", ErrInvalidGraph, len(spawns), len(players))
	}

	next := state.Clone()
	for i, p := range players {
		next[spawns[i]] = board.NewCell(p, weight)
	}
	return next, nil
}

// NewState builds the opening board: players on their spawn points, then
// up to vitamins pickups on the free vertices.
func (g *Game) NewState(players []board.Occupant, weight board.Weight, vitamins int) (board.State, error) {
	state, err := g.AddPlayers(players, weight, board.State{})
	if err != nil {
		return nil, err
	}
	return g.AddVitamins(vitamins, state), nil
}

// Process runs one tick. It legalises the submitted moves against state,
// resolves collisions, collapses the result into the next state and tops the
// vitamin population back up to target. The transition is returned for
// animation. Neither input is modified.
func (g *Game) Process(target int, state board.State, moves board.MoveSet) (board.State, board.Transition, error) {
	legal := g.Legalise(state, moves)
	tr := g.Transition(legal)

	collapsed, err := g.Final(tr)
	if err != nil {
		return nil, nil, err
	}

	deficit := target - g.CountVitamins(collapsed)
	next := g.AddVitamins(deficit, collapsed)

	g.logger.Debug("Tick processed",
		"submitted", len(moves),
		"legal", len(legal),
		"cells", len(next),
		"vitamins_added", max(deficit, 0))
	return next, tr, nil
}
