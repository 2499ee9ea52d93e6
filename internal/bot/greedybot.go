package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/masswar/internal/board"
	"github.com/lox/masswar/internal/randutil"
)

// GreedyBot throws each of its cells whole at the most valuable neighbour it
// is sure to beat: a vitamin or a strictly lighter enemy. Cells with nothing
// worth taking hold still, except that an isolated cell with no targets
// drifts toward a random neighbour half of the time so matches do not stall.
type GreedyBot struct {
	topo   Topology
	rng    randutil.Source
	logger *log.Logger
}

// NewGreedyBot creates a new GreedyBot instance
func NewGreedyBot(topo Topology, rng randutil.Source, logger *log.Logger) *GreedyBot {
	return &GreedyBot{topo: topo, rng: rng, logger: logger}
}

func (g *GreedyBot) Name() string { return "greedy" }

func (g *GreedyBot) Moves(player board.Occupant, state board.State) board.MoveSet {
	moves := make(board.MoveSet)
	for _, v := range owned(player, state) {
		mine := state[v]
		edges := outEdges(g.topo, v)
		if len(edges) == 0 {
			continue
		}

		best, bestGain := board.Edge(-1), board.Weight(0)
		threatened := false
		for _, e := range edges {
			other, ok := state[g.topo.EdgeTarget(e)]
			if !ok || other.Occupant == player {
				continue
			}
			if !other.IsVitamin() && other.Weight >= mine.Weight {
				threatened = true
				continue
			}
			if other.Weight > bestGain {
				best, bestGain = e, other.Weight
			}
		}

		switch {
		case bestGain > 0:
			moves[best] = mine
		case !threatened && g.rng.IntN(2) == 0:
			moves[randutil.Pick(g.rng, edges)] = mine
		}
	}

	g.logger.Debug("greedy-bot moves", "player", player, "moves", len(moves))
	return moves
}
