package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/masswar/internal/board"
	"github.com/lox/masswar/internal/randutil"
)

// RandBot splits every cell it owns into random chunks sent along random
// edges. Whatever is not sent stays put, so its moves are always affordable.
type RandBot struct {
	topo   Topology
	rng    randutil.Source
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(topo Topology, rng randutil.Source, logger *log.Logger) *RandBot {
	return &RandBot{topo: topo, rng: rng, logger: logger}
}

func (r *RandBot) Name() string { return "random" }

func (r *RandBot) Moves(player board.Occupant, state board.State) board.MoveSet {
	moves := make(board.MoveSet)
	for _, v := range owned(player, state) {
		edges := outEdges(r.topo, v)
		if len(edges) == 0 {
			continue
		}

		remaining := state[v].Weight
		chosen := randutil.Sample(r.rng, edges, r.rng.IntN(len(edges)+1))
		for _, e := range chosen {
			if remaining == 0 {
				break
			}
			chunk := 1 + board.Weight(r.rng.IntN(int(remaining)))
			moves[e] = board.NewCell(player, chunk)
			remaining -= chunk
		}
	}

	r.logger.Debug("rand-bot moves", "player", player, "moves", len(moves))
	return moves
}
