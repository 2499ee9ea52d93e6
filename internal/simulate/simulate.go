// Package simulate plays complete matches between bot strategies without a
// server, optionally recording a replay.
package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/masswar/internal/board"
	"github.com/lox/masswar/internal/bot"
	"github.com/lox/masswar/internal/fileutil"
	"github.com/lox/masswar/internal/game"
	"github.com/lox/masswar/internal/lattice"
	"github.com/lox/masswar/internal/matchid"
	"github.com/lox/masswar/internal/protocol"
	"github.com/lox/masswar/internal/randutil"
	"github.com/lox/masswar/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Width         int
	Height        int
	Connectivity  lattice.Connectivity
	Strategies    []string // one seat per entry
	InitialWeight int
	Vitamins      int
	Ticks         int
	Matches       int
	Parallel      int
	Seed          int64
	Policy        game.VitaminPolicy
	Record        bool
	Clock         quartz.Clock
	Logger        *log.Logger
}

func (c *Config) applyDefaults() {
	if c.Clock == nil {
		c.Clock = quartz.NewReal()
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	if c.Matches == 0 {
		c.Matches = 1
	}
	if c.Parallel <= 0 {
		c.Parallel = 4
	}
}

// Result summarises one finished match.
type Result struct {
	Match   string                 `json:"match"`
	Seed    int64                  `json:"seed"`
	Players []string               `json:"players"`
	Winner  string                 `json:"winner,omitempty"` // empty on a draw
	Ticks   int                    `json:"ticks"`
	Masses  map[string]int         `json:"masses"`
	Frames  []protocol.StateUpdate `json:"frames,omitempty"`

	Final board.State `json:"-"`
}

// PlayerNames returns the seat names for strategies: "<strategy>-<seat>".
func PlayerNames(strategies []string) []board.Occupant {
	out := make([]board.Occupant, len(strategies))
	for i, s := range strategies {
		out[i] = board.Occupant(fmt.Sprintf("%s-%d", s, i+1))
	}
	return out
}

// Run plays cfg.Matches matches, cfg.Parallel at a time. Match i is seeded
// from randutil.Derive(cfg.Seed, i), so results do not depend on scheduling.
func Run(ctx context.Context, cfg Config) ([]Result, error) {
	cfg.applyDefaults()
	if len(cfg.Strategies) < 2 {
		return nil, fmt.Errorf("need at least 2 strategies, got %d", len(cfg.Strategies))
	}
	if cfg.Matches < 0 {
		return nil, fmt.Errorf("matches must be positive, got %d", cfg.Matches)
	}
	l, err := lattice.New(cfg.Width, cfg.Height, lattice.WithConnectivity(cfg.Connectivity))
	if err != nil {
		return nil, err
	}

	results := make([]Result, cfg.Matches)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallel)
	for i := range cfg.Matches {
		g.Go(func() error {
			res, err := playMatch(ctx, cfg, l, randutil.Derive(cfg.Seed, i))
			if err != nil {
				return fmt.Errorf("match %d: %w", i+1, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func playMatch(ctx context.Context, cfg Config, l *lattice.Lattice, seed int64) (Result, error) {
	rng := randutil.New(seed)
	logger := cfg.Logger.With("seed", seed)

	gm, err := game.New(l, rng, game.WithVitaminPolicy(cfg.Policy), game.WithLogger(logger))
	if err != nil {
		return Result{}, err
	}

	players := PlayerNames(cfg.Strategies)
	bots := make([]bot.Strategy, len(players))
	for i, name := range cfg.Strategies {
		if bots[i], err = bot.New(name, l, rng, logger); err != nil {
			return Result{}, err
		}
	}

	state, err := gm.NewState(players, board.Weight(cfg.InitialWeight), cfg.Vitamins)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Match:   matchid.NewGenerator(rng, cfg.Clock).Next(),
		Seed:    seed,
		Players: make([]string, len(players)),
	}
	for i, p := range players {
		res.Players[i] = string(p)
	}
	record := func() {
		if cfg.Record {
			res.Frames = append(res.Frames, protocol.EncodeState(l, res.Match, res.Ticks, state))
		}
	}
	record()

	for res.Ticks < cfg.Ticks && len(state.Occupants()) > 1 {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		moves := make(board.MoveSet)
		for i, p := range players {
			for e, c := range bots[i].Moves(p, state) {
				moves[e] = c
			}
		}
		if state, _, err = gm.Process(cfg.Vitamins, state, moves); err != nil {
			return Result{}, fmt.Errorf("tick %d: %w", res.Ticks+1, err)
		}
		res.Ticks++
		record()
	}

	res.Final = state
	res.Masses = make(map[string]int, len(players))
	for p, w := range state.Occupants() {
		res.Masses[string(p)] = int(w)
	}
	res.Winner = winner(state.Occupants())

	logger.Debug("Match finished", "match", res.Match, "ticks", res.Ticks, "winner", res.Winner)
	return res, nil
}

// winner is the heaviest player, or "" when the top mass is shared or nobody
// is left.
func winner(masses map[board.Occupant]board.Weight) string {
	var best board.Occupant
	var top board.Weight
	shared := false
	for _, p := range slices.Sorted(maps.Keys(masses)) {
		switch w := masses[p]; {
		case w > top:
			best, top, shared = p, w, false
		case w == top:
			shared = true
		}
	}
	if shared || top == 0 {
		return ""
	}
	return string(best)
}

// Summarise aggregates results per player.
func Summarise(results []Result) map[string]*statistics.Statistics {
	out := make(map[string]*statistics.Statistics)
	for _, r := range results {
		for _, p := range r.Players {
			s, ok := out[p]
			if !ok {
				s = &statistics.Statistics{}
				out[p] = s
			}
			s.Add(statistics.MatchResult{Mass: r.Masses[p], Won: r.Winner == p, Ticks: r.Ticks})
		}
	}
	return out
}

// WriteReplay stores results as indented JSON, atomically.
func WriteReplay(path string, results []Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode replay: %w", err)
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}
