package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/masswar/cmd/masswar/shared"
	"github.com/lox/masswar/internal/game"
	"github.com/lox/masswar/internal/lattice"
	"github.com/lox/masswar/internal/render"
	"github.com/lox/masswar/internal/simulate"
)

// SimulateCmd plays bot matches without a server
type SimulateCmd struct {
	Bots          []string `kong:"default='random,greedy',help='Strategy per seat (random, greedy)'"`
	Size          []int    `kong:"default='10,10',help='Board width,height'"`
	Diagonals     bool     `kong:"help='Use 8-connectivity'"`
	Weight        int      `kong:"default='10',help='Initial weight per player'"`
	Vitamins      int      `kong:"default='5',help='Vitamins kept on the board'"`
	Ticks         int      `kong:"default='200',help='Maximum ticks per match'"`
	Matches       int      `kong:"default='1',help='Number of matches'"`
	Parallel      int      `kong:"default='4',help='Matches played at once'"`
	Seed          *int64   `kong:"help='Deterministic RNG seed (optional)'"`
	VitaminPolicy string   `kong:"default='annihilate',enum='annihilate,conserve',help='Outcome of all-vitamin collisions'"`
	Show          bool     `kong:"help='Print the final board of every match'"`
	NoColor       bool     `kong:"help='Disable colored output'"`
	Out           string   `kong:"help='Write a JSON replay of every match to this file'"`
	Debug         bool     `kong:"help='Enable debug logging'"`
}

// Validate is called by kong after flags are parsed.
func (c *SimulateCmd) Validate() error {
	if len(c.Size) != 2 {
		return fmt.Errorf("--size takes width,height")
	}
	if c.Matches < 1 {
		return fmt.Errorf("--matches must be at least 1, got %d", c.Matches)
	}
	return nil
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(c.Debug, false)

	policy, _ := game.ParseVitaminPolicy(c.VitaminPolicy)
	conn := lattice.Conn4
	if c.Diagonals {
		conn = lattice.Conn8
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("Simulating", "matches", c.Matches, "bots", c.Bots, "seed", seed)

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	start := time.Now()
	results, err := simulate.Run(ctx, simulate.Config{
		Width:         c.Size[0],
		Height:        c.Size[1],
		Connectivity:  conn,
		Strategies:    c.Bots,
		InitialWeight: c.Weight,
		Vitamins:      c.Vitamins,
		Ticks:         c.Ticks,
		Matches:       c.Matches,
		Parallel:      c.Parallel,
		Seed:          seed,
		Policy:        policy,
		Record:        c.Out != "",
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	r := render.New(os.Stdout, !c.NoColor)
	l, err := lattice.New(c.Size[0], c.Size[1], lattice.WithConnectivity(conn))
	if err != nil {
		return err
	}
	players := simulate.PlayerNames(c.Bots)

	for i, res := range results {
		winner := res.Winner
		if winner == "" {
			winner = "draw"
		}
		fmt.Printf("match %d %s: %s after %d ticks\n", i+1, res.Match, winner, res.Ticks)
		if c.Show {
			fmt.Println(r.Board(l, res.Final, players))
			fmt.Println(r.Legend(res.Final, players))
			fmt.Println()
		}
	}

	fmt.Println(r.Title("Summary"))
	stats := simulate.Summarise(results)
	for _, p := range players {
		s, ok := stats[string(p)]
		if !ok {
			continue
		}
		lo, hi := s.ConfidenceInterval95()
		fmt.Printf("%-12s wins %3d (%5.1f%%)  mass %7.1f [%.1f, %.1f]  median ticks %.0f\n",
			p, s.Wins, 100*s.WinRate(), s.Mean(), lo, hi, s.MedianTicks())
	}
	logger.Info("Simulation complete", "duration", time.Since(start))

	if c.Out != "" {
		if err := simulate.WriteReplay(c.Out, results); err != nil {
			return err
		}
		logger.Info("Replay written", "path", c.Out)
	}
	return nil
}
