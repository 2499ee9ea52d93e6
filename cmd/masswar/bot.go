package main

import (
	"fmt"
	"time"

	"github.com/lox/masswar/cmd/masswar/shared"
	"github.com/lox/masswar/internal/client"
	"github.com/lox/masswar/internal/randutil"
)

// BotCmd seats a built-in strategy in a server room
type BotCmd struct {
	Strategy string `arg:"" optional:"" default:"random" help:"Strategy (random, greedy)"`
	Server   string `default:"ws://localhost:8080/ws" help:"WebSocket server URL"`
	Room     string `default:"main" help:"Room to join"`
	Name     string `help:"Player name (defaults to <strategy>-<random>)"`
	Seed     *int64 `help:"Deterministic RNG seed (optional)"`
	Debug    bool   `help:"Enable debug logging"`
	JSONLogs bool   `name:"json-logs" help:"Log JSON lines instead of text"`
}

func (c *BotCmd) Run() error {
	logger := shared.SetupLogger(c.Debug, c.JSONLogs)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	rng := randutil.New(seed)

	name := c.Name
	if name == "" {
		name = fmt.Sprintf("%s-%04d", c.Strategy, rng.IntN(10000))
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	conn := client.NewClient(c.Server, logger)
	if err := conn.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	player := client.NewPlayer(c.Room, name, c.Strategy, rng, logger)
	err := player.Play(ctx, conn)
	logger.Info("Bot stopped", "name", name, "wins", player.Wins())
	return err
}
