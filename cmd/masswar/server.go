package main

import (
	"fmt"
	"net"

	"github.com/coder/quartz"

	"github.com/lox/masswar/cmd/masswar/shared"
	"github.com/lox/masswar/internal/server"
	"github.com/lox/masswar/internal/spawner"
)

// ServerCmd runs the rooms defined in an HCL config file
type ServerCmd struct {
	Config   string   `kong:"default='masswar.hcl',help='Room configuration file (defaults apply when missing)'"`
	Addr     string   `kong:"help='Listen address, overrides the config file'"`
	Debug    bool     `kong:"help='Enable debug logging'"`
	JSONLogs bool     `kong:"name='json-logs',help='Log JSON lines instead of text'"`
	Bots     []string `kong:"help='Strategies of in-process bots to seat in the first room'"`
	Seed     int64    `kong:"help='Seed for in-process bots (0 for random)'"`
}

func (c *ServerCmd) Run() error {
	logger := shared.SetupLogger(c.Debug, c.JSONLogs)

	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", c.Config, err)
	}
	if !c.Debug {
		shared.ParseLevel(logger, cfg.Server.LogLevel)
	}

	addr := cfg.Address()
	if c.Addr != "" {
		addr = c.Addr
	}

	srv, err := server.NewServer(logger, quartz.NewReal(), cfg.Rooms)
	if err != nil {
		return err
	}

	for _, room := range cfg.Rooms {
		logger.Info("Room configured",
			"room", room.Name,
			"size", fmt.Sprintf("%dx%d", room.Width, room.Height),
			"connectivity", room.Connectivity,
			"seats", room.Seats,
			"vitamins", room.Vitamins,
			"tick", room.Tick(),
			"vitamin_policy", room.VitaminPolicy)
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	logger.Info("Starting masswar server", "address", ln.Addr().String())

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ctx, ln) }()

	if len(c.Bots) > 0 {
		bots := spawner.New("ws://"+ln.Addr().String()+"/ws", logger, c.Seed)
		defer bots.StopAll()
		for _, strategy := range c.Bots {
			if err := bots.Spawn(spawner.BotSpec{Strategy: strategy, Room: cfg.Rooms[0].Name}); err != nil {
				cancel()
				<-serveErr
				return err
			}
		}
	}

	return <-serveErr
}
