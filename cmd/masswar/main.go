package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Server   ServerCmd        `cmd:"" help:"Run the game server"`
	Simulate SimulateCmd      `cmd:"" help:"Play bot matches locally"`
	Bot      BotCmd           `cmd:"" help:"Connect a bot to a server"`
	Keys     KeysCmd          `cmd:"" help:"Print the vertex and edge keys of a board"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("masswar"),
		kong.Description("Tick-based mass conquest on a grid, for bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
