package main

import (
	"fmt"

	"github.com/lox/masswar/internal/lattice"
)

// KeysCmd prints the wire keys of a board, for writing bots by hand
type KeysCmd struct {
	Width     int  `arg:"" help:"Board width"`
	Height    int  `arg:"" help:"Board height"`
	Diagonals bool `help:"Use 8-connectivity"`
	Edges     bool `help:"Also list every edge leaving each vertex"`
}

func (c *KeysCmd) Run() error {
	conn := lattice.Conn4
	if c.Diagonals {
		conn = lattice.Conn8
	}
	l, err := lattice.New(c.Width, c.Height, lattice.WithConnectivity(conn))
	if err != nil {
		return err
	}

	for _, v := range l.Vertices() {
		fmt.Println(l.VertexKey(v))
		if !c.Edges {
			continue
		}
		for _, e := range l.OutEdges(v) {
			fmt.Printf("  %s\n", l.EdgeKey(e))
		}
	}

	spawns := l.InitialVertices(9)
	fmt.Printf("\n%d spawn points:", len(spawns))
	for _, v := range spawns {
		fmt.Printf(" %s", l.VertexKey(v))
	}
	fmt.Println()
	return nil
}
