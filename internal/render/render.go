// Package render draws boards as text grids for terminals.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/masswar/internal/board"
	"github.com/lox/masswar/internal/lattice"
)

var palette = []lipgloss.Color{"#FF6B6B", "#4ECDC4", "#FFD700", "#96CEB4", "#7D56F4", "#F78FB3", "#3DC1D3", "#F19066", "#A3CB38"}

// Renderer styles boards for one output stream.
type Renderer struct {
	lr      *lipgloss.Renderer
	players []lipgloss.Style
	vitamin lipgloss.Style
	empty   lipgloss.Style
	header  lipgloss.Style
}

// New returns a renderer for w. Without color every style degrades to plain
// text.
func New(w io.Writer, color bool) *Renderer {
	lr := lipgloss.NewRenderer(w)
	if !color {
		lr.SetColorProfile(termenv.Ascii)
	}

	players := make([]lipgloss.Style, len(palette))
	for i, c := range palette {
		players[i] = lr.NewStyle().Foreground(c).Bold(true)
	}
	return &Renderer{
		lr:      lr,
		players: players,
		vitamin: lr.NewStyle().Foreground(lipgloss.Color("#96CEB4")),
		empty:   lr.NewStyle().Faint(true),
		header:  lr.NewStyle().Bold(true).Underline(true),
	}
}

// label is the plain text of one cell: "." when empty, "*" for a vitamin,
// otherwise the player's initial and weight.
func label(c board.Cell, ok bool) string {
	switch {
	case !ok || !c.Alive():
		return "."
	case c.IsVitamin():
		return "*"
	}
	initial := "?"
	if r := []rune(string(c.Occupant)); len(r) > 0 {
		initial = string(r[0])
	}
	return fmt.Sprintf("%s%d", initial, c.Weight)
}

func (r *Renderer) style(c board.Cell, ok bool, players []board.Occupant) lipgloss.Style {
	switch {
	case !ok || !c.Alive():
		return r.empty
	case c.IsVitamin():
		return r.vitamin
	}
	for i, p := range players {
		if p == c.Occupant {
			return r.players[i%len(r.players)]
		}
	}
	return r.lr.NewStyle()
}

// Board draws state on l, one text row per lattice row. Players are colored
// by their position in players.
func (r *Renderer) Board(l *lattice.Lattice, state board.State, players []board.Occupant) string {
	width := 1
	for _, c := range state {
		width = max(width, len(label(c, true)))
	}

	rows := make([]string, l.Height)
	for y := range l.Height {
		cells := make([]string, l.Width)
		for x := range l.Width {
			c, ok := state[l.Vertex(x, y)]
			cells[x] = r.style(c, ok, players).Width(width).Align(lipgloss.Right).Render(label(c, ok))
		}
		rows[y] = strings.Join(cells, " ")
	}
	return strings.Join(rows, "\n")
}

// Legend lists each player with its total live weight.
func (r *Renderer) Legend(state board.State, players []board.Occupant) string {
	masses := state.Occupants()
	parts := make([]string, len(players))
	for i, p := range players {
		parts[i] = r.players[i%len(r.players)].Render(fmt.Sprintf("%s=%d", p, masses[p]))
	}
	return strings.Join(parts, "  ")
}

// Title renders a heading line.
func (r *Renderer) Title(s string) string {
	return r.header.Render(s)
}
