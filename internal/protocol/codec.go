package protocol

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/lox/masswar/internal/board"
)

// Codec converts graph handles to and from their wire keys.
type Codec interface {
	VertexKey(v board.Vertex) string
	EdgeKey(e board.Edge) string
	ParseVertex(key string) (board.Vertex, error)
	ParseEdge(key string) (board.Edge, error)
}

// EncodeTransition converts a tick's transition to its wire form.
func EncodeTransition(c Codec, tick int, tr board.Transition) TransitionUpdate {
	edges := make(map[string]Trajectory, len(tr))
	for e, t := range tr {
		edges[c.EdgeKey(e)] = Trajectory{
			Player:  string(t.Occupant),
			Weights: [3]int{int(t.Weights[0]), int(t.Weights[1]), int(t.Weights[2])},
		}
	}
	return TransitionUpdate{Tick: tick, Edges: edges}
}

// EncodeState converts a board state to its wire form.
func EncodeState(c Codec, match string, tick int, s board.State) StateUpdate {
	cells := make(map[string]Cell, len(s))
	for v, cell := range s {
		cells[c.VertexKey(v)] = Cell{Player: string(cell.Occupant), Weight: int(cell.Weight)}
	}
	return StateUpdate{Match: match, Tick: tick, Cells: cells}
}

// DecodeState rebuilds a board state from its wire form.
func DecodeState(c Codec, u StateUpdate) (board.State, error) {
	s := make(board.State, len(u.Cells))
	for key, cell := range u.Cells {
		v, err := c.ParseVertex(key)
		if err != nil {
			return nil, err
		}
		s[v] = board.NewCell(board.Occupant(cell.Player), board.Weight(cell.Weight))
	}
	return s, nil
}

// EncodeMoves converts a move set to its wire form. Only weights travel; the
// server attributes every move to the submitting player.
func EncodeMoves(c Codec, tick int, m board.MoveSet) Moves {
	out := make(map[string]int, len(m))
	for e, cell := range m {
		out[c.EdgeKey(e)] = int(cell.Weight)
	}
	return Moves{Tick: tick, Moves: out}
}

// DecodeMoves converts submitted moves into cells owned by player. Keys that
// do not parse are skipped and reported together in the returned error; the
// decoded remainder is still usable.
func DecodeMoves(c Codec, player board.Occupant, m Moves) (board.MoveSet, error) {
	out := make(board.MoveSet, len(m.Moves))
	var errs []error
	for _, key := range slices.Sorted(maps.Keys(m.Moves)) {
		e, err := c.ParseEdge(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("edge %q: %w", key, err))
			continue
		}
		if w := m.Moves[key]; w > 0 {
			out[e] = board.NewCell(player, board.Weight(w))
		} else {
			errs = append(errs, fmt.Errorf("edge %q: weight %d must be positive", key, w))
		}
	}
	return out, errors.Join(errs...)
}
