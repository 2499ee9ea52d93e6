package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/masswar/internal/board"
	"github.com/lox/masswar/internal/bot"
	"github.com/lox/masswar/internal/lattice"
	"github.com/lox/masswar/internal/protocol"
	"github.com/lox/masswar/internal/randutil"
)

// ErrDisconnected is returned by Play when the server closes the connection.
var ErrDisconnected = errors.New("connection closed by server")

// Player occupies one seat and answers every board update with the moves of
// its strategy.
type Player struct {
	Room     string
	Name     string
	Strategy string
	Rng      randutil.Source

	logger   *log.Logger
	lattice  *lattice.Lattice
	strategy bot.Strategy
	wins     int
}

// NewPlayer creates a player that will sit in room as name.
func NewPlayer(room, name, strategy string, rng randutil.Source, logger *log.Logger) *Player {
	return &Player{
		Room:     room,
		Name:     name,
		Strategy: strategy,
		Rng:      rng,
		logger:   logger.WithPrefix("player").With("name", name),
	}
}

// Wins returns how many matches the player has won so far.
func (p *Player) Wins() int { return p.wins }

// Play joins the room through c and plays until ctx is cancelled or the
// connection drops.
func (p *Player) Play(ctx context.Context, c *Client) error {
	if err := c.Join(p.Room, p.Name); err != nil {
		return fmt.Errorf("join %s: %w", p.Room, err)
	}

	for {
		select {
		case <-ctx.Done():
			_ = c.Leave() // Best effort; the server frees the seat on disconnect anyway
			return nil
		case msg, ok := <-c.Receive():
			if !ok {
				return ErrDisconnected
			}
			if err := p.handle(c, msg); err != nil {
				return err
			}
		}
	}
}

func (p *Player) handle(c *Client, msg *protocol.Message) error {
	switch msg.Type {
	case protocol.TypeSettings:
		var s protocol.Settings
		if err := msg.Decode(&s); err != nil {
			return fmt.Errorf("decode settings: %w", err)
		}
		return p.configure(s)

	case protocol.TypeJoined:
		var j protocol.Joined
		if err := msg.Decode(&j); err != nil {
			return fmt.Errorf("decode joined: %w", err)
		}
		p.logger.Info("Seated", "room", j.Room, "match", j.Match)

	case protocol.TypeState:
		var u protocol.StateUpdate
		if err := msg.Decode(&u); err != nil {
			return fmt.Errorf("decode state: %w", err)
		}
		return p.respond(c, u)

	case protocol.TypeGameOver:
		var g protocol.GameOver
		if err := msg.Decode(&g); err != nil {
			return fmt.Errorf("decode game_over: %w", err)
		}
		if g.Winner == p.Name {
			p.wins++
		}
		p.logger.Info("Match over", "match", g.Match, "tick", g.Tick, "winner", g.Winner, "wins", p.wins)

	case protocol.TypeError:
		var e protocol.Error
		if err := msg.Decode(&e); err != nil {
			return fmt.Errorf("decode error: %w", err)
		}
		if e.Code == protocol.CodeJoinFailed {
			return fmt.Errorf("join %s: %s", p.Room, e.Message)
		}
		p.logger.Warn("Server error", "code", e.Code, "message", e.Message)
	}
	return nil
}

func (p *Player) configure(s protocol.Settings) error {
	conn := lattice.Conn4
	if s.Connectivity == 8 {
		conn = lattice.Conn8
	}
	l, err := lattice.New(s.Size[0], s.Size[1], lattice.WithConnectivity(conn))
	if err != nil {
		return fmt.Errorf("room %s: %w", s.Room, err)
	}
	strategy, err := bot.New(p.Strategy, l, p.Rng, p.logger)
	if err != nil {
		return err
	}
	p.lattice, p.strategy = l, strategy
	p.logger.Debug("Configured", "size", s.Size, "connectivity", s.Connectivity, "strategy", p.Strategy)
	return nil
}

func (p *Player) respond(c *Client, u protocol.StateUpdate) error {
	if p.strategy == nil {
		p.logger.Warn("State before settings, skipping", "tick", u.Tick)
		return nil
	}
	state, err := protocol.DecodeState(p.lattice, u)
	if err != nil {
		return fmt.Errorf("decode board: %w", err)
	}

	moves := p.strategy.Moves(board.Occupant(p.Name), state)
	if len(moves) == 0 {
		return nil
	}
	if err := c.SubmitMoves(protocol.EncodeMoves(p.lattice, u.Tick, moves)); err != nil {
		p.logger.Warn("Failed to submit moves", "tick", u.Tick, "error", err)
	}
	return nil
}
