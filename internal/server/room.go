package server

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/masswar/internal/board"
	"github.com/lox/masswar/internal/game"
	"github.com/lox/masswar/internal/lattice"
	"github.com/lox/masswar/internal/matchid"
	"github.com/lox/masswar/internal/protocol"
	"github.com/lox/masswar/internal/randutil"
)

// Room status values reported to the lobby
const (
	StatusWaiting = "waiting"
	StatusRunning = "running"
)

var (
	// ErrRoomFull is returned by Join when every seat is taken.
	ErrRoomFull = errors.New("room is full")

	// ErrNameTaken is returned by Join when another seat uses the name.
	ErrNameTaken = errors.New("name already taken in this room")

	// ErrNotSeated is returned by Submit for a player without a seat.
	ErrNotSeated = errors.New("player is not seated in this room")

	// ErrBadName is returned by Join for an empty or reserved name.
	ErrBadName = errors.New("invalid player name")

	// ErrNotRunning is returned by Submit between matches.
	ErrNotRunning = errors.New("no match in progress")
)

// Broadcaster delivers a message to everyone watching a room.
type Broadcaster interface {
	Broadcast(room string, msg *protocol.Message)
}

// Room runs one match at a time on its own board. Players take seats until
// the room is full, then the match starts and ticks on the room clock.
type Room struct {
	cfg     RoomConfig
	lattice *lattice.Lattice
	game    *game.Game
	ids     *matchid.Generator
	clock   quartz.Clock
	out     Broadcaster
	logger  *log.Logger

	mu      sync.Mutex
	seats   []board.Occupant
	pending map[board.Occupant]board.MoveSet
	state   board.State
	match   string
	tick    int
	status  string
}

// NewRoom builds a room from its configuration. A zero seed draws one from
// the clock.
func NewRoom(cfg RoomConfig, clock quartz.Clock, out Broadcaster, logger *log.Logger) (*Room, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l, err := cfg.Lattice()
	if err != nil {
		return nil, err
	}
	policy, _ := game.ParseVitaminPolicy(cfg.VitaminPolicy)

	seed := cfg.Seed
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}
	rng := randutil.New(seed)
	logger = logger.WithPrefix("room").With("room", cfg.Name)

	g, err := game.New(l, rng, game.WithVitaminPolicy(policy), game.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	logger.Debug("Room created", "seed", seed, "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
	return &Room{
		cfg:     cfg,
		lattice: l,
		game:    g,
		ids:     matchid.NewGenerator(rng, clock),
		clock:   clock,
		out:     out,
		logger:  logger,
		pending: make(map[board.Occupant]board.MoveSet),
		status:  StatusWaiting,
	}, nil
}

// Name returns the room name.
func (r *Room) Name() string { return r.cfg.Name }

// Codec returns the key codec of the room's board.
func (r *Room) Codec() protocol.Codec { return r.lattice }

// Settings describes the room's board.
func (r *Room) Settings() protocol.Settings {
	return protocol.Settings{
		Room:          r.cfg.Name,
		Size:          [2]int{r.cfg.Width, r.cfg.Height},
		Connectivity:  r.cfg.Connectivity,
		Delay:         r.cfg.TickMs,
		InitialWeight: r.cfg.InitialWeight,
		Vitamins:      r.cfg.Vitamins,
	}
}

// Info summarises the room for the lobby.
func (r *Room) Info() protocol.RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return protocol.RoomInfo{
		NPlayers: len(r.seats),
		Seats:    r.cfg.Seats,
		Players:  r.playerNames(),
		Status:   r.status,
	}
}

// Snapshot returns the current match, tick and a copy of the board.
func (r *Room) Snapshot() (match string, tick int, state board.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.match, r.tick, r.state.Clone()
}

func (r *Room) playerNames() []string {
	names := make([]string, len(r.seats))
	for i, p := range r.seats {
		names[i] = string(p)
	}
	return names
}

// Join seats name. The match starts as soon as the last seat is taken.
func (r *Room) Join(name string) (string, error) {
	p := board.Occupant(name)
	if name == "" || p.IsVitamin() {
		return "", ErrBadName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.seats, p) {
		return "", ErrNameTaken
	}
	if len(r.seats) >= r.cfg.Seats {
		return "", ErrRoomFull
	}
	r.seats = append(r.seats, p)
	r.logger.Info("Player joined", "player", name, "seats", len(r.seats))
	r.broadcast(protocol.TypePlayers, protocol.Players(r.playerNames()))

	if len(r.seats) == r.cfg.Seats && r.status == StatusWaiting {
		if err := r.startLocked(); err != nil {
			return "", err
		}
	}
	return r.match, nil
}

// Leave frees name's seat. Its cells stay on the board and stop moving.
func (r *Room) Leave(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := board.Occupant(name)
	i := slices.Index(r.seats, p)
	if i < 0 {
		return
	}
	r.seats = slices.Delete(r.seats, i, i+1)
	delete(r.pending, p)
	r.logger.Info("Player left", "player", name, "seats", len(r.seats))
	r.broadcast(protocol.TypePlayers, protocol.Players(r.playerNames()))
}

// Submit buffers player's moves for the next tick, replacing any earlier
// submission this tick.
func (r *Room) Submit(player string, moves board.MoveSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := board.Occupant(player)
	if !slices.Contains(r.seats, p) {
		return ErrNotSeated
	}
	if r.status != StatusRunning {
		return ErrNotRunning
	}
	r.pending[p] = moves.Clone()
	return nil
}

// Step advances the match by one tick. It does nothing while waiting for
// players.
func (r *Room) Step() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusRunning {
		return nil
	}

	moves := r.collectLocked()
	next, tr, err := r.game.Process(r.cfg.Vitamins, r.state, moves)
	if err != nil {
		return fmt.Errorf("tick %d: %w", r.tick+1, err)
	}
	r.tick++
	r.state = next
	clear(r.pending)

	r.broadcast(protocol.TypeTransition, protocol.EncodeTransition(r.lattice, r.tick, tr))
	r.broadcast(protocol.TypeState, protocol.EncodeState(r.lattice, r.match, r.tick, r.state))

	survivors := r.state.Occupants()
	if len(survivors) > 1 {
		return nil
	}

	var winner string
	for p := range survivors {
		winner = string(p)
	}
	r.logger.Info("Match over", "match", r.match, "tick", r.tick, "winner", winner)
	r.broadcast(protocol.TypeGameOver, protocol.GameOver{Match: r.match, Tick: r.tick, Winner: winner})

	if len(r.seats) == r.cfg.Seats {
		return r.startLocked()
	}
	r.status = StatusWaiting
	return nil
}

// collectLocked merges buffered submissions into one move set. A move only
// counts if its submitter owns the cell it leaves from.
func (r *Room) collectLocked() board.MoveSet {
	moves := make(board.MoveSet)
	for _, p := range r.seats {
		for e, c := range r.pending[p] {
			if !r.lattice.IsEdge(e) {
				continue
			}
			if owner, ok := r.state[r.lattice.EdgeSource(e)]; ok && owner.Occupant == p {
				moves[e] = board.NewCell(p, c.Weight)
			}
		}
	}
	return moves
}

func (r *Room) startLocked() error {
	state, err := r.game.NewState(slices.Clone(r.seats), board.Weight(r.cfg.InitialWeight), r.cfg.Vitamins)
	if err != nil {
		return fmt.Errorf("start match: %w", err)
	}
	r.state = state
	r.tick = 0
	r.match = r.ids.Next()
	r.status = StatusRunning
	clear(r.pending)

	r.logger.Info("Match started", "match", r.match, "players", r.playerNames())
	r.broadcast(protocol.TypeSettings, r.Settings())
	r.broadcast(protocol.TypeState, protocol.EncodeState(r.lattice, r.match, r.tick, r.state))
	return nil
}

func (r *Room) broadcast(t protocol.MessageType, data any) {
	if r.out == nil {
		return
	}
	msg, err := protocol.NewMessage(t, data)
	if err != nil {
		r.logger.Error("Failed to create message", "type", t, "error", err)
		return
	}
	r.out.Broadcast(r.cfg.Name, msg)
}

// Run ticks the room until ctx is cancelled.
func (r *Room) Run(ctx context.Context) error {
	ticker := r.clock.NewTicker(r.cfg.Tick(), "room", r.cfg.Name)
	defer ticker.Stop()

	r.logger.Info("Room ticking", "every", r.cfg.Tick().String())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			start := r.clock.Now()
			if err := r.Step(); err != nil {
				r.logger.Error("Tick failed", "error", err)
				continue
			}
			r.logger.Debug("Tick", "took", r.clock.Since(start))
		}
	}
}
