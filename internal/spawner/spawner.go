// Package spawner runs in-process bots against a server, for demos and for
// filling empty seats.
package spawner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/masswar/internal/client"
	"github.com/lox/masswar/internal/randutil"
)

// BotSpawner manages the lifecycle of spawned bots.
type BotSpawner struct {
	serverURL string
	bots      map[string]*runningBot
	mu        sync.RWMutex
	wg        sync.WaitGroup
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	seed      int64 // Base seed for deterministic bots, 0 for time-seeded
	botSeq    int   // Bot sequence counter
}

// BotSpec defines a group of identical bots.
type BotSpec struct {
	Strategy string // Strategy name (random, greedy)
	Count    int    // Number to spawn
	Room     string // Target room (default: "main")
}

type runningBot struct {
	player *client.Player
	done   chan struct{}
}

// New creates a new BotSpawner. A non-zero seed makes every bot's moves
// reproducible.
func New(serverURL string, logger *log.Logger, seed int64) *BotSpawner {
	ctx, cancel := context.WithCancel(context.Background())
	return &BotSpawner{
		serverURL: serverURL,
		bots:      make(map[string]*runningBot),
		logger:    logger.WithPrefix("spawner"),
		ctx:       ctx,
		cancel:    cancel,
		seed:      seed,
	}
}

// Spawn connects spec.Count bots. On failure the bots already spawned by
// this call keep running; StopAll ends them.
func (s *BotSpawner) Spawn(spec BotSpec) error {
	if spec.Count <= 0 {
		spec.Count = 1
	}
	if spec.Room == "" {
		spec.Room = "main"
	}

	s.logger.Info("Spawning bots", "strategy", spec.Strategy, "count", spec.Count, "room", spec.Room)
	for i := 0; i < spec.Count; i++ {
		if err := s.spawnOne(spec); err != nil {
			return fmt.Errorf("failed to spawn bot %d: %w", i, err)
		}
	}
	return nil
}

// SpawnMany spawns multiple bot specs.
func (s *BotSpawner) SpawnMany(specs []BotSpec) error {
	for _, spec := range specs {
		if err := s.Spawn(spec); err != nil {
			return err
		}
	}
	return nil
}

func (s *BotSpawner) spawnOne(spec BotSpec) error {
	s.mu.Lock()
	s.botSeq++
	seq := s.botSeq
	s.mu.Unlock()

	name := fmt.Sprintf("%s-%d", spec.Strategy, seq)
	base := s.seed
	if base == 0 {
		base = time.Now().UnixNano()
	}
	seed := randutil.Derive(base, seq)

	conn := client.NewClient(s.serverURL, s.logger)
	if err := conn.Connect(s.ctx); err != nil {
		return err
	}

	bot := &runningBot{
		player: client.NewPlayer(spec.Room, name, spec.Strategy, randutil.New(seed), s.logger),
		done:   make(chan struct{}),
	}
	s.mu.Lock()
	s.bots[name] = bot
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(bot.done)
		defer func() { _ = conn.Close() }()

		if err := bot.player.Play(s.ctx, conn); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn("Bot exited", "name", name, "error", err)
		}
	}()
	return nil
}

// StopAll stops all spawned bots and waits for them to disconnect.
func (s *BotSpawner) StopAll() {
	s.logger.Info("Stopping all bots")
	s.cancel()
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bots = make(map[string]*runningBot)
}

// Wait blocks until every bot has stopped.
func (s *BotSpawner) Wait() {
	s.wg.Wait()
}

// ActiveCount returns the number of bots still playing.
func (s *BotSpawner) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, bot := range s.bots {
		select {
		case <-bot.done:
		default:
			count++
		}
	}
	return count
}

// Names returns the names of all bots spawned so far.
func (s *BotSpawner) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.bots))
	for name := range s.bots {
		names = append(names, name)
	}
	return names
}
