package server

import (
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/lox/masswar/internal/protocol"
)

// testLogger creates a logger that discards output for tests
func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// recorder collects broadcasts per room.
type recorder struct {
	mu   sync.Mutex
	msgs []*protocol.Message
}

func (r *recorder) Broadcast(_ string, msg *protocol.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) types() []protocol.MessageType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]protocol.MessageType, len(r.msgs))
	for i, m := range r.msgs {
		out[i] = m.Type
	}
	return out
}

func (r *recorder) last(t protocol.MessageType) *protocol.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.msgs) - 1; i >= 0; i-- {
		if r.msgs[i].Type == t {
			return r.msgs[i]
		}
	}
	return nil
}

func testRoomConfig(name string) RoomConfig {
	return RoomConfig{
		Name:          name,
		Width:         5,
		Height:        5,
		Seats:         2,
		InitialWeight: 10,
		TickMs:        1000,
		Seed:          7,
	}
}

func newTestRoom(t *testing.T, cfg RoomConfig) (*Room, *recorder, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	rec := &recorder{}
	room, err := NewRoom(cfg, clock, rec, testLogger())
	require.NoError(t, err)
	return room, rec, clock
}
