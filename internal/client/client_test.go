package client

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/masswar/internal/protocol"
	"github.com/lox/masswar/internal/randutil"
	"github.com/lox/masswar/internal/server"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestServer(t *testing.T) (*server.Server, *httptest.Server) {
	t.Helper()
	cfg := server.DefaultRoomConfig("main")
	cfg.Width, cfg.Height = 5, 5
	cfg.Seed = 3
	srv, err := server.NewServer(testLogger(), quartz.NewMock(t), []server.RoomConfig{cfg})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func connect(t *testing.T, ts *httptest.Server) *Client {
	t.Helper()
	c := NewClient(ts.URL, testLogger())
	require.NoError(t, c.Connect(context.Background()))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestWSURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws"},
		{"https://example.com/", "wss://example.com/ws"},
		{"ws://localhost:8080/ws", "ws://localhost:8080/ws"},
		{"wss://example.com/custom", "wss://example.com/custom"},
	}
	for _, tt := range tests {
		got, err := wsURL(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := wsURL("ftp://example.com")
	assert.Error(t, err)
}

func TestSendBeforeConnect(t *testing.T) {
	t.Parallel()
	c := NewClient("http://localhost:1", testLogger())
	assert.ErrorIs(t, c.ListRooms(), ErrNotConnected)
}

func TestListRooms(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)
	c := connect(t, ts)

	require.NoError(t, c.ListRooms())
	select {
	case msg := <-c.Receive():
		require.Equal(t, protocol.TypeRooms, msg.Type)
		var rooms protocol.Rooms
		require.NoError(t, msg.Decode(&rooms))
		assert.Contains(t, rooms, "main")
	case <-time.After(5 * time.Second):
		t.Fatal("no rooms reply")
	}
}

func TestPlayersPlayAMatch(t *testing.T) {
	t.Parallel()
	srv, ts := newTestServer(t)
	room, ok := srv.Room("main")
	require.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 2)
	for i, name := range []string{"alice", "bob"} {
		p := NewPlayer("main", name, "random", randutil.New(int64(i+1)), testLogger())
		c := connect(t, ts)
		go func() { done <- p.Play(ctx, c) }()
	}

	require.Eventually(t, func() bool {
		return room.Info().Status == server.StatusRunning
	}, 5*time.Second, 10*time.Millisecond)

	// Tick until some cell has left its spawn point
	require.Eventually(t, func() bool {
		if err := room.Step(); err != nil {
			return false
		}
		_, _, state := room.Snapshot()
		cells := 0
		for _, c := range state {
			if !c.IsVitamin() {
				cells++
			}
		}
		return cells > 2
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	for range 2 {
		assert.NoError(t, <-done)
	}
}

func TestPlayerJoinFailure(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)
	c := connect(t, ts)

	// unknown rooms are reported as a plain server error, so the player keeps
	// waiting until the context ends
	short, cancelShort := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancelShort()
	p := NewPlayer("nowhere", "alice", "random", randutil.New(1), testLogger())
	assert.NoError(t, p.Play(short, c))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c2 := connect(t, ts)
	p2 := NewPlayer("main", "*", "random", randutil.New(1), testLogger())
	assert.ErrorContains(t, p2.Play(ctx, c2), "join main")
}
