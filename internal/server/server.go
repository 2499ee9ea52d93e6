package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/masswar/internal/protocol"
)

// Server hosts the rooms and the WebSocket endpoint clients play through.
type Server struct {
	upgrader    websocket.Upgrader
	logger      *log.Logger
	rooms       map[string]*Room
	roomNames   []string
	connections map[*Connection]bool
	mu          sync.RWMutex
}

// NewServer creates a server with one room per configuration.
func NewServer(logger *log.Logger, clock quartz.Clock, rooms []RoomConfig) (*Server, error) {
	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Browsers viewing a room may be served from anywhere
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		rooms:       make(map[string]*Room, len(rooms)),
		connections: make(map[*Connection]bool),
	}

	for _, cfg := range rooms {
		if _, dup := s.rooms[cfg.Name]; dup {
			return nil, fmt.Errorf("room %s: defined twice", cfg.Name)
		}
		room, err := NewRoom(cfg, clock, s, logger)
		if err != nil {
			return nil, err
		}
		s.rooms[cfg.Name] = room
		s.roomNames = append(s.roomNames, cfg.Name)
	}
	sort.Strings(s.roomNames)
	return s, nil
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/rooms", s.handleRooms)
	return mux
}

// Serve runs every room and serves HTTP on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range s.roomNames {
		room := s.rooms[name]
		g.Go(func() error { return room.Run(ctx) })
	}
	g.Go(func() error {
		s.logger.Info("Serving", "addr", ln.Addr().String(), "rooms", len(s.rooms))
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeConnections()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) closeConnections() {
	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close() // Ignore close errors during shutdown
	}
}

// Room returns the room called name.
func (s *Server) Room(name string) (*Room, bool) {
	room, ok := s.rooms[name]
	return room, ok
}

// RoomList summarises every room for the lobby.
func (s *Server) RoomList() protocol.Rooms {
	out := make(protocol.Rooms, len(s.rooms))
	for name, room := range s.rooms {
		out[name] = room.Info()
	}
	return out
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	_, ok := s.connections[conn]
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()
	if !ok {
		return
	}

	// Free the seat of a disconnected player
	if player, roomName := conn.Player(), conn.Room(); player != "" && roomName != "" {
		if room, found := s.rooms[roomName]; found {
			s.logger.Info("Cleaning up disconnected player", "player", player, "room", roomName)
			room.Leave(player)
		}
	}
	s.logger.Info("Client disconnected", "total", total)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(ws, s, s.logger)
	s.register(conn)
	conn.Start()

	go func() {
		<-conn.Done()
		s.unregister(conn)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.RoomList()); err != nil {
		s.logger.Error("Failed to encode room list", "error", err)
	}
}

// Broadcast sends a message to every connection watching room.
func (s *Server) Broadcast(room string, msg *protocol.Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn.Room() != room {
			continue
		}
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Error("Failed to send message to client", "error", err, "player", conn.Player())
			continue
		}
		count++
	}
	s.logger.Debug("Broadcasted message to room", "room", room, "type", msg.Type, "recipients", count)
}
