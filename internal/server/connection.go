package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/masswar/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

var (
	// ErrConnectionClosed is returned when sending on a closed connection.
	ErrConnectionClosed = websocket.ErrCloseSent

	// ErrSendBufferFull is returned when a slow client falls behind; the
	// connection is closed.
	ErrSendBufferFull = errors.New("send buffer full")
)

// Connection represents a WebSocket connection to a client. A connection
// watches at most one room and may hold one seat in it.
type Connection struct {
	conn      *websocket.Conn
	send      chan *protocol.Message
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu     sync.RWMutex
	room   string
	player string
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *protocol.Message, 256),
		server: server,
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client without blocking. A client
// that stops reading is disconnected.
func (c *Connection) SendMessage(msg *protocol.Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrSendBufferFull
	}
}

// Room returns the room this connection watches.
func (c *Connection) Room() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.room
}

// Player returns the seat name held by this connection, if any.
func (c *Connection) Player() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.player
}

func (c *Connection) setRoom(room, player string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room, c.player = room, player
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *protocol.Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.Player())

	switch msg.Type {
	case protocol.TypeListRooms:
		c.reply(protocol.TypeRooms, c.server.RoomList())

	case protocol.TypeViewRoom:
		var data protocol.ViewRoom
		if err := msg.Decode(&data); err != nil {
			c.sendError(protocol.CodeInvalidMessage, "Failed to parse view_room data")
			return
		}
		c.handleViewRoom(data)

	case protocol.TypeJoin:
		var data protocol.Join
		if err := msg.Decode(&data); err != nil {
			c.sendError(protocol.CodeInvalidMessage, "Failed to parse join data")
			return
		}
		c.handleJoin(data)

	case protocol.TypeMoves:
		var data protocol.Moves
		if err := msg.Decode(&data); err != nil {
			c.sendError(protocol.CodeInvalidMessage, "Failed to parse moves data")
			return
		}
		c.handleMoves(data)

	case protocol.TypeLeave:
		c.handleLeave()

	default:
		c.sendError(protocol.CodeUnknownType, "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) reply(t protocol.MessageType, data any) {
	msg, err := protocol.NewMessage(t, data)
	if err != nil {
		c.logger.Error("Failed to create message", "type", t, "error", err)
		return
	}
	_ = c.SendMessage(msg) // Ignore send errors
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	c.reply(protocol.TypeError, protocol.Error{Code: code, Message: message})
}

// watch switches the connection to room, giving up any seat held elsewhere,
// and sends the room's settings, seats and current board.
func (c *Connection) watch(room *Room, player string) {
	if prev, seat := c.Room(), c.Player(); seat != "" && prev != room.Name() {
		if old, ok := c.server.Room(prev); ok {
			old.Leave(seat)
		}
	}
	c.setRoom(room.Name(), player)

	c.reply(protocol.TypeSettings, room.Settings())
	c.reply(protocol.TypePlayers, protocol.Players(room.Info().Players))
	if match, tick, state := room.Snapshot(); match != "" {
		c.reply(protocol.TypeState, protocol.EncodeState(room.Codec(), match, tick, state))
	}
}

func (c *Connection) handleViewRoom(data protocol.ViewRoom) {
	room, ok := c.server.Room(data.Room)
	if !ok {
		c.sendError(protocol.CodeUnknownRoom, "No such room: "+data.Room)
		return
	}
	seat := ""
	if c.Room() == data.Room {
		seat = c.Player()
	}
	c.watch(room, seat)
}

func (c *Connection) handleJoin(data protocol.Join) {
	c.logger.Info("Join request", "room", data.Room, "name", data.Name)

	room, ok := c.server.Room(data.Room)
	if !ok {
		c.sendError(protocol.CodeUnknownRoom, "No such room: "+data.Room)
		return
	}
	if c.Room() == data.Room && c.Player() != "" {
		c.sendError(protocol.CodeJoinFailed, "Already seated as "+c.Player())
		return
	}

	// Watch first so the match-start broadcast reaches this connection
	c.watch(room, "")
	match, err := room.Join(data.Name)
	if err != nil {
		c.sendError(protocol.CodeJoinFailed, err.Error())
		return
	}
	c.setRoom(room.Name(), data.Name)
	c.reply(protocol.TypeJoined, protocol.Joined{Room: room.Name(), Player: data.Name, Match: match})
}

func (c *Connection) handleMoves(data protocol.Moves) {
	player, roomName := c.Player(), c.Room()
	room, ok := c.server.Room(roomName)
	if player == "" || !ok {
		c.sendError(protocol.CodeNotJoined, "Must join a room first")
		return
	}

	moves, decodeErr := protocol.DecodeMoves(room.Codec(), "", data)
	if err := room.Submit(player, moves); err != nil {
		code := protocol.CodeNotJoined
		if errors.Is(err, ErrNotRunning) {
			code = protocol.CodeNotRunning
		}
		c.sendError(code, err.Error())
		return
	}
	if decodeErr != nil {
		c.sendError(protocol.CodeBadMoves, decodeErr.Error())
	}
}

func (c *Connection) handleLeave() {
	player, roomName := c.Player(), c.Room()
	if room, ok := c.server.Room(roomName); ok && player != "" {
		room.Leave(player)
	}
	c.setRoom(roomName, "")
}
