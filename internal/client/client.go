// Package client connects to a masswar server over WebSocket and plays a
// seat with a bot strategy.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/masswar/internal/protocol"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 54 * time.Second
)

var ErrNotConnected = errors.New("not connected")

// Client represents a WebSocket connection to the server
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *protocol.Message
	receive   chan *protocol.Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	connected bool
	closeOnce sync.Once
}

// NewClient creates a new WebSocket client
func NewClient(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL: serverURL,
		send:      make(chan *protocol.Message, 256),
		receive:   make(chan *protocol.Message, 256),
		logger:    logger.WithPrefix("client"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// wsURL converts http(s) URLs to ws(s) and defaults the path to /ws.
func wsURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL %q: unsupported scheme", raw)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// Connect establishes a WebSocket connection to the server
func (c *Client) Connect(ctx context.Context) error {
	target, err := wsURL(c.serverURL)
	if err != nil {
		return err
	}
	c.logger.Info("Connecting to server", "url", target)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()

	c.logger.Info("Connected to server")
	return nil
}

// Close closes the WebSocket connection
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.conn != nil {
			_ = c.conn.Close() // Ignore close errors during shutdown
			c.connected = false
		}
		c.logger.Info("Disconnected from server")
	})
	return nil
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Receive delivers messages from the server in arrival order. It is closed
// when the connection drops.
func (c *Client) Receive() <-chan *protocol.Message {
	return c.receive
}

// SendMessage queues a message for the server
func (c *Client) SendMessage(msg *protocol.Message) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		return fmt.Errorf("send buffer full")
	}
}

func (c *Client) sendData(t protocol.MessageType, data any) error {
	msg, err := protocol.NewMessage(t, data)
	if err != nil {
		return err
	}
	return c.SendMessage(msg)
}

// ListRooms requests the lobby
func (c *Client) ListRooms() error {
	return c.sendData(protocol.TypeListRooms, nil)
}

// ViewRoom starts watching room without taking a seat
func (c *Client) ViewRoom(room string) error {
	return c.sendData(protocol.TypeViewRoom, protocol.ViewRoom{Room: room})
}

// Join takes a seat in room as name
func (c *Client) Join(room, name string) error {
	return c.sendData(protocol.TypeJoin, protocol.Join{Room: room, Name: name})
}

// Leave gives up the current seat
func (c *Client) Leave() error {
	return c.sendData(protocol.TypeLeave, nil)
}

// SubmitMoves sends the moves for the next tick
func (c *Client) SubmitMoves(moves protocol.Moves) error {
	return c.sendData(protocol.TypeMoves, moves)
}

// readPump handles incoming messages from the server
func (c *Client) readPump() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		close(c.receive)
	}()

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.logger.Debug("Received message", "type", msg.Type)

		select {
		case c.receive <- &msg:
		case <-c.ctx.Done():
			return
		}
	}
}

// writePump handles outgoing messages to the server
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
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
