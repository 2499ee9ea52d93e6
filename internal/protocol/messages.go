// Package protocol defines the JSON messages exchanged between the room
// server and its clients, and their conversion to and from board values.
package protocol

import (
	"encoding/json"
	"time"
)

// MessageType identifies the payload carried by a Message.
type MessageType string

const (
	// Client -> Server
	TypeListRooms MessageType = "list_rooms"
	TypeViewRoom  MessageType = "view_room"
	TypeJoin      MessageType = "join"
	TypeMoves     MessageType = "moves"
	TypeLeave     MessageType = "leave"

	// Server -> Client
	TypeRooms      MessageType = "rooms"
	TypeSettings   MessageType = "settings"
	TypePlayers    MessageType = "players"
	TypeJoined     MessageType = "joined"
	TypeTransition MessageType = "transition"
	TypeState      MessageType = "state"
	TypeGameOver   MessageType = "game_over"
	TypeError      MessageType = "error"
)

// String returns the wire name of the type.
func (mt MessageType) String() string {
	return string(mt)
}

// Message is the envelope every frame travels in.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	msg := &Message{Type: messageType, Timestamp: time.Now()}
	if data == nil {
		return msg, nil
	}
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	msg.Data = dataBytes
	return msg, nil
}

// Decode unmarshals the payload into v.
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return json.Unmarshal([]byte("null"), v)
	}
	return json.Unmarshal(m.Data, v)
}

// Client -> Server payloads

type ViewRoom struct {
	Room string `json:"room"`
}

type Join struct {
	Room string `json:"room"`
	Name string `json:"name"`
}

// Moves maps "x0:y0 > x1:y1" edge keys to the weight sent along them.
type Moves struct {
	Tick  int            `json:"tick,omitempty"`
	Moves map[string]int `json:"moves"`
}

// Server -> Client payloads

// RoomInfo summarises one room for the lobby.
type RoomInfo struct {
	NPlayers int      `json:"nPlayers"`
	Seats    int      `json:"seats"`
	Players  []string `json:"players"`
	Status   string   `json:"status"`
}

// Rooms is keyed by room name.
type Rooms map[string]RoomInfo

// Settings describes the board of a room and its tick period.
type Settings struct {
	Room          string `json:"room"`
	Size          [2]int `json:"size"`
	Connectivity  int    `json:"connectivity"`
	Delay         int    `json:"delay"` // milliseconds between ticks
	InitialWeight int    `json:"initialWeight"`
	Vitamins      int    `json:"vitamins"`
}

// Players lists seated players in spawn order.
type Players []string

type Joined struct {
	Room   string `json:"room"`
	Player string `json:"player"`
	Match  string `json:"match"`
}

// Trajectory is the weight of one moving cell entering its edge, after
// crossing and after arrival.
type Trajectory struct {
	Player  string `json:"player"`
	Weights [3]int `json:"weights"`
}

type TransitionUpdate struct {
	Tick  int                   `json:"tick"`
	Edges map[string]Trajectory `json:"edges"`
}

type Cell struct {
	Player string `json:"player"`
	Weight int    `json:"weight"`
}

type StateUpdate struct {
	Match string          `json:"match"`
	Tick  int             `json:"tick"`
	Cells map[string]Cell `json:"cells"`
}

type GameOver struct {
	Match  string `json:"match"`
	Tick   int    `json:"tick"`
	Winner string `json:"winner,omitempty"` // empty on a draw
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	CodeInvalidMessage = "invalid_message"
	CodeUnknownType    = "unknown_message_type"
	CodeUnknownRoom    = "unknown_room"
	CodeJoinFailed     = "join_failed"
	CodeNotJoined      = "not_joined"
	CodeBadMoves       = "bad_moves"
	CodeNotRunning     = "not_running"
)
