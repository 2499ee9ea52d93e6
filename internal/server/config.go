package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/masswar/internal/game"
	"github.com/lox/masswar/internal/lattice"
)

// Config represents the complete server configuration
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Rooms  []RoomConfig    `hcl:"room,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// RoomConfig defines one room: its board, its seats and its tick period.
type RoomConfig struct {
	Name          string `hcl:"name,label"`
	Width         int    `hcl:"width,optional"`
	Height        int    `hcl:"height,optional"`
	Connectivity  int    `hcl:"connectivity,optional"`
	Seats         int    `hcl:"seats,optional"`
	InitialWeight int    `hcl:"initial_weight,optional"`
	Vitamins      int    `hcl:"vitamins,optional"`
	TickMs        int    `hcl:"tick_ms,optional"`
	Seed          int64  `hcl:"seed,optional"`
	VitaminPolicy string `hcl:"vitamin_policy,optional"`
}

// Tick returns the room's tick period.
func (rc RoomConfig) Tick() time.Duration {
	return time.Duration(rc.TickMs) * time.Millisecond
}

// Lattice builds the room's board.
func (rc RoomConfig) Lattice() (*lattice.Lattice, error) {
	conn := lattice.Conn4
	if rc.Connectivity == 8 {
		conn = lattice.Conn8
	}
	return lattice.New(rc.Width, rc.Height, lattice.WithConnectivity(conn))
}

// DefaultRoomConfig returns a two-seat 10x10 room named name.
func DefaultRoomConfig(name string) RoomConfig {
	rc := RoomConfig{Name: name}
	rc.applyDefaults()
	return rc
}

func (rc *RoomConfig) applyDefaults() {
	if rc.Width == 0 {
		rc.Width = 10
	}
	if rc.Height == 0 {
		rc.Height = 10
	}
	if rc.Connectivity == 0 {
		rc.Connectivity = 4
	}
	if rc.Seats == 0 {
		rc.Seats = 2
	}
	if rc.InitialWeight == 0 {
		rc.InitialWeight = 10
	}
	if rc.TickMs == 0 {
		rc.TickMs = 1000
	}
	if rc.VitaminPolicy == "" {
		rc.VitaminPolicy = game.AnnihilateVitamins.String()
	}
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	cfg := &Config{
		Server: &ServerSettings{},
		Rooms:  []RoomConfig{{Name: "main", Vitamins: 5}},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	for i := range c.Rooms {
		c.Rooms[i].applyDefaults()
	}
}

// LoadConfig loads server configuration from an HCL file. A missing file
// yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if len(c.Rooms) == 0 {
		return fmt.Errorf("at least one room must be configured")
	}

	names := make(map[string]bool, len(c.Rooms))
	for _, room := range c.Rooms {
		if names[room.Name] {
			return fmt.Errorf("room %s: defined twice", room.Name)
		}
		names[room.Name] = true
		if err := room.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a single room.
func (rc RoomConfig) Validate() error {
	switch {
	case rc.Name == "":
		return fmt.Errorf("room name must not be empty")
	case rc.Width <= 0 || rc.Height <= 0:
		return fmt.Errorf("room %s: board must be at least 1x1", rc.Name)
	case rc.Connectivity != 4 && rc.Connectivity != 8:
		return fmt.Errorf("room %s: connectivity must be 4 or 8", rc.Name)
	case rc.Seats < 2 || rc.Seats > 9:
		return fmt.Errorf("room %s: seats must be between 2 and 9", rc.Name)
	case rc.InitialWeight <= 0:
		return fmt.Errorf("room %s: initial weight must be positive", rc.Name)
	case rc.Vitamins < 0:
		return fmt.Errorf("room %s: vitamins must not be negative", rc.Name)
	case rc.TickMs < 50:
		return fmt.Errorf("room %s: tick must be at least 50ms", rc.Name)
	}
	if _, ok := game.ParseVitaminPolicy(rc.VitaminPolicy); !ok {
		return fmt.Errorf("room %s: invalid vitamin policy %s", rc.Name, rc.VitaminPolicy)
	}

	l, err := rc.Lattice()
	if err != nil {
		return fmt.Errorf("room %s: %w", rc.Name, err)
	}
	if spawns := len(l.InitialVertices(rc.Seats)); spawns < rc.Seats {
		return fmt.Errorf("room %s: board has %d spawn points for %d seats", rc.Name, spawns, rc.Seats)
	}
	return nil
}

// Address returns the full listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Room returns a room configuration by name
func (c *Config) Room(name string) *RoomConfig {
	for i := range c.Rooms {
		if c.Rooms[i].Name == name {
			return &c.Rooms[i]
		}
	}
	return nil
}
