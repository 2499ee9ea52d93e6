package game

import (
	"io"

	"github.com/charmbracelet/log"
)

// VitaminPolicy decides what happens to a merge group whose heaviest cells
// are all vitamins.
type VitaminPolicy int

const (
	// AnnihilateVitamins zeroes the whole group: nobody wins and the mass is
	// destroyed.
	AnnihilateVitamins VitaminPolicy = iota
	// ConserveVitamins lets a heaviest vitamin take the group's mass, so no
	// merge ever loses weight.
	ConserveVitamins
)

// String returns the policy name used in config files.
func (p VitaminPolicy) String() string {
	switch p {
	case ConserveVitamins:
		return "conserve"
	default:
		return "annihilate"
	}
}

// ParseVitaminPolicy maps a config name to a policy. Empty means the default.
func ParseVitaminPolicy(name string) (VitaminPolicy, bool) {
	switch name {
	case "", "annihilate":
		return AnnihilateVitamins, true
	case "conserve":
		return ConserveVitamins, true
	}
	return AnnihilateVitamins, false
}

// Option configures a Game.
type Option func(*Game)

// WithVitaminPolicy sets how all-vitamin merge groups are resolved.
func WithVitaminPolicy(p VitaminPolicy) Option {
	return func(g *Game) { g.policy = p }
}

// WithLogger sets the logger used for debug traces of rejected moves and
// annihilated groups. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) {
		if logger != nil {
			g.logger = logger.WithPrefix("game")
		}
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
