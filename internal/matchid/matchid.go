// Package matchid generates sortable 26-character match identifiers: a
// UUIDv7 (millisecond timestamp + random bits) in Crockford base32.
package matchid

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/coder/quartz"

	"github.com/lox/masswar/internal/randutil"
)

// Crockford's base32, lowercase
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Generator produces match ids. A nil random source falls back to crypto/rand.
type Generator struct {
	rng   randutil.Source
	clock quartz.Clock
}

// NewGenerator returns a generator reading time from clock and random bits
// from rng.
func NewGenerator(rng randutil.Source, clock quartz.Clock) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{rng: rng, clock: clock}
}

// Next returns a fresh id. Ids from one clock sort by creation time.
func (g *Generator) Next() string {
	return encode(g.uuid())
}

func (g *Generator) uuid() [16]byte {
	var id [16]byte

	now := g.clock.Now().UnixMilli()
	for i := 0; i < 6; i++ {
		id[i] = byte(now >> (40 - 8*i))
	}

	if g.rng != nil {
		for i := 6; i < 16; i++ {
			id[i] = byte(g.rng.IntN(256))
		}
	} else if _, err := rand.Read(id[6:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // variant 10
	return id
}

// encode writes the 128 bits as 26 base32 digits, most significant first.
// The first digit carries only 3 bits.
func encode(data [16]byte) string {
	out := make([]byte, 26)
	var acc uint32
	bits := 2 // pad the front so 130 bits split evenly
	pos := 0
	for _, b := range data {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[pos] = alphabet[(acc>>bits)&0x1f]
			pos++
		}
	}
	return string(out)
}

// Validate checks that id is 26 lowercase base32 digits fitting 128 bits.
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("match ID must be exactly 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("match ID first character must be 0-7, got %c", id[0])
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
