package lattice

import "errors"

var (
	// ErrEmptyLattice is returned when a lattice is asked for with a
	// non-positive width or height.
	ErrEmptyLattice = errors.New("lattice: width and height must be positive")

	// ErrBadKey is returned when a vertex or edge key cannot be parsed or
	// names a position outside the lattice.
	ErrBadKey = errors.New("lattice: bad key")
)
