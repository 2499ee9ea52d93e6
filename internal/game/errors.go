package game

import "errors"

var (
	// ErrInvalidGraph is returned when the graph is missing or cannot host
	// the requested match, e.g. fewer spawn points than players.
	ErrInvalidGraph = errors.New("invalid graph")

	// ErrInvalidPlayers is returned for empty, duplicate or reserved player ids.
	ErrInvalidPlayers = errors.New("invalid players")

	// ErrInvalidWeight is returned for a non-positive initial weight.
	ErrInvalidWeight = errors.New("invalid weight")

	// ErrTargetConflict is returned by Final when two surviving trajectories
	// arrive at the same vertex.
	ErrTargetConflict = errors.New("conflicting arrivals")

	// ErrNoRandSource is returned by New when no random source is given.
	ErrNoRandSource = errors.New("random source is required")
)
