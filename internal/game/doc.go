// Package game implements one tick of a mass-conquest match on an abstract
// graph board.
//
// Players own weighted cells on vertices and send parts of them along edges.
// A tick runs the submitted moves through a fixed pipeline:
//
//	moves -> Legalise -> Crossing -> Reaching -> Final -> vitamin top-up
//
// Legalise enforces the movement budget of each cell and turns unmoved mass
// into a stay move. Crossing resolves head-to-head collisions on an edge and
// its reverse, Reaching resolves arrivals on a common vertex. Both use the
// same merge rule: mass of one occupant consolidates first, then the
// heaviest occupant takes the whole group.
//
// # Basic Usage
//
//	g, err := game.New(graph, randutil.New(42))
//	state, err := g.NewState([]board.Occupant{"red", "blue"}, 10, 5)
//	next, tr, err := g.Process(5, state, moves)
//
// # Deterministic Testing
//
// Every random draw (merge tie-breaks and vitamin placement) comes from the
// randutil.Source passed to New, and candidates are always visited in
// ascending handle order, so a seeded source replays a match exactly.
//
// A Game holds no match state. It is safe to share between goroutines only
// if its random source is.
package game
