package board

// Vertex is an opaque board position handle supplied by a Graph.
type Vertex int

// Edge is an opaque directed edge handle supplied by a Graph. A stay edge has
// the same source and target.
type Edge int

// Graph is the topology a match is played on.
type Graph interface {
	// Vertices returns every board position.
	Vertices() []Vertex
	// InitialVertices returns up to n spawn points. Order matters: the i-th
	// player spawns on the i-th vertex.
	InitialVertices(n int) []Vertex
	// VertexEdge returns the stay pseudo-edge of v.
	VertexEdge(v Vertex) Edge
	// IsEdge reports whether e is a recognised real or stay edge.
	IsEdge(e Edge) bool
	EdgeSource(e Edge) Vertex
	EdgeTarget(e Edge) Vertex
	// EdgeSym returns a key shared by an edge and its reverse.
	EdgeSym(e Edge) Edge
}

// Adjacency is implemented by graphs that can list the real edges leaving a
// vertex. The engine never needs it; bots do.
type Adjacency interface {
	OutEdges(v Vertex) []Edge
}

// IsStay reports whether e is a stay edge of g.
func IsStay(g Graph, e Edge) bool {
	return g.EdgeSource(e) == g.EdgeTarget(e)
}
