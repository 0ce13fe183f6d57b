// Package domain contains the core domain models of the node graph engine.
package domain

import (
	"iter"
	"slices"

	"go.trai.ch/zerr"
)

// Graph is the in-memory node graph store. It owns node identity and
// adjacency and keeps every edge endpoint referencing a node of the same
// graph. It performs no cycle checking; callers validate edge insertions
// with CanConnect before calling AddEdge.
type Graph struct {
	nodes map[NodeID]*Node
	edges []Edge
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[NodeID]*Node),
	}
}

// AddNode adds a node to the graph.
// It returns an error if a node with the same id already exists.
func (g *Graph) AddNode(n *Node) error {
	if _, exists := g.nodes[n.ID]; exists {
		return zerr.With(ErrNodeAlreadyExists, "node_id", n.ID.String())
	}
	g.nodes[n.ID] = n
	return nil
}

// RemoveNode removes the node with the given id and returns it.
// Incident edges are left in place; callers remove them first.
func (g *Graph) RemoveNode(id NodeID) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, zerr.With(ErrNodeNotFound, "node_id", id.String())
	}
	delete(g.nodes, id)
	return n, nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether the node is in the graph.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// NodeIDs returns all node ids in ascending order.
func (g *Graph) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Nodes yields the nodes in ascending id order.
func (g *Graph) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, id := range g.NodeIDs() {
			if !yield(g.nodes[id]) {
				return
			}
		}
	}
}

// AddEdge appends an edge. Both endpoints must be present.
func (g *Graph) AddEdge(e Edge) error {
	return g.InsertEdge(len(g.edges), e)
}

// InsertEdge inserts an edge at position i of the edge list, clamped to its bounds.
// Both endpoints must be present.
func (g *Graph) InsertEdge(i int, e Edge) error {
	if !g.HasNode(e.From) {
		return zerr.With(zerr.With(ErrMissingEndpoint, "node_id", e.From.String()), "edge", e.String())
	}
	if !g.HasNode(e.To) {
		return zerr.With(zerr.With(ErrMissingEndpoint, "node_id", e.To.String()), "edge", e.String())
	}
	if g.HasEdge(e) {
		return zerr.With(ErrEdgeAlreadyExists, "edge", e.String())
	}
	g.edges = slices.Insert(g.edges, min(max(i, 0), len(g.edges)), e)
	return nil
}

// EdgeIndex returns the position of e in the edge list, or -1.
func (g *Graph) EdgeIndex(e Edge) int {
	return slices.Index(g.edges, e)
}

// RemoveEdge removes an edge from the graph.
func (g *Graph) RemoveEdge(e Edge) error {
	idx := g.EdgeIndex(e)
	if idx < 0 {
		return zerr.With(ErrEdgeNotFound, "edge", e.String())
	}
	g.edges = slices.Delete(g.edges, idx, idx+1)
	return nil
}

// HasEdge reports whether the exact edge is in the graph.
func (g *Graph) HasEdge(e Edge) bool {
	return slices.Contains(g.edges, e)
}

// Edges returns a copy of the edge list in insertion order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// FindIncomingEdge returns the single edge feeding the given input port.
func (g *Graph) FindIncomingEdge(node NodeID, port InternedString) (Edge, bool) {
	for _, e := range g.edges {
		if e.To == node && e.ToPort == port {
			return e, true
		}
	}
	return Edge{}, false
}

// IncomingEdges returns all edges ending at the node.
func (g *Graph) IncomingEdges(node NodeID) []Edge {
	var res []Edge
	for _, e := range g.edges {
		if e.To == node {
			res = append(res, e)
		}
	}
	return res
}

// OutgoingEdges returns all edges starting at the node.
func (g *Graph) OutgoingEdges(node NodeID) []Edge {
	var res []Edge
	for _, e := range g.edges {
		if e.From == node {
			res = append(res, e)
		}
	}
	return res
}

// Clone returns a deep copy of the graph, suitable as an immutable render snapshot.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes: make(map[NodeID]*Node, len(g.nodes)),
		edges: slices.Clone(g.edges),
	}
	for id, n := range g.nodes {
		c.nodes[id] = n.Clone()
	}
	return c
}
