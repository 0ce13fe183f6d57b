package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

const (
	unvisited = iota
	visiting
	visited
)

// CycleReport describes the first cycle found by FindCycle.
type CycleReport struct {
	// Path lists the nodes of the cycle in traversal order; the first node
	// is repeated at the end.
	Path []NodeID
}

// String formats the cycle as a -> b -> a.
func (r *CycleReport) String() string {
	parts := make([]string, len(r.Path))
	for i, id := range r.Path {
		parts[i] = id.String()
	}
	return strings.Join(parts, " -> ")
}

// Err converts the report into an ErrCycleDetected error with the path as metadata.
func (r *CycleReport) Err() error {
	return zerr.With(ErrCycleDetected, "cycle", r.String())
}

// FindCycle searches the graph for a cycle with a depth-first traversal in
// ascending node id order. It returns nil when the graph is acyclic.
func FindCycle(g *Graph) *CycleReport {
	return findCycle(g.NodeIDs(), adjacency(g, nil))
}

// ValidateAcyclic returns ErrCycleDetected with the cycle path if the graph has a cycle.
func ValidateAcyclic(g *Graph) error {
	if report := FindCycle(g); report != nil {
		return report.Err()
	}
	return nil
}

// CanConnect reports whether adding the candidate edge keeps the graph acyclic.
// The graph is not modified.
func CanConnect(g *Graph, candidate Edge) bool {
	return CheckConnect(g, candidate) == nil
}

// CheckConnect is CanConnect returning the cycle that the candidate edge would close.
func CheckConnect(g *Graph, candidate Edge) *CycleReport {
	if candidate.From == candidate.To {
		return &CycleReport{Path: []NodeID{candidate.From, candidate.To}}
	}
	ids := g.NodeIDs()
	for _, id := range []NodeID{candidate.From, candidate.To} {
		if !g.HasNode(id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return findCycle(ids, adjacency(g, &candidate))
}

// adjacency builds sorted, deduplicated successor lists, optionally with one extra edge.
func adjacency(g *Graph, extra *Edge) map[NodeID][]NodeID {
	adj := make(map[NodeID][]NodeID)
	add := func(e Edge) {
		if !slices.Contains(adj[e.From], e.To) {
			adj[e.From] = append(adj[e.From], e.To)
		}
	}
	for _, e := range g.edges {
		add(e)
	}
	if extra != nil {
		add(*extra)
	}
	for id := range adj {
		slices.Sort(adj[id])
	}
	return adj
}

func findCycle(roots []NodeID, adj map[NodeID][]NodeID) *CycleReport {
	state := make(map[NodeID]int, len(roots))
	var path []NodeID
	var report *CycleReport

	var visit func(u NodeID) bool
	visit = func(u NodeID) bool {
		state[u] = visiting
		path = append(path, u)

		for _, v := range adj[u] {
			switch state[v] {
			case visiting:
				report = buildCycleReport(path, v)
				return true
			case unvisited:
				if visit(v) {
					return true
				}
			}
		}

		state[u] = visited
		path = path[:len(path)-1]
		return false
	}

	for _, id := range roots {
		if state[id] == unvisited && visit(id) {
			return report
		}
	}
	return nil
}

// buildCycleReport takes the suffix of the DFS stack starting at the first
// occurrence of dep and closes it with dep.
func buildCycleReport(path []NodeID, dep NodeID) *CycleReport {
	start := slices.Index(path, dep)
	cycle := make([]NodeID, 0, len(path)-start+1)
	cycle = append(cycle, path[start:]...)
	cycle = append(cycle, dep)
	return &CycleReport{Path: cycle}
}
