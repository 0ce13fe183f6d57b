// Package compiler turns a graph and a render target into an execution plan.
package compiler

import (
	"slices"
	"strconv"

	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/darkroom/internal/core/ports"
	"go.trai.ch/zerr"
)

// Compiler builds execution plans with Merkle fingerprints.
type Compiler struct {
	hasher ports.Hasher
}

// New creates a compiler that fingerprints nodes with hasher.
func New(hasher ports.Hasher) *Compiler {
	return &Compiler{hasher: hasher}
}

type options struct {
	external map[domain.NodeID]domain.Fingerprint
}

// Option configures a single compilation.
type Option func(*options)

// WithExternalInputs folds the digest of each node's external image into its fingerprint.
func WithExternalInputs(digests map[domain.NodeID]domain.Fingerprint) Option {
	return func(o *options) {
		o.external = digests
	}
}

// Compile computes the nodes reachable backward from target, orders them
// topologically with ties broken by ascending id, and fingerprints each one.
func (c *Compiler) Compile(g *domain.Graph, target domain.NodeID, opts ...Option) (*domain.GraphExecutionPlan, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if !g.HasNode(target) {
		return nil, zerr.With(domain.ErrNodeNotFound, "node_id", target.String())
	}

	reachable := reachableFrom(g, target)
	order, err := topoSort(g, reachable)
	if err != nil {
		return nil, zerr.With(err, "target", target.String())
	}

	fingerprints := make(map[domain.NodeID]domain.Fingerprint, len(order))
	for _, id := range order {
		node, _ := g.Node(id)
		incoming := g.IncomingEdges(id)
		slices.SortFunc(incoming, domain.CompareIncoming)

		upstream := make([]domain.UpstreamRef, 0, len(incoming))
		for _, e := range incoming {
			upstream = append(upstream, domain.UpstreamRef{
				ToPort:      e.ToPort,
				FromPort:    e.FromPort,
				Fingerprint: fingerprints[e.From],
			})
		}
		fingerprints[id] = c.hasher.Fingerprint(node, upstream, o.external[id])
	}

	return &domain.GraphExecutionPlan{
		Target:       target,
		Order:        order,
		Fingerprints: fingerprints,
	}, nil
}

// reachableFrom walks edges backward from target.
func reachableFrom(g *domain.Graph, target domain.NodeID) map[domain.NodeID]struct{} {
	visited := map[domain.NodeID]struct{}{}
	stack := []domain.NodeID{target}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		for _, e := range g.IncomingEdges(id) {
			if _, seen := visited[e.From]; !seen {
				stack = append(stack, e.From)
			}
		}
	}
	return visited
}

// topoSort runs Kahn's algorithm over the subset, always releasing the
// smallest ready id first.
func topoSort(g *domain.Graph, subset map[domain.NodeID]struct{}) ([]domain.NodeID, error) {
	inDegree := make(map[domain.NodeID]int, len(subset))
	for id := range subset {
		inDegree[id] = len(g.IncomingEdges(id))
	}

	var ready []domain.NodeID
	for id, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, id)
		}
	}
	slices.Sort(ready)

	order := make([]domain.NodeID, 0, len(subset))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		for _, e := range g.OutgoingEdges(id) {
			if _, ok := subset[e.To]; !ok {
				continue
			}
			inDegree[e.To]--
			if inDegree[e.To] == 0 {
				pos, _ := slices.BinarySearch(ready, e.To)
				ready = slices.Insert(ready, pos, e.To)
			}
		}
	}

	if len(order) != len(subset) {
		return nil, zerr.With(zerr.With(domain.ErrInvariantViolation, "reason", "reachable subgraph is not acyclic"),
			"unordered", strconv.Itoa(len(subset)-len(order)))
	}
	return order, nil
}
