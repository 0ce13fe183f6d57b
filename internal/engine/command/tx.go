package command

import (
	"cmp"
	"slices"

	"go.trai.ch/darkroom/internal/core/domain"
)

// tx records the inverse of every applied step so a multi-step mutation can
// be rolled back when a later step fails.
type tx struct {
	g       *domain.Graph
	inverse []func()
}

func begin(g *domain.Graph) *tx {
	return &tx{g: g}
}

func (t *tx) addEdge(e domain.Edge) error {
	if err := t.g.AddEdge(e); err != nil {
		return err
	}
	t.inverse = append(t.inverse, func() { _ = t.g.RemoveEdge(e) })
	return nil
}

func (t *tx) removeEdge(e domain.Edge) error {
	idx := t.g.EdgeIndex(e)
	if err := t.g.RemoveEdge(e); err != nil {
		return err
	}
	t.inverse = append(t.inverse, func() { _ = t.g.InsertEdge(idx, e) })
	return nil
}

// insertEdge restores e at the position it was captured at.
func (t *tx) insertEdge(at indexedEdge) error {
	if err := t.g.InsertEdge(at.index, at.edge); err != nil {
		return err
	}
	t.inverse = append(t.inverse, func() { _ = t.g.RemoveEdge(at.edge) })
	return nil
}

func (t *tx) addNode(n *domain.Node) error {
	if err := t.g.AddNode(n); err != nil {
		return err
	}
	t.inverse = append(t.inverse, func() { _, _ = t.g.RemoveNode(n.ID) })
	return nil
}

func (t *tx) removeNode(id domain.NodeID) error {
	n, err := t.g.RemoveNode(id)
	if err != nil {
		return err
	}
	t.inverse = append(t.inverse, func() { _ = t.g.AddNode(n) })
	return nil
}

// connect inserts e after checking that it closes no cycle.
func (t *tx) connect(e domain.Edge) error {
	if report := domain.CheckConnect(t.g, e); report != nil {
		return report.Err()
	}
	return t.addEdge(e)
}

// indexedEdge is an edge together with its position in the edge list.
type indexedEdge struct {
	edge  domain.Edge
	index int
}

// capture records the positions of edges in g, in ascending order.
func capture(g *domain.Graph, edges []domain.Edge) []indexedEdge {
	res := make([]indexedEdge, 0, len(edges))
	for _, e := range edges {
		res = append(res, indexedEdge{edge: e, index: g.EdgeIndex(e)})
	}
	slices.SortFunc(res, func(a, b indexedEdge) int { return cmp.Compare(a.index, b.index) })
	return res
}

// fail rolls back every applied step in reverse order and returns err.
func (t *tx) fail(err error) error {
	for i := len(t.inverse) - 1; i >= 0; i-- {
		t.inverse[i]()
	}
	t.inverse = nil
	return err
}
