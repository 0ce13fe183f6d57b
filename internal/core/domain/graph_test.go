package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/zerr"
)

func plainNode(id string) *domain.Node {
	return &domain.Node{
		ID:         domain.NodeID(id),
		Type:       domain.NewInternedString("transform"),
		Parameters: map[string]domain.ParameterValue{},
	}
}

func TestGraph_AddNode(t *testing.T) {
	g := domain.NewGraph()
	node := plainNode("n1")

	if err := g.AddNode(node); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := g.AddNode(node)
	if err == nil {
		t.Fatal("expected error when adding duplicate node, got nil")
	}

	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	if id, ok := zErr.Metadata()["node_id"].(string); !ok || id != "n1" {
		t.Errorf("expected metadata node_id=n1, got %v", zErr.Metadata()["node_id"])
	}
}

func TestGraph_RemoveNode(t *testing.T) {
	g := domain.NewGraph()
	node := plainNode("n1")
	require.NoError(t, g.AddNode(node))

	removed, err := g.RemoveNode("n1")
	require.NoError(t, err)
	assert.Same(t, node, removed)
	assert.False(t, g.HasNode("n1"))

	_, err = g.RemoveNode("n1")
	require.ErrorContains(t, err, domain.ErrNodeNotFound.Error())
}

func TestGraph_AddEdge_MissingEndpoint(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddNode(plainNode("a")))

	err := g.AddEdge(domain.NewEdge("a", "image", "missing", "image"))
	require.ErrorContains(t, err, domain.ErrMissingEndpoint.Error())

	err = g.AddEdge(domain.NewEdge("missing", "image", "a", "image"))
	require.ErrorContains(t, err, domain.ErrMissingEndpoint.Error())
	assert.Zero(t, g.EdgeCount())
}

func TestGraph_EdgeQueries(t *testing.T) {
	g := domain.NewGraph()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, g.AddNode(plainNode(id)))
	}

	ab := domain.NewEdge("a", "image", "b", "image")
	ac := domain.NewEdge("a", "image", "c", "base")
	bc := domain.NewEdge("b", "image", "c", "overlay")
	for _, e := range []domain.Edge{ab, ac, bc} {
		require.NoError(t, g.AddEdge(e))
	}

	require.ErrorContains(t, g.AddEdge(ab), domain.ErrEdgeAlreadyExists.Error())

	got, ok := g.FindIncomingEdge("c", domain.NewInternedString("overlay"))
	require.True(t, ok)
	assert.Equal(t, bc, got)

	_, ok = g.FindIncomingEdge("a", domain.NewInternedString("image"))
	assert.False(t, ok)

	assert.Equal(t, []domain.Edge{ac, bc}, g.IncomingEdges("c"))
	assert.Equal(t, []domain.Edge{ab, ac}, g.OutgoingEdges("a"))

	require.NoError(t, g.RemoveEdge(ac))
	require.ErrorContains(t, g.RemoveEdge(ac), domain.ErrEdgeNotFound.Error())
	assert.Equal(t, []domain.Edge{ab, bc}, g.Edges())
}

func TestGraph_NodeIDsSorted(t *testing.T) {
	g := domain.NewGraph()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, g.AddNode(plainNode(id)))
	}

	assert.Equal(t, []domain.NodeID{"a", "b", "c"}, g.NodeIDs())

	var walked []domain.NodeID
	for n := range g.Nodes() {
		walked = append(walked, n.ID)
	}
	assert.Equal(t, []domain.NodeID{"a", "b", "c"}, walked)
}

func TestGraph_Clone(t *testing.T) {
	g := domain.NewGraph()
	a := plainNode("a")
	a.Parameters["radius"] = domain.IntValue(2)
	require.NoError(t, g.AddNode(a))
	require.NoError(t, g.AddNode(plainNode("b")))
	require.NoError(t, g.AddEdge(domain.NewEdge("a", "image", "b", "image")))

	c := g.Clone()
	a.Parameters["radius"] = domain.IntValue(9)
	require.NoError(t, g.RemoveEdge(domain.NewEdge("a", "image", "b", "image")))

	cloned, ok := c.Node("a")
	require.True(t, ok)
	assert.Equal(t, domain.IntValue(2), cloned.Parameters["radius"])
	assert.Equal(t, 1, c.EdgeCount())
}

func TestGraph_InsertEdge(t *testing.T) {
	g := domain.NewGraph()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, g.AddNode(plainNode(id)))
	}
	ab := domain.NewEdge("a", "image", "b", "image")
	bc := domain.NewEdge("b", "image", "c", "image")
	ac := domain.NewEdge("a", "image", "c", "mask")
	require.NoError(t, g.AddEdge(ab))
	require.NoError(t, g.AddEdge(bc))

	require.NoError(t, g.InsertEdge(0, ac))
	assert.Equal(t, []domain.Edge{ac, ab, bc}, g.Edges())
	assert.Equal(t, 2, g.EdgeIndex(bc))
	assert.Equal(t, -1, g.EdgeIndex(domain.NewEdge("c", "image", "a", "image")))

	require.NoError(t, g.RemoveEdge(ab))
	require.NoError(t, g.InsertEdge(99, ab))
	assert.Equal(t, []domain.Edge{ac, bc, ab}, g.Edges())

	require.ErrorContains(t, g.InsertEdge(0, ab), domain.ErrEdgeAlreadyExists.Error())
}
