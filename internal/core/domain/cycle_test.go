package domain_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/zerr"
)

// buildGraph creates nodes a..z as needed and one edge per pair.
func buildGraph(t *testing.T, pairs [][2]string) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	for _, p := range pairs {
		for _, id := range p {
			if !g.HasNode(domain.NodeID(id)) {
				require.NoError(t, g.AddNode(plainNode(id)))
			}
		}
	}
	for i, p := range pairs {
		// distinct destination ports keep fan-in edges unique
		e := domain.NewEdge(domain.NodeID(p[0]), "image", domain.NodeID(p[1]), fmt.Sprintf("in%d", i))
		require.NoError(t, g.AddEdge(e))
	}
	return g
}

func TestFindCycle_Acyclic(t *testing.T) {
	g := buildGraph(t, [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}})
	assert.Nil(t, domain.FindCycle(g))
	assert.NoError(t, domain.ValidateAcyclic(g))
}

func TestFindCycle_ReportsPath(t *testing.T) {
	// a -> b -> c -> b, plus an unrelated d
	g := buildGraph(t, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "b"}, {"d", "a"}})

	report := domain.FindCycle(g)
	require.NotNil(t, report)
	assert.Equal(t, []domain.NodeID{"b", "c", "b"}, report.Path)
	assert.Equal(t, "b -> c -> b", report.String())

	err := domain.ValidateAcyclic(g)
	require.Error(t, err)
	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "b -> c -> b", zErr.Metadata()["cycle"])
}

func TestFindCycle_Deterministic(t *testing.T) {
	g := buildGraph(t, [][2]string{{"x", "y"}, {"y", "x"}, {"a", "b"}, {"b", "a"}})

	first := domain.FindCycle(g)
	require.NotNil(t, first)
	assert.Equal(t, []domain.NodeID{"a", "b", "a"}, first.Path)

	for range 20 {
		assert.Equal(t, first.Path, domain.FindCycle(g).Path)
	}
}

func TestCanConnect(t *testing.T) {
	g := buildGraph(t, [][2]string{{"input", "transform"}, {"transform", "output"}})

	tests := []struct {
		name string
		edge domain.Edge
		want bool
	}{
		{"forward skip edge", domain.NewEdge("input", "image", "output", "extra"), true},
		{"two cycle", domain.NewEdge("output", "image", "transform", "extra"), false},
		{"three cycle", domain.NewEdge("output", "image", "input", "extra"), false},
		{"self loop", domain.NewEdge("transform", "image", "transform", "extra"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CanConnect(g, tt.edge))
		})
	}
	assert.Equal(t, 2, g.EdgeCount(), "CanConnect must not mutate the graph")
}

func TestCheckConnect_CyclePath(t *testing.T) {
	g := buildGraph(t, [][2]string{{"a", "b"}, {"b", "c"}})

	report := domain.CheckConnect(g, domain.NewEdge("c", "image", "a", "extra"))
	require.NotNil(t, report)
	assert.Equal(t, []domain.NodeID{"a", "b", "c", "a"}, report.Path)
}

// reaches reports whether to is reachable from from by following edges forward.
func reaches(g *domain.Graph, from, to domain.NodeID) bool {
	seen := map[domain.NodeID]bool{}
	stack := []domain.NodeID{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == to {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		for _, e := range g.OutgoingEdges(n) {
			stack = append(stack, e.To)
		}
	}
	return false
}

func TestCanConnect_MatchesReachability(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	ids := []string{"a", "b", "c", "d", "e", "f"}

	for round := range 50 {
		// Random DAG: only edges from lower to higher index.
		var pairs [][2]string
		for i := range ids {
			for j := i + 1; j < len(ids); j++ {
				if rng.IntN(3) == 0 {
					pairs = append(pairs, [2]string{ids[i], ids[j]})
				}
			}
		}
		g := buildGraph(t, pairs)
		for _, id := range ids {
			if !g.HasNode(domain.NodeID(id)) {
				require.NoError(t, g.AddNode(plainNode(id)))
			}
		}

		for _, from := range ids {
			for _, to := range ids {
				edge := domain.NewEdge(domain.NodeID(from), "image", domain.NodeID(to), "candidate")
				want := !reaches(g, domain.NodeID(to), domain.NodeID(from))
				assert.Equal(t, want, domain.CanConnect(g, edge), "round %d: %s", round, edge)
			}
		}
	}
}
