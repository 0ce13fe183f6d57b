package evaluator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/darkroom/internal/adapters/cas"
	"go.trai.ch/darkroom/internal/adapters/catalog"
	"go.trai.ch/darkroom/internal/adapters/fingerprint"
	"go.trai.ch/darkroom/internal/adapters/kernel"
	"go.trai.ch/darkroom/internal/adapters/metrics"
	"go.trai.ch/darkroom/internal/adapters/telemetry/progrock"
	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/darkroom/internal/core/ports"
	"go.trai.ch/darkroom/internal/core/ports/mocks"
	"go.trai.ch/darkroom/internal/engine/compiler"
	"go.trai.ch/darkroom/internal/engine/evaluator"
	"go.uber.org/mock/gomock"
)

// pipeline builds in -> blur -> out.
func pipeline(t *testing.T) *domain.Graph {
	t.Helper()
	cat := catalog.New()
	g := domain.NewGraph()
	for id, typ := range map[string]string{"in": catalog.TypeInput, "blur": catalog.TypeBlur, "out": catalog.TypeOutput} {
		nt, err := cat.Lookup(typ)
		require.NoError(t, err)
		require.NoError(t, g.AddNode(domain.NewNode(domain.NodeID(id), nt)))
	}
	require.NoError(t, g.AddEdge(domain.NewEdge("in", "image", "blur", "image")))
	require.NoError(t, g.AddEdge(domain.NewEdge("blur", "image", "out", "image")))
	return g
}

func compile(t *testing.T, g *domain.Graph) *domain.GraphExecutionPlan {
	t.Helper()
	plan, err := compiler.New(fingerprint.NewHasher()).Compile(g, "out")
	require.NoError(t, err)
	return plan
}

func source() map[domain.NodeID]*domain.Image {
	img := domain.NewImage(4, 4)
	for x := range 4 {
		img.Set(x, 1, domain.Color{R: 200, G: 10, B: 10, A: 255})
	}
	return map[domain.NodeID]*domain.Image{"in": img}
}

// countingKernel forwards to the reference kernels and counts calls per node.
func countingKernel(ctrl *gomock.Controller, calls map[domain.NodeID]int) *mocks.MockKernel {
	ref := kernel.NewReference()
	k := mocks.NewMockKernel(ctrl)
	k.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, n *domain.Node, in ports.KernelInputs) (*domain.Image, error) {
			calls[n.ID]++
			return ref.Evaluate(ctx, n, in)
		}).AnyTimes()
	return k
}

func TestEvaluate_MissThenHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	calls := map[domain.NodeID]int{}
	m := mocks.NewMockMetrics(ctrl)
	cache := cas.NewStore()
	e := evaluator.New(countingKernel(ctrl, calls), cache, m, progrock.New())

	g := pipeline(t)
	req := evaluator.Request{Graph: g, Plan: compile(t, g), External: source()}

	m.EXPECT().CacheLookup(false).Times(3)
	first, err := e.Evaluate(t.Context(), req)
	require.NoError(t, err)
	require.NotNil(t, first.Image)
	assert.Equal(t, 3, cache.Len())
	assert.Equal(t, domain.NodeStatusEvaluated, first.Statuses["out"])

	m.EXPECT().CacheLookup(true).Times(3)
	second, err := e.Evaluate(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, first.Image, second.Image)
	assert.Equal(t, domain.NodeStatusCached, second.Statuses["blur"])
	assert.Equal(t, map[domain.NodeID]int{"in": 1, "blur": 1, "out": 1}, calls)
}

func TestEvaluate_ParameterChangeReevaluatesDownstream(t *testing.T) {
	ctrl := gomock.NewController(t)
	calls := map[domain.NodeID]int{}
	e := evaluator.New(countingKernel(ctrl, calls), cas.NewStore(), metrics.NoOp{}, progrock.New())

	g := pipeline(t)
	_, err := e.Evaluate(t.Context(), evaluator.Request{Graph: g, Plan: compile(t, g), External: source()})
	require.NoError(t, err)

	blur, _ := g.Node("blur")
	blur.Parameters["radius"] = domain.FloatValue(3)
	res, err := e.Evaluate(t.Context(), evaluator.Request{Graph: g, Plan: compile(t, g), External: source()})
	require.NoError(t, err)

	assert.Equal(t, map[domain.NodeID]int{"in": 1, "blur": 2, "out": 2}, calls)
	assert.Equal(t, domain.NodeStatusCached, res.Statuses["in"])
}

func TestEvaluate_EmptySourceIsNotAnError(t *testing.T) {
	cache := cas.NewStore()
	e := evaluator.New(kernel.NewReference(), cache, metrics.NoOp{}, progrock.New())

	g := pipeline(t)
	res, err := e.Evaluate(t.Context(), evaluator.Request{Graph: g, Plan: compile(t, g)})
	require.NoError(t, err)
	assert.Nil(t, res.Image)
	assert.Equal(t, domain.NodeStatusEmpty, res.Statuses["in"])
	assert.Equal(t, domain.NodeStatusEmpty, res.Statuses["out"])
	assert.Zero(t, cache.Len())
}

func TestEvaluate_KernelFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	k := mocks.NewMockKernel(ctrl)
	boom := errors.New("boom")
	k.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *domain.Node, _ ports.KernelInputs) (*domain.Image, error) {
			if n.ID == "blur" {
				return nil, boom
			}
			return domain.NewImage(1, 1), nil
		}).Times(2)

	cache := cas.NewStore()
	e := evaluator.New(k, cache, metrics.NoOp{}, progrock.New())
	g := pipeline(t)

	res, err := e.Evaluate(t.Context(), evaluator.Request{Graph: g, Plan: compile(t, g)})
	require.ErrorContains(t, err, domain.ErrKernelFailed.Error())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, res)
	assert.Equal(t, 1, cache.Len(), "results before the failure stay cached")
}

func TestEvaluate_KernelPanicIsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	k := mocks.NewMockKernel(ctrl)
	k.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *domain.Node, _ ports.KernelInputs) (*domain.Image, error) {
			if n.ID == "blur" {
				panic("radius out of bounds")
			}
			return domain.NewImage(1, 1), nil
		}).Times(2)

	cache := mocks.NewMockResultCache(ctrl)
	cache.EXPECT().Get(gomock.Any()).Return(nil, false).Times(2)
	cache.EXPECT().Put(gomock.Any(), gomock.Any()).Times(1)

	e := evaluator.New(k, cache, metrics.NoOp{}, progrock.New())
	g := pipeline(t)

	res, err := e.Evaluate(t.Context(), evaluator.Request{Graph: g, Plan: compile(t, g)})
	require.ErrorContains(t, err, domain.ErrKernelFailed.Error())
	assert.ErrorContains(t, err, "radius out of bounds")
	assert.Nil(t, res)
}

func TestEvaluate_CancelledBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	k := mocks.NewMockKernel(ctrl)
	e := evaluator.New(k, cas.NewStore(), metrics.NoOp{}, progrock.New())

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	g := pipeline(t)
	_, err := e.Evaluate(ctx, evaluator.Request{Graph: g, Plan: compile(t, g)})
	require.ErrorIs(t, err, context.Canceled)
}

func TestEvaluate_CancelledBetweenNodes(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	k := mocks.NewMockKernel(ctrl)
	k.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *domain.Node, ports.KernelInputs) (*domain.Image, error) {
			cancel()
			return domain.NewImage(1, 1), nil
		}).Times(1)

	e := evaluator.New(k, cas.NewStore(), metrics.NoOp{}, progrock.New())
	g := pipeline(t)
	_, err := e.Evaluate(ctx, evaluator.Request{Graph: g, Plan: compile(t, g)})
	require.ErrorIs(t, err, context.Canceled)
}

func TestEvaluate_KernelErrorAfterCancelIsCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	k := mocks.NewMockKernel(ctrl)
	k.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *domain.Node, _ ports.KernelInputs) (*domain.Image, error) {
			cancel()
			return nil, ctx.Err()
		}).Times(1)

	e := evaluator.New(k, cas.NewStore(), metrics.NoOp{}, progrock.New())
	g := pipeline(t)
	_, err := e.Evaluate(ctx, evaluator.Request{Graph: g, Plan: compile(t, g)})
	require.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, err.Error(), domain.ErrKernelFailed.Error())
}

func TestEvaluate_RecordsVertices(t *testing.T) {
	ctrl := gomock.NewController(t)
	tel := mocks.NewMockTelemetry(ctrl)
	vertex := mocks.NewMockVertex(ctrl)

	tel.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ctx, vertex
		}).Times(6)
	vertex.EXPECT().Complete(nil).Times(6)
	vertex.EXPECT().Cached().Times(3)

	g := pipeline(t)
	e := evaluator.New(kernel.NewReference(), cas.NewStore(), metrics.NoOp{}, tel)
	req := evaluator.Request{Graph: g, Plan: compile(t, g), External: source()}
	for range 2 {
		_, err := e.Evaluate(t.Context(), req)
		require.NoError(t, err)
	}
}
