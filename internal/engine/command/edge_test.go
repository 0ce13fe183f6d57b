package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/darkroom/internal/adapters/catalog"
	"go.trai.ch/darkroom/internal/core/domain"
	"go.trai.ch/darkroom/internal/engine/command"
	"go.trai.ch/zerr"
)

func TestConnect_RejectsInvalid(t *testing.T) {
	f := newFixture(t)
	f.node("input", catalog.TypeInput)
	f.node("transform", catalog.TypeTransform)
	f.node("output", catalog.TypeOutput)
	f.connect("input", "transform", catalog.PortImage)
	f.connect("transform", "output", catalog.PortImage)
	before := f.snapshot()

	tests := []struct {
		name    string
		edge    domain.Edge
		wantErr error
	}{
		{
			name:    "input node has no input port",
			edge:    domain.NewEdge("transform", "image", "input", "image"),
			wantErr: domain.ErrUnknownPort,
		},
		{
			name:    "two cycle",
			edge:    domain.NewEdge("output", "image", "transform", "image"),
			wantErr: domain.ErrCycleDetected,
		},
		{
			name:    "unknown source port",
			edge:    domain.NewEdge("input", "mask", "output", "image"),
			wantErr: domain.ErrUnknownPort,
		},
		{
			name:    "missing node",
			edge:    domain.NewEdge("ghost", "image", "output", "image"),
			wantErr: domain.ErrNodeNotFound,
		},
		{
			name:    "existing edge",
			edge:    domain.NewEdge("input", "image", "transform", "image"),
			wantErr: domain.ErrEdgeAlreadyExists,
		},
		{
			name:    "self loop",
			edge:    domain.NewEdge("transform", "image", "transform", "image"),
			wantErr: domain.ErrCycleDetected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.p.Execute(command.NewConnect(f.cat, tt.edge))
			require.ErrorContains(t, err, tt.wantErr.Error())
			assert.Equal(t, before, f.snapshot())
		})
	}
}

func TestConnect_CycleCarriesPath(t *testing.T) {
	f := newFixture(t)
	f.node("a", catalog.TypeTransform)
	f.node("b", catalog.TypeTransform)
	f.connect("a", "b", catalog.PortImage)

	err := f.p.Execute(command.NewConnect(f.cat, domain.NewEdge("b", "image", "a", "image")))
	require.Error(t, err)
	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "a -> b -> a", zErr.Metadata()["cycle"])
}

func TestConnect_ReplacesExistingInput(t *testing.T) {
	f := newFixture(t)
	f.node("a1", catalog.TypeInput)
	f.node("a2", catalog.TypeInput)
	f.node("t", catalog.TypeTransform)
	f.node("out", catalog.TypeOutput)
	first := f.connect("a1", "t", catalog.PortImage)
	tail := f.connect("t", "out", catalog.PortImage)

	e := domain.NewEdge("a2", "image", "t", "image")
	cmd := command.NewConnect(f.cat, e)
	require.NoError(t, f.p.Execute(cmd))

	displaced, ok := cmd.Displaced()
	require.True(t, ok)
	assert.Equal(t, first, displaced)
	assert.Equal(t, []domain.Edge{tail, e}, f.p.Graph().Edges())

	_, err := f.p.Undo()
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{first, tail}, f.p.Graph().Edges())

	_, err = f.p.Redo()
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{tail, e}, f.p.Graph().Edges())
}

func TestDisconnect(t *testing.T) {
	f := newFixture(t)
	f.node("a", catalog.TypeInput)
	f.node("b", catalog.TypeBlend)
	ab := f.connect("a", "b", catalog.PortBase)
	ao := f.connect("a", "b", catalog.PortOverlay)

	require.NoError(t, f.p.Execute(command.NewDisconnect(ab)))
	assert.Equal(t, []domain.Edge{ao}, f.p.Graph().Edges())

	err := f.p.Execute(command.NewDisconnect(ab))
	require.ErrorContains(t, err, domain.ErrEdgeNotFound.Error())

	_, err = f.p.Undo()
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{ab, ao}, f.p.Graph().Edges())
}
