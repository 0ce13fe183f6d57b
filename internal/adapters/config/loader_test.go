package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/darkroom/internal/adapters/catalog"
	"go.trai.ch/darkroom/internal/adapters/config"
	"go.trai.ch/darkroom/internal/core/domain"
)

const pipeline = `
version: "1"
input: src
output: out
nodes:
  - id: src
    type: input
  - id: soften
    type: blur
    params:
      radius: 3
  - id: tint
    type: solid
    params:
      color: "#ff0000"
      width: 8
  - id: mix
    type: blend
    params:
      mode: screen
      opacity: 0.5
      invert_mask: true
  - id: out
    type: output
edges:
  - from: src.image
    to: soften.image
  - from: soften.image
    to: mix.base
  - from: tint.image
    to: mix.overlay
  - from: mix.image
    to: out.image
`

func newLoader() *config.Loader {
	return config.NewLoader(catalog.New())
}

func TestDecode_Pipeline(t *testing.T) {
	doc, err := newLoader().Decode([]byte(pipeline))
	require.NoError(t, err)

	assert.Equal(t, domain.NodeID("src"), doc.InputNode)
	assert.Equal(t, domain.NodeID("out"), doc.OutputNode)
	require.Len(t, doc.Nodes, 5)
	require.Len(t, doc.Edges, 4)

	soften := doc.Nodes[1]
	assert.Equal(t, domain.FloatValue(3), soften.Parameters["radius"], "int literal coerced to float")

	tint := doc.Nodes[2]
	assert.Equal(t, domain.ColorValue(domain.Color{R: 255, A: 255}), tint.Parameters["color"])
	assert.Equal(t, domain.IntValue(8), tint.Parameters["width"])
	assert.Equal(t, domain.IntValue(64), tint.Parameters["height"], "unset parameters keep defaults")

	mix := doc.Nodes[3]
	assert.Equal(t, domain.EnumValue("screen"), mix.Parameters["mode"])
	assert.Equal(t, domain.BoolValue(true), mix.Parameters["invert_mask"])

	assert.Equal(t, domain.NewEdge("tint", "image", "mix", "overlay"), doc.Edges[2])

	g, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, 5, g.NodeCount())
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{
			name:    "unknown type",
			content: "nodes:\n  - id: a\n    type: vignette\n",
			want:    domain.ErrUnknownNodeType,
		},
		{
			name:    "unknown parameter",
			content: "nodes:\n  - id: a\n    type: blur\n    params:\n      strength: 1\n",
			want:    domain.ErrUnknownParameter,
		},
		{
			name:    "out of range",
			content: "nodes:\n  - id: a\n    type: blur\n    params:\n      radius: 100\n",
			want:    domain.ErrInvalidParameter,
		},
		{
			name:    "wrong scalar kind",
			content: "nodes:\n  - id: a\n    type: blur\n    params:\n      radius: wide\n",
			want:    domain.ErrInvalidParameter,
		},
		{
			name:    "enum non member",
			content: "nodes:\n  - id: a\n    type: transform\n    params:\n      flip: diagonal\n",
			want:    domain.ErrInvalidParameter,
		},
		{
			name:    "missing id",
			content: "nodes:\n  - type: blur\n",
			want:    domain.ErrInvalidDocument,
		},
		{
			name:    "malformed endpoint",
			content: "nodes:\n  - id: a\n    type: blur\nedges:\n  - from: a\n    to: a.image\n",
			want:    domain.ErrInvalidDocument,
		},
		{
			name:    "bad version",
			content: "version: \"2\"\nnodes: []\n",
			want:    domain.ErrInvalidDocument,
		},
		{
			name:    "missing endpoint",
			content: "nodes:\n  - id: a\n    type: blur\nedges:\n  - from: ghost.image\n    to: a.image\n",
			want:    domain.ErrMissingEndpoint,
		},
		{
			name:    "source has no input port",
			content: "nodes:\n  - id: a\n    type: blur\n  - id: b\n    type: input\nedges:\n  - from: a.image\n    to: b.image\n",
			want:    domain.ErrUnknownPort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newLoader().Decode([]byte(tt.content))
			require.ErrorContains(t, err, tt.want.Error())
		})
	}
}

func TestDecode_RejectsSecondIncomingEdge(t *testing.T) {
	content := `
nodes:
  - id: a
    type: input
  - id: b
    type: input
  - id: c
    type: blur
edges:
  - from: a.image
    to: c.image
  - from: b.image
    to: c.image
`
	_, err := newLoader().Decode([]byte(content))
	require.ErrorContains(t, err, "more than one incoming edge")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	loader := newLoader()
	doc, err := loader.Decode([]byte(pipeline))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "pipeline.yaml")
	require.NoError(t, loader.Save(path, doc))

	loaded, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := newLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "failed to read document")
}

func TestLoad_ReportsParseErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nodes: [\n"), 0o600))

	_, err := newLoader().Load(path)
	require.ErrorContains(t, err, "failed to parse document")
}
