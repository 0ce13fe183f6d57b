package commands_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/darkroom/cmd/darkroom/commands"
	"go.trai.ch/darkroom/internal/adapters/kernel"
	"go.trai.ch/darkroom/internal/app"
	_ "go.trai.ch/darkroom/internal/wiring" // Register providers
)

const document = `version: "1"
output: out
nodes:
  - id: src
    type: solid
    params:
      width: 3
      height: 1
      color: "#ff0000"
  - id: blur
    type: blur
    params:
      radius: 0
  - id: out
    type: output
edges:
  - from: src.image
    to: blur.image
  - from: blur.image
    to: out.image
`

func newCLI(t *testing.T) (*commands.CLI, *bytes.Buffer, string) {
	t.Helper()

	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	if l, ok := components.Logger.(interface{ SetOutput(io.Writer) }); ok {
		l.SetOutput(io.Discard)
	}

	dir := t.TempDir()
	docPath := filepath.Join(dir, "graph.yaml")
	require.NoError(t, os.WriteFile(docPath, []byte(document), 0o600))

	var out bytes.Buffer
	cli := commands.New(components)
	cli.SetOutput(&out)
	return cli, &out, docPath
}

func TestPlan(t *testing.T) {
	cli, out, docPath := newCLI(t)

	cli.SetArgs([]string{"plan", "-d", docPath})
	require.NoError(t, cli.Execute(t.Context()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "src")
	assert.Contains(t, lines[1], "blur")
	assert.Contains(t, lines[2], "out")
}

func TestPlan_IntermediateTarget(t *testing.T) {
	cli, out, docPath := newCLI(t)

	cli.SetArgs([]string{"plan", "-d", docPath, "blur"})
	require.NoError(t, cli.Execute(t.Context()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 2)
}

func TestPlan_UnknownTarget(t *testing.T) {
	cli, _, docPath := newCLI(t)

	cli.SetArgs([]string{"plan", "-d", docPath, "nope"})
	require.Error(t, cli.Execute(t.Context()))
}

func TestRender(t *testing.T) {
	cli, _, docPath := newCLI(t)
	outPath := filepath.Join(filepath.Dir(docPath), "render.png")

	cli.SetArgs([]string{"render", "-d", docPath, "--out", outPath})
	require.NoError(t, cli.Execute(t.Context()))

	img, err := kernel.NewCodec().Decode(outPath)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, []uint8{255, 0, 0, 255}, img.Pix[:4])
}

func TestRender_MissingDocument(t *testing.T) {
	cli, _, docPath := newCLI(t)

	cli.SetArgs([]string{"render", "-d", filepath.Join(filepath.Dir(docPath), "missing.yaml")})
	require.ErrorContains(t, cli.Execute(t.Context()), "failed to load document")
}

func TestWatch_StopsWithContext(t *testing.T) {
	cli, _, docPath := newCLI(t)

	ctx, cancel := context.WithTimeout(t.Context(), 200*time.Millisecond)
	defer cancel()

	cli.SetArgs([]string{"watch", "-d", docPath})
	require.NoError(t, cli.Execute(ctx))
}

func TestVersion(t *testing.T) {
	cli, out, _ := newCLI(t)

	cli.SetArgs([]string{"version"})
	require.NoError(t, cli.Execute(t.Context()))
	assert.Equal(t, "darkroom version dev\n", out.String())
}
