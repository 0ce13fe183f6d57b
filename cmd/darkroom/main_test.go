package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/darkroom/internal/app"
)

const testDocument = `version: "1"
output: out
nodes:
  - id: src
    type: solid
    params:
      width: 4
      height: 2
      color: "#336699"
  - id: out
    type: output
edges:
  - from: src.image
    to: out.image
`

func TestRun(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		document     string
		args         func(doc, out string) []string
		expectedExit int
		wantOutput   bool
	}{
		{
			name:     "Render with valid document",
			document: testDocument,
			args: func(doc, out string) []string {
				return []string{"darkroom", "render", "-d", doc, "--out", out}
			},
			expectedExit: 0,
			wantOutput:   true,
		},
		{
			name:     "Plan with valid document",
			document: testDocument,
			args: func(doc, _ string) []string {
				return []string{"darkroom", "plan", "-d", doc}
			},
			expectedExit: 0,
		},
		{
			name:     "Render with invalid document",
			document: "nodes:\n  - id: a\n    type: warp\n",
			args: func(doc, out string) []string {
				return []string{"darkroom", "render", "-d", doc, "--out", out}
			},
			expectedExit: 1,
		},
		{
			name: "Version",
			args: func(_, _ string) []string {
				return []string{"darkroom", "version"}
			},
			expectedExit: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			docPath := filepath.Join(tmpDir, "graph.yaml")
			outPath := filepath.Join(tmpDir, "out.png")
			if tt.document != "" {
				require.NoError(t, os.WriteFile(docPath, []byte(tt.document), 0o600))
			}

			// Set args
			os.Args = tt.args(docPath, outPath)

			// Run and capture exit code
			exitCode := run(func(a *app.App) {
				a.WithOptions(app.Options{Debounce: 10 * time.Millisecond})
			})
			assert.Equal(t, tt.expectedExit, exitCode)

			_, err := os.Stat(outPath)
			assert.Equal(t, tt.wantOutput, err == nil)
		})
	}
}
