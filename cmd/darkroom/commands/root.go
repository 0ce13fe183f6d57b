// Package commands implements the CLI commands for darkroom.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/darkroom/internal/app"
	"go.trai.ch/darkroom/internal/build"
)

// DefaultDocument is the document path used when --document is not set.
const DefaultDocument = "graph.yaml"

// CLI represents the command line interface for darkroom.
type CLI struct {
	components *app.Components
	rootCmd    *cobra.Command
	document   string
}

// New creates a new CLI instance with the given components.
func New(components *app.Components) *CLI {
	rootCmd := &cobra.Command{
		Use:           "darkroom",
		Short:         "A node graph image engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		components: components,
		rootCmd:    rootCmd,
	}

	rootCmd.PersistentFlags().StringVarP(&c.document, "document", "d", DefaultDocument, "Path to the graph document")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if enabled, _ := cmd.Flags().GetBool("json-logs"); enabled {
			if l, ok := c.components.Logger.(interface{ SetJSON(bool) }); ok {
				l.SetJSON(true)
			}
		}
	}

	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newRenderCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
}
