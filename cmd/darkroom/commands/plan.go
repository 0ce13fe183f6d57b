package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/darkroom/internal/core/domain"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [target]",
		Short: "Print the evaluation order and fingerprints for a node",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.components.App
			if err := a.OpenProject(c.document, ""); err != nil {
				return err
			}
			plan, err := a.Plan(targetArg(args))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, id := range plan.Order {
				if _, err := fmt.Fprintf(out, "%3d  %-24s %s\n", i+1, id, plan.Fingerprints[id]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// targetArg returns the optional target argument. Empty selects the document's output node.
func targetArg(args []string) domain.NodeID {
	if len(args) == 0 {
		return ""
	}
	return domain.NodeID(args[0])
}
