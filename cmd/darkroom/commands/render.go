package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRenderCmd() *cobra.Command {
	var out, input string

	cmd := &cobra.Command{
		Use:   "render [target]",
		Short: "Render a node and write it as an image file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.components.App
			if err := a.OpenProject(c.document, input); err != nil {
				return err
			}
			frame, err := a.Render(cmd.Context(), targetArg(args))
			if err != nil {
				return err
			}
			if err := a.WriteFrame(out, frame); err != nil {
				return err
			}
			c.components.Logger.Info("wrote " + out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "out.png", "Output image path")
	cmd.Flags().StringVar(&input, "input", "", "Image file for the document's input node")
	return cmd
}
