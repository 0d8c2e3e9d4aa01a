package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		opts computeOpts
		cols int
	)

	cmd := &cobra.Command{
		Use:   "preview [scene]",
		Short: "Draw a positioned scene in the terminal",
		Long: `Draw a positioned scene in the terminal.

Elements are drawn as outlines scaled to the viewport; references are
highlighted and every floating element is drawn as a filled block labeled
with its job ID at the position its job computed. Arrows are marked on the
edge facing the reference and hidden elements are shaded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), cmd.OutOrStdout(), args[0], opts, cols)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVarP(&cols, "width", "w", defaultCanvasCols, "canvas width in terminal columns")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, w io.Writer, path string, opts computeOpts, cols int) error {
	s, res, err := c.computeScene(ctx, path, opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, StyleTitle.Render(sceneLabel(s, path)))
	fmt.Fprintln(w, renderScene(s, res, cols))
	for _, j := range res.Jobs {
		fmt.Fprintf(w, "%s %s %s\n",
			cellStyles[kindFloating].Render(j.ID),
			StyleValue.Render(j.Placement.String()),
			StyleDim.Render("("+formatCoord(j.X)+", "+formatCoord(j.Y)+")"))
	}
	printStats(res.Stats)
	return nil
}
