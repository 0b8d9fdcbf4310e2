package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/habitiviz/internal/graph"
	"github.com/sadopc/habitiviz/internal/window"
)

func (c *CLI) newWindowCmd() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:         "window",
		Short:       "Show the heatmap in a desktop window",
		Annotations: map[string]string{fullscreen: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, closeSrc, err := c.openSource()
			if err != nil {
				return err
			}
			defer closeSrc()

			g := graph.New(c.cfg.Graph)
			if err := g.Load(cmd.Context(), src, c.aggregator()); err != nil {
				// An empty window is still shown, like a failed reload in
				// the terminal view.
				c.logger.Warn("history load failed", zap.Error(err))
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			c.logger.Info("opening window",
				zap.Int("days", len(g.Days())),
				zap.Int("cells", len(g.Cells())))
			return window.Run(g, c.cfg.CanvasWidth, c.cfg.CanvasHeight, title)
		},
	}
	cmd.Flags().StringVar(&title, "title", "habitiviz", "window title")
	return cmd
}
