package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/habitiviz/internal/export"
	"github.com/sadopc/habitiviz/internal/graph"
)

func (c *CLI) newExportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the per-day history to CSV, JSON or YAML",
		Example: `  habitiviz export --out days.json
  habitiviz export --db history.db --format csv --out days.txt`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, closeSrc, err := c.openSource()
			if err != nil {
				return err
			}
			defer closeSrc()

			g := graph.New(c.cfg.Graph)
			if err := g.Load(cmd.Context(), src, c.aggregator()); err != nil {
				return err
			}
			if err := export.Write(g.Days(), format, out); err != nil {
				return fmt.Errorf("export: %w", err)
			}

			st := g.Stats()
			c.logger.Info("exported history",
				zap.String("path", out),
				zap.Int("days", st.Days),
				zap.Int("tasks", st.TotalTasks))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s days (%s tasks) to %s\n",
				humanize.Comma(int64(st.Days)), humanize.Comma(int64(st.TotalTasks)), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: "+strings.Join(export.Formats, ", ")+" (default from --out extension)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
