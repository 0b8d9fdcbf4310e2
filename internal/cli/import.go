package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *CLI) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Copy a tasks history CSV into the SQLite database",
		Long: `import reads the CSV named by --source (or --url) and appends every
completion to the database named by --db, or ~/.config/habitiviz/history.db
when --db is not set. Only the date of each completion is kept. Blank task
names and unparseable dates are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src := c.csvSource()
			rows, err := src.Rows(cmd.Context())
			if err != nil {
				return fmt.Errorf("read %s: %w", src, err)
			}

			s, dbPath, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.ImportRows(cmd.Context(), rows)
			if err != nil {
				return err
			}
			total, err := s.CountCompletions()
			if err != nil {
				return err
			}

			c.logger.Info("imported history",
				zap.Stringer("source", src),
				zap.String("db", dbPath),
				zap.Int("rows", len(rows)),
				zap.Int("imported", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s completions into %s (%s total)\n",
				humanize.Comma(int64(n)), dbPath, humanize.Comma(int64(total)))
			return nil
		},
	}
}
