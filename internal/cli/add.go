package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/habitiviz/internal/history"
)

func (c *CLI) newAddCmd() *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "add TASK...",
		Short: "Record completed tasks in the SQLite database",
		Long: `add appends one completion per TASK to the database named by --db, or
~/.config/habitiviz/history.db when --db is not set. The completion is dated
--date, or today in the configured timezone.`,
		Example: `  habitiviz add "Morning run"
  habitiviz add --date 2024-01-02 Clean Cook`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if day == "" {
				day = time.Now().In(c.cfg.Location).Format(time.DateOnly)
			}
			// Stored as UTC midnight so reading back yields the same date.
			at, err := history.ParseDate(day)
			if err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}

			s, dbPath, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			for _, task := range args {
				if _, err := s.AddCompletion(task, at); err != nil {
					return fmt.Errorf("add %q: %w", task, err)
				}
			}

			c.logger.Info("added completions",
				zap.String("db", dbPath),
				zap.String("date", day),
				zap.Int("tasks", len(args)))
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d completions on %s to %s\n", len(args), day, dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "date", "", "completion date, YYYY-MM-DD (default today)")
	return cmd
}
