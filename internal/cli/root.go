// Package cli implements the habitiviz commands.
package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sadopc/habitiviz/internal/config"
	"github.com/sadopc/habitiviz/internal/history"
	"github.com/sadopc/habitiviz/internal/logging"
	"github.com/sadopc/habitiviz/internal/tui"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// fullscreen marks commands that own the terminal or open a window. Their
// logs go to a file instead of stderr.
const fullscreen = "fullscreen"

// CLI is the habitiviz command tree plus the state its commands share.
type CLI struct {
	rootCmd *cobra.Command
	v       *viper.Viper

	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
}

// New builds the command tree.
func New() *CLI {
	c := &CLI{v: config.New(), logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "habitiviz",
		Short: "Calendar heatmap of your Habitica task history",
		Long: `habitiviz reads a Habitica tasks history export, counts completed tasks
per day and draws the last weeks as a calendar heatmap: one cell per day,
one column per week, brighter cells for busier days.

Without a subcommand it opens the terminal view.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Annotations:       map[string]string{fullscreen: "true"},
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) { _ = c.logger.Sync() },
		RunE:              c.runTUI,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default ~/.config/habitiviz/config.yaml)")
	flags.String("source", "", "path to a tasks history CSV")
	flags.String("url", "", "URL of a tasks history CSV")
	flags.String("db", "", "path to a habitiviz SQLite database")
	flags.String("timezone", "", "IANA timezone used to place days (default Local)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")

	for key, flag := range map[string]string{
		"source.path": "source",
		"source.url":  "url",
		"source.db":   "db",
		"timezone":    "timezone",
	} {
		_ = c.v.BindPFlag(key, flags.Lookup(flag))
	}

	c.rootCmd = rootCmd
	rootCmd.AddCommand(c.newWindowCmd())
	rootCmd.AddCommand(c.newExportCmd())
	rootCmd.AddCommand(c.newImportCmd())
	rootCmd.AddCommand(c.newAddCmd())
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

// setup loads the configuration and builds the logger before any command
// runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.LogLevel
	if c.verbose {
		level = "debug"
	}
	logPath := ""
	if cmd.Annotations[fullscreen] == "true" {
		if logPath, err = cfg.LogPath(); err != nil {
			return fmt.Errorf("resolve log path: %w", err)
		}
	}
	logger, err := logging.New(level, logPath)
	if err != nil {
		return err
	}
	c.logger = logger
	c.logger.Debug("config loaded",
		zap.String("command", cmd.Name()),
		zap.String("timezone", cfg.Location.String()),
		zap.Int("columns", cfg.Graph.Columns))
	return nil
}

func (c *CLI) aggregator() *history.Aggregator {
	return history.NewAggregator(c.cfg.Location, c.logger)
}

func (c *CLI) runTUI(cmd *cobra.Command, _ []string) error {
	src, closeSrc, err := c.openSource()
	if err != nil {
		return err
	}
	defer closeSrc()

	app := tui.NewApp(tui.Options{
		Source:       src,
		Aggregator:   c.aggregator(),
		Graph:        c.cfg.Graph,
		CanvasWidth:  c.cfg.CanvasWidth,
		CanvasHeight: c.cfg.CanvasHeight,
		Logger:       c.logger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal view: %w", err)
	}
	return nil
}
