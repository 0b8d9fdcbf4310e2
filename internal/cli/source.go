package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sadopc/habitiviz/internal/history"
	"github.com/sadopc/habitiviz/internal/store"
)

// openSource picks the history source from the configuration: a URL wins
// over a database, which wins over the CSV path. The returned func releases
// it.
func (c *CLI) openSource() (history.Source, func(), error) {
	switch {
	case c.cfg.SourceURL != "":
		c.logger.Debug("using http source", zap.String("url", c.cfg.SourceURL))
		return history.HTTPSource{URL: c.cfg.SourceURL, Logger: c.logger}, func() {}, nil

	case c.cfg.SourceDB != "":
		s, err := store.New(c.cfg.SourceDB)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", c.cfg.SourceDB, err)
		}
		if n, err := s.CountCompletions(); err == nil {
			c.logger.Debug("using sqlite source", zap.String("path", c.cfg.SourceDB), zap.Int("completions", n))
		}
		return s, func() { s.Close() }, nil

	default:
		c.logger.Debug("using file source", zap.String("path", c.cfg.SourcePath))
		return history.FileSource{Path: c.cfg.SourcePath, Logger: c.logger}, func() {}, nil
	}
}

// csvSource is openSource without the database option, for commands that
// read a CSV export into the database.
func (c *CLI) csvSource() history.Source {
	if c.cfg.SourceURL != "" {
		return history.HTTPSource{URL: c.cfg.SourceURL, Logger: c.logger}
	}
	return history.FileSource{Path: c.cfg.SourcePath, Logger: c.logger}
}

// openStore opens the database named by --db, or the default one, for
// writing.
func (c *CLI) openStore() (*store.Store, string, error) {
	dbPath := c.cfg.SourceDB
	if dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, "", err
		}
		dbPath = p
	}
	s, err := store.New(dbPath)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", dbPath, err)
	}
	return s, dbPath, nil
}
