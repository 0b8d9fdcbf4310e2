// Package graph turns aggregated history into a calendar heatmap and draws
// it on a Surface.
package graph

import (
	"context"
	"fmt"

	"github.com/sadopc/habitiviz/internal/history"
)

// Config holds the grid geometry.
type Config struct {
	CellSize    int
	CellSpacing int
	Columns     int
}

// DefaultConfig matches a 500x100 canvas: 50 columns of 8px cells every 10px.
func DefaultConfig() Config {
	return Config{CellSize: 8, CellSpacing: 10, Columns: 50}
}

// Graph is the heatmap: its geometry, the day records and the cells laid
// out from them. Cells are replaced wholesale whenever records change.
type Graph struct {
	cfg   Config
	days  history.DayRecordSet
	cells []Cell
}

// New returns an empty graph.
func New(cfg Config) *Graph {
	return &Graph{cfg: cfg}
}

func (g *Graph) Config() Config             { return g.cfg }
func (g *Graph) Days() history.DayRecordSet { return g.days }
func (g *Graph) Cells() []Cell              { return g.cells }

// SetRecords replaces the day records and recomputes the cells.
func (g *Graph) SetRecords(days history.DayRecordSet) {
	g.days = days
	g.cells = ComputeCells(days, g.cfg.Columns)
}

// Load fetches rows from src, aggregates them and lays out the cells. The
// fetch completes before aggregation starts. On a fetch error the graph is
// left empty, still safe to render, and the error is returned.
func (g *Graph) Load(ctx context.Context, src history.Source, agg *history.Aggregator) error {
	rows, err := src.Rows(ctx)
	if err != nil {
		g.SetRecords(nil)
		return fmt.Errorf("load %s: %w", src, err)
	}
	g.SetRecords(agg.Aggregate(rows))
	return nil
}
