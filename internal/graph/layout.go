package graph

import (
	"time"

	"github.com/sadopc/habitiviz/internal/history"
)

const (
	// MaxWeeks bounds the trailing window drawn by ComputeCells.
	MaxWeeks = 16

	// minRemaining is how many records must stay unprocessed after the
	// current one, so partial leading weeks are never drawn.
	minRemaining = 6

	intensityPerTask = 10
)

// Cell is one day on the grid.
type Cell struct {
	Column    int
	Row       int
	Intensity int
	Count     int
	Date      time.Time
}

// ComputeCells lays out records (most recent first) from the right edge of a
// grid that is columns wide. The week counter starts at 1 and is bumped on
// every Saturday before that Saturday is placed, so a Saturday opens the
// column to its left.
func ComputeCells(records history.DayRecordSet, columns int) []Cell {
	var cells []Cell
	week := 1
	for i := 0; i < len(records)-minRemaining && week < MaxWeeks; i++ {
		rec := records[i]
		weekday := int(rec.Weekday)
		if rec.Weekday == time.Saturday {
			week++
		}
		count := rec.TaskCount()
		cells = append(cells, Cell{
			Column:    columns - week,
			Row:       weekday,
			Intensity: count * intensityPerTask,
			Count:     count,
			Date:      rec.Date,
		})
	}
	return cells
}
