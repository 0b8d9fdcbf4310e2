package graph

import (
	"slices"
	"time"
)

// WeekTotal is the number of tasks completed in one grid column.
type WeekTotal struct {
	Column int
	Start  time.Time // earliest day drawn in the column
	Tasks  int
}

// Stats summarises what the graph shows.
type Stats struct {
	Days         int // days with at least one task, whole history
	TotalTasks   int // whole history
	DrawnDays    int
	DrawnTasks   int
	BusiestDay   time.Time
	BusiestCount int
	LastActive   time.Time
	Weeks        []WeekTotal // oldest first
}

// Stats computes totals over the full history and over the drawn window.
func (g *Graph) Stats() Stats {
	st := Stats{
		Days:       len(g.days),
		TotalTasks: g.days.TotalTasks(),
		DrawnDays:  len(g.cells),
	}
	if len(g.days) > 0 {
		st.LastActive = g.days[0].Date
	}

	byColumn := make(map[int]*WeekTotal)
	for _, c := range g.cells {
		st.DrawnTasks += c.Count
		if c.Count > st.BusiestCount {
			st.BusiestCount = c.Count
			st.BusiestDay = c.Date
		}
		w, ok := byColumn[c.Column]
		if !ok {
			w = &WeekTotal{Column: c.Column, Start: c.Date}
			byColumn[c.Column] = w
		}
		w.Tasks += c.Count
		if c.Date.Before(w.Start) {
			w.Start = c.Date
		}
	}

	for _, w := range byColumn {
		st.Weeks = append(st.Weeks, *w)
	}
	slices.SortFunc(st.Weeks, func(a, b WeekTotal) int { return a.Column - b.Column })
	return st
}
