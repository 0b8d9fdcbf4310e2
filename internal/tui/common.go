package tui

import (
	"fmt"
	"image/color"
	"time"

	"github.com/sadopc/habitiviz/internal/graph"
	"github.com/sadopc/habitiviz/internal/history"
)

// --- Messages ---

type graphLoadedMsg struct {
	graph  *graph.Graph
	source history.Source
	err    error
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// --- Helpers ---

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Mon Jan 02, 2006")
}
