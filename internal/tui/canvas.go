package tui

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitiviz/internal/graph"
)

const (
	cellGlyph  = "■ "
	emptyGlyph = "  "
)

var weekdayLabels = []string{"S", "M", "T", "W", "T", "F", "S"}

type pixel struct {
	set  bool
	fill color.RGBA
}

// canvas is a graph.Surface backed by a grid of terminal cells. One
// terminal cell covers scale x scale surface pixels.
type canvas struct {
	scale      int
	cols, rows int
	fill       color.RGBA
	pixels     [][]pixel
}

var _ graph.Surface = (*canvas)(nil)

func newCanvas(scale int) *canvas {
	if scale <= 0 {
		scale = 1
	}
	return &canvas{scale: scale}
}

func (c *canvas) SetCanvasSize(w, h int) {
	c.cols = w / c.scale
	c.rows = h / c.scale
	c.clear()
}

func (c *canvas) SetFillColor(col color.RGBA) {
	c.fill = col
}

func (c *canvas) DrawSquare(x, y, _ int) {
	cx, cy := x/c.scale, y/c.scale
	if x < 0 || y < 0 || cy >= len(c.pixels) || cx >= len(c.pixels[cy]) {
		return
	}
	c.pixels[cy][cx] = pixel{set: true, fill: c.fill}
}

// clear blanks the grid so the next render starts from the background.
func (c *canvas) clear() {
	c.pixels = make([][]pixel, c.rows)
	for i := range c.pixels {
		c.pixels[i] = make([]pixel, c.cols)
	}
}

func (c *canvas) at(col, row int) (color.RGBA, bool) {
	if row < 0 || row >= len(c.pixels) || col < 0 || col >= len(c.pixels[row]) {
		return color.RGBA{}, false
	}
	p := c.pixels[row][col]
	return p.fill, p.set
}

func (c *canvas) view() string {
	var b strings.Builder
	for y, line := range c.pixels {
		label := ""
		if y < len(weekdayLabels) {
			label = weekdayLabels[y]
		}
		b.WriteString(weekdayLabelStyle.Render(label))

		var row strings.Builder
		for _, p := range line {
			if !p.set {
				row.WriteString(emptyGlyph)
				continue
			}
			row.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(p.fill))).Render(cellGlyph))
		}
		b.WriteString(canvasStyle.Render(row.String()))
		if y < len(c.pixels)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
