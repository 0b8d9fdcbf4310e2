package graph

import "image/color"

// Surface is a 2D canvas the graph draws on.
type Surface interface {
	SetCanvasSize(w, h int)
	SetFillColor(c color.RGBA)
	DrawSquare(x, y, size int)
}

// Grey maps an intensity to the fill color, clamped to 0..255 on all
// three channels.
func Grey(intensity int) color.RGBA {
	v := min(max(intensity, 0), 255)
	return color.RGBA{R: uint8(v), G: uint8(v), B: uint8(v), A: 0xFF}
}

// Setup sizes the surface. Call it once before the first Render.
func (g *Graph) Setup(s Surface, w, h int) {
	s.SetCanvasSize(w, h)
}

// Render draws every cell. It keeps no state and can run on every redraw.
func (g *Graph) Render(s Surface) {
	for _, c := range g.cells {
		s.SetFillColor(Grey(c.Intensity))
		s.DrawSquare(c.Column*g.cfg.CellSpacing, c.Row*g.cfg.CellSpacing, g.cfg.CellSize)
	}
}
