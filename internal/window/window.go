// Package window shows the heatmap in a desktop window.
package window

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/sadopc/habitiviz/internal/graph"
)

var background = color.RGBA{A: 0xFF}

// surface draws onto the ebiten screen for the duration of one frame.
type surface struct {
	dst           *ebiten.Image
	width, height int
	fill          color.RGBA
}

var _ graph.Surface = (*surface)(nil)

func (s *surface) SetCanvasSize(w, h int) {
	s.width, s.height = w, h
}

func (s *surface) SetFillColor(c color.RGBA) {
	s.fill = c
}

func (s *surface) DrawSquare(x, y, size int) {
	if s.dst == nil {
		return
	}
	vector.DrawFilledRect(s.dst, float32(x), float32(y), float32(size), float32(size), s.fill, false)
}

type game struct {
	graph   *graph.Graph
	surface *surface
}

func (g *game) Update() error {
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.surface.dst = screen
	g.graph.Render(g.surface)
	g.surface.dst = nil
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.surface.width, g.surface.height
}

// Run opens a window of w x h and redraws g every frame until it is closed.
// It blocks and must be called from the main goroutine.
func Run(g *graph.Graph, w, h int, title string) error {
	s := &surface{}
	g.Setup(s, w, h)

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(60)
	return ebiten.RunGame(&game{graph: g, surface: s})
}
