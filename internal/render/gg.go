package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/example/overmark/internal/geom"
)

var regular = sync.OnceValues(func() (*text.FontSource, error) {
	return text.NewFontSource(goregular.TTF)
})

// GG is a Canvas backed by a gogpu/gg context.
type GG struct {
	dc    *gg.Context
	font  *text.FontSource
	faces map[float64]text.Face
}

// NewGG returns a transparent canvas of the given size.
func NewGG(width, height int) (*GG, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas %dx%d: %w", width, height, ErrEmptySurface)
	}
	return newGG(gg.NewContext(width, height))
}

// NewGGForImage returns a canvas whose initial contents are a copy of bg.
func NewGGForImage(bg image.Image) (*GG, error) {
	if bg == nil || bg.Bounds().Empty() {
		return nil, ErrEmptySurface
	}
	return newGG(gg.NewContextForImage(bg))
}

func newGG(dc *gg.Context) (*GG, error) {
	src, err := regular()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &GG{dc: dc, font: src, faces: map[float64]text.Face{}}, nil
}

// Close releases the context.
func (g *GG) Close() error { return g.dc.Close() }

// Image returns a copy of the canvas contents.
func (g *GG) Image() *image.RGBA {
	img := g.dc.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}

func (g *GG) stroke(s Stroke) error {
	g.dc.SetColor(s.Color)
	g.dc.SetLineWidth(s.Width)
	g.dc.SetDash(s.Dash...)
	return g.dc.Stroke()
}

func (g *GG) StrokeRect(r geom.Rect, s Stroke) error {
	r = r.Canon()
	g.dc.DrawRectangle(r.Origin.X, r.Origin.Y, r.Size.W, r.Size.H)
	return g.stroke(s)
}

func (g *GG) StrokeLine(from, to geom.Point, s Stroke) error {
	g.dc.MoveTo(from.X, from.Y)
	g.dc.LineTo(to.X, to.Y)
	return g.stroke(s)
}

func (g *GG) FillPolygon(pts []geom.Point, c color.Color) error {
	if len(pts) < 3 {
		return nil
	}
	g.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		g.dc.LineTo(p.X, p.Y)
	}
	g.dc.ClosePath()
	g.dc.SetColor(c)
	return g.dc.Fill()
}

func (g *GG) FillCircle(center geom.Point, radius float64, c color.Color) error {
	g.dc.DrawCircle(center.X, center.Y, radius)
	g.dc.SetColor(c)
	return g.dc.Fill()
}

func (g *GG) DrawText(s string, center geom.Point, size float64, c color.Color) error {
	if s == "" {
		return nil
	}
	face, ok := g.faces[size]
	if !ok {
		face = g.font.Face(size)
		g.faces[size] = face
	}
	g.dc.SetFont(face)
	g.dc.SetColor(c)
	g.dc.DrawStringAnchored(s, center.X, center.Y, 0.5, 0.5)
	return nil
}
