package render

import (
	"image/color"

	"github.com/example/overmark/internal/geom"
)

// Stroke describes how an outline is drawn.
type Stroke struct {
	Color color.Color
	Width float64
	// Dash is an on/off pattern; empty means solid.
	Dash []float64
}

// Canvas is a drawing surface a Pass renders onto.
type Canvas interface {
	StrokeRect(r geom.Rect, s Stroke) error
	StrokeLine(from, to geom.Point, s Stroke) error
	FillPolygon(pts []geom.Point, c color.Color) error
	FillCircle(center geom.Point, radius float64, c color.Color) error
	// DrawText draws s centred on center.
	DrawText(s string, center geom.Point, size float64, c color.Color) error
}
