package render

import (
	"image/color"
	"math"

	"github.com/example/overmark/internal/annotation"
	"github.com/example/overmark/internal/geom"
	"github.com/example/overmark/internal/interaction"
)

const (
	// ArrowWing is the length of each arrowhead wing.
	ArrowWing = 10
	// ArrowSpread is the angle between the shaft and each wing.
	ArrowSpread = math.Pi / 6
)

// Scene is everything a single Draw call paints.
type Scene struct {
	Items []annotation.Annotation
	// Active indexes the annotation drawn last with handles, or -1.
	Active      int
	ActiveFrame geom.Rect

	Preview     geom.Rect
	PreviewKind annotation.Kind
	Creating    bool

	Marker     geom.Point
	ShowMarker bool

	// Overlays enables the preview, handles and marker. Exports leave it off.
	Overlays bool
}

// Empty reports whether drawing s would leave the canvas untouched.
func (s Scene) Empty() bool {
	if len(s.Items) > 0 {
		return false
	}
	return !s.Overlays || (!s.Creating && !s.ShowMarker)
}

// SceneFromView builds the on-screen scene for a controller view.
func SceneFromView(v interaction.View) Scene {
	return Scene{
		Items:       v.Items,
		Active:      v.Active,
		ActiveFrame: v.ActiveFrame,
		Preview:     v.Preview,
		PreviewKind: v.PreviewKind,
		Creating:    v.Creating,
		Marker:      v.Marker,
		ShowMarker:  v.ShowMarker,
		Overlays:    true,
	}
}

// ExportScene paints every annotation at its committed frame with no
// transient overlays.
func ExportScene(items []annotation.Annotation) Scene {
	return Scene{Items: items, Active: -1}
}

// Pass draws annotations and overlays in a fixed order.
type Pass struct {
	HandleRadius float64
	HandleColor  color.Color
	MarkerRadius float64
	MarkerColor  color.Color
	Preview      Stroke
}

// DefaultPass returns the look used by the overlay window.
func DefaultPass() Pass {
	return Pass{
		HandleRadius: 6,
		HandleColor:  color.RGBA{R: 0x1e, G: 0x90, B: 0xff, A: 0xff},
		MarkerRadius: 25,
		MarkerColor:  color.NRGBA{R: 0xff, A: 0x80},
		Preview: Stroke{
			Color: color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
			Width: 1,
			Dash:  []float64{4, 4},
		},
	}
}

// Draw paints s onto c. Passive annotations come first in list order, then
// the creation preview, then the active annotation with its handles, then the
// tap marker.
func (p Pass) Draw(c Canvas, s Scene) error {
	active := -1
	if s.Overlays {
		active = s.Active
	}
	for i := range s.Items {
		if i == active {
			continue
		}
		if err := p.Annotation(c, s.Items[i], s.Items[i].Frame); err != nil {
			return err
		}
	}
	if !s.Overlays {
		return nil
	}
	if s.Creating {
		if err := p.preview(c, s.Preview, s.PreviewKind); err != nil {
			return err
		}
	}
	if active >= 0 && active < len(s.Items) {
		if err := p.Annotation(c, s.Items[active], s.ActiveFrame); err != nil {
			return err
		}
		if err := p.Handles(c, s.ActiveFrame); err != nil {
			return err
		}
	}
	if s.ShowMarker {
		if err := c.FillCircle(s.Marker, p.MarkerRadius, p.MarkerColor); err != nil {
			return err
		}
	}
	return nil
}

// preview outlines an in-progress creation. Arrows show their shaft, every
// other kind its box.
func (p Pass) preview(c Canvas, frame geom.Rect, kind annotation.Kind) error {
	if kind == annotation.Arrow {
		return c.StrokeLine(frame.Origin, frame.Origin.Add(frame.Size), p.Preview)
	}
	return c.StrokeRect(frame, p.Preview)
}

// Annotation draws a at frame using its kind's routine.
func (p Pass) Annotation(c Canvas, a annotation.Annotation, frame geom.Rect) error {
	st := Stroke{Color: a.Style.Color, Width: a.Style.LineWidth}
	switch a.Kind {
	case annotation.Rectangle:
		return c.StrokeRect(frame, st)
	case annotation.Text:
		return c.DrawText(a.Text, frame.Center(), a.Style.FontSize, a.Style.Color)
	case annotation.Arrow:
		from := frame.Origin
		to := frame.Origin.Add(frame.Size)
		if err := c.StrokeLine(from, to, st); err != nil {
			return err
		}
		return c.FillPolygon(ArrowHead(from, to), a.Style.Color)
	}
	return nil
}

// Handles draws the eight resize grips of frame.
func (p Pass) Handles(c Canvas, frame geom.Rect) error {
	for _, h := range geom.Handles {
		if err := c.FillCircle(frame.HandleAt(h), p.HandleRadius, p.HandleColor); err != nil {
			return err
		}
	}
	return nil
}

// ArrowHead returns the triangle capping a shaft from -> to: the tip and two
// wing points ArrowSpread either side of the shaft, ArrowWing long.
func ArrowHead(from, to geom.Point) []geom.Point {
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	wing := func(a float64) geom.Point {
		return geom.Pt(to.X-ArrowWing*math.Cos(a), to.Y-ArrowWing*math.Sin(a))
	}
	return []geom.Point{to, wing(angle + ArrowSpread), wing(angle - ArrowSpread)}
}
