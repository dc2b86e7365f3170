package geom

import "fmt"

// Handle identifies one of the eight grab points on a bounding box.
type Handle int

const (
	TopLeft Handle = iota
	Top
	TopRight
	Left
	Right
	BottomLeft
	Bottom
	BottomRight
)

// Handles lists every handle, clockwise from the top-left corner.
var Handles = [...]Handle{TopLeft, Top, TopRight, Left, Right, BottomLeft, Bottom, BottomRight}

// axes records, per handle, which box edge a drag moves on each axis:
// -1 the leading (left/top) edge, +1 the trailing (right/bottom) edge, 0 none.
// Every committed and live delta below is derived from this table.
var axes = [...]struct{ x, y float64 }{
	TopLeft:     {-1, -1},
	Top:         {0, -1},
	TopRight:    {+1, -1},
	Left:        {-1, 0},
	Right:       {+1, 0},
	BottomLeft:  {-1, +1},
	Bottom:      {0, +1},
	BottomRight: {+1, +1},
}

var handleNames = [...]string{
	TopLeft:     "top-left",
	Top:         "top",
	TopRight:    "top-right",
	Left:        "left",
	Right:       "right",
	BottomLeft:  "bottom-left",
	Bottom:      "bottom",
	BottomRight: "bottom-right",
}

// Valid reports whether h is one of the eight handles.
func (h Handle) Valid() bool { return h >= TopLeft && h <= BottomRight }

func (h Handle) String() string {
	if !h.Valid() {
		return fmt.Sprintf("Handle(%d)", int(h))
	}
	return handleNames[h]
}

// Corner reports whether h moves both axes.
func (h Handle) Corner() bool {
	a := axes[h]
	return a.x != 0 && a.y != 0
}

// Position returns where h sits on a box of the given size, relative to the
// box origin.
func (h Handle) Position(size Size) Point {
	a := axes[h]
	return Point{X: size.W * (a.x + 1) / 2, Y: size.H * (a.y + 1) / 2}
}

// SizeDelta converts a drag delta on h into the change of the box size.
// Dragging a leading edge outwards grows the box, so its axis is negated.
func (h Handle) SizeDelta(d Size) Size {
	a := axes[h]
	return Size{W: a.x * d.W, H: a.y * d.H}
}

// OriginDelta converts a drag delta on h into the change of the box origin
// that keeps the opposite edge in place. Trailing handles never move it.
func (h Handle) OriginDelta(d Size) Size {
	a := axes[h]
	var o Size
	if a.x < 0 {
		o.W = d.W
	}
	if a.y < 0 {
		o.H = d.H
	}
	return o
}

// LiveOffset is the shift of the box centre while h is being dragged by d.
// A box drawn around centre+LiveOffset with size+SizeDelta lines up with the
// committed result.
func (h Handle) LiveOffset(d Size) Size {
	a := axes[h]
	return Size{W: a.x * a.x * d.W / 2, H: a.y * a.y * d.H / 2}
}

// Resize applies the committed deltas of a drag d on h to r. The result is not
// canonicalized.
func (r Rect) Resize(h Handle, d Size) Rect {
	return Rect{
		Origin: r.Origin.Add(h.OriginDelta(d)),
		Size:   r.Size.Add(h.SizeDelta(d)),
	}
}

// Live returns the box shown while h is dragged by d: the original centre
// shifted by LiveOffset with the size grown by SizeDelta.
func (r Rect) Live(h Handle, d Size) Rect {
	size := r.Size.Add(h.SizeDelta(d))
	center := r.Center().Add(h.LiveOffset(d))
	return Rect{Origin: center.Add(size.Scale(-0.5)), Size: size}
}

// HandleAt returns the absolute position of h on r.
func (r Rect) HandleAt(h Handle) Point {
	p := h.Position(r.Size)
	return r.Origin.Add(Size{W: p.X, H: p.Y})
}

// HitHandle returns the first handle of frame whose hot-zone circle of the
// given radius contains p.
func HitHandle(frame Rect, p Point, radius float64) (Handle, bool) {
	for _, h := range Handles {
		if frame.HandleAt(h).Dist(p) <= radius {
			return h, true
		}
	}
	return 0, false
}
