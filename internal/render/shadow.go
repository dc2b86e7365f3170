package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Shadow describes a blurred drop shadow placed behind an exported image.
type Shadow struct {
	Blur    int
	Offset  image.Point
	Opacity float64
}

// DefaultShadow is the shadow used when exports enable one.
func DefaultShadow() Shadow {
	return Shadow{Blur: 24, Offset: image.Pt(16, 16), Opacity: 0.55}
}

// Enabled reports whether applying s changes anything.
func (s Shadow) Enabled() bool { return s.Opacity > 0 }

// Apply returns img composited over its own blurred silhouette. The result is
// grown to hold the shadow and always has a zero origin; the second return
// value is where img's top-left corner landed.
func (s Shadow) Apply(img *image.RGBA) (*image.RGBA, image.Point) {
	if img == nil || img.Bounds().Empty() || !s.Enabled() {
		return img, image.Point{}
	}
	alpha := min(s.Opacity, 1)
	blur := max(s.Blur, 0)

	src := img.Bounds()
	silhouette := src.Inset(-blur)
	cast := silhouette.Add(s.Offset)
	all := src.Union(cast)

	mask := image.NewAlpha(silhouette.Sub(silhouette.Min))
	for y := src.Min.Y; y < src.Max.Y; y++ {
		for x := src.Min.X; x < src.Max.X; x++ {
			if a := img.RGBAAt(x, y).A; a != 0 {
				mask.SetAlpha(x-silhouette.Min.X, y-silhouette.Min.Y, color.Alpha{A: a})
			}
		}
	}
	boxBlur(mask, blur)

	out := image.NewRGBA(all.Sub(all.Min))
	tint := image.NewUniform(color.NRGBA{A: uint8(alpha*255 + 0.5)})
	draw.DrawMask(out, mask.Bounds().Add(cast.Min.Sub(all.Min)), tint, image.Point{}, mask, image.Point{}, draw.Over)
	draw.Draw(out, src.Sub(all.Min), img, src.Min, draw.Over)
	return out, src.Min.Sub(all.Min)
}

// boxBlur blurs m in place with a (2r+1) box, rows first then columns.
func boxBlur(m *image.Alpha, r int) {
	if r <= 0 {
		return
	}
	w, h := m.Bounds().Dx(), m.Bounds().Dy()
	line := make([]uint8, max(w, h))
	for y := 0; y < h; y++ {
		blurLine(m.Pix[y*m.Stride:], 1, w, r, line)
	}
	for x := 0; x < w; x++ {
		blurLine(m.Pix[x:], m.Stride, h, r, line)
	}
}

// blurLine averages n samples spaced step apart in pix, clamping the window
// at both ends. scratch must hold n values.
func blurLine(pix []uint8, step, n, r int, scratch []uint8) {
	sum := make([]int, n+1)
	for i := 0; i < n; i++ {
		sum[i+1] = sum[i] + int(pix[i*step])
	}
	for i := 0; i < n; i++ {
		lo, hi := max(i-r, 0), min(i+r, n-1)
		scratch[i] = uint8((sum[hi+1] - sum[lo]) / (hi - lo + 1))
	}
	for i := 0; i < n; i++ {
		pix[i*step] = scratch[i]
	}
}
