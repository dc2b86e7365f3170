package overlay

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/overmark/internal/render"
)

// frameDropThreshold is how many consecutive in-flight frames may be
// cancelled in favour of a newer one before a frame is allowed to finish.
const frameDropThreshold = 10

const messageDuration = 2 * time.Second

var (
	checkerLight = color.RGBA{220, 220, 220, 255}
	checkerDark  = color.RGBA{192, 192, 192, 255}
)

var messageFace = sync.OnceValues(func() (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingFull})
})

// paintState is a copy of everything drawFrame reads. The paint goroutine
// never touches controller state directly.
type paintState struct {
	width, height int
	bg            *image.RGBA
	scene         render.Scene
	pass          render.Pass
	buttons       []buttonView
	message       string
	messageUntil  time.Time
}

// canvasOrigin is where the screenshot's top-left lands in the window.
var canvasOrigin = image.Pt(0, toolbarHeight)

// composeFrame paints st into dst. It stops early when ctx is cancelled.
func composeFrame(ctx context.Context, dst *image.RGBA, st paintState) error {
	drawBackdrop(dst)
	if err := ctx.Err(); err != nil {
		return err
	}

	if st.bg != nil && !st.bg.Bounds().Empty() {
		b := st.bg.Bounds()
		r := b.Sub(b.Min).Add(canvasOrigin)
		draw.Draw(dst, r, st.bg, b.Min, draw.Src)
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := drawScene(ctx, dst, r, st); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	drawToolbar(dst, st.width, st.buttons)

	if st.message != "" && time.Now().Before(st.messageUntil) {
		if err := drawMessage(dst, st.width, st.height, st.message); err != nil {
			return err
		}
	}
	return ctx.Err()
}

// drawScene renders the annotations on a transparent layer the size of the
// background and composites it over dst at r.
func drawScene(ctx context.Context, dst *image.RGBA, r image.Rectangle, st paintState) error {
	if st.scene.Empty() {
		return nil
	}
	c, err := render.NewGG(r.Dx(), r.Dy())
	if err != nil {
		return err
	}
	defer c.Close()
	if err := st.pass.Draw(c, st.scene); err != nil {
		return fmt.Errorf("draw scene: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	img := c.Image()
	draw.Draw(dst, r, img, img.Bounds().Min, draw.Over)
	return nil
}

// drawMessage draws msg in a box centred on the window.
func drawMessage(dst *image.RGBA, width, height int, msg string) error {
	face, err := messageFace()
	if err != nil {
		return fmt.Errorf("message face: %w", err)
	}
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: face}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()
	px := (width - wmsg) / 2
	py := (height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
	drawRect(dst, rect, color.Black, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
	return nil
}

func drawRect(dst *image.RGBA, r image.Rectangle, c color.Color, w int) {
	u := &image.Uniform{c}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

var (
	backdropMu    sync.Mutex
	backdropCache *image.RGBA
)

// drawBackdrop fills dst with a cached checkerboard.
func drawBackdrop(dst *image.RGBA) {
	b := dst.Bounds()
	backdropMu.Lock()
	defer backdropMu.Unlock()
	if backdropCache == nil || backdropCache.Bounds() != b {
		backdropCache = image.NewRGBA(b)
		drawCheckerboard(backdropCache, b, 8, checkerLight, checkerDark)
	}
	draw.Draw(dst, b, backdropCache, b.Min, draw.Src)
}
