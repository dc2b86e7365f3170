// Package export rasterizes the annotated surface and hands it to sinks when
// a save is requested.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/rs/zerolog"

	"github.com/example/overmark/internal/annotation"
	"github.com/example/overmark/internal/render"
)

// ErrEmptySurface is returned when the surface to export has no pixels.
var ErrEmptySurface = render.ErrEmptySurface

// Surface is the content an export captures.
type Surface interface {
	Bounds() image.Rectangle
	// Background may be nil for a transparent surface.
	Background() image.Image
	Annotations() []annotation.Annotation
}

// Static is a Surface over fixed values.
type Static struct {
	Rect  image.Rectangle
	Image image.Image
	Items []annotation.Annotation
}

func (s Static) Bounds() image.Rectangle              { return s.Rect }
func (s Static) Background() image.Image              { return s.Image }
func (s Static) Annotations() []annotation.Annotation { return s.Items }

// Result describes a completed export.
type Result struct {
	Image *image.RGBA
	Sink  string
}

// Notifier is told about successful exports.
type Notifier interface {
	Exported(Result)
}

// Bridge watches a save signal and exports on each false to true edge.
type Bridge struct {
	surface  Surface
	sink     Sink
	pass     render.Pass
	shadow   render.Shadow
	notifier Notifier
	log      zerolog.Logger
	armed    bool
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithShadow composites exports over a drop shadow.
func WithShadow(s render.Shadow) Option { return func(b *Bridge) { b.shadow = s } }

// WithNotifier reports successful exports to n.
func WithNotifier(n Notifier) Option { return func(b *Bridge) { b.notifier = n } }

// WithLogger sets the export logger.
func WithLogger(l zerolog.Logger) Option { return func(b *Bridge) { b.log = l } }

// WithPass overrides how annotations are painted.
func WithPass(p render.Pass) Option { return func(b *Bridge) { b.pass = p } }

// New returns a Bridge exporting surface into sink.
func New(surface Surface, sink Sink, opts ...Option) *Bridge {
	b := &Bridge{
		surface: surface,
		sink:    sink,
		pass:    render.DefaultPass(),
		log:     zerolog.Nop(),
		armed:   true,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Observe reads the current value of the save signal. It exports only when
// requested is true and the previous observation was false; every other call
// returns a nil Result. The caller resets its signal afterwards.
func (b *Bridge) Observe(requested bool) (*Result, error) {
	if !requested {
		b.armed = true
		return nil, nil
	}
	if !b.armed {
		return nil, nil
	}
	b.armed = false
	return b.Export()
}

// Export rasterizes and delivers the surface unconditionally.
func (b *Bridge) Export() (*Result, error) {
	img, err := Rasterize(b.surface, b.pass)
	if err != nil {
		b.log.Warn().Err(err).Msg("export failed")
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	if b.shadow.Enabled() {
		img, _ = b.shadow.Apply(img)
	}
	if err := b.sink.Accept(img); err != nil {
		b.log.Warn().Err(err).Str("sink", b.sink.String()).Msg("export failed")
		return nil, fmt.Errorf("%s: %w", b.sink, err)
	}
	res := &Result{Image: img, Sink: b.sink.String()}
	b.log.Info().Str("sink", res.Sink).Int("width", img.Bounds().Dx()).Int("height", img.Bounds().Dy()).Msg("exported")
	if b.notifier != nil {
		b.notifier.Exported(*res)
	}
	return res, nil
}

// Rasterize paints the background and every annotation of s, without any
// editing overlays, into a new zero-origin image.
func Rasterize(s Surface, p render.Pass) (*image.RGBA, error) {
	r := s.Bounds()
	if r.Empty() {
		return nil, ErrEmptySurface
	}
	base := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	if bg := s.Background(); bg != nil {
		draw.Draw(base, base.Bounds(), bg, r.Min, draw.Src)
	}
	cv, err := render.NewGGForImage(base)
	if err != nil {
		return nil, err
	}
	defer cv.Close()
	if err := p.Draw(cv, render.ExportScene(s.Annotations())); err != nil {
		return nil, err
	}
	return cv.Image(), nil
}

// IsEmpty reports whether err came from exporting an empty surface.
func IsEmpty(err error) bool { return errors.Is(err, ErrEmptySurface) }
