package export

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/overmark/internal/annotation"
	"github.com/example/overmark/internal/geom"
	"github.com/example/overmark/internal/render"
)

type captureSink struct {
	got []*image.RGBA
	err error
}

func (c *captureSink) Accept(img *image.RGBA) error {
	if c.err != nil {
		return c.err
	}
	c.got = append(c.got, img)
	return nil
}

func (c *captureSink) String() string { return "capture" }

type countingNotifier struct{ n int }

func (c *countingNotifier) Exported(Result) { c.n++ }

func surface() Static {
	a := annotation.New(annotation.Rectangle, geom.R(4, 4, 20, 20), annotation.DefaultStyle())
	return Static{Rect: image.Rect(0, 0, 32, 32), Items: []annotation.Annotation{a}}
}

func TestObserveIsEdgeTriggered(t *testing.T) {
	sink := &captureSink{}
	note := &countingNotifier{}
	b := New(surface(), sink, WithNotifier(note))
	var sig Signal

	if res, err := b.Observe(sig.Requested()); res != nil || err != nil {
		t.Fatalf("idle observe = %v, %v", res, err)
	}
	sig.Request()
	res, err := b.Observe(sig.Requested())
	if err != nil || res == nil {
		t.Fatalf("export = %v, %v", res, err)
	}
	if res, _ := b.Observe(sig.Requested()); res != nil {
		t.Fatal("held signal exported twice")
	}
	sig.Reset()
	b.Observe(sig.Requested())
	sig.Request()
	if res, _ := b.Observe(sig.Requested()); res == nil {
		t.Fatal("second edge did not export")
	}
	if len(sink.got) != 2 || note.n != 2 {
		t.Fatalf("sink calls = %d, notifications = %d", len(sink.got), note.n)
	}
}

func TestEmptySurfaceSkipsSink(t *testing.T) {
	sink := &captureSink{}
	b := New(Static{}, sink)
	_, err := b.Observe(true)
	if !errors.Is(err, ErrEmptySurface) || !IsEmpty(err) {
		t.Fatalf("err = %v", err)
	}
	if len(sink.got) != 0 {
		t.Fatal("sink called for empty surface")
	}
}

func TestSinkErrorWrapped(t *testing.T) {
	boom := errors.New("boom")
	b := New(surface(), &captureSink{err: boom})
	if _, err := b.Export(); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestRasterizeDrawsBackgroundAndAnnotations(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for i := range bg.Pix {
		bg.Pix[i] = 0xff
	}
	s := surface()
	s.Image = bg
	img, err := Rasterize(s, render.DefaultPass())
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(14, 14); got != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("background not copied: %v", got)
	}
	if got := img.RGBAAt(4, 14); got.G == 0xff {
		t.Errorf("rectangle edge not painted: %v", got)
	}
}

func TestShadowEnlargesExport(t *testing.T) {
	sink := &captureSink{}
	b := New(surface(), sink, WithShadow(render.Shadow{Blur: 2, Offset: image.Pt(4, 4), Opacity: 0.5}))
	res, err := b.Export()
	if err != nil {
		t.Fatal(err)
	}
	if res.Image.Bounds().Dx() <= 32 {
		t.Fatalf("bounds = %v", res.Image.Bounds())
	}
}

func TestFileSinkWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "shot.png")
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	if err := (FileSink{Path: path}).Accept(img); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds() != img.Bounds() {
		t.Fatalf("bounds = %v", got.Bounds())
	}
}

type fakeClipboard struct{ n int }

func (f *fakeClipboard) WriteImage(image.Image) error { f.n++; return nil }

func TestMultiSink(t *testing.T) {
	cb := &fakeClipboard{}
	boom := errors.New("disk full")
	m := MultiSink{ClipboardSink{Clipboard: cb}, &captureSink{err: boom}}
	if err := m.Accept(image.NewRGBA(image.Rect(0, 0, 1, 1))); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if cb.n != 1 {
		t.Fatal("clipboard not written")
	}
	if m.String() != "clipboard,capture" {
		t.Fatalf("name = %q", m.String())
	}
}
