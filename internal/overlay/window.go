// Package overlay hosts the annotation controller in a shiny window.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/overmark/internal/annotation"
	"github.com/example/overmark/internal/export"
	"github.com/example/overmark/internal/geom"
	"github.com/example/overmark/internal/interaction"
	"github.com/example/overmark/internal/render"
)

// callbackEvent carries a deferred function onto the window's event loop.
type callbackEvent struct{ fn func() }

// Window is an annotation overlay over a single screenshot.
type Window struct {
	bg     *image.RGBA
	ctrl   *interaction.Controller
	bridge *export.Bridge
	signal export.Signal
	pass   render.Pass
	bar    *toolbar
	log    zerolog.Logger

	ctrlOpts   []interaction.Option
	exportOpts []export.Option
	onClose    func()

	message      string
	messageUntil time.Time

	sendMu sync.Mutex
	send   func(any)
}

// Option configures a Window.
type Option func(*Window)

// WithLogger sets the window logger. Child components log with the same
// writer and a component field.
func WithLogger(l zerolog.Logger) Option { return func(w *Window) { w.log = l } }

// WithController passes options through to the annotation controller.
func WithController(opts ...interaction.Option) Option {
	return func(w *Window) { w.ctrlOpts = append(w.ctrlOpts, opts...) }
}

// WithExport passes options through to the export bridge.
func WithExport(opts ...export.Option) Option {
	return func(w *Window) { w.exportOpts = append(w.exportOpts, opts...) }
}

// WithPass sets the render pass used on screen and for exports.
func WithPass(p render.Pass) Option { return func(w *Window) { w.pass = p } }

// OnClose registers fn to run after the window is gone.
func OnClose(fn func()) Option { return func(w *Window) { w.onClose = fn } }

// New prepares an overlay for bg. Exports are delivered to sink.
func New(bg image.Image, sink export.Sink, opts ...Option) (*Window, error) {
	if bg == nil || bg.Bounds().Empty() {
		return nil, render.ErrEmptySurface
	}
	w := &Window{
		bg:   toRGBA(bg),
		pass: render.DefaultPass(),
		log:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(w)
	}
	sched := interaction.SchedulerFunc(w.afterFunc)
	copts := append([]interaction.Option{
		interaction.WithLogger(w.log.With().Str("component", "interaction").Logger()),
		interaction.WithScheduler(sched),
	}, w.ctrlOpts...)
	w.ctrl = interaction.New(copts...)
	w.pass.HandleRadius = w.ctrl.Settings().HandleRadius

	eopts := append([]export.Option{
		export.WithLogger(w.log.With().Str("component", "export").Logger()),
		export.WithPass(w.pass),
	}, w.exportOpts...)
	w.bridge = export.New(w, sink, eopts...)
	w.bar = newToolbar(w.ctrl.SetKind, func() { w.save() })
	return w, nil
}

// Controller returns the annotation controller driving the window.
func (w *Window) Controller() *interaction.Controller { return w.ctrl }

// Bounds implements export.Surface.
func (w *Window) Bounds() image.Rectangle { return w.bg.Bounds() }

// Background implements export.Surface.
func (w *Window) Background() image.Image { return w.bg }

// Annotations implements export.Surface.
func (w *Window) Annotations() []annotation.Annotation {
	return w.ctrl.Annotations().Snapshot()
}

func (w *Window) setSender(fn func(any)) {
	w.sendMu.Lock()
	w.send = fn
	w.sendMu.Unlock()
}

// post queues fn on the event loop. Without a running loop fn runs inline.
func (w *Window) post(fn func()) {
	w.sendMu.Lock()
	send := w.send
	w.sendMu.Unlock()
	if send == nil {
		fn()
		return
	}
	send(callbackEvent{fn: fn})
}

// afterFunc schedules fn onto the event loop so controller state is only
// touched from one goroutine.
func (w *Window) afterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() { w.post(fn) })
	return func() { t.Stop() }
}

// RequestSave asks the event loop to export the current annotations.
func (w *Window) RequestSave() { w.post(func() { w.save() }) }

// save raises the export signal and lets the bridge observe it. The signal
// is cleared afterwards so the next request is a fresh edge.
func (w *Window) save() (*export.Result, error) {
	w.signal.Request()
	res, err := w.bridge.Observe(w.signal.Requested())
	w.signal.Reset()
	w.bridge.Observe(w.signal.Requested())
	switch {
	case err != nil:
		w.log.Error().Err(err).Msg("export failed")
		w.showMessage("Export failed")
	case res != nil:
		w.showMessage("Exported to " + res.Sink)
	}
	return res, err
}

func (w *Window) showMessage(msg string) {
	w.message = msg
	w.messageUntil = time.Now().Add(messageDuration)
	time.AfterFunc(messageDuration, func() { w.post(func() {}) })
}

func (w *Window) paintState(width, height int) paintState {
	v := w.ctrl.View()
	v.Items = w.ctrl.Annotations().Snapshot()
	return paintState{
		width:        width,
		height:       height,
		bg:           w.bg,
		scene:        render.SceneFromView(v),
		pass:         w.pass,
		buttons:      w.bar.views(w.ctrl.Kind()),
		message:      w.message,
		messageUntil: w.messageUntil,
	}
}

// Run opens the window and blocks until it is closed.
func (w *Window) Run() { driver.Main(w.Main) }

// Main is the shiny entry point.
func (w *Window) Main(s screen.Screen) {
	defer func() {
		if w.onClose != nil {
			w.onClose()
		}
	}()
	defer w.ctrl.Close()

	width := w.bg.Bounds().Dx()
	if bw := w.bar.width(); bw > width {
		width = bw
	}
	height := w.bg.Bounds().Dy() + toolbarHeight
	win, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "Overmark"})
	if err != nil {
		w.log.Error().Err(err).Msg("new window")
		return
	}
	defer win.Release()

	w.setSender(func(ev any) { win.Send(ev) })
	defer w.setSender(nil)

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			w.drawFrame(ctx, s, win, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	var ptr pointer
	for {
		switch e := win.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			win.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := w.paintState(width, height)
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case callbackEvent:
			e.fn()
			win.Send(paint.Event{})
		case mouse.Event:
			if w.handleMouse(&ptr, e) {
				win.Send(paint.Event{})
			}
		case key.Event:
			switch cmd, kind := commandFor(e); cmd {
			case cmdKind:
				w.ctrl.SetKind(kind)
				win.Send(paint.Event{})
			case cmdSave:
				w.save()
				win.Send(paint.Event{})
			case cmdQuit:
				return
			}
		case error:
			w.log.Error().Err(e).Msg("window event")
		}
	}
}

// handleMouse routes e to the toolbar or the controller and reports whether
// a repaint is needed.
func (w *Window) handleMouse(ptr *pointer, e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	if !ptr.down && p.Y < toolbarHeight {
		hover := w.bar.hit(p)
		changed := hover != w.bar.hover
		w.bar.hover = hover
		if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
			return w.bar.press(p) || changed
		}
		return changed
	}
	if w.bar.hover >= 0 && !ptr.down {
		w.bar.hover = -1
	}
	at := geom.Pt(float64(e.X)-float64(canvasOrigin.X), float64(e.Y)-float64(canvasOrigin.Y))
	ev, ok := ptr.translate(e, at)
	if !ok {
		return false
	}
	ch := w.ctrl.Handle(ev)
	if ch != interaction.NoChange && ch != interaction.Updated {
		w.log.Debug().Stringer("event", ev.(fmt.Stringer)).Stringer("change", ch).Msg("gesture")
	}
	return ch.Repaint()
}

func (w *Window) drawFrame(ctx context.Context, s screen.Screen, win screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		w.log.Error().Err(err).Msg("new buffer")
		return
	}
	defer b.Release()
	if err := composeFrame(ctx, b.RGBA(), st); err != nil {
		if !errors.Is(err, context.Canceled) {
			w.log.Error().Err(err).Msg("draw frame")
		}
		return
	}
	win.Upload(image.Point{}, b, b.Bounds())
	win.Publish()
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
