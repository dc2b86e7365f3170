// Package interaction turns pointer gestures into annotation mutations.
//
// A Controller owns the annotation list and a single drag session. Every input
// goes through Handle; nothing is committed to the list until the pointer is
// released.
package interaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/overmark/internal/annotation"
	"github.com/example/overmark/internal/geom"
)

// Mode is the kind of drag in progress.
type Mode int

const (
	Idle Mode = iota
	Creating
	Moving
	Resizing
)

func (m Mode) String() string {
	switch m {
	case Creating:
		return "creating"
	case Moving:
		return "moving"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Session is the state between a pointer-down and its pointer-up.
type Session struct {
	Mode   Mode
	Handle geom.Handle
	Kind   annotation.Kind
	Anchor geom.Point
	Delta  geom.Size
}

// Marker is the transient location marker shown after a tap.
type Marker struct {
	At    geom.Point
	Until time.Time
	Gen   uint64
}

// Settings tunes gesture recognition.
type Settings struct {
	// HandleRadius is the radius of each handle's hot-zone.
	HandleRadius float64
	// MinDrag is the extent both axes must stay under for a creation to be
	// dropped as noise.
	MinDrag float64
	// TapJitter is the largest translation still treated as a click.
	TapJitter float64
	// MarkerLifetime is how long a tap marker stays visible.
	MarkerLifetime time.Duration
}

// DefaultSettings returns the gesture thresholds used by the overlay.
func DefaultSettings() Settings {
	return Settings{
		HandleRadius:   6,
		MinDrag:        5,
		TapJitter:      3,
		MarkerLifetime: 5 * time.Second,
	}
}

// Controller tracks drag sessions and applies committed edits to its list.
type Controller struct {
	list     annotation.List
	session  Session
	kind     annotation.Kind
	style    annotation.Style
	text     string
	settings Settings

	marker       Marker
	hasMarker    bool
	gen          uint64
	cancelMarker func()

	sched Scheduler
	now   func() time.Time
	log   zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for gesture diagnostics.
func WithLogger(l zerolog.Logger) Option { return func(c *Controller) { c.log = l } }

// WithScheduler sets how marker expiry callbacks are scheduled.
func WithScheduler(s Scheduler) Option { return func(c *Controller) { c.sched = s } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// WithSettings replaces the gesture thresholds.
func WithSettings(s Settings) Option { return func(c *Controller) { c.settings = s } }

// WithKind sets the kind produced by creation drags.
func WithKind(k annotation.Kind) Option { return func(c *Controller) { c.kind = k } }

// WithStyle sets the style applied to new annotations.
func WithStyle(s annotation.Style) Option { return func(c *Controller) { c.style = s } }

// WithText sets the label given to new text annotations.
func WithText(s string) Option { return func(c *Controller) { c.text = s } }

// New creates a Controller with an empty annotation list.
func New(opts ...Option) *Controller {
	c := &Controller{
		kind:     annotation.Rectangle,
		style:    annotation.DefaultStyle(),
		text:     "Text",
		settings: DefaultSettings(),
		sched:    TimerScheduler{},
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetKind selects the kind for the next creation drag. A drag already in
// progress keeps the kind it started with.
func (c *Controller) SetKind(k annotation.Kind) { c.kind = k }

// Kind returns the kind the next creation drag will produce.
func (c *Controller) Kind() annotation.Kind { return c.kind }

// SetStyle sets the style of future annotations.
func (c *Controller) SetStyle(s annotation.Style) { c.style = s }

// Style returns the style applied to new annotations.
func (c *Controller) Style() annotation.Style { return c.style }

// Settings returns the gesture thresholds in use.
func (c *Controller) Settings() Settings { return c.settings }

// SetText sets the label of future text annotations.
func (c *Controller) SetText(s string) { c.text = s }

// Select makes the annotation with id the active one.
func (c *Controller) Select(id uuid.UUID) bool { return c.list.Select(id) }

// Annotations exposes the owned list. Callers must not mutate it.
func (c *Controller) Annotations() *annotation.List { return &c.list }

// Session returns the current drag session.
func (c *Controller) Session() Session { return c.session }

// Add appends a committed annotation, bypassing gestures. It is used by
// headless rendering.
func (c *Controller) Add(a annotation.Annotation) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	c.list.Append(a)
}

// Handle is the single entry point for pointer input.
func (c *Controller) Handle(ev Event) Change {
	switch e := ev.(type) {
	case PointerDown:
		return c.down(e.At)
	case PointerMove:
		return c.move(e.Translation)
	case PointerUp:
		return c.up(e.Translation)
	case Tap:
		c.session = Session{}
		return c.tap(e.At)
	}
	return NoChange
}

func (c *Controller) down(p geom.Point) Change {
	if c.session.Mode != Idle {
		c.log.Debug().Stringer("mode", c.session.Mode).Msg("pointer down during open session; resetting")
	}
	c.session = Session{Mode: Creating, Kind: c.kind, Anchor: p}
	if a := c.list.Active(); a != nil {
		if h, ok := geom.HitHandle(a.Frame, p, c.settings.HandleRadius); ok {
			c.session.Mode = Resizing
			c.session.Handle = h
		} else if a.Frame.Contains(p) {
			c.session.Mode = Moving
		}
	}
	c.log.Debug().Stringer("mode", c.session.Mode).Stringer("at", p).Msg("drag start")
	return Started
}

func (c *Controller) move(t geom.Size) Change {
	if c.session.Mode == Idle {
		return NoChange
	}
	if c.session.Delta == t {
		return NoChange
	}
	c.session.Delta = t
	return Updated
}

func (c *Controller) up(t geom.Size) Change {
	s := c.session
	s.Delta = t
	c.session = Session{}
	switch s.Mode {
	case Creating:
		return c.commitCreate(s)
	case Moving:
		return c.commitEdit(s)
	case Resizing:
		return c.commitEdit(s)
	}
	return NoChange
}

func (c *Controller) commitCreate(s Session) Change {
	if s.Delta.Len() <= c.settings.TapJitter {
		return c.tap(s.Anchor)
	}
	frame := geom.Span(s.Anchor, s.Anchor.Add(s.Delta))
	if frame.Size.W < c.settings.MinDrag && frame.Size.H < c.settings.MinDrag {
		c.log.Debug().Stringer("frame", frame).Msg("creation below drag threshold discarded")
		return Discarded
	}
	if c.degenerate(s.Kind, frame) {
		c.log.Debug().Stringer("frame", frame).Msg("degenerate creation discarded")
		return Discarded
	}
	a := annotation.New(s.Kind, frame, c.style)
	if s.Kind == annotation.Text {
		a.Text = c.text
	}
	c.list.Append(a)
	c.log.Info().Stringer("kind", a.Kind).Stringer("frame", frame).Msg("annotation created")
	return Created
}

func (c *Controller) commitEdit(s Session) Change {
	a := c.list.Active()
	if a == nil {
		return NoChange
	}
	switch s.Mode {
	case Moving:
		if s.Delta.Zero() {
			return NoChange
		}
		a.Frame = a.Frame.Translate(s.Delta)
		c.log.Debug().Stringer("frame", a.Frame).Msg("annotation moved")
		return Moved
	case Resizing:
		next := a.Frame.Resize(s.Handle, s.Delta).Canon()
		if c.degenerate(a.Kind, next) {
			c.log.Debug().Stringer("handle", s.Handle).Stringer("frame", next).Msg("degenerate resize discarded")
			return Discarded
		}
		if next == a.Frame {
			return NoChange
		}
		a.Frame = next
		c.log.Debug().Stringer("handle", s.Handle).Stringer("frame", a.Frame).Msg("annotation resized")
		return Resized
	}
	return NoChange
}

// degenerate reports whether frame is too small to commit for kind. Arrows
// may be flat but not shorter than MinDrag; other kinds need both extents.
func (c *Controller) degenerate(kind annotation.Kind, frame geom.Rect) bool {
	if kind == annotation.Arrow {
		return frame.Size.Zero() || frame.Size.Len() < c.settings.MinDrag
	}
	return frame.Degenerate()
}

func (c *Controller) tap(p geom.Point) Change {
	items := c.list.Items()
	for i := len(items) - 1; i >= 0; i-- {
		if !items[i].Frame.Contains(p) {
			continue
		}
		if i == c.list.ActiveIndex() {
			return NoChange
		}
		c.list.Select(items[i].ID)
		c.log.Debug().Stringer("annotation", items[i]).Msg("annotation selected")
		return Selected
	}
	c.showMarker(p)
	return Marked
}

func (c *Controller) showMarker(p geom.Point) {
	if c.cancelMarker != nil {
		c.cancelMarker()
		c.cancelMarker = nil
	}
	c.gen++
	gen := c.gen
	life := c.settings.MarkerLifetime
	c.marker = Marker{At: p, Until: c.now().Add(life), Gen: gen}
	c.hasMarker = true
	c.cancelMarker = c.sched.AfterFunc(life, func() { c.expireMarker(gen) })
}

func (c *Controller) expireMarker(gen uint64) {
	if !c.hasMarker || c.marker.Gen != gen {
		c.log.Debug().Uint64("gen", gen).Msg("stale marker callback ignored")
		return
	}
	c.hasMarker = false
	c.cancelMarker = nil
}

// Marker returns the tap marker if it is still within its lifetime.
func (c *Controller) Marker() (Marker, bool) {
	if !c.hasMarker || !c.now().Before(c.marker.Until) {
		return Marker{}, false
	}
	return c.marker, true
}

// Close cancels any pending marker expiry and hides the marker.
func (c *Controller) Close() {
	if c.cancelMarker != nil {
		c.cancelMarker()
		c.cancelMarker = nil
	}
	c.gen++
	c.hasMarker = false
}

// View is a read-only picture of the controller for one paint.
type View struct {
	// Items aliases the annotation list in paint order.
	Items []annotation.Annotation
	// Active is the index of the annotation drawn with handles, or -1.
	Active int
	// ActiveFrame is the active annotation's frame including any live drag.
	ActiveFrame geom.Rect
	// Preview is the rubber-band rectangle of an in-progress creation.
	Preview  geom.Rect
	Creating bool
	// PreviewKind is the kind the in-progress creation will produce.
	PreviewKind annotation.Kind
	Marker      geom.Point
	ShowMarker  bool
}

// View returns the state a render pass needs. Live drag geometry is derived
// from the session; the committed list is not touched.
func (c *Controller) View() View {
	v := View{Items: c.list.Items(), Active: c.list.ActiveIndex()}
	if v.Active >= 0 {
		v.ActiveFrame = c.Live(v.Items[v.Active].Frame)
	}
	if c.session.Mode == Creating && !c.session.Delta.Zero() {
		v.Creating = true
		v.PreviewKind = c.session.Kind
		v.Preview = geom.Span(c.session.Anchor, c.session.Anchor.Add(c.session.Delta))
	}
	if m, ok := c.Marker(); ok {
		v.Marker = m.At
		v.ShowMarker = true
	}
	return v
}

// Live returns frame as it should be drawn under the current session.
func (c *Controller) Live(frame geom.Rect) geom.Rect {
	switch c.session.Mode {
	case Moving:
		return frame.Translate(c.session.Delta)
	case Resizing:
		return frame.Live(c.session.Handle, c.session.Delta)
	}
	return frame
}
