package interaction

import (
	"testing"
	"time"

	"github.com/example/overmark/internal/annotation"
	"github.com/example/overmark/internal/geom"
)

type fakeTimer struct {
	at       time.Time
	fn       func()
	canceled bool
}

// fakeClock drives both the controller's clock and its scheduler.
type fakeClock struct {
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) AfterFunc(d time.Duration, fn func()) func() {
	t := &fakeTimer{at: f.now.Add(d), fn: fn}
	f.timers = append(f.timers, t)
	return func() { t.canceled = true }
}

func (f *fakeClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
	for _, t := range f.timers {
		if !t.canceled && t.fn != nil && !t.at.After(f.now) {
			fn := t.fn
			t.fn = nil
			fn()
		}
	}
}

func newTestController(opts ...Option) (*Controller, *fakeClock) {
	clk := newFakeClock()
	opts = append([]Option{WithClock(clk.Now), WithScheduler(clk)}, opts...)
	return New(opts...), clk
}

func drag(c *Controller, from geom.Point, by geom.Size) Change {
	c.Handle(PointerDown{At: from})
	c.Handle(PointerMove{At: from.Add(by.Scale(0.5)), Translation: by.Scale(0.5)})
	c.Handle(PointerMove{At: from.Add(by), Translation: by})
	return c.Handle(PointerUp{At: from.Add(by), Translation: by})
}

func TestCreationThreshold(t *testing.T) {
	c, _ := newTestController()
	if got := drag(c, geom.Pt(100, 100), geom.Sz(2, 2)); got == Created {
		t.Fatalf("small drag created an annotation")
	}
	if n := c.Annotations().Len(); n != 0 {
		t.Fatalf("expected no annotations, got %d", n)
	}
	if got := drag(c, geom.Pt(100, 100), geom.Sz(4, 4)); got != Discarded {
		t.Fatalf("sub-threshold drag = %v, want discarded", got)
	}
	if got := drag(c, geom.Pt(100, 100), geom.Sz(50, 30)); got != Created {
		t.Fatalf("drag = %v, want created", got)
	}
	items := c.Annotations().Items()
	if len(items) != 1 {
		t.Fatalf("expected one annotation, got %d", len(items))
	}
	if items[0].Kind != annotation.Rectangle {
		t.Errorf("kind = %v", items[0].Kind)
	}
	if want := geom.R(100, 100, 50, 30); items[0].Frame != want {
		t.Errorf("frame = %v, want %v", items[0].Frame, want)
	}
	if c.Session().Mode != Idle {
		t.Errorf("session not reset")
	}
}

func TestCreationNormalizesNegativeDrag(t *testing.T) {
	c, _ := newTestController()
	drag(c, geom.Pt(100, 100), geom.Sz(-40, -20))
	items := c.Annotations().Items()
	if len(items) != 1 {
		t.Fatalf("expected one annotation, got %d", len(items))
	}
	if want := geom.R(60, 80, 40, 20); items[0].Frame != want {
		t.Fatalf("frame = %v, want %v", items[0].Frame, want)
	}
}

func TestCreationDegenerate(t *testing.T) {
	c, _ := newTestController()
	if got := drag(c, geom.Pt(10, 10), geom.Sz(40, 0)); got != Discarded {
		t.Fatalf("flat rectangle = %v, want discarded", got)
	}
	c.SetKind(annotation.Arrow)
	if got := drag(c, geom.Pt(10, 10), geom.Sz(40, 0)); got != Created {
		t.Fatalf("flat arrow = %v, want created", got)
	}
}

func TestCreationUsesSelectedKind(t *testing.T) {
	c, _ := newTestController(WithText("hello"))
	c.SetKind(annotation.Text)
	drag(c, geom.Pt(0, 0), geom.Sz(80, 20))
	a := c.Annotations().Active()
	if a == nil || a.Kind != annotation.Text || a.Text != "hello" {
		t.Fatalf("unexpected annotation %+v", a)
	}
}

func TestKindLatchedAtPointerDown(t *testing.T) {
	c, _ := newTestController()
	c.Handle(PointerDown{At: geom.Pt(0, 0)})
	c.SetKind(annotation.Arrow)
	c.Handle(PointerUp{At: geom.Pt(30, 30), Translation: geom.Sz(30, 30)})
	if a := c.Annotations().Active(); a.Kind != annotation.Rectangle {
		t.Fatalf("kind = %v, want rect", a.Kind)
	}
}

func seeded(t *testing.T) *Controller {
	t.Helper()
	c, _ := newTestController()
	c.Add(annotation.New(annotation.Rectangle, geom.R(10, 10, 50, 40), annotation.DefaultStyle()))
	return c
}

func TestMoveWhole(t *testing.T) {
	c := seeded(t)
	if got := drag(c, geom.Pt(30, 30), geom.Sz(15, -5)); got != Moved {
		t.Fatalf("change = %v, want moved", got)
	}
	if want := geom.R(25, 5, 50, 40); c.Annotations().Active().Frame != want {
		t.Fatalf("frame = %v, want %v", c.Annotations().Active().Frame, want)
	}
	if c.Annotations().Len() != 1 {
		t.Fatal("move created an annotation")
	}
}

func TestResizeViaHandle(t *testing.T) {
	cases := []struct {
		name string
		at   geom.Point
		by   geom.Size
		want geom.Rect
	}{
		{"bottom right", geom.Pt(60, 50), geom.Sz(20, 10), geom.R(10, 10, 70, 50)},
		{"top left", geom.Pt(10, 10), geom.Sz(5, 5), geom.R(15, 15, 45, 35)},
		{"top", geom.Pt(35, 10), geom.Sz(99, -10), geom.R(10, 0, 50, 50)},
		{"right near hot-zone edge", geom.Pt(64, 30), geom.Sz(10, 0), geom.R(10, 10, 60, 40)},
		{"flip past opposite edge", geom.Pt(60, 50), geom.Sz(-70, 0), geom.R(-10, 10, 20, 40)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := seeded(t)
			if got := drag(c, tc.at, tc.by); got != Resized {
				t.Fatalf("change = %v, want resized", got)
			}
			if got := c.Annotations().Active().Frame; got != tc.want {
				t.Fatalf("frame = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResizeToZeroDiscarded(t *testing.T) {
	c := seeded(t)
	if got := drag(c, geom.Pt(60, 30), geom.Sz(-50, 0)); got != Discarded {
		t.Fatalf("change = %v, want discarded", got)
	}
	if want := geom.R(10, 10, 50, 40); c.Annotations().Active().Frame != want {
		t.Fatalf("frame changed to %v", c.Annotations().Active().Frame)
	}
}

func TestArrowResize(t *testing.T) {
	tests := []struct {
		name string
		by   geom.Size
		want Change
		rect geom.Rect
	}{
		{"collapse to a point", geom.Sz(-40, 0), Discarded, geom.R(10, 10, 40, 0)},
		{"shorter than min drag", geom.Sz(-37, 0), Discarded, geom.R(10, 10, 40, 0)},
		{"flat stays flat", geom.Sz(20, 0), Resized, geom.R(10, 10, 60, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(WithKind(annotation.Arrow))
			if got := drag(c, geom.Pt(10, 10), geom.Sz(40, 0)); got != Created {
				t.Fatalf("create = %v", got)
			}
			if got := drag(c, geom.Pt(50, 10), tt.by); got != tt.want {
				t.Fatalf("change = %v, want %v", got, tt.want)
			}
			if got := c.Annotations().Active().Frame; got != tt.rect {
				t.Fatalf("frame = %v, want %v", got, tt.rect)
			}
		})
	}
}

func TestLiveViewDuringDrag(t *testing.T) {
	c := seeded(t)
	c.Handle(PointerDown{At: geom.Pt(60, 50)})
	c.Handle(PointerMove{At: geom.Pt(80, 60), Translation: geom.Sz(20, 10)})
	v := c.View()
	if want := geom.R(10, 10, 70, 50); v.ActiveFrame != want {
		t.Fatalf("live frame = %v, want %v", v.ActiveFrame, want)
	}
	if got := c.Annotations().Active().Frame; got != geom.R(10, 10, 50, 40) {
		t.Fatalf("list mutated before commit: %v", got)
	}
	c.Handle(PointerUp{At: geom.Pt(80, 60), Translation: geom.Sz(20, 10)})
	if got := c.View().ActiveFrame; got != geom.R(10, 10, 70, 50) {
		t.Fatalf("committed frame = %v", got)
	}
}

func TestCreationPreview(t *testing.T) {
	c, _ := newTestController()
	c.Handle(PointerDown{At: geom.Pt(100, 100)})
	if c.View().Creating {
		t.Fatal("preview shown before any movement")
	}
	c.Handle(PointerMove{At: geom.Pt(70, 130), Translation: geom.Sz(-30, 30)})
	v := c.View()
	if !v.Creating || v.Preview != geom.R(70, 100, 30, 30) {
		t.Fatalf("preview = %v (%v)", v.Preview, v.Creating)
	}
}

func TestEditsOnEmptyListAreNoOps(t *testing.T) {
	c, _ := newTestController()
	if got := c.commitEdit(Session{Mode: Moving, Delta: geom.Sz(5, 5)}); got != NoChange {
		t.Fatalf("change = %v", got)
	}
	if got := c.Handle(PointerMove{Translation: geom.Sz(1, 1)}); got != NoChange {
		t.Fatalf("move without session = %v", got)
	}
	if got := c.Handle(PointerUp{Translation: geom.Sz(1, 1)}); got != NoChange {
		t.Fatalf("up without session = %v", got)
	}
}

func TestTapMarkerLifetime(t *testing.T) {
	c, clk := newTestController()
	c.Handle(PointerDown{At: geom.Pt(120, 80)})
	if got := c.Handle(PointerUp{At: geom.Pt(120, 80)}); got != Marked {
		t.Fatalf("change = %v, want marked", got)
	}
	if c.Annotations().Len() != 0 {
		t.Fatal("tap created an annotation")
	}
	clk.Advance(time.Second)
	m, ok := c.Marker()
	if !ok || m.At != geom.Pt(120, 80) {
		t.Fatalf("marker at t+1s = %v, %v", m, ok)
	}
	clk.Advance(5 * time.Second)
	if _, ok := c.Marker(); ok {
		t.Fatal("marker still visible at t+6s")
	}
	if c.hasMarker {
		t.Fatal("expiry callback did not clear the marker")
	}
}

func TestTapWithinJitter(t *testing.T) {
	c, _ := newTestController()
	if got := drag(c, geom.Pt(10, 10), geom.Sz(2, -1)); got != Marked {
		t.Fatalf("change = %v, want marked", got)
	}
}

func TestSupersededMarkerIgnoresStaleCallback(t *testing.T) {
	c, clk := newTestController()
	c.Handle(Tap{At: geom.Pt(1, 1)})
	first := clk.timers[0]
	clk.Advance(3 * time.Second)
	c.Handle(Tap{At: geom.Pt(2, 2)})
	if !first.canceled {
		t.Fatal("first expiry not cancelled")
	}
	// A callback that raced its cancellation must not clear the new marker.
	c.expireMarker(1)
	clk.Advance(3 * time.Second)
	m, ok := c.Marker()
	if !ok || m.At != geom.Pt(2, 2) {
		t.Fatalf("marker = %v, %v", m, ok)
	}
	clk.Advance(3 * time.Second)
	if _, ok := c.Marker(); ok {
		t.Fatal("second marker outlived its lifetime")
	}
}

func TestTapSelectsAnnotation(t *testing.T) {
	c, _ := newTestController()
	first := annotation.New(annotation.Rectangle, geom.R(0, 0, 20, 20), annotation.DefaultStyle())
	c.Add(first)
	c.Add(annotation.New(annotation.Rectangle, geom.R(100, 100, 20, 20), annotation.DefaultStyle()))
	if got := c.Handle(Tap{At: geom.Pt(10, 10)}); got != Selected {
		t.Fatalf("change = %v, want selected", got)
	}
	if c.Annotations().Active().ID != first.ID {
		t.Fatal("tapped annotation not active")
	}
	if _, ok := c.Marker(); ok {
		t.Fatal("selection should not show a marker")
	}
}

func TestCloseCancelsMarker(t *testing.T) {
	c, clk := newTestController()
	c.Handle(Tap{At: geom.Pt(5, 5)})
	c.Close()
	if !clk.timers[0].canceled {
		t.Fatal("pending expiry not cancelled")
	}
	if _, ok := c.Marker(); ok {
		t.Fatal("marker visible after close")
	}
}

func TestChangeString(t *testing.T) {
	if Created.String() != "created" || Change(42).String() != "Change(42)" {
		t.Fatalf("unexpected names %q %q", Created, Change(42))
	}
	if NoChange.Repaint() || !Updated.Repaint() {
		t.Fatal("repaint flags wrong")
	}
}
