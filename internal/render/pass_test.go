package render

import (
	"fmt"
	"image/color"
	"math"
	"testing"

	"github.com/example/overmark/internal/annotation"
	"github.com/example/overmark/internal/geom"
	"github.com/example/overmark/internal/interaction"
)

// recorder logs each canvas call as a short string.
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...any) error {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
	return nil
}

func (r *recorder) StrokeRect(rect geom.Rect, s Stroke) error {
	if len(s.Dash) > 0 {
		return r.add("dashed %v", rect)
	}
	return r.add("rect %v", rect)
}

func (r *recorder) StrokeLine(from, to geom.Point, s Stroke) error {
	if len(s.Dash) > 0 {
		return r.add("dashed-line %v %v", from, to)
	}
	return r.add("line %v %v", from, to)
}

func (r *recorder) FillPolygon(pts []geom.Point, c color.Color) error {
	return r.add("poly %d", len(pts))
}

func (r *recorder) FillCircle(center geom.Point, radius float64, c color.Color) error {
	return r.add("circle %v %g", center, radius)
}

func (r *recorder) DrawText(s string, center geom.Point, size float64, c color.Color) error {
	return r.add("text %q %v", s, center)
}

func items() []annotation.Annotation {
	st := annotation.DefaultStyle()
	a := annotation.New(annotation.Rectangle, geom.R(0, 0, 10, 10), st)
	b := annotation.New(annotation.Rectangle, geom.R(20, 20, 10, 10), st)
	c := annotation.New(annotation.Text, geom.R(40, 40, 20, 10), st)
	c.Text = "hi"
	return []annotation.Annotation{a, b, c}
}

func indexOf(t *testing.T, calls []string, want string) int {
	t.Helper()
	for i, c := range calls {
		if c == want {
			return i
		}
	}
	t.Fatalf("call %q not found in %v", want, calls)
	return -1
}

func TestActiveDrawnAfterPassive(t *testing.T) {
	list := items()
	for active := range list {
		t.Run(fmt.Sprint(active), func(t *testing.T) {
			s := Scene{Items: list, Active: active, ActiveFrame: list[active].Frame, Overlays: true}
			var rec recorder
			if err := DefaultPass().Draw(&rec, s); err != nil {
				t.Fatal(err)
			}
			var activeCall string
			if list[active].Kind == annotation.Text {
				activeCall = fmt.Sprintf("text %q %v", list[active].Text, list[active].Frame.Center())
			} else {
				activeCall = fmt.Sprintf("rect %v", list[active].Frame)
			}
			at := indexOf(t, rec.calls, activeCall)
			if at != len(list)-1 {
				t.Fatalf("active drawn at %d, want %d: %v", at, len(list)-1, rec.calls)
			}
			if got := len(rec.calls) - at - 1; got != len(geom.Handles) {
				t.Fatalf("expected %d handle markers after the active annotation, got %d", len(geom.Handles), got)
			}
		})
	}
}

func TestOverlayOrder(t *testing.T) {
	list := items()[:2]
	s := Scene{
		Items:       list,
		Active:      1,
		ActiveFrame: geom.R(20, 20, 15, 15),
		Preview:     geom.R(50, 50, 5, 5),
		Creating:    true,
		Marker:      geom.Pt(120, 80),
		ShowMarker:  true,
		Overlays:    true,
	}
	var rec recorder
	if err := DefaultPass().Draw(&rec, s); err != nil {
		t.Fatal(err)
	}
	passive := indexOf(t, rec.calls, "rect (0,0)+10x10")
	preview := indexOf(t, rec.calls, "dashed (50,50)+5x5")
	active := indexOf(t, rec.calls, "rect (20,20)+15x15")
	handle := indexOf(t, rec.calls, "circle (35,35) 6")
	marker := indexOf(t, rec.calls, "circle (120,80) 25")
	if !(passive < preview && preview < active && active < handle && handle < marker) {
		t.Fatalf("unexpected order %v", rec.calls)
	}
}

func TestExportSceneHasNoOverlays(t *testing.T) {
	list := items()
	var rec recorder
	if err := DefaultPass().Draw(&rec, ExportScene(list)); err != nil {
		t.Fatal(err)
	}
	want := []string{"rect (0,0)+10x10", "rect (20,20)+10x10", `text "hi" (50,45)`}
	if fmt.Sprint(rec.calls) != fmt.Sprint(want) {
		t.Fatalf("calls = %v, want %v", rec.calls, want)
	}
}

func TestSceneFromView(t *testing.T) {
	c := interaction.New()
	c.Add(annotation.New(annotation.Arrow, geom.R(0, 0, 30, 40), annotation.DefaultStyle()))
	var rec recorder
	if err := DefaultPass().Draw(&rec, SceneFromView(c.View())); err != nil {
		t.Fatal(err)
	}
	if rec.calls[0] != "line (0,0) (30,40)" || rec.calls[1] != "poly 3" {
		t.Fatalf("unexpected arrow calls %v", rec.calls)
	}
}

func TestPreviewFollowsKind(t *testing.T) {
	tests := []struct {
		kind annotation.Kind
		want string
	}{
		{annotation.Rectangle, "dashed (10,10)+30x20"},
		{annotation.Text, "dashed (10,10)+30x20"},
		{annotation.Arrow, "dashed-line (10,10) (40,30)"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			c := interaction.New(interaction.WithKind(tt.kind))
			c.Handle(interaction.PointerDown{At: geom.Pt(10, 10)})
			c.Handle(interaction.PointerMove{At: geom.Pt(40, 30), Translation: geom.Sz(30, 20)})
			var rec recorder
			if err := DefaultPass().Draw(&rec, SceneFromView(c.View())); err != nil {
				t.Fatal(err)
			}
			if len(rec.calls) != 1 || rec.calls[0] != tt.want {
				t.Fatalf("calls = %v, want [%s]", rec.calls, tt.want)
			}
		})
	}
}

func TestArrowHead(t *testing.T) {
	head := ArrowHead(geom.Pt(0, 0), geom.Pt(100, 0))
	if head[0] != geom.Pt(100, 0) {
		t.Fatalf("tip = %v", head[0])
	}
	wantX := 100 - 10*math.Cos(math.Pi/6)
	wantY := 10 * math.Sin(math.Pi/6)
	for i, w := range head[1:] {
		if math.Abs(w.X-wantX) > 1e-9 || math.Abs(math.Abs(w.Y)-wantY) > 1e-9 {
			t.Errorf("wing %d = %v", i, w)
		}
		if d := w.Dist(head[0]); math.Abs(d-ArrowWing) > 1e-9 {
			t.Errorf("wing %d length %g", i, d)
		}
	}
	if head[1].Y == head[2].Y {
		t.Error("wings should sit either side of the shaft")
	}
}

func TestGGRendersPixels(t *testing.T) {
	cv, err := NewGG(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	defer cv.Close()
	a := annotation.New(annotation.Rectangle, geom.R(8, 8, 40, 40), annotation.DefaultStyle())
	if err := DefaultPass().Draw(cv, ExportScene([]annotation.Annotation{a})); err != nil {
		t.Fatal(err)
	}
	img := cv.Image()
	if img.RGBAAt(8, 28).A == 0 {
		t.Error("expected stroke on the left edge")
	}
	if img.RGBAAt(28, 28).A != 0 {
		t.Error("rectangle interior should stay empty")
	}
}

func TestNewGGRejectsEmpty(t *testing.T) {
	if _, err := NewGG(0, 10); err == nil {
		t.Fatal("expected error")
	}
}

func TestSceneEmpty(t *testing.T) {
	tests := []struct {
		name string
		s    Scene
		want bool
	}{
		{"nothing", Scene{Active: -1, Overlays: true}, true},
		{"items", Scene{Items: items(), Active: -1}, false},
		{"preview", Scene{Active: -1, Creating: true, Overlays: true}, false},
		{"marker", Scene{Active: -1, ShowMarker: true, Overlays: true}, false},
		{"marker without overlays", Scene{Active: -1, ShowMarker: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Empty(); got != tt.want {
				t.Fatalf("Empty() = %v, want %v", got, tt.want)
			}
		})
	}
}
