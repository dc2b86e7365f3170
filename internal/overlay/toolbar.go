package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/overmark/internal/annotation"
)

const (
	toolbarHeight = 24
	buttonPad     = 8
)

// ButtonState selects how a toolbar button is shaded.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// button is a toolbar entry. Kind buttons select the creation kind; the
// others run action.
type button struct {
	label  string
	kind   annotation.Kind
	isKind bool
	action func()
	rect   image.Rectangle
}

// buttonView is the immutable copy of a button handed to the paint goroutine.
type buttonView struct {
	label string
	rect  image.Rectangle
	state ButtonState
}

type toolbar struct {
	buttons []*button
	hover   int
}

func newToolbar(onKind func(annotation.Kind), onSave func()) *toolbar {
	t := &toolbar{hover: -1}
	for _, k := range annotation.Kinds {
		k := k
		t.buttons = append(t.buttons, &button{
			label:  kindLabel(k),
			kind:   k,
			isKind: true,
			action: func() { onKind(k) },
		})
	}
	t.buttons = append(t.buttons, &button{label: "S:Save", action: onSave})
	t.layout()
	return t
}

func kindLabel(k annotation.Kind) string {
	switch k {
	case annotation.Rectangle:
		return "R:Rect"
	case annotation.Arrow:
		return "A:Arrow"
	case annotation.Text:
		return "T:Text"
	}
	return k.String()
}

// layout places the buttons left to right, each as wide as its label.
func (t *toolbar) layout() {
	d := &font.Drawer{Face: basicfont.Face7x13}
	x := 0
	for _, b := range t.buttons {
		w := d.MeasureString(b.label).Ceil() + buttonPad
		b.rect = image.Rect(x, 0, x+w, toolbarHeight)
		x += w
	}
}

// width is the space the buttons need.
func (t *toolbar) width() int {
	if len(t.buttons) == 0 {
		return 0
	}
	return t.buttons[len(t.buttons)-1].rect.Max.X
}

// hit returns the index of the button under p, or -1.
func (t *toolbar) hit(p image.Point) int {
	for i, b := range t.buttons {
		if p.In(b.rect) {
			return i
		}
	}
	return -1
}

// press activates the button under p and reports whether there was one.
func (t *toolbar) press(p image.Point) bool {
	i := t.hit(p)
	if i < 0 {
		return false
	}
	if fn := t.buttons[i].action; fn != nil {
		fn()
	}
	return true
}

func (t *toolbar) views(kind annotation.Kind) []buttonView {
	out := make([]buttonView, len(t.buttons))
	for i, b := range t.buttons {
		st := StateDefault
		switch {
		case b.isKind && b.kind == kind:
			st = StatePressed
		case i == t.hover:
			st = StateHover
		}
		out[i] = buttonView{label: b.label, rect: b.rect, state: st}
	}
	return out
}

func drawToolbar(dst *image.RGBA, width int, views []buttonView) {
	draw.Draw(dst, image.Rect(0, 0, width, toolbarHeight), &image.Uniform{color.RGBA{220, 220, 220, 255}}, image.Point{}, draw.Src)
	for _, v := range views {
		c := color.RGBA{200, 200, 200, 255}
		switch v.state {
		case StateHover:
			c = color.RGBA{180, 180, 180, 255}
		case StatePressed:
			c = color.RGBA{150, 150, 150, 255}
		}
		draw.Draw(dst, v.rect, &image.Uniform{c}, image.Point{}, draw.Src)
		d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13,
			Dot: fixed.P(v.rect.Min.X+buttonPad/2, v.rect.Min.Y+16)}
		d.DrawString(v.label)
	}
}
