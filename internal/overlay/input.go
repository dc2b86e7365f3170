package overlay

import (
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/overmark/internal/annotation"
	"github.com/example/overmark/internal/geom"
	"github.com/example/overmark/internal/interaction"
)

// pointer turns shiny mouse events into controller gestures. Translations are
// measured from the press position.
type pointer struct {
	down  bool
	start geom.Point
}

func (p *pointer) translate(e mouse.Event, at geom.Point) (interaction.Event, bool) {
	switch {
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		p.down = true
		p.start = at
		return interaction.PointerDown{At: at}, true
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		if !p.down {
			return nil, false
		}
		p.down = false
		return interaction.PointerUp{At: at, Translation: at.Sub(p.start)}, true
	case e.Direction == mouse.DirNone && p.down:
		return interaction.PointerMove{At: at, Translation: at.Sub(p.start)}, true
	}
	return nil, false
}

type command int

const (
	cmdNone command = iota
	cmdKind
	cmdSave
	cmdQuit
)

// commandFor maps a key press to a window command. The kind is only
// meaningful for cmdKind.
func commandFor(e key.Event) (command, annotation.Kind) {
	if e.Direction != key.DirPress {
		return cmdNone, 0
	}
	if e.Modifiers&key.ModControl != 0 {
		switch e.Rune {
		case 'c', 's':
			return cmdSave, 0
		case 'q', 'w':
			return cmdQuit, 0
		}
		return cmdNone, 0
	}
	if e.Code == key.CodeEscape {
		return cmdQuit, 0
	}
	switch e.Rune {
	case 'r':
		return cmdKind, annotation.Rectangle
	case 'a':
		return cmdKind, annotation.Arrow
	case 't':
		return cmdKind, annotation.Text
	case 's':
		return cmdSave, 0
	case 'q':
		return cmdQuit, 0
	}
	return cmdNone, 0
}
