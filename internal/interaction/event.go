package interaction

import (
	"fmt"

	"github.com/example/overmark/internal/geom"
)

// Event is a pointer input delivered to Controller.Handle.
type Event interface {
	event()
}

// PointerDown starts a gesture at At.
type PointerDown struct {
	At geom.Point
}

// PointerMove reports the pointer at At while a button is held. Translation is
// cumulative from the gesture's start.
type PointerMove struct {
	At          geom.Point
	Translation geom.Size
}

// PointerUp ends a gesture. Translation is cumulative from the gesture's start.
type PointerUp struct {
	At          geom.Point
	Translation geom.Size
}

// Tap is a click that the host already recognised as such.
type Tap struct {
	At geom.Point
}

func (PointerDown) event() {}
func (PointerMove) event() {}
func (PointerUp) event()   {}
func (Tap) event()         {}

func (e PointerDown) String() string { return fmt.Sprintf("down %v", e.At) }
func (e PointerMove) String() string { return fmt.Sprintf("move %v by %v", e.At, e.Translation) }
func (e PointerUp) String() string   { return fmt.Sprintf("up %v by %v", e.At, e.Translation) }
func (e Tap) String() string         { return fmt.Sprintf("tap %v", e.At) }

// Change describes what an event did to the controller state.
type Change int

const (
	NoChange Change = iota
	// Started means a drag session began.
	Started
	// Updated means live drag geometry changed.
	Updated
	Created
	Moved
	Resized
	// Discarded means a drag ended without a committed mutation.
	Discarded
	// Marked means a tap marker is now shown.
	Marked
	// Selected means a different annotation became active.
	Selected
)

var changeNames = [...]string{"none", "started", "updated", "created", "moved", "resized", "discarded", "marked", "selected"}

func (c Change) String() string {
	if c < 0 || int(c) >= len(changeNames) {
		return fmt.Sprintf("Change(%d)", int(c))
	}
	return changeNames[c]
}

// Repaint reports whether the host should redraw after this change.
func (c Change) Repaint() bool { return c != NoChange }
