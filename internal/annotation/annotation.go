// Package annotation defines the shapes a user places on the canvas and the
// list that owns them.
package annotation

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/google/uuid"

	"github.com/example/overmark/internal/geom"
)

// Kind selects how an annotation is drawn.
type Kind int

const (
	Rectangle Kind = iota
	Text
	Arrow
)

// Kinds lists every annotation kind in toolbar order.
var Kinds = []Kind{Rectangle, Arrow, Text}

func (k Kind) String() string {
	switch k {
	case Rectangle:
		return "rect"
	case Text:
		return "text"
	case Arrow:
		return "arrow"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts the names produced by Kind.String plus a few aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rect", "rectangle", "box":
		return Rectangle, nil
	case "text", "label":
		return Text, nil
	case "arrow":
		return Arrow, nil
	}
	return 0, fmt.Errorf("unknown annotation kind %q", s)
}

// Style is the stroke applied to an annotation.
type Style struct {
	Color     color.RGBA
	LineWidth float64
	FontSize  float64
}

// DefaultStyle mirrors the defaults of the drawing tools: a red 2px stroke.
func DefaultStyle() Style {
	return Style{Color: color.RGBA{255, 0, 0, 255}, LineWidth: 2, FontSize: 16}
}

// Annotation is one shape placed on the canvas.
type Annotation struct {
	ID     uuid.UUID
	Kind   Kind
	Frame  geom.Rect
	Style  Style
	Text   string
	Active bool
}

// New creates an annotation with a fresh identifier.
func New(kind Kind, frame geom.Rect, style Style) Annotation {
	return Annotation{ID: uuid.New(), Kind: kind, Frame: frame, Style: style}
}

func (a Annotation) String() string {
	return fmt.Sprintf("%s %s %v", a.Kind, a.ID.String()[:8], a.Frame)
}
