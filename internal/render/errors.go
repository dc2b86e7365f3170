package render

import "errors"

// ErrEmptySurface is returned when asked to rasterize a zero-sized surface.
var ErrEmptySurface = errors.New("empty surface")
