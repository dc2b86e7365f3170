// Package clipboard publishes exported images on the system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
)

var errNoDisplay = errors.New("clipboard requires DISPLAY or WAYLAND_DISPLAY")

// System is the platform clipboard. The zero value is ready to use.
type System struct{}

// WriteImage encodes img as PNG and makes it the clipboard contents.
func (System) WriteImage(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return errors.New("clipboard: empty image")
	}
	data, err := encode(img)
	if err != nil {
		return err
	}
	return writePNG(data)
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
