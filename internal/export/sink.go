package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// Sink consumes an exported bitmap.
type Sink interface {
	Accept(img *image.RGBA) error
	String() string
}

// ClipboardWriter places an image on the system clipboard.
type ClipboardWriter interface {
	WriteImage(img image.Image) error
}

// ClipboardSink copies exports to the clipboard.
type ClipboardSink struct {
	Clipboard ClipboardWriter
}

func (s ClipboardSink) Accept(img *image.RGBA) error {
	if s.Clipboard == nil {
		return errors.New("no clipboard")
	}
	return s.Clipboard.WriteImage(img)
}

func (ClipboardSink) String() string { return "clipboard" }

// FileSink writes exports as PNG.
type FileSink struct {
	Path string
}

func (s FileSink) Accept(img *image.RGBA) error {
	if strings.TrimSpace(s.Path) == "" {
		return errors.New("no output path")
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (s FileSink) String() string { return s.Path }

// MultiSink delivers to every sink, stopping at the first failure.
type MultiSink []Sink

func (m MultiSink) Accept(img *image.RGBA) error {
	for _, s := range m {
		if err := s.Accept(img); err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}
	}
	return nil
}

func (m MultiSink) String() string {
	names := make([]string, len(m))
	for i, s := range m {
		names[i] = s.String()
	}
	return strings.Join(names, ",")
}
