//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"sync"

	"golang.design/x/clipboard"
)

var initOnce = sync.OnceValue(func() error {
	if !hasDisplay() {
		return errNoDisplay
	}
	return clipboard.Init()
})

func writePNG(data []byte) error {
	if err := initOnce(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}
