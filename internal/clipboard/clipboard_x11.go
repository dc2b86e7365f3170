//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var owner = sync.OnceValues(func() (*x11Owner, error) {
	if !hasDisplay() {
		return nil, errNoDisplay
	}
	return newX11Owner()
})

func writePNG(data []byte) error {
	o, err := owner()
	if err != nil {
		return err
	}
	return o.publish(data)
}

// x11Owner holds the CLIPBOARD selection and serves image/png to requestors
// from its own event loop.
type x11Owner struct {
	conn   *xgb.Conn
	window xproto.Window

	clipboard, targets, png, incr xproto.Atom
	maxChunk                      int

	mu   sync.RWMutex
	data []byte

	// transfers is only touched by serve.
	transfers map[transferKey]*incrTransfer
}

type transferKey struct {
	window   xproto.Window
	property xproto.Atom
}

func newX11Owner() (*x11Owner, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	win, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	err = xproto.CreateWindowChecked(conn, screen.RootDepth, win, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		conn.Close()
		return nil, err
	}
	o := &x11Owner{
		conn:      conn,
		window:    win,
		maxChunk:  maxPropertyChunk(xproto.Setup(conn).MaximumRequestLength),
		transfers: map[transferKey]*incrTransfer{},
	}
	atoms := map[string]*xproto.Atom{"CLIPBOARD": &o.clipboard, "TARGETS": &o.targets, "image/png": &o.png, "INCR": &o.incr}
	for name, dst := range atoms {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			xproto.DestroyWindow(conn, win)
			conn.Close()
			return nil, err
		}
		*dst = reply.Atom
	}
	go o.serve()
	return o, nil
}

func (o *x11Owner) publish(data []byte) error {
	o.mu.Lock()
	o.data = data
	o.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(o.conn, o.window, o.clipboard, xproto.TimeCurrentTime).Check()
}

func (o *x11Owner) serve() {
	for {
		ev, err := o.conn.WaitForEvent()
		if ev == nil && err == nil {
			return
		}
		if err != nil {
			continue
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.PropertyNotifyEvent:
			if e.State == xproto.PropertyDelete {
				o.continueIncr(transferKey{e.Window, e.Atom})
			}
		case xproto.SelectionClearEvent:
			o.mu.Lock()
			o.data = nil
			o.mu.Unlock()
		}
	}
}

func (o *x11Owner) answer(e xproto.SelectionRequestEvent) {
	prop := e.Property
	if prop == xproto.AtomNone {
		prop = e.Target
	}
	o.mu.RLock()
	data := o.data
	o.mu.RUnlock()

	var err error
	switch {
	case e.Target == o.targets:
		buf := make([]byte, 8)
		xgb.Put32(buf, uint32(o.targets))
		xgb.Put32(buf[4:], uint32(o.png))
		err = xproto.ChangePropertyChecked(o.conn, xproto.PropModeReplace, e.Requestor, prop, xproto.AtomAtom, 32, 2, buf).Check()
	case e.Target == o.png && len(data) > o.maxChunk:
		err = o.beginIncr(e.Requestor, prop, data)
	case e.Target == o.png && len(data) > 0:
		err = xproto.ChangePropertyChecked(o.conn, xproto.PropModeReplace, e.Requestor, prop, o.png, 8, uint32(len(data)), data).Check()
	default:
		prop = xproto.AtomNone
	}
	if err != nil {
		prop = xproto.AtomNone
	}
	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  prop,
	}
	xproto.SendEvent(o.conn, false, e.Requestor, 0, string(notify.Bytes()))
}

// beginIncr announces an INCR transfer of data. Chunks follow each time the
// requestor deletes the property.
func (o *x11Owner) beginIncr(win xproto.Window, prop xproto.Atom, data []byte) error {
	err := xproto.ChangeWindowAttributesChecked(o.conn, win, xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		return err
	}
	size := make([]byte, 4)
	xgb.Put32(size, uint32(len(data)))
	err = xproto.ChangePropertyChecked(o.conn, xproto.PropModeReplace, win, prop, o.incr, 32, 1, size).Check()
	if err != nil {
		return err
	}
	o.transfers[transferKey{win, prop}] = &incrTransfer{data: data, chunk: o.maxChunk}
	return nil
}

func (o *x11Owner) continueIncr(key transferKey) {
	t, ok := o.transfers[key]
	if !ok {
		return
	}
	chunk, last := t.next()
	err := xproto.ChangePropertyChecked(o.conn, xproto.PropModeReplace, key.window, key.property,
		o.png, 8, uint32(len(chunk)), chunk).Check()
	if last || err != nil {
		delete(o.transfers, key)
		xproto.ChangeWindowAttributes(o.conn, key.window, xproto.CwEventMask, []uint32{0})
	}
}
