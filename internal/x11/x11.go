// Package x11 reads window manager state the game engines do not expose.
package x11

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/go-theft-auto/guitex"
)

// ErrNoExtents is returned when the window manager has not set
// _NET_FRAME_EXTENTS on the window.
var ErrNoExtents = errors.New("x11: window has no frame extents")

// Extents are the widths of the window manager frame around a client window.
type Extents struct {
	Left, Right, Top, Bottom int
}

// Conn is a connection to the X server.
type Conn struct {
	conn *xgb.Conn
	root xproto.Window

	frameExtents xproto.Atom
}

// Dial connects to the display named by $DISPLAY.
func Dial() (*Conn, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11: connect: %w", err)
	}
	setup := xproto.Setup(conn)
	c := &Conn{conn: conn, root: setup.DefaultScreen(conn).Root}

	name := "_NET_FRAME_EXTENTS"
	atom, err := xproto.InternAtom(conn, true, uint16(len(name)), name).Reply()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("x11: intern %s: %w", name, err)
	}
	c.frameExtents = atom.Atom
	return c, nil
}

// Close closes the connection.
func (c *Conn) Close() { c.conn.Close() }

// FrameExtents returns the decoration widths around win.
func (c *Conn) FrameExtents(win xproto.Window) (Extents, error) {
	if c.frameExtents == xproto.AtomNone {
		return Extents{}, ErrNoExtents
	}
	reply, err := xproto.GetProperty(c.conn, false, win, c.frameExtents, xproto.AtomCardinal, 0, 4).Reply()
	if err != nil {
		return Extents{}, fmt.Errorf("x11: get frame extents: %w", err)
	}
	return parseFrameExtents(reply.Format, reply.Value)
}

// PointerPosition returns the pointer position on the root window.
func (c *Conn) PointerPosition() (x, y int, err error) {
	reply, err := xproto.QueryPointer(c.conn, c.root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("x11: query pointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), nil
}

// parseFrameExtents decodes the CARDINAL[4] property value
// left, right, top, bottom.
func parseFrameExtents(format byte, value []byte) (Extents, error) {
	if format == 0 && len(value) == 0 {
		return Extents{}, ErrNoExtents
	}
	if format != 32 || len(value) < 16 {
		return Extents{}, fmt.Errorf("x11: malformed frame extents (format %d, %d bytes)", format, len(value))
	}
	return Extents{
		Left:   int(xgb.Get32(value[0:])),
		Right:  int(xgb.Get32(value[4:])),
		Top:    int(xgb.Get32(value[8:])),
		Bottom: int(xgb.Get32(value[12:])),
	}, nil
}

// Decoration reports a window's frame offset as a guitex.DecorationSource.
type Decoration struct {
	conn   *Conn
	window xproto.Window
	log    *slog.Logger
}

// NewDecoration returns a source for the given window id.
func NewDecoration(conn *Conn, window uint32, log *slog.Logger) *Decoration {
	if log == nil {
		log = guitex.Logger()
	}
	return &Decoration{conn: conn, window: xproto.Window(window), log: log}
}

// DecorationOffset implements guitex.DecorationSource. Failures are logged
// and report no decoration.
func (d *Decoration) DecorationOffset() guitex.Point {
	ext, err := d.conn.FrameExtents(d.window)
	if err != nil {
		d.log.Debug("no frame extents", "window", d.window, "err", err)
		return guitex.Point{}
	}
	return guitex.Point{X: ext.Left, Y: ext.Top}
}
