package ggkit

import (
	"github.com/gogpu/gg"

	"github.com/go-theft-auto/guitex"
)

// Node is an element of a Scene. Nodes are positioned in window pixels.
type Node interface {
	Bounds() guitex.Rect
	draw(dc *gg.Context, st *Style, state nodeState)
}

type nodeState struct {
	hovered bool
	pressed bool
	focused bool
}

type clickable interface {
	Node
	click(sc *Scene)
}

type cursorNode interface {
	cursor() guitex.CursorKind
}

// Scene is the root of a window: nodes drawn in order over an optional
// background. A Scene is attached to at most one window at a time.
type Scene struct {
	Style      Style
	Background gg.RGBA

	nodes  []Node
	window *Window
	size   guitex.Size

	hovered Node
	pressed Node
	focused *TextField
	cursor  guitex.CursorKind
	popup   *popup
}

// NewScene creates a transparent scene with the default style.
func NewScene(nodes ...Node) *Scene {
	return &Scene{Style: DefaultStyle(), nodes: nodes}
}

// Add appends nodes. Call it on the GUI goroutine once the scene is shown.
func (sc *Scene) Add(nodes ...Node) {
	sc.nodes = append(sc.nodes, nodes...)
	sc.repaint()
}

// Nodes returns the scene's nodes in drawing order.
func (sc *Scene) Nodes() []Node { return sc.nodes }

// Size returns the size the scene was last laid out for.
func (sc *Scene) Size() guitex.Size { return sc.size }

// Focused returns the text field with keyboard focus, or nil.
func (sc *Scene) Focused() *TextField { return sc.focused }

func (sc *Scene) attach(w *Window) { sc.window = w }

func (sc *Scene) detach() {
	sc.closePopup()
	sc.window = nil
	sc.hovered, sc.pressed, sc.focused = nil, nil, nil
}

func (sc *Scene) layout(size guitex.Size) { sc.size = size }

func (sc *Scene) repaint() {
	if sc.window != nil && sc.window.showing {
		sc.window.host.Repaint()
	}
}

func (sc *Scene) draw(dc *gg.Context) {
	if sc.Background.A > 0 {
		dc.ClearWithColor(sc.Background)
	}
	for _, n := range sc.nodes {
		sc.drawNode(dc, n)
	}
	if sc.popup != nil && sc.popup.snapshot == nil {
		dc.Push()
		dc.Translate(float64(sc.popup.rect.X), float64(sc.popup.rect.Y))
		sc.popup.drawContent(dc)
		dc.Pop()
	}
}

func (sc *Scene) drawNode(dc *gg.Context, n Node) {
	state := nodeState{hovered: n == sc.hovered, pressed: n == sc.pressed}
	if tf, ok := n.(*TextField); ok {
		state.focused = tf == sc.focused
	}
	n.draw(dc, &sc.Style, state)
}

// nodeAt returns the topmost node containing p.
func (sc *Scene) nodeAt(p guitex.Point) Node {
	for i := len(sc.nodes) - 1; i >= 0; i-- {
		if sc.nodes[i].Bounds().Contains(p) {
			return sc.nodes[i]
		}
	}
	return nil
}

func (sc *Scene) handle(ev guitex.InputEvent) {
	switch e := ev.(type) {
	case *guitex.MouseEvent:
		sc.mouseMoved(guitex.Point{X: e.X, Y: e.Y})
	case *guitex.MouseButtonEvent:
		if e.Button != guitex.MouseButtonLeft {
			return
		}
		p := guitex.Point{X: e.X, Y: e.Y}
		if e.Pressed {
			sc.mousePressed(p)
		} else {
			sc.mouseReleased(p)
		}
	case *guitex.KeyEvent:
		if e.Pressed {
			sc.keyPressed(e.Key)
		}
	case *guitex.CharEvent:
		if sc.focused != nil {
			sc.focused.insert(e.Char)
			sc.repaint()
		}
	}
}

func (sc *Scene) mouseMoved(p guitex.Point) {
	if sc.popup != nil && sc.popup.rect.Contains(p) {
		sc.popup.hoverAt(p)
		sc.setCursor(guitex.CursorHand)
		return
	}

	n := sc.nodeAt(p)
	if n != sc.hovered {
		sc.hovered = n
		sc.repaint()
	}
	kind := guitex.CursorDefault
	if c, ok := n.(cursorNode); ok {
		kind = c.cursor()
	}
	sc.setCursor(kind)
}

func (sc *Scene) setCursor(kind guitex.CursorKind) {
	if kind == sc.cursor || sc.window == nil {
		return
	}
	sc.cursor = kind
	sc.window.host.SetCursor(kind)
}

func (sc *Scene) mousePressed(p guitex.Point) {
	if sc.popup != nil {
		if sc.popup.rect.Contains(p) {
			return
		}
		sc.closePopup()
	}

	n := sc.nodeAt(p)
	sc.pressed = n
	if tf, ok := n.(*TextField); ok {
		sc.focus(tf)
	} else {
		sc.blur()
	}
	sc.repaint()
}

func (sc *Scene) mouseReleased(p guitex.Point) {
	if sc.popup != nil && sc.popup.rect.Contains(p) {
		sc.popup.selectAt(p)
		return
	}

	pressed := sc.pressed
	sc.pressed = nil
	if pressed != nil && pressed == sc.nodeAt(p) {
		if c, ok := pressed.(clickable); ok {
			c.click(sc)
		}
	}
	sc.repaint()
}

func (sc *Scene) keyPressed(k guitex.Key) {
	if sc.popup != nil && k == guitex.KeyEscape {
		sc.closePopup()
		return
	}
	if sc.focused == nil {
		return
	}
	switch k {
	case guitex.KeyBackspace:
		sc.focused.backspace()
	case guitex.KeyEnter, guitex.KeyEscape:
		sc.blur()
	}
	sc.repaint()
}

func (sc *Scene) focus(tf *TextField) {
	sc.focused = tf
	if sc.window != nil {
		sc.window.host.RequestFocus()
	}
}

func (sc *Scene) blur() {
	if sc.focused == nil {
		return
	}
	tf := sc.focused
	sc.focused = nil
	if tf.OnSubmit != nil {
		tf.OnSubmit(tf.Text)
	}
}

func (sc *Scene) openPopup(m *Menu) {
	sc.closePopup()
	if sc.window == nil {
		return
	}
	sc.popup = newPopup(sc, m)
	sc.popup.show()
}

func (sc *Scene) closePopup() {
	if sc.popup == nil {
		return
	}
	p := sc.popup
	sc.popup = nil
	p.hide()
	sc.repaint()
}

// OpenMenu returns the menu whose popup is open, or nil.
func (sc *Scene) OpenMenu() *Menu {
	if sc.popup == nil {
		return nil
	}
	return sc.popup.menu
}
