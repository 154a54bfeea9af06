package guitex

import (
	"strconv"
	"sync"
	"sync/atomic"
)

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonCount
)

// Key represents a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyBackspace
	KeySpace
	KeyEnter
	KeyEscape
	KeyLeftShift
	KeyRightShift
	KeyLeftControl
	KeyRightControl
	KeyLeftAlt
	KeyRightAlt
	KeyLeftSuper
	KeyRightSuper
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyCount
)

var keyNames = map[Key]string{
	KeyNone:         "--",
	KeyTab:          "Tab",
	KeyLeft:         "Left",
	KeyRight:        "Right",
	KeyUp:           "Up",
	KeyDown:         "Down",
	KeyPageUp:       "PgUp",
	KeyPageDown:     "PgDn",
	KeyHome:         "Home",
	KeyEnd:          "End",
	KeyInsert:       "Ins",
	KeyDelete:       "Del",
	KeyBackspace:    "Backspace",
	KeySpace:        "Space",
	KeyEnter:        "Enter",
	KeyEscape:       "Esc",
	KeyLeftShift:    "LShift",
	KeyRightShift:   "RShift",
	KeyLeftControl:  "LCtrl",
	KeyRightControl: "RCtrl",
	KeyLeftAlt:      "LAlt",
	KeyRightAlt:     "RAlt",
	KeyLeftSuper:    "LSuper",
	KeyRightSuper:   "RSuper",
}

// KeyName returns a human-readable name for a key.
func KeyName(k Key) string {
	switch {
	case k >= Key0 && k <= Key9:
		return string(rune('0' + k - Key0))
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + k - KeyA))
	case k >= KeyF1 && k <= KeyF12:
		return "F" + strconv.Itoa(int(k-KeyF1)+1)
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "?"
}

// Modifiers is a set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModMeta
)

// Has reports whether every modifier in m2 is held.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }

// InputEvent is one of *MouseEvent, *MouseButtonEvent, *WheelEvent,
// *KeyEvent or *CharEvent. A consumed event is not seen by pass-through
// listeners.
type InputEvent interface {
	Consume()
	Consumed() bool
}

type eventState struct {
	consumed bool
}

func (e *eventState) Consume()       { e.consumed = true }
func (e *eventState) Consumed() bool { return e.consumed }

// MouseEvent reports pointer motion.
type MouseEvent struct {
	eventState
	X, Y      int
	DX, DY    int
	Modifiers Modifiers
}

// MouseButtonEvent reports a button press or release at X, Y.
type MouseButtonEvent struct {
	eventState
	X, Y      int
	Button    MouseButton
	Pressed   bool
	Modifiers Modifiers
}

// WheelEvent reports scrolling at X, Y.
type WheelEvent struct {
	eventState
	X, Y      int
	DX, DY    float64
	Modifiers Modifiers
}

// KeyEvent reports a key press, repeat or release.
type KeyEvent struct {
	eventState
	Key       Key
	Pressed   bool
	Repeat    bool
	Modifiers Modifiers
}

// CharEvent reports a typed character.
type CharEvent struct {
	eventState
	Char      rune
	Modifiers Modifiers
}

// RawInputListener receives host input events.
type RawInputListener interface {
	OnInput(ev InputEvent)
}

// InputListenerFunc adapts a function to RawInputListener.
type InputListenerFunc func(ev InputEvent)

// OnInput calls f(ev).
func (f InputListenerFunc) OnInput(ev InputEvent) { f(ev) }

// InputTarget is the embedded GUI as seen by the InputRouter.
type InputTarget interface {
	GUIExecutor
	// Scene returns the current scene peer, or nil.
	Scene() ScenePeer
	// PictureOffset returns the screen position of the GUI picture.
	PictureOffset() Point
	// IsCovered reports whether the GUI draws a visible pixel at x, y in
	// frame coordinates.
	IsCovered(x, y int) bool
	Focused() bool
	GrabFocus()
	LoseFocus()
}

type keySet [(KeyCount + 63) / 64]uint64

func (s *keySet) set(k Key, down bool) {
	if k <= KeyNone || k >= KeyCount {
		return
	}
	if down {
		s[k/64] |= 1 << (k % 64)
	} else {
		s[k/64] &^= 1 << (k % 64)
	}
}

func (s *keySet) has(k Key) bool {
	return k > KeyNone && k < KeyCount && s[k/64]&(1<<(k%64)) != 0
}

// InputRouter translates host input into scene input. Register it with the
// engine as a RawInputListener.
//
// Pointer coordinates are shifted by the picture offset. A press over a
// visible GUI pixel focuses the GUI and is consumed; a press over a
// transparent pixel removes focus and falls through to the game. Keys and
// characters reach the scene only while it is focused. Events nobody
// consumed go to the pass-through listener, if any.
type InputRouter struct {
	target InputTarget

	mu   sync.Mutex
	keys keySet

	passthrough atomic.Pointer[RawInputListener]
}

// NewInputRouter creates a router delivering to target.
func NewInputRouter(target InputTarget) *InputRouter {
	return &InputRouter{target: target}
}

// SetPassthrough sets the listener receiving every unconsumed event.
// Pass nil to remove it.
func (r *InputRouter) SetPassthrough(l RawInputListener) {
	if l == nil {
		r.passthrough.Store(nil)
		return
	}
	r.passthrough.Store(&l)
}

// Modifiers returns the modifiers currently held.
func (r *InputRouter) Modifiers() Modifiers {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modifiers()
}

func (r *InputRouter) modifiers() Modifiers {
	var m Modifiers
	if r.keys.has(KeyLeftShift) || r.keys.has(KeyRightShift) {
		m |= ModShift
	}
	if r.keys.has(KeyLeftControl) || r.keys.has(KeyRightControl) {
		m |= ModControl
	}
	if r.keys.has(KeyLeftAlt) || r.keys.has(KeyRightAlt) {
		m |= ModAlt
	}
	if r.keys.has(KeyLeftSuper) || r.keys.has(KeyRightSuper) {
		m |= ModMeta
	}
	return m
}

// KeyDown reports whether the router saw k pressed and not yet released.
func (r *InputRouter) KeyDown(k Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys.has(k)
}

// OnInput implements RawInputListener.
func (r *InputRouter) OnInput(ev InputEvent) {
	if !ev.Consumed() {
		r.route(ev)
	}
	if ev.Consumed() {
		return
	}
	if p := r.passthrough.Load(); p != nil {
		(*p).OnInput(ev)
	}
}

func (r *InputRouter) route(ev InputEvent) {
	switch e := ev.(type) {
	case *MouseEvent:
		local := r.local(e.X, e.Y)
		fwd := &MouseEvent{X: local.X, Y: local.Y, DX: e.DX, DY: e.DY, Modifiers: r.Modifiers()}
		r.dispatch(fwd)
		if r.target.IsCovered(local.X, local.Y) {
			e.Consume()
		}

	case *MouseButtonEvent:
		local := r.local(e.X, e.Y)
		covered := r.target.IsCovered(local.X, local.Y)
		if e.Pressed {
			if !covered {
				r.target.LoseFocus()
				return
			}
			r.target.GrabFocus()
		} else if !covered && !r.target.Focused() {
			return
		}
		r.dispatch(&MouseButtonEvent{
			X: local.X, Y: local.Y, Button: e.Button, Pressed: e.Pressed, Modifiers: r.Modifiers(),
		})
		if covered {
			e.Consume()
		}

	case *WheelEvent:
		local := r.local(e.X, e.Y)
		if !r.target.IsCovered(local.X, local.Y) {
			return
		}
		r.dispatch(&WheelEvent{X: local.X, Y: local.Y, DX: e.DX, DY: e.DY, Modifiers: r.Modifiers()})
		e.Consume()

	case *KeyEvent:
		r.mu.Lock()
		r.keys.set(e.Key, e.Pressed)
		mods := r.modifiers()
		r.mu.Unlock()
		if !r.target.Focused() {
			return
		}
		r.dispatch(&KeyEvent{Key: e.Key, Pressed: e.Pressed, Repeat: e.Repeat, Modifiers: mods})
		e.Consume()

	case *CharEvent:
		if !r.target.Focused() {
			return
		}
		r.dispatch(&CharEvent{Char: e.Char, Modifiers: r.Modifiers()})
		e.Consume()
	}
}

func (r *InputRouter) local(x, y int) Point {
	return Point{X: x, Y: y}.Sub(r.target.PictureOffset())
}

// dispatch hands ev to the scene on the GUI thread.
func (r *InputRouter) dispatch(ev InputEvent) {
	r.target.RunLater(func() {
		if scene := r.target.Scene(); scene != nil {
			scene.DispatchInput(ev)
		}
	})
}
