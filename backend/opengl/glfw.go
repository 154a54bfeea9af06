package opengl

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/guitex"
)

// GLFWInputAdapter turns GLFW window callbacks into guitex input events and
// delivers them to the registered listeners. Callbacks run on the main
// thread during glfw.PollEvents.
type GLFWInputAdapter struct {
	guitex.InputBroadcaster

	window       *glfw.Window
	lastX, lastY int
}

// NewGLFWInputAdapter installs input callbacks on window.
func NewGLFWInputAdapter(window *glfw.Window) *GLFWInputAdapter {
	adapter := &GLFWInputAdapter{window: window}
	x, y := window.GetCursorPos()
	adapter.lastX, adapter.lastY = int(x), int(y)

	// Setup callbacks
	window.SetKeyCallback(adapter.keyCallback)
	window.SetCharCallback(adapter.charCallback)
	window.SetMouseButtonCallback(adapter.mouseButtonCallback)
	window.SetScrollCallback(adapter.scrollCallback)
	window.SetCursorPosCallback(adapter.cursorPosCallback)

	return adapter
}

func (a *GLFWInputAdapter) cursor() (int, int) {
	x, y := a.window.GetCursorPos()
	return int(math.Floor(x)), int(math.Floor(y))
}

func (a *GLFWInputAdapter) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	guiKey := glfwKeyToGUIKey(key)
	if guiKey == guitex.KeyNone {
		return
	}
	a.Dispatch(&guitex.KeyEvent{
		Key:       guiKey,
		Pressed:   action != glfw.Release,
		Repeat:    action == glfw.Repeat,
		Modifiers: glfwModifiers(mods),
	})
}

func (a *GLFWInputAdapter) charCallback(w *glfw.Window, char rune) {
	a.Dispatch(&guitex.CharEvent{Char: char, Modifiers: a.modifiers()})
}

func (a *GLFWInputAdapter) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	guiButton := glfwMouseButtonToGUI(button)
	if guiButton < 0 {
		return
	}
	x, y := a.cursor()
	a.Dispatch(&guitex.MouseButtonEvent{
		X:         x,
		Y:         y,
		Button:    guiButton,
		Pressed:   action == glfw.Press,
		Modifiers: glfwModifiers(mods),
	})
}

func (a *GLFWInputAdapter) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	x, y := a.cursor()
	a.Dispatch(&guitex.WheelEvent{X: x, Y: y, DX: xoff, DY: yoff, Modifiers: a.modifiers()})
}

func (a *GLFWInputAdapter) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	x, y := int(math.Floor(xpos)), int(math.Floor(ypos))
	dx, dy := x-a.lastX, y-a.lastY
	a.lastX, a.lastY = x, y
	a.Dispatch(&guitex.MouseEvent{X: x, Y: y, DX: dx, DY: dy, Modifiers: a.modifiers()})
}

// modifiers polls the held modifier keys for callbacks that do not carry them.
func (a *GLFWInputAdapter) modifiers() guitex.Modifiers {
	held := func(keys ...glfw.Key) bool {
		for _, k := range keys {
			if a.window.GetKey(k) == glfw.Press {
				return true
			}
		}
		return false
	}
	var m guitex.Modifiers
	if held(glfw.KeyLeftShift, glfw.KeyRightShift) {
		m |= guitex.ModShift
	}
	if held(glfw.KeyLeftControl, glfw.KeyRightControl) {
		m |= guitex.ModControl
	}
	if held(glfw.KeyLeftAlt, glfw.KeyRightAlt) {
		m |= guitex.ModAlt
	}
	if held(glfw.KeyLeftSuper, glfw.KeyRightSuper) {
		m |= guitex.ModMeta
	}
	return m
}

func glfwModifiers(mods glfw.ModifierKey) guitex.Modifiers {
	var m guitex.Modifiers
	if mods&glfw.ModShift != 0 {
		m |= guitex.ModShift
	}
	if mods&glfw.ModControl != 0 {
		m |= guitex.ModControl
	}
	if mods&glfw.ModAlt != 0 {
		m |= guitex.ModAlt
	}
	if mods&glfw.ModSuper != 0 {
		m |= guitex.ModMeta
	}
	return m
}

// glfwKeyToGUIKey maps GLFW keys to guitex keys.
func glfwKeyToGUIKey(key glfw.Key) guitex.Key {
	switch {
	case key >= glfw.Key0 && key <= glfw.Key9:
		return guitex.Key0 + guitex.Key(key-glfw.Key0)
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return guitex.KeyA + guitex.Key(key-glfw.KeyA)
	case key >= glfw.KeyF1 && key <= glfw.KeyF12:
		return guitex.KeyF1 + guitex.Key(key-glfw.KeyF1)
	}

	switch key {
	case glfw.KeyTab:
		return guitex.KeyTab
	case glfw.KeyLeft:
		return guitex.KeyLeft
	case glfw.KeyRight:
		return guitex.KeyRight
	case glfw.KeyUp:
		return guitex.KeyUp
	case glfw.KeyDown:
		return guitex.KeyDown
	case glfw.KeyPageUp:
		return guitex.KeyPageUp
	case glfw.KeyPageDown:
		return guitex.KeyPageDown
	case glfw.KeyHome:
		return guitex.KeyHome
	case glfw.KeyEnd:
		return guitex.KeyEnd
	case glfw.KeyInsert:
		return guitex.KeyInsert
	case glfw.KeyDelete:
		return guitex.KeyDelete
	case glfw.KeyBackspace:
		return guitex.KeyBackspace
	case glfw.KeySpace:
		return guitex.KeySpace
	case glfw.KeyEnter, glfw.KeyKPEnter:
		return guitex.KeyEnter
	case glfw.KeyEscape:
		return guitex.KeyEscape
	case glfw.KeyLeftShift:
		return guitex.KeyLeftShift
	case glfw.KeyRightShift:
		return guitex.KeyRightShift
	case glfw.KeyLeftControl:
		return guitex.KeyLeftControl
	case glfw.KeyRightControl:
		return guitex.KeyRightControl
	case glfw.KeyLeftAlt:
		return guitex.KeyLeftAlt
	case glfw.KeyRightAlt:
		return guitex.KeyRightAlt
	case glfw.KeyLeftSuper:
		return guitex.KeyLeftSuper
	case glfw.KeyRightSuper:
		return guitex.KeyRightSuper
	default:
		return guitex.KeyNone
	}
}

// glfwMouseButtonToGUI maps GLFW mouse buttons to guitex mouse buttons.
func glfwMouseButtonToGUI(button glfw.MouseButton) guitex.MouseButton {
	switch button {
	case glfw.MouseButtonLeft:
		return guitex.MouseButtonLeft
	case glfw.MouseButtonRight:
		return guitex.MouseButtonRight
	case glfw.MouseButtonMiddle:
		return guitex.MouseButtonMiddle
	default:
		return -1
	}
}
