package raylib

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/go-theft-auto/guitex"
)

// keyTracker remembers which raylib keys are held, since raylib reports
// presses through a queue but releases only per key.
type keyTracker struct {
	held []int32
}

// update records this frame's presses and returns the keys released.
// released and repeat are the raylib queries, split out for tests.
func (t *keyTracker) update(pressed []int32, released, repeat func(int32) bool) (up, again []int32) {
	kept := t.held[:0]
	for _, k := range t.held {
		switch {
		case released(k):
			up = append(up, k)
		case repeat(k):
			again = append(again, k)
			kept = append(kept, k)
		default:
			kept = append(kept, k)
		}
	}
	t.held = kept
	for _, k := range pressed {
		if !containsKey(t.held, k) {
			t.held = append(t.held, k)
		}
	}
	return up, again
}

func containsKey(keys []int32, k int32) bool {
	for _, h := range keys {
		if h == k {
			return true
		}
	}
	return false
}

func (e *Engine) snapshot() guitex.InputSnapshot {
	var s guitex.InputSnapshot
	pos := rl.GetMousePosition()
	s.X, s.Y = int(math.Floor(float64(pos.X))), int(math.Floor(float64(pos.Y)))
	s.Buttons[guitex.MouseButtonLeft] = rl.IsMouseButtonDown(rl.MouseButtonLeft)
	s.Buttons[guitex.MouseButtonRight] = rl.IsMouseButtonDown(rl.MouseButtonRight)
	s.Buttons[guitex.MouseButtonMiddle] = rl.IsMouseButtonDown(rl.MouseButtonMiddle)
	wheel := rl.GetMouseWheelMoveV()
	s.WheelX, s.WheelY = float64(wheel.X), float64(wheel.Y)

	var pressed []int32
	for k := rl.GetKeyPressed(); k != 0; k = rl.GetKeyPressed() {
		pressed = append(pressed, k)
	}
	up, again := e.keys.update(pressed, rl.IsKeyReleased, rl.IsKeyPressedRepeat)
	s.JustPressed = guiKeys(pressed)
	s.Repeated = guiKeys(again)
	s.JustReleased = guiKeys(up)

	for r := rl.GetCharPressed(); r != 0; r = rl.GetCharPressed() {
		s.Chars = append(s.Chars, rune(r))
	}

	down := func(a, b int32) bool { return rl.IsKeyDown(a) || rl.IsKeyDown(b) }
	if down(rl.KeyLeftShift, rl.KeyRightShift) {
		s.Modifiers |= guitex.ModShift
	}
	if down(rl.KeyLeftControl, rl.KeyRightControl) {
		s.Modifiers |= guitex.ModControl
	}
	if down(rl.KeyLeftAlt, rl.KeyRightAlt) {
		s.Modifiers |= guitex.ModAlt
	}
	if down(rl.KeyLeftSuper, rl.KeyRightSuper) {
		s.Modifiers |= guitex.ModMeta
	}
	return s
}

func guiKeys(keys []int32) []guitex.Key {
	var out []guitex.Key
	for _, k := range keys {
		if gk := raylibKeyToGUIKey(k); gk != guitex.KeyNone {
			out = append(out, gk)
		}
	}
	return out
}

// raylibKeyToGUIKey maps raylib key codes to guitex keys.
func raylibKeyToGUIKey(key int32) guitex.Key {
	switch {
	case key >= rl.KeyZero && key <= rl.KeyNine:
		return guitex.Key0 + guitex.Key(key-rl.KeyZero)
	case key >= rl.KeyA && key <= rl.KeyZ:
		return guitex.KeyA + guitex.Key(key-rl.KeyA)
	case key >= rl.KeyF1 && key <= rl.KeyF12:
		return guitex.KeyF1 + guitex.Key(key-rl.KeyF1)
	}

	switch key {
	case rl.KeyTab:
		return guitex.KeyTab
	case rl.KeyLeft:
		return guitex.KeyLeft
	case rl.KeyRight:
		return guitex.KeyRight
	case rl.KeyUp:
		return guitex.KeyUp
	case rl.KeyDown:
		return guitex.KeyDown
	case rl.KeyPageUp:
		return guitex.KeyPageUp
	case rl.KeyPageDown:
		return guitex.KeyPageDown
	case rl.KeyHome:
		return guitex.KeyHome
	case rl.KeyEnd:
		return guitex.KeyEnd
	case rl.KeyInsert:
		return guitex.KeyInsert
	case rl.KeyDelete:
		return guitex.KeyDelete
	case rl.KeyBackspace:
		return guitex.KeyBackspace
	case rl.KeySpace:
		return guitex.KeySpace
	case rl.KeyEnter, rl.KeyKpEnter:
		return guitex.KeyEnter
	case rl.KeyEscape:
		return guitex.KeyEscape
	case rl.KeyLeftShift:
		return guitex.KeyLeftShift
	case rl.KeyRightShift:
		return guitex.KeyRightShift
	case rl.KeyLeftControl:
		return guitex.KeyLeftControl
	case rl.KeyRightControl:
		return guitex.KeyRightControl
	case rl.KeyLeftAlt:
		return guitex.KeyLeftAlt
	case rl.KeyRightAlt:
		return guitex.KeyRightAlt
	case rl.KeyLeftSuper:
		return guitex.KeyLeftSuper
	case rl.KeyRightSuper:
		return guitex.KeyRightSuper
	default:
		return guitex.KeyNone
	}
}
