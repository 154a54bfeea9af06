package ebitengine

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/go-theft-auto/guitex"
)

// Held keys repeat after repeatDelay ticks, every repeatInterval ticks.
const (
	repeatDelay    = 30
	repeatInterval = 3
)

var ebitenButtons = [guitex.MouseButtonCount]ebiten.MouseButton{
	guitex.MouseButtonLeft:   ebiten.MouseButtonLeft,
	guitex.MouseButtonRight:  ebiten.MouseButtonRight,
	guitex.MouseButtonMiddle: ebiten.MouseButtonMiddle,
}

// snapshot reads the current tick's input from Ebitengine.
func snapshot() guitex.InputSnapshot {
	var s guitex.InputSnapshot
	s.X, s.Y = ebiten.CursorPosition()
	for b, eb := range ebitenButtons {
		s.Buttons[b] = ebiten.IsMouseButtonPressed(eb)
	}
	s.WheelX, s.WheelY = ebiten.Wheel()

	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if gk := ebitenKeyToGUIKey(k); gk != guitex.KeyNone {
			s.JustPressed = append(s.JustPressed, gk)
		}
	}
	for _, k := range inpututil.AppendJustReleasedKeys(nil) {
		if gk := ebitenKeyToGUIKey(k); gk != guitex.KeyNone {
			s.JustReleased = append(s.JustReleased, gk)
		}
	}
	for _, k := range inpututil.AppendPressedKeys(nil) {
		d := inpututil.KeyPressDuration(k)
		if d < repeatDelay || (d-repeatDelay)%repeatInterval != 0 {
			continue
		}
		if gk := ebitenKeyToGUIKey(k); gk != guitex.KeyNone {
			s.Repeated = append(s.Repeated, gk)
		}
	}
	s.Chars = ebiten.AppendInputChars(nil)

	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		s.Modifiers |= guitex.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		s.Modifiers |= guitex.ModControl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		s.Modifiers |= guitex.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		s.Modifiers |= guitex.ModMeta
	}
	return s
}

var ebitenKeys = map[ebiten.Key]guitex.Key{
	ebiten.KeyTab:          guitex.KeyTab,
	ebiten.KeyArrowLeft:    guitex.KeyLeft,
	ebiten.KeyArrowRight:   guitex.KeyRight,
	ebiten.KeyArrowUp:      guitex.KeyUp,
	ebiten.KeyArrowDown:    guitex.KeyDown,
	ebiten.KeyPageUp:       guitex.KeyPageUp,
	ebiten.KeyPageDown:     guitex.KeyPageDown,
	ebiten.KeyHome:         guitex.KeyHome,
	ebiten.KeyEnd:          guitex.KeyEnd,
	ebiten.KeyInsert:       guitex.KeyInsert,
	ebiten.KeyDelete:       guitex.KeyDelete,
	ebiten.KeyBackspace:    guitex.KeyBackspace,
	ebiten.KeySpace:        guitex.KeySpace,
	ebiten.KeyEnter:        guitex.KeyEnter,
	ebiten.KeyNumpadEnter:  guitex.KeyEnter,
	ebiten.KeyEscape:       guitex.KeyEscape,
	ebiten.KeyShiftLeft:    guitex.KeyLeftShift,
	ebiten.KeyShiftRight:   guitex.KeyRightShift,
	ebiten.KeyControlLeft:  guitex.KeyLeftControl,
	ebiten.KeyControlRight: guitex.KeyRightControl,
	ebiten.KeyAltLeft:      guitex.KeyLeftAlt,
	ebiten.KeyAltRight:     guitex.KeyRightAlt,
	ebiten.KeyMetaLeft:     guitex.KeyLeftSuper,
	ebiten.KeyMetaRight:    guitex.KeyRightSuper,
}

func init() {
	digits := []ebiten.Key{
		ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
		ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
	}
	for i, k := range digits {
		ebitenKeys[k] = guitex.Key0 + guitex.Key(i)
	}
	letters := []ebiten.Key{
		ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF, ebiten.KeyG,
		ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL, ebiten.KeyM, ebiten.KeyN,
		ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR, ebiten.KeyS, ebiten.KeyT, ebiten.KeyU,
		ebiten.KeyV, ebiten.KeyW, ebiten.KeyX, ebiten.KeyY, ebiten.KeyZ,
	}
	for i, k := range letters {
		ebitenKeys[k] = guitex.KeyA + guitex.Key(i)
	}
	functions := []ebiten.Key{
		ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3, ebiten.KeyF4, ebiten.KeyF5, ebiten.KeyF6,
		ebiten.KeyF7, ebiten.KeyF8, ebiten.KeyF9, ebiten.KeyF10, ebiten.KeyF11, ebiten.KeyF12,
	}
	for i, k := range functions {
		ebitenKeys[k] = guitex.KeyF1 + guitex.Key(i)
	}
}

// ebitenKeyToGUIKey maps Ebitengine keys to guitex keys.
func ebitenKeyToGUIKey(k ebiten.Key) guitex.Key {
	if gk, ok := ebitenKeys[k]; ok {
		return gk
	}
	return guitex.KeyNone
}
