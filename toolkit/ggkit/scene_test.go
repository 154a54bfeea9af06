package ggkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/guitex"
)

type fakeHost struct {
	stage    guitex.StagePeer
	scene    guitex.ScenePeer
	repaints int
	cursors  []guitex.CursorKind
	focusReq int
}

func (h *fakeHost) SetEmbeddedStage(s guitex.StagePeer) { h.stage = s }
func (h *fakeHost) SetEmbeddedScene(s guitex.ScenePeer) { h.scene = s }
func (h *fakeHost) Repaint()                            { h.repaints++ }
func (h *fakeHost) SetCursor(k guitex.CursorKind)       { h.cursors = append(h.cursors, k) }
func (h *fakeHost) RequestFocus() bool                  { h.focusReq++; return true }

// newTestWindow builds a shown window without starting the GUI goroutine;
// the test goroutine plays its part.
func newTestWindow(t *testing.T, sc *Scene) (*Window, *fakeHost) {
	t.Helper()
	host := &fakeHost{}
	w := New().NewWindow(host).(*Window)
	require.NoError(t, w.SetScene(sc))
	w.Show()
	host.stage.SetSize(200, 150)
	host.scene.SetSize(200, 150)
	return w, host
}

func press(peer guitex.ScenePeer, x, y int) {
	peer.DispatchInput(&guitex.MouseButtonEvent{X: x, Y: y, Button: guitex.MouseButtonLeft, Pressed: true})
}

func release(peer guitex.ScenePeer, x, y int) {
	peer.DispatchInput(&guitex.MouseButtonEvent{X: x, Y: y, Button: guitex.MouseButtonLeft})
}

func click(peer guitex.ScenePeer, x, y int) {
	press(peer, x, y)
	release(peer, x, y)
}

func TestWindowShowRegistersPeers(t *testing.T) {
	sc := NewScene()
	w, host := newTestWindow(t, sc)

	assert.True(t, w.Showing())
	assert.NotNil(t, host.stage)
	assert.NotNil(t, host.scene)
	assert.Equal(t, guitex.Size{Width: 200, Height: 150}, sc.Size())

	w.Hide()
	assert.False(t, w.Showing())
	assert.Nil(t, host.stage)
	assert.Nil(t, host.scene)
}

func TestWindowRejectsForeignScene(t *testing.T) {
	w := New().NewWindow(&fakeHost{})
	assert.Error(t, w.SetScene("not a scene"))
	assert.NoError(t, w.SetScene(nil))
}

func TestButtonClick(t *testing.T) {
	clicks := 0
	btn := &Button{Rect: guitex.Rect{X: 10, Y: 10, W: 80, H: 24}, Text: "OK", OnClick: func() { clicks++ }}
	_, host := newTestWindow(t, NewScene(btn))

	click(host.scene, 20, 20)
	assert.Equal(t, 1, clicks)

	// Released outside the button.
	press(host.scene, 20, 20)
	release(host.scene, 150, 100)
	assert.Equal(t, 1, clicks)
}

func TestHoverSetsCursor(t *testing.T) {
	btn := &Button{Rect: guitex.Rect{X: 10, Y: 10, W: 80, H: 24}}
	field := &TextField{Rect: guitex.Rect{X: 10, Y: 50, W: 80, H: 24}}
	_, host := newTestWindow(t, NewScene(btn, field))

	host.scene.DispatchInput(&guitex.MouseEvent{X: 20, Y: 20})
	host.scene.DispatchInput(&guitex.MouseEvent{X: 21, Y: 21})
	host.scene.DispatchInput(&guitex.MouseEvent{X: 20, Y: 60})
	host.scene.DispatchInput(&guitex.MouseEvent{X: 150, Y: 120})

	assert.Equal(t, []guitex.CursorKind{guitex.CursorHand, guitex.CursorText, guitex.CursorDefault}, host.cursors)
}

func TestTextFieldEditing(t *testing.T) {
	var submitted []string
	field := &TextField{
		Rect:     guitex.Rect{X: 10, Y: 10, W: 120, H: 24},
		MaxLen:   4,
		OnSubmit: func(s string) { submitted = append(submitted, s) },
	}
	sc := NewScene(field)
	_, host := newTestWindow(t, sc)

	click(host.scene, 15, 15)
	require.Same(t, field, sc.Focused())
	assert.Equal(t, 1, host.focusReq)

	for _, r := range "héllo" {
		host.scene.DispatchInput(&guitex.CharEvent{Char: r})
	}
	host.scene.DispatchInput(&guitex.CharEvent{Char: '\t'})
	assert.Equal(t, "héll", field.Text)

	host.scene.DispatchInput(&guitex.KeyEvent{Key: guitex.KeyBackspace, Pressed: true})
	assert.Equal(t, "hél", field.Text)

	host.scene.DispatchInput(&guitex.KeyEvent{Key: guitex.KeyEnter, Pressed: true})
	assert.Nil(t, sc.Focused())
	assert.Equal(t, []string{"hél"}, submitted)

	// Typing without focus does nothing.
	host.scene.DispatchInput(&guitex.CharEvent{Char: 'x'})
	assert.Equal(t, "hél", field.Text)
}

func TestStageFocusLossBlurs(t *testing.T) {
	field := &TextField{Rect: guitex.Rect{X: 10, Y: 10, W: 120, H: 24}}
	sc := NewScene(field)
	_, host := newTestWindow(t, sc)

	click(host.scene, 15, 15)
	require.NotNil(t, sc.Focused())

	host.stage.SetFocused(false, guitex.FocusDeactivated)
	assert.Nil(t, sc.Focused())
}

func TestMenuInlinePopup(t *testing.T) {
	var chosen string
	menu := &Menu{
		Rect:     guitex.Rect{X: 10, Y: 10, W: 100, H: 24},
		Items:    []string{"Low", "Medium", "High"},
		OnSelect: func(_ int, item string) { chosen = item },
	}
	sc := NewScene(menu)
	_, host := newTestWindow(t, sc)

	click(host.scene, 20, 20)
	require.Same(t, menu, sc.OpenMenu())

	// Items are 24px high starting right below the menu at y=34.
	click(host.scene, 20, 34+24+5)
	assert.Nil(t, sc.OpenMenu())
	assert.Equal(t, "Medium", chosen)
	assert.Equal(t, 1, menu.Selected)
}

func TestMenuEscapeCloses(t *testing.T) {
	menu := &Menu{Rect: guitex.Rect{X: 10, Y: 10, W: 100, H: 24}, Items: []string{"a"}}
	sc := NewScene(menu)
	_, host := newTestWindow(t, sc)

	click(host.scene, 20, 20)
	require.NotNil(t, sc.OpenMenu())
	host.scene.DispatchInput(&guitex.KeyEvent{Key: guitex.KeyEscape, Pressed: true})
	assert.Nil(t, sc.OpenMenu())
}

func TestMenuCompositedPopup(t *testing.T) {
	menu := &Menu{Rect: guitex.Rect{X: 10, Y: 10, W: 100, H: 24}, Items: []string{"a", "b"}}
	sc := NewScene(menu)
	w, host := newTestWindow(t, sc)

	comp := guitex.NewPopupCompositor(func() bool { return true }, guitex.Point{}, nil)
	comp.Enable()
	w.kit.hooks = comp

	click(host.scene, 20, 20)
	require.Equal(t, 1, comp.Len())
	require.NotNil(t, sc.popup.snapshot)
	assert.Equal(t, guitex.Size{Width: 100, Height: 48}, sc.popup.snapshot.Size())

	x, y := sc.popup.ScreenPosition()
	assert.Equal(t, 10, x)
	assert.Equal(t, 34, y)

	// The compositor draws the popup into the frame.
	frame := make([]byte, guitex.Size{Width: 200, Height: 150}.Bytes())
	assert.Equal(t, 1, comp.Composite(frame, guitex.Size{Width: 200, Height: 150}))
	off := (40*200 + 50) * guitex.BytesPerPixel
	assert.NotZero(t, frame[off+3])

	host.scene.DispatchInput(&guitex.KeyEvent{Key: guitex.KeyEscape, Pressed: true})
	assert.Equal(t, 0, comp.Len())
}

func TestWindowOriginOffsetsPopups(t *testing.T) {
	menu := &Menu{Rect: guitex.Rect{X: 10, Y: 10, W: 100, H: 24}, Items: []string{"a"}}
	sc := NewScene(menu)
	host := &fakeHost{}
	w := New(WithWindowOrigin(guitex.Point{X: 300, Y: 200})).NewWindow(host).(*Window)
	require.NoError(t, w.SetScene(sc))
	w.Show()

	click(host.scene, 20, 20)
	x, y := sc.popup.ScreenPosition()
	assert.Equal(t, 310, x)
	assert.Equal(t, 234, y)
}

func TestGetPixels(t *testing.T) {
	sc := NewScene(&Panel{Rect: guitex.Rect{X: 0, Y: 0, W: 50, H: 50}, Fill: rgba(255, 0, 0, 255)})
	_, host := newTestWindow(t, sc)

	size := guitex.Size{Width: 200, Height: 150}
	dst := make([]byte, size.Bytes())
	require.True(t, host.scene.GetPixels(dst, size.Width, size.Height))

	inside := (25*size.Width + 25) * guitex.BytesPerPixel
	assert.Equal(t, byte(255), dst[inside+3])
	assert.Greater(t, dst[inside], dst[inside+1])

	outside := (100*size.Width + 150) * guitex.BytesPerPixel
	assert.Equal(t, byte(0), dst[outside+3])

	assert.False(t, host.scene.GetPixels(dst[:10], size.Width, size.Height))
}

func TestGetPixelsWithoutScene(t *testing.T) {
	host := &fakeHost{}
	w := New().NewWindow(host)
	w.Show()
	assert.False(t, host.scene.GetPixels(make([]byte, 64*64*4), 64, 64))
}
