package ggkit

import (
	"fmt"

	"github.com/gogpu/gg"

	"github.com/go-theft-auto/guitex"
)

// Window is an embedded toolkit window. All methods run on the GUI
// goroutine.
type Window struct {
	kit  *Toolkit
	host guitex.Host

	stage *stage
	peer  *scenePeer
	scene *Scene

	showing bool
}

func newWindow(kit *Toolkit, host guitex.Host) *Window {
	w := &Window{kit: kit, host: host}
	w.stage = &stage{window: w}
	w.peer = &scenePeer{window: w}
	return w
}

// SetScene implements guitex.Window. scene must be a *Scene or nil.
func (w *Window) SetScene(scene any) error {
	var s *Scene
	switch v := scene.(type) {
	case nil:
	case *Scene:
		s = v
	default:
		return fmt.Errorf("ggkit: unsupported scene type %T", scene)
	}
	if w.scene != nil && w.scene != s {
		w.scene.detach()
	}
	w.scene = s
	if s != nil {
		s.attach(w)
		s.layout(w.stage.size)
	}
	if w.showing {
		w.host.Repaint()
	}
	return nil
}

// Scene returns the window's scene, or nil.
func (w *Window) Scene() *Scene { return w.scene }

// Show implements guitex.Window.
func (w *Window) Show() {
	if w.showing {
		return
	}
	w.showing = true
	w.host.SetEmbeddedStage(w.stage)
	w.host.SetEmbeddedScene(w.peer)
}

// Hide implements guitex.Window.
func (w *Window) Hide() {
	if !w.showing {
		return
	}
	w.showing = false
	if w.scene != nil {
		w.scene.closePopup()
	}
	w.host.SetEmbeddedScene(nil)
	w.host.SetEmbeddedStage(nil)
}

// Showing implements guitex.Window.
func (w *Window) Showing() bool { return w.showing }

// stage is the window's guitex.StagePeer.
type stage struct {
	window  *Window
	size    guitex.Size
	focused bool
}

func (s *stage) SetSize(width, height int) {
	s.size = guitex.Size{Width: width, Height: height}
}

func (s *stage) SetFocused(focused bool, reason guitex.FocusReason) {
	s.focused = focused
	s.window.kit.log.Debug("stage focus", "focused", focused, "reason", reason)
	if sc := s.window.scene; sc != nil && !focused {
		sc.blur()
		s.window.host.Repaint()
	}
}

// scenePeer is the window's guitex.ScenePeer. It owns the gg context the
// scene is drawn with.
type scenePeer struct {
	window *Window
	dc     *gg.Context
	size   guitex.Size
}

func (p *scenePeer) SetSize(width, height int) {
	p.size = guitex.Size{Width: width, Height: height}
	if sc := p.window.scene; sc != nil {
		sc.layout(p.size)
	}
}

func (p *scenePeer) GetPixels(dst []byte, width, height int) bool {
	sc := p.window.scene
	if sc == nil || width <= 0 || height <= 0 || len(dst) < width*height*guitex.BytesPerPixel {
		return false
	}
	if err := p.ensureContext(width, height); err != nil {
		p.window.kit.log.Warn("resizing canvas", "err", err)
		return false
	}

	p.dc.Clear()
	sc.draw(p.dc)
	if err := p.dc.FlushGPU(); err != nil {
		p.window.kit.log.Warn("flushing canvas", "err", err)
		return false
	}
	copy(dst, p.dc.ResizeTarget().Data())
	return true
}

func (p *scenePeer) ensureContext(width, height int) error {
	if p.dc == nil {
		p.dc = gg.NewContext(width, height)
		return p.window.kit.loadFont(p.dc)
	}
	return p.dc.Resize(width, height)
}

func (p *scenePeer) DispatchInput(ev guitex.InputEvent) {
	if sc := p.window.scene; sc != nil {
		sc.handle(ev)
	}
}

// loadFont sets the configured font on dc, if any.
func (t *Toolkit) loadFont(dc *gg.Context) error {
	if t.fontPath == "" {
		return nil
	}
	if err := dc.LoadFontFace(t.fontPath, t.fontSize); err != nil {
		return fmt.Errorf("loading font %s: %w", t.fontPath, err)
	}
	return nil
}
