package ggkit

import (
	"github.com/gogpu/gg"

	"github.com/go-theft-auto/guitex"
)

// popup is the item list of an open Menu. It implements guitex.PopupWindow.
type popup struct {
	scene *Scene
	menu  *Menu
	rect  guitex.Rect // window coordinates
	hover int

	dc       *gg.Context
	snapshot *guitex.PopupSnapshot
}

func newPopup(sc *Scene, m *Menu) *popup {
	h := int(sc.Style.ItemHeight) * len(m.Items)
	return &popup{
		scene: sc,
		menu:  m,
		rect:  guitex.Rect{X: m.Rect.X, Y: m.Rect.Y + m.Rect.H, W: m.Rect.W, H: h},
		hover: -1,
	}
}

// ScreenPosition implements guitex.PopupWindow.
func (p *popup) ScreenPosition() (x, y int) {
	origin := p.scene.window.kit.origin
	return origin.X + p.rect.X, origin.Y + p.rect.Y
}

// Bounds returns the popup rectangle in window coordinates.
func (p *popup) Bounds() guitex.Rect { return p.rect }

// show registers the popup with the compositor when one is installed.
// Without one the scene draws the popup itself.
func (p *popup) show() {
	kit := p.scene.window.kit
	if kit.hooks != nil {
		p.snapshot = kit.hooks.Show(p)
	}
	p.paint()
}

func (p *popup) hide() {
	kit := p.scene.window.kit
	if p.snapshot != nil && kit.hooks != nil {
		kit.hooks.Hide(p)
	}
	p.snapshot = nil
}

// paint refreshes the snapshot, if any, and asks for a frame.
func (p *popup) paint() {
	if p.snapshot != nil {
		if p.dc == nil {
			p.dc = gg.NewContext(p.rect.W, p.rect.H)
			if err := p.scene.window.kit.loadFont(p.dc); err != nil {
				p.scene.window.kit.log.Warn("popup font", "err", err)
			}
		}
		p.dc.Clear()
		p.drawContent(p.dc)
		if err := p.dc.FlushGPU(); err != nil {
			p.scene.window.kit.log.Warn("flushing popup", "err", err)
		}
		p.snapshot.Update(p.dc.ResizeTarget().Data(), guitex.Size{Width: p.rect.W, Height: p.rect.H})
	}
	p.scene.repaint()
}

// drawContent draws the item list with its top-left corner at the origin.
func (p *popup) drawContent(dc *gg.Context) {
	st := &p.scene.Style
	w, h := float64(p.rect.W), float64(p.rect.H)
	st.fillRect(dc, 0, 0, w, h, st.DropdownBgColor)
	for i, item := range p.menu.Items {
		y := float64(i) * st.ItemHeight
		switch {
		case i == p.hover:
			st.fillRect(dc, 0, y, w, st.ItemHeight, st.HoveredBgColor)
		case i == p.menu.Selected:
			st.fillRect(dc, 0, y, w, st.ItemHeight, st.SelectedBgColor)
		}
		st.text(dc, item, 0, y, st.ItemHeight, st.TextColor)
	}
	st.strokeRect(dc, 0, 0, w, h, st.PanelBorderColor)
}

func (p *popup) itemAt(pt guitex.Point) int {
	if !p.rect.Contains(pt) {
		return -1
	}
	return (pt.Y - p.rect.Y) / int(p.scene.Style.ItemHeight)
}

func (p *popup) hoverAt(pt guitex.Point) {
	if i := p.itemAt(pt); i != p.hover {
		p.hover = i
		p.paint()
	}
}

func (p *popup) selectAt(pt guitex.Point) {
	i := p.itemAt(pt)
	p.scene.closePopup()
	p.menu.choose(i)
}
