package ggkit

import (
	"github.com/gogpu/gg"

	"github.com/go-theft-auto/guitex"
)

// Panel is a filled rectangle with a border.
type Panel struct {
	Rect guitex.Rect
	// Fill overrides the style's panel color when its alpha is not zero.
	Fill gg.RGBA
}

func (p *Panel) Bounds() guitex.Rect { return p.Rect }

func (p *Panel) draw(dc *gg.Context, st *Style, _ nodeState) {
	fill := st.PanelColor
	if p.Fill.A > 0 {
		fill = p.Fill
	}
	x, y, w, h := rectF(p.Rect)
	st.fillRect(dc, x, y, w, h, fill)
	st.strokeRect(dc, x, y, w, h, st.PanelBorderColor)
}

// Label draws a line of text.
type Label struct {
	Rect      guitex.Rect
	Text      string
	Highlight bool
}

func (l *Label) Bounds() guitex.Rect { return l.Rect }

func (l *Label) draw(dc *gg.Context, st *Style, _ nodeState) {
	c := st.TextColor
	if l.Highlight {
		c = st.TextHighlightColor
	}
	x, y, _, h := rectF(l.Rect)
	st.text(dc, l.Text, x, y, h, c)
}

// Button calls OnClick when pressed and released over it.
type Button struct {
	Rect    guitex.Rect
	Text    string
	OnClick func()
}

func (b *Button) Bounds() guitex.Rect { return b.Rect }

func (b *Button) cursor() guitex.CursorKind { return guitex.CursorHand }

func (b *Button) click(*Scene) {
	if b.OnClick != nil {
		b.OnClick()
	}
}

func (b *Button) draw(dc *gg.Context, st *Style, state nodeState) {
	fill := st.ButtonColor
	switch {
	case state.pressed:
		fill = st.ButtonActiveColor
	case state.hovered:
		fill = st.ButtonHoveredColor
	}
	x, y, w, h := rectF(b.Rect)
	st.fillRect(dc, x, y, w, h, fill)
	st.strokeRect(dc, x, y, w, h, st.PanelBorderColor)
	st.text(dc, b.Text, x, y, h, st.TextColor)
}

// TextField is a single-line text input. It takes keyboard focus when
// clicked and calls OnSubmit when it loses it.
type TextField struct {
	Rect     guitex.Rect
	Text     string
	MaxLen   int
	OnSubmit func(text string)
}

func (t *TextField) Bounds() guitex.Rect { return t.Rect }

func (t *TextField) cursor() guitex.CursorKind { return guitex.CursorText }

func (t *TextField) insert(r rune) {
	if r < ' ' {
		return
	}
	if t.MaxLen > 0 && len([]rune(t.Text)) >= t.MaxLen {
		return
	}
	t.Text += string(r)
}

func (t *TextField) backspace() {
	runes := []rune(t.Text)
	if len(runes) > 0 {
		t.Text = string(runes[:len(runes)-1])
	}
}

func (t *TextField) draw(dc *gg.Context, st *Style, state nodeState) {
	fill := st.InputBgColor
	if state.focused {
		fill = st.InputFocusedBgColor
	}
	x, y, w, h := rectF(t.Rect)
	st.fillRect(dc, x, y, w, h, fill)
	st.strokeRect(dc, x, y, w, h, st.InputBorderColor)
	st.text(dc, t.Text, x, y, h, st.TextColor)

	if state.focused {
		tw, _ := dc.MeasureString(t.Text)
		setColor(dc, st.TextColor)
		dc.DrawRectangle(x+st.TextPadding+tw+1, y+4, st.CaretWidth, h-8)
		_ = dc.Fill()
	}
}

// Menu is a button that opens a popup list of items. While the engine runs
// full screen the list is composited by guitex; otherwise it is drawn into
// the scene directly.
type Menu struct {
	Rect     guitex.Rect
	Text     string
	Items    []string
	Selected int
	OnSelect func(index int, item string)
}

func (m *Menu) Bounds() guitex.Rect { return m.Rect }

func (m *Menu) cursor() guitex.CursorKind { return guitex.CursorHand }

func (m *Menu) click(sc *Scene) {
	if len(m.Items) > 0 {
		sc.openPopup(m)
	}
}

func (m *Menu) choose(i int) {
	if i < 0 || i >= len(m.Items) {
		return
	}
	m.Selected = i
	if m.OnSelect != nil {
		m.OnSelect(i, m.Items[i])
	}
}

func (m *Menu) draw(dc *gg.Context, st *Style, state nodeState) {
	fill := st.ButtonColor
	if state.hovered || state.pressed {
		fill = st.ButtonHoveredColor
	}
	x, y, w, h := rectF(m.Rect)
	st.fillRect(dc, x, y, w, h, fill)
	st.strokeRect(dc, x, y, w, h, st.PanelBorderColor)

	label := m.Text
	if m.Selected >= 0 && m.Selected < len(m.Items) {
		label = m.Items[m.Selected]
	}
	st.text(dc, label, x, y, h, st.TextColor)

	// Down arrow on the right edge.
	ax := x + w - st.ArrowPadding - 8
	ay := y + h/2 - 2
	setColor(dc, st.ComboArrowColor)
	dc.MoveTo(ax, ay)
	dc.LineTo(ax+8, ay)
	dc.LineTo(ax+4, ay+5)
	dc.ClosePath()
	_ = dc.Fill()
}

func rectF(r guitex.Rect) (x, y, w, h float64) {
	return float64(r.X), float64(r.Y), float64(r.W), float64(r.H)
}
