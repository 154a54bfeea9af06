package ggkit

import "github.com/gogpu/gg"

// Style defines the visual appearance of scene nodes.
type Style struct {
	// Text colors
	TextColor          gg.RGBA
	TextDisabledColor  gg.RGBA
	TextHighlightColor gg.RGBA

	// Panel colors
	PanelColor       gg.RGBA
	PanelBorderColor gg.RGBA

	// Button colors
	ButtonColor        gg.RGBA
	ButtonHoveredColor gg.RGBA
	ButtonActiveColor  gg.RGBA

	// Selection colors
	SelectedBgColor gg.RGBA
	HoveredBgColor  gg.RGBA

	// Input colors
	InputBgColor        gg.RGBA
	InputFocusedBgColor gg.RGBA
	InputBorderColor    gg.RGBA

	// Dropdown colors
	DropdownBgColor gg.RGBA
	ComboArrowColor gg.RGBA

	// Sizing
	ItemHeight   float64 // Height of one menu item
	TextPadding  float64 // Horizontal inset of text inside a node
	BorderSize   float64
	Rounding     float64 // Corner rounding (0 = sharp corners)
	CaretWidth   float64
	ArrowPadding float64
}

func rgba(r, g, b, a uint8) gg.RGBA {
	return gg.RGBA2(float64(r)/255, float64(g)/255, float64(b)/255, float64(a)/255)
}

var colorWhite = rgba(255, 255, 255, 255)

// DefaultStyle returns the default style with sensible defaults.
func DefaultStyle() Style {
	return Style{
		TextColor:          colorWhite,
		TextDisabledColor:  rgba(128, 128, 128, 255),
		TextHighlightColor: rgba(255, 255, 0, 255),

		PanelColor:       rgba(20, 20, 20, 200),
		PanelBorderColor: rgba(80, 80, 80, 255),

		ButtonColor:        rgba(50, 50, 50, 255),
		ButtonHoveredColor: rgba(70, 70, 70, 255),
		ButtonActiveColor:  rgba(90, 90, 90, 255),

		SelectedBgColor: rgba(50, 100, 150, 255),
		HoveredBgColor:  rgba(60, 60, 60, 255),

		InputBgColor:        rgba(30, 30, 30, 255),
		InputFocusedBgColor: rgba(40, 40, 50, 255),
		InputBorderColor:    rgba(100, 100, 100, 255),

		DropdownBgColor: rgba(25, 25, 25, 250),
		ComboArrowColor: rgba(180, 180, 180, 255),

		ItemHeight:   24,
		TextPadding:  6,
		BorderSize:   1,
		Rounding:     0,
		CaretWidth:   2,
		ArrowPadding: 8,
	}
}

// GTAStyle returns a GTA San Andreas-inspired style.
// Dark theme with cyan/yellow accents reminiscent of the game's menus.
func GTAStyle() Style {
	s := DefaultStyle()
	s.TextHighlightColor = rgba(255, 200, 0, 255) // GTA yellow

	s.PanelColor = rgba(0, 0, 0, 220)
	s.PanelBorderColor = rgba(100, 100, 100, 255)

	s.ButtonColor = rgba(40, 40, 40, 255)
	s.ButtonHoveredColor = rgba(60, 80, 100, 255)
	s.ButtonActiveColor = rgba(0, 150, 200, 255) // Cyan when active

	s.SelectedBgColor = rgba(0, 120, 180, 255)
	s.HoveredBgColor = rgba(50, 70, 90, 255)

	s.InputBgColor = rgba(20, 20, 20, 255)
	s.InputFocusedBgColor = rgba(30, 40, 50, 255)
	s.InputBorderColor = rgba(0, 150, 200, 255)

	s.DropdownBgColor = rgba(10, 10, 10, 250)
	s.ComboArrowColor = rgba(0, 180, 230, 255)

	s.ItemHeight = 28
	return s
}

// LightStyle returns a light theme.
func LightStyle() Style {
	s := DefaultStyle()
	s.TextColor = rgba(20, 20, 20, 255)
	s.TextDisabledColor = rgba(150, 150, 150, 255)
	s.TextHighlightColor = rgba(0, 100, 200, 255)

	s.PanelColor = rgba(245, 245, 245, 250)
	s.PanelBorderColor = rgba(200, 200, 200, 255)

	s.ButtonColor = rgba(220, 220, 220, 255)
	s.ButtonHoveredColor = rgba(200, 200, 200, 255)
	s.ButtonActiveColor = rgba(180, 180, 180, 255)

	s.SelectedBgColor = rgba(0, 120, 215, 255)
	s.HoveredBgColor = rgba(230, 230, 230, 255)

	s.InputBgColor = colorWhite
	s.InputFocusedBgColor = colorWhite
	s.InputBorderColor = rgba(150, 150, 150, 255)

	s.DropdownBgColor = rgba(255, 255, 255, 255)
	s.ComboArrowColor = rgba(80, 80, 80, 255)
	return s
}

func setColor(dc *gg.Context, c gg.RGBA) {
	dc.SetRGBA(c.R, c.G, c.B, c.A)
}

// fillRect fills r with c, rounding corners by the style's radius.
func (s *Style) fillRect(dc *gg.Context, x, y, w, h float64, c gg.RGBA) {
	setColor(dc, c)
	if s.Rounding > 0 {
		dc.DrawRoundedRectangle(x, y, w, h, s.Rounding)
	} else {
		dc.DrawRectangle(x, y, w, h)
	}
	_ = dc.Fill()
}

// strokeRect outlines r with c at the style's border width.
func (s *Style) strokeRect(dc *gg.Context, x, y, w, h float64, c gg.RGBA) {
	if s.BorderSize <= 0 {
		return
	}
	setColor(dc, c)
	dc.SetLineWidth(s.BorderSize)
	half := s.BorderSize / 2
	if s.Rounding > 0 {
		dc.DrawRoundedRectangle(x+half, y+half, w-s.BorderSize, h-s.BorderSize, s.Rounding)
	} else {
		dc.DrawRectangle(x+half, y+half, w-s.BorderSize, h-s.BorderSize)
	}
	_ = dc.Stroke()
}

// text draws s left-aligned and vertically centered in the given row.
func (s *Style) text(dc *gg.Context, str string, x, y, h float64, c gg.RGBA) {
	if str == "" {
		return
	}
	setColor(dc, c)
	dc.DrawStringAnchored(str, x+s.TextPadding, y+h/2, 0, 0.35)
}
