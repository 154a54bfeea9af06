package guitex

import "log/slog"

// PopupWindow is a secondary toolkit window (menu, tooltip, combo list).
type PopupWindow interface {
	// ScreenPosition returns the window's top-left corner in screen
	// coordinates, including the host window decorations.
	ScreenPosition() (x, y int)
}

// PopupSnapshot holds the last frame a popup painted. Only the popup's own
// paint writes it, through Update; the compositor reads it on the same
// GUI thread.
type PopupSnapshot struct {
	window PopupWindow
	pixels []byte
	size   Size
}

// Update replaces the snapshot with pixels of the given size, which must be
// in the toolkit's native format.
func (s *PopupSnapshot) Update(pixels []byte, size Size) {
	n := size.Bytes()
	if n <= 0 || len(pixels) < n {
		s.size = Size{}
		s.pixels = s.pixels[:0]
		return
	}
	if cap(s.pixels) < n {
		s.pixels = make([]byte, n)
	}
	s.pixels = s.pixels[:n]
	copy(s.pixels, pixels)
	s.size = size
}

// Size returns the size of the last painted frame.
func (s *PopupSnapshot) Size() Size { return s.size }

// Window returns the popup the snapshot belongs to.
func (s *PopupSnapshot) Window() PopupWindow { return s.window }

// PopupHooks receives the popup lifecycle from toolkits implementing
// PopupExtension.
type PopupHooks interface {
	// Show starts tracking w and returns the snapshot its paint must
	// update. It returns nil when popups are not composited right now.
	Show(w PopupWindow) *PopupSnapshot
	// Hide stops tracking w. The next composite pass no longer draws it.
	Hide(w PopupWindow)
}

// PopupCompositor draws popup snapshots over the main frame while the
// engine runs full screen, where the toolkit's popups cannot be real
// windows. It is only used from the GUI thread.
type PopupCompositor struct {
	enabled    bool
	fullScreen func() bool
	decoration Point
	popups     []*PopupSnapshot
	log        *slog.Logger
}

// NewPopupCompositor creates a disabled compositor. fullScreen is polled on
// every Show and Composite. decoration is subtracted from popup screen
// positions to get frame coordinates.
func NewPopupCompositor(fullScreen func() bool, decoration Point, log *slog.Logger) *PopupCompositor {
	if log == nil {
		log = Logger()
	}
	return &PopupCompositor{fullScreen: fullScreen, decoration: decoration, log: log}
}

// Enable turns popup compositing on. Until then Show ignores every popup.
func (c *PopupCompositor) Enable() { c.enabled = true }

// Disable turns popup compositing off and forgets every tracked popup.
func (c *PopupCompositor) Disable() {
	c.enabled = false
	c.popups = nil
}

// Enabled reports whether popup compositing is supported.
func (c *PopupCompositor) Enabled() bool { return c.enabled }

// Show starts tracking w. Windows shown twice keep their first position in
// the registration order.
func (c *PopupCompositor) Show(w PopupWindow) *PopupSnapshot {
	if !c.enabled || !c.fullScreen() {
		return nil
	}
	for _, s := range c.popups {
		if s.window == w {
			return s
		}
	}
	s := &PopupSnapshot{window: w}
	c.popups = append(c.popups, s)
	c.log.Debug("popup shown", "popups", len(c.popups))
	return s
}

// Hide stops tracking w. Unknown windows are logged and ignored.
func (c *PopupCompositor) Hide(w PopupWindow) {
	if !c.enabled {
		return
	}
	for i, s := range c.popups {
		if s.window == w {
			c.popups = append(c.popups[:i], c.popups[i+1:]...)
			c.log.Debug("popup hidden", "popups", len(c.popups))
			return
		}
	}
	if c.fullScreen() {
		c.log.Warn("hide for unknown popup window ignored")
	}
}

// Len returns the number of tracked popups.
func (c *PopupCompositor) Len() int { return len(c.popups) }

// Composite draws every tracked popup into dst in registration order and
// returns how many were drawn. Popups are clipped to size.
func (c *PopupCompositor) Composite(dst []byte, size Size) int {
	if !c.enabled || len(c.popups) == 0 || !c.fullScreen() {
		return 0
	}
	drawn := 0
	for _, s := range c.popups {
		if s.size.Empty() {
			continue
		}
		x, y := s.window.ScreenPosition()
		at := Point{X: x, Y: y}.Sub(c.decoration)
		if blit(dst, size, s.pixels, s.size, at) {
			drawn++
		}
	}
	return drawn
}

// blit copies src into dst with its top-left corner at at, clipped to dst.
// It reports whether any pixel was copied.
func blit(dst []byte, dstSize Size, src []byte, srcSize Size, at Point) bool {
	clip := Rect{X: at.X, Y: at.Y, W: srcSize.Width, H: srcSize.Height}.
		Intersect(Rect{W: dstSize.Width, H: dstSize.Height})
	if clip.Empty() {
		return false
	}
	rowBytes := clip.W * BytesPerPixel
	for y := clip.Y; y < clip.Y+clip.H; y++ {
		srcOff := ((y-at.Y)*srcSize.Width + (clip.X - at.X)) * BytesPerPixel
		dstOff := (y*dstSize.Width + clip.X) * BytesPerPixel
		copy(dst[dstOff:dstOff+rowBytes], src[srcOff:srcOff+rowBytes])
	}
	return true
}
