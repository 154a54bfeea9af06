package guitex

import "log/slog"

// DisplaySizer reports the current size of the engine's drawable area.
type DisplaySizer interface {
	DisplaySize() (width, height int)
}

// ResizeCoordinator follows the display size. The engine tick calls Check;
// when the size changed it reallocates the frame buffers, rebinds a new
// Image to the existing Texture and tells the GUI thread about it.
type ResizeCoordinator struct {
	display DisplaySizer
	bridge  *CopyBridge
	texture *Texture
	format  PixelFormat
	gui     GUIExecutor
	log     *slog.Logger

	last    Size
	checked bool

	// OnEngineResize runs on the engine thread once the new buffers are in
	// place, e.g. to resize the picture node.
	OnEngineResize func(size Size)
	// OnGUIResize runs on the GUI thread, e.g. to resize the stage and scene
	// peers and request a repaint.
	OnGUIResize func(size Size)
}

// NewResizeCoordinator creates a coordinator. format is the pixel format of
// the images it binds to texture.
func NewResizeCoordinator(display DisplaySizer, bridge *CopyBridge, texture *Texture,
	format PixelFormat, gui GUIExecutor, log *slog.Logger) *ResizeCoordinator {
	if log == nil {
		log = Logger()
	}
	return &ResizeCoordinator{
		display: display,
		bridge:  bridge,
		texture: texture,
		format:  format,
		gui:     gui,
		log:     log,
	}
}

// Check polls the display size and resizes when it changed since the last
// call. The first call always resizes. It reports whether a resize happened.
func (r *ResizeCoordinator) Check() bool {
	w, h := r.display.DisplaySize()
	size := Size{Width: w, Height: h}
	if r.checked && size == r.last {
		return false
	}
	r.checked = true
	r.last = size
	r.Resize()
	return true
}

// Resize reallocates everything for the last polled display size.
func (r *ResizeCoordinator) Resize() Size {
	size := r.bridge.Resize(r.last, func(texture []byte, size Size) {
		r.texture.SetImage(NewImage(r.format, size, texture))
	})
	r.log.Debug("frame buffers resized", "display", r.last, "frame", size)

	if r.OnEngineResize != nil {
		r.OnEngineResize(size)
	}
	if r.OnGUIResize != nil {
		notify := r.OnGUIResize
		r.gui.RunLater(func() { notify(size) })
	}
	return size
}

// LastDisplaySize returns the last polled display size, before clamping.
func (r *ResizeCoordinator) LastDisplaySize() Size {
	return r.last
}
