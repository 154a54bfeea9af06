package guitex

// FocusReason tells the stage why its focus changed.
type FocusReason int

const (
	FocusActivated FocusReason = iota
	FocusDeactivated
)

func (r FocusReason) String() string {
	if r == FocusActivated {
		return "activated"
	}
	return "deactivated"
}

// ScenePeer is the toolkit side of the embedded scene.
type ScenePeer interface {
	// GetPixels renders the scene into dst, which holds width*height pixels
	// in the toolkit's native format. It returns false when no frame is
	// available; the paint cycle is then skipped.
	GetPixels(dst []byte, width, height int) bool
	SetSize(width, height int)
	// DispatchInput delivers an event in scene coordinates.
	DispatchInput(ev InputEvent)
}

// StagePeer is the toolkit side of the embedded window.
type StagePeer interface {
	SetSize(width, height int)
	SetFocused(focused bool, reason FocusReason)
}

// Host is implemented by Container and called by the toolkit.
type Host interface {
	SetEmbeddedStage(stage StagePeer)
	SetEmbeddedScene(scene ScenePeer)
	// Repaint asks for a paint cycle on the GUI thread.
	Repaint()
	SetCursor(kind CursorKind)
	RequestFocus() bool
}

// Window is an embedded toolkit window hosting one scene.
type Window interface {
	// SetScene replaces the window's root. The concrete scene type is
	// defined by the toolkit.
	SetScene(scene any) error
	Show()
	Hide()
	Showing() bool
}

// Toolkit is the retained-mode GUI system being embedded.
type Toolkit interface {
	GUIExecutor
	NativeFormatSource

	// Start boots the toolkit. It may be called more than once; only the
	// first call starts anything and every call waits for startup to finish.
	Start() error
	// NewWindow creates a hidden embedded window reporting to host.
	// It must be called on the GUI thread.
	NewWindow(host Host) Window
	Exit()
}

// PopupExtension is implemented by toolkits that can report their popup
// windows' lifecycle. InstallPopupHooks returns false when the toolkit
// cannot honor the hooks after all.
type PopupExtension interface {
	InstallPopupHooks(hooks PopupHooks) bool
}

// Engine is the real-time renderer the GUI is embedded into.
type Engine interface {
	Enqueuer
	FormatSupport
	DisplaySizer

	FullScreen() bool
	// Attach adds the picture to the GUI layer of the scene graph.
	// Detach removes it. Both run on the engine thread.
	Attach(p *Picture)
	Detach(p *Picture)
}

// InputSource is implemented by engines that deliver raw input.
type InputSource interface {
	AddRawInputListener(l RawInputListener)
	RemoveRawInputListener(l RawInputListener)
}

// DecorationSource is implemented by engines that know the size of the
// window decorations around the client area.
type DecorationSource interface {
	DecorationOffset() Point
}

// PaintListener observes paint cycles. Both methods run on the GUI thread.
type PaintListener interface {
	PrePaint()
	PostPaint()
}
