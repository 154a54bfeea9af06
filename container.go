package guitex

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// Container embeds one toolkit window into an engine. The toolkit renders
// off screen; the container copies its frames into a texture shown by a
// full-screen picture and feeds engine input back to the toolkit.
//
// Threads:
//   - Install, Update and the picture belong to the engine thread.
//   - Paint and SetScene's work run on the GUI thread.
//   - Everything else is safe from any goroutine.
type Container struct {
	cfg     Config
	log     *slog.Logger
	engine  Engine
	toolkit Toolkit

	format  Negotiation
	bridge  *CopyBridge
	texture *Texture
	picture *Picture
	resize  *ResizeCoordinator
	popups  *PopupCompositor
	cursors *CursorResolver
	input   *InputRouter

	peersMu sync.RWMutex
	stage   StagePeer
	scene   ScenePeer

	window Window // GUI thread only

	listenersMu sync.Mutex
	listeners   atomic.Pointer[[]PaintListener]

	focused       atomic.Bool
	repaintQueued atomic.Bool
	closed        atomic.Bool
}

// Install boots the toolkit, negotiates the pixel format and attaches a
// picture showing the GUI to the engine. It blocks until the toolkit
// reported its native format or ctx is done. Install must be called on the
// engine thread.
func Install(ctx context.Context, engine Engine, toolkit Toolkit, opts ...Option) (*Container, error) {
	cfg := NewConfig(opts...)
	log := cfg.Logger.With("container", cfg.Name)

	if err := toolkit.Start(); err != nil {
		return nil, fmt.Errorf("starting toolkit: %w", err)
	}

	negotiator := NewNegotiator(log)
	negotiator.Start(toolkit, toolkit, engine)
	format, err := negotiator.Await(ctx)
	if err != nil {
		return nil, err
	}

	c := &Container{
		cfg:     cfg,
		log:     log,
		engine:  engine,
		toolkit: toolkit,
		format:  format,
	}
	c.bridge = NewCopyBridge(Size{}, format.Reorder, log)
	c.texture = NewTexture(nil)
	c.picture = NewPicture(cfg.Name, c.texture, c.bridge.Size())

	c.resize = NewResizeCoordinator(engine, c.bridge, c.texture, format.Engine, toolkit, log)
	c.resize.OnEngineResize = func(size Size) { c.picture.Size = size }
	c.resize.OnGUIResize = c.resizePeers
	c.resize.Check()

	c.popups = NewPopupCompositor(engine.FullScreen, c.decorationOffset(), log)
	c.installPopups()

	applier, _ := engine.(CursorApplier)
	c.cursors = NewCursorResolver(cfg.CursorAssets, engine, applier, log)

	c.input = NewInputRouter(c)
	if src, ok := engine.(InputSource); ok {
		src.AddRawInputListener(c.input)
	} else {
		log.Warn("engine delivers no raw input, GUI input disabled")
	}

	picture := c.picture
	engine.Enqueue(func() {
		engine.Attach(picture)
		picture.Attached = true
	})
	toolkit.RunLater(func() {
		if c.window == nil && !c.closed.Load() {
			c.window = toolkit.NewWindow(c)
		}
	})

	log.Info("container installed", "size", c.bridge.Size(), "format", format.Engine)
	return c, nil
}

func (c *Container) decorationOffset() Point {
	if c.cfg.DecorationOffset != nil {
		return *c.cfg.DecorationOffset
	}
	if src, ok := c.engine.(DecorationSource); ok {
		return src.DecorationOffset()
	}
	return Point{}
}

func (c *Container) installPopups() {
	if !c.cfg.FullScreenPopups {
		return
	}
	ext, ok := c.toolkit.(PopupExtension)
	if !ok {
		c.log.Warn("toolkit has no popup extension, full screen popups unsupported")
		return
	}
	c.popups.Enable()
	if !ext.InstallPopupHooks(c.popups) {
		c.popups.Disable()
		c.log.Warn("popup hooks rejected, full screen popups unsupported")
	}
}

// SetScene shows scene in the embedded window, creating the window when
// needed. A nil scene hides and discards the window. The scene type is the
// one the toolkit's Window accepts.
func (c *Container) SetScene(scene any) {
	c.toolkit.RunLater(func() { c.setScene(scene) })
}

func (c *Container) setScene(scene any) {
	if c.closed.Load() {
		return
	}
	picture := c.picture

	if scene == nil {
		if c.window != nil {
			c.window.Hide()
			c.window = nil
		}
		c.engine.Enqueue(func() { picture.Cull = CullAlways })
		c.log.Info("scene removed")
		return
	}

	if c.window == nil {
		c.window = c.toolkit.NewWindow(c)
	}
	if err := c.window.SetScene(scene); err != nil {
		c.log.Error("setting scene", "err", err)
		return
	}
	c.window.Show()
	c.engine.Enqueue(func() { picture.Cull = CullNever })
	c.log.Info("scene set")
	c.Repaint()
}

// Paint renders one frame of the scene into the bridge. It runs on the GUI
// thread and reports whether a frame was committed. Paint listeners get
// PostPaint only when the scene produced pixels.
func (c *Container) Paint() bool {
	scene := c.Scene()
	if scene == nil || c.closed.Load() {
		return false
	}

	listeners := c.paintListeners()
	for _, l := range listeners {
		l.PrePaint()
	}

	produced := false
	committed := c.bridge.Paint(func(staging []byte, size Size) bool {
		if !scene.GetPixels(staging, size.Width, size.Height) {
			return false
		}
		produced = true
		c.popups.Composite(staging, size)
		return true
	})

	// A cycle without pixels ends after PrePaint.
	if !produced {
		return false
	}
	for _, l := range listeners {
		l.PostPaint()
	}
	return committed
}

// Update is the engine tick: it follows the display size and copies the
// newest GUI frame into the texture. It reports whether the texture changed.
func (c *Container) Update() bool {
	if c.closed.Load() {
		return false
	}
	c.resize.Check()

	_, ok := c.bridge.Flush(func(texture []byte, size Size) {
		if img := c.texture.Image(); img != nil {
			img.SetUpdateNeeded()
		}
		if c.cfg.FrameRecorder != nil {
			if err := c.cfg.FrameRecorder.RecordFrame(c.format.Engine, size, texture); err != nil {
				c.log.Warn("recording frame", "err", err)
			}
		}
	})
	return ok
}

// IsCovered reports whether the last flushed frame has a non-transparent
// pixel at x, y in picture coordinates.
func (c *Container) IsCovered(x, y int) bool {
	alpha := c.format.Engine.AlphaIndex()
	covered := false
	c.bridge.View(func(texture []byte, size Size) {
		if x < 0 || x >= size.Width || y < 0 || y >= size.Height {
			return
		}
		covered = texture[(y*size.Width+x)*BytesPerPixel+alpha] != 0
	})
	return covered
}

// GrabFocus gives keyboard focus to the GUI.
func (c *Container) GrabFocus() {
	stage := c.Stage()
	if stage == nil || !c.focused.CompareAndSwap(false, true) {
		return
	}
	c.toolkit.RunLater(func() { stage.SetFocused(true, FocusActivated) })
}

// LoseFocus takes keyboard focus away from the GUI.
func (c *Container) LoseFocus() {
	stage := c.Stage()
	if stage == nil || !c.focused.CompareAndSwap(true, false) {
		return
	}
	c.toolkit.RunLater(func() { stage.SetFocused(false, FocusDeactivated) })
}

// Focused reports whether the GUI has keyboard focus.
func (c *Container) Focused() bool {
	return c.focused.Load()
}

// AddPaintListener registers l for every following paint cycle.
func (c *Container) AddPaintListener(l PaintListener) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	next := append(slices.Clone(c.paintListeners()), l)
	c.listeners.Store(&next)
}

// RemovePaintListener unregisters l.
func (c *Container) RemovePaintListener(l PaintListener) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	cur := c.paintListeners()
	i := slices.Index(cur, l)
	if i < 0 {
		return
	}
	next := slices.Delete(slices.Clone(cur), i, i+1)
	c.listeners.Store(&next)
}

func (c *Container) paintListeners() []PaintListener {
	if p := c.listeners.Load(); p != nil {
		return *p
	}
	return nil
}

// SetPassthrough sets the listener receiving input the GUI did not consume.
func (c *Container) SetPassthrough(l RawInputListener) {
	c.input.SetPassthrough(l)
}

// Close detaches the picture, stops input routing and shuts the toolkit
// down. It returns ErrClosed when called twice.
func (c *Container) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if src, ok := c.engine.(InputSource); ok {
		src.RemoveRawInputListener(c.input)
	}
	picture, engine := c.picture, c.engine
	engine.Enqueue(func() {
		engine.Detach(picture)
		picture.Attached = false
	})
	c.toolkit.RunLater(func() {
		if c.window != nil {
			c.window.Hide()
			c.window = nil
		}
	})
	c.toolkit.Exit()
	c.log.Info("container closed")
	return nil
}

// Host callbacks, called by the toolkit on the GUI thread.

// SetEmbeddedStage implements Host.
func (c *Container) SetEmbeddedStage(stage StagePeer) {
	c.peersMu.Lock()
	c.stage = stage
	c.peersMu.Unlock()
	if stage != nil {
		size := c.bridge.Size()
		stage.SetSize(size.Width, size.Height)
	}
}

// SetEmbeddedScene implements Host.
func (c *Container) SetEmbeddedScene(scene ScenePeer) {
	c.peersMu.Lock()
	c.scene = scene
	c.peersMu.Unlock()
	if scene != nil {
		size := c.bridge.Size()
		scene.SetSize(size.Width, size.Height)
	}
}

// Repaint implements Host. Requests made while a paint is queued are merged.
func (c *Container) Repaint() {
	if !c.repaintQueued.CompareAndSwap(false, true) {
		return
	}
	c.toolkit.RunLater(func() {
		c.repaintQueued.Store(false)
		c.Paint()
	})
}

// SetCursor implements Host.
func (c *Container) SetCursor(kind CursorKind) {
	c.cursors.Show(kind)
}

// RequestFocus implements Host.
func (c *Container) RequestFocus() bool {
	c.GrabFocus()
	return c.Focused()
}

func (c *Container) resizePeers(size Size) {
	if stage := c.Stage(); stage != nil {
		stage.SetSize(size.Width, size.Height)
	}
	if scene := c.Scene(); scene != nil {
		scene.SetSize(size.Width, size.Height)
	}
	c.Repaint()
}

// RunLater implements InputTarget.
func (c *Container) RunLater(task func()) {
	c.toolkit.RunLater(task)
}

// Stage returns the embedded stage peer, or nil.
func (c *Container) Stage() StagePeer {
	c.peersMu.RLock()
	defer c.peersMu.RUnlock()
	return c.stage
}

// Scene returns the embedded scene peer, or nil.
func (c *Container) Scene() ScenePeer {
	c.peersMu.RLock()
	defer c.peersMu.RUnlock()
	return c.scene
}

// PictureOffset returns the picture's screen position. Engine thread only.
func (c *Container) PictureOffset() Point {
	return c.picture.Position
}

// Config returns the container configuration.
func (c *Container) Config() Config { return c.cfg }

// Format returns the negotiated pixel formats.
func (c *Container) Format() Negotiation { return c.format }

// Bridge returns the frame bridge.
func (c *Container) Bridge() *CopyBridge { return c.bridge }

// Texture returns the engine texture handle.
func (c *Container) Texture() *Texture { return c.texture }

// Picture returns the picture node. Engine thread only.
func (c *Container) Picture() *Picture { return c.picture }

// Popups returns the popup compositor.
func (c *Container) Popups() *PopupCompositor { return c.popups }

// Cursors returns the cursor resolver.
func (c *Container) Cursors() *CursorResolver { return c.cursors }

// Input returns the input router.
func (c *Container) Input() *InputRouter { return c.input }
