package opengl

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/guitex"
)

// Engine embeds guitex pictures into a GLFW window. The goroutine that
// created the window is the engine thread: it must call Tick and Render
// once per frame.
type Engine struct {
	window   *glfw.Window
	renderer *Renderer
	input    *GLFWInputAdapter
	tasks    *guitex.TaskQueue
	log      *slog.Logger

	mu         sync.Mutex
	width      int
	height     int
	decoration guitex.Point

	fullScreen atomic.Bool

	// Engine thread only.
	pictures []*guitex.Picture
	cursors  map[*guitex.Cursor]*glfw.Cursor
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.log = l }
}

// NewEngine creates an engine drawing into window. The window's OpenGL
// context must be current and gl.Init must have run.
func NewEngine(window *glfw.Window, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		window:  window,
		log:     guitex.Logger(),
		cursors: make(map[*guitex.Cursor]*glfw.Cursor),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.tasks = guitex.NewTaskQueue(e.log)

	e.width, e.height = window.GetSize()
	renderer, err := NewRenderer(e.width, e.height)
	if err != nil {
		return nil, fmt.Errorf("opengl engine: %w", err)
	}
	e.renderer = renderer
	e.input = NewGLFWInputAdapter(window)
	e.refresh()

	window.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		e.mu.Lock()
		e.width, e.height = width, height
		e.mu.Unlock()
	})
	return e, nil
}

// refresh samples window state that GLFW only exposes on the main thread.
func (e *Engine) refresh() {
	e.fullScreen.Store(e.window.GetMonitor() != nil)
	left, top, _, _ := e.window.GetFrameSize()
	e.mu.Lock()
	e.decoration = guitex.Point{X: left, Y: top}
	e.mu.Unlock()
}

// Tick runs the queued engine tasks. Call it once per frame, after
// glfw.PollEvents and before Render.
func (e *Engine) Tick() int {
	e.refresh()
	return e.tasks.Run()
}

// Render draws the attached pictures over the current framebuffer.
func (e *Engine) Render() error {
	fbw, fbh := e.window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbw), int32(fbh))
	w, h := e.DisplaySize()
	e.renderer.Resize(w, h)
	return e.renderer.Render(e.pictures)
}

// Enqueue implements guitex.Enqueuer.
func (e *Engine) Enqueue(task func()) { e.tasks.Enqueue(task) }

// SupportsFormat implements guitex.FormatSupport. Every format has a
// direct OpenGL transfer.
func (e *Engine) SupportsFormat(f guitex.PixelFormat) bool {
	_, _, ok := pixelTransfer(f)
	return ok
}

// FallbackFormat implements guitex.FormatSupport.
func (e *Engine) FallbackFormat() guitex.PixelFormat { return guitex.FormatABGR8 }

// DisplaySize implements guitex.DisplaySizer.
func (e *Engine) DisplaySize() (width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width, e.height
}

// DecorationOffset implements guitex.DecorationSource.
func (e *Engine) DecorationOffset() guitex.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.decoration
}

// FullScreen implements guitex.Engine.
func (e *Engine) FullScreen() bool { return e.fullScreen.Load() }

// Attach implements guitex.Engine.
func (e *Engine) Attach(p *guitex.Picture) {
	if !slices.Contains(e.pictures, p) {
		e.pictures = append(e.pictures, p)
	}
}

// Detach implements guitex.Engine.
func (e *Engine) Detach(p *guitex.Picture) {
	e.pictures = slices.DeleteFunc(e.pictures, func(q *guitex.Picture) bool { return q == p })
	e.renderer.Forget(p)
}

// AddRawInputListener implements guitex.InputSource.
func (e *Engine) AddRawInputListener(l guitex.RawInputListener) { e.input.AddRawInputListener(l) }

// RemoveRawInputListener implements guitex.InputSource.
func (e *Engine) RemoveRawInputListener(l guitex.RawInputListener) {
	e.input.RemoveRawInputListener(l)
}

// ApplyCursor implements guitex.CursorApplier. A nil cursor restores the
// system arrow.
func (e *Engine) ApplyCursor(c *guitex.Cursor) {
	if c == nil || c.Image == nil {
		e.window.SetCursor(nil)
		return
	}
	gc, ok := e.cursors[c]
	if !ok {
		gc = glfw.CreateCursor(c.Image, c.Hotspot.X, c.Hotspot.Y)
		e.cursors[c] = gc
	}
	e.window.SetCursor(gc)
}

// Delete releases the engine's GPU resources and cursors.
func (e *Engine) Delete() {
	e.window.SetCursor(nil)
	for _, gc := range e.cursors {
		if gc != nil {
			gc.Destroy()
		}
	}
	clear(e.cursors)
	e.renderer.Delete()
}
