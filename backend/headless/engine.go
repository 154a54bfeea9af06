// Package headless provides a guitex.Engine without a window or GPU. Frames
// are composed into an in-memory image, which makes it suitable for tests,
// screenshots and frame dumps.
package headless

import (
	"image"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/go-theft-auto/guitex"
)

// Engine is an in-memory guitex.Engine. The goroutine calling RunTasks and
// Render plays the engine thread.
type Engine struct {
	guitex.InputBroadcaster

	tasks *guitex.TaskQueue
	log   *slog.Logger

	mu         sync.Mutex
	width      int
	height     int
	decoration guitex.Point
	formats    []guitex.PixelFormat
	fallback   guitex.PixelFormat

	fullScreen atomic.Bool

	// Engine thread only.
	pictures         []*guitex.Picture
	cursor           *guitex.Cursor
	canvas           *image.RGBA
	uploadsByPicture map[*guitex.Picture]*upload
	uploads          int
}

// Option configures an Engine.
type Option func(*Engine)

// WithSize sets the initial display size.
func WithSize(width, height int) Option {
	return func(e *Engine) { e.width, e.height = width, height }
}

// WithFullScreen starts the engine in full screen mode.
func WithFullScreen(fullScreen bool) Option {
	return func(e *Engine) { e.fullScreen.Store(fullScreen) }
}

// WithFormats restricts the texture formats the engine accepts.
// fallback must be one of them.
func WithFormats(fallback guitex.PixelFormat, supported ...guitex.PixelFormat) Option {
	return func(e *Engine) {
		e.fallback = fallback
		e.formats = supported
	}
}

// WithDecoration reports a window decoration offset.
func WithDecoration(p guitex.Point) Option {
	return func(e *Engine) { e.decoration = p }
}

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an 800x600 engine accepting every pixel format.
func New(opts ...Option) *Engine {
	e := &Engine{
		width:    800,
		height:   600,
		fallback: guitex.FormatABGR8,
		formats: []guitex.PixelFormat{
			guitex.FormatARGB8, guitex.FormatBGRA8, guitex.FormatABGR8, guitex.FormatRGBA8,
		},
		log: guitex.Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.tasks = guitex.NewTaskQueue(e.log)
	return e
}

// Enqueue implements guitex.Enqueuer.
func (e *Engine) Enqueue(task func()) { e.tasks.Enqueue(task) }

// RunTasks runs the queued engine tasks and returns how many ran.
func (e *Engine) RunTasks() int { return e.tasks.Run() }

// SupportsFormat implements guitex.FormatSupport.
func (e *Engine) SupportsFormat(f guitex.PixelFormat) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Contains(e.formats, f)
}

// FallbackFormat implements guitex.FormatSupport.
func (e *Engine) FallbackFormat() guitex.PixelFormat {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fallback
}

// DisplaySize implements guitex.DisplaySizer.
func (e *Engine) DisplaySize() (width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width, e.height
}

// SetDisplaySize simulates a window resize.
func (e *Engine) SetDisplaySize(width, height int) {
	e.mu.Lock()
	e.width, e.height = width, height
	e.mu.Unlock()
}

// DecorationOffset implements guitex.DecorationSource.
func (e *Engine) DecorationOffset() guitex.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.decoration
}

// FullScreen implements guitex.Engine.
func (e *Engine) FullScreen() bool { return e.fullScreen.Load() }

// SetFullScreen switches between windowed and full screen mode.
func (e *Engine) SetFullScreen(fullScreen bool) { e.fullScreen.Store(fullScreen) }

// Attach implements guitex.Engine.
func (e *Engine) Attach(p *guitex.Picture) {
	if !slices.Contains(e.pictures, p) {
		e.pictures = append(e.pictures, p)
	}
}

// Detach implements guitex.Engine.
func (e *Engine) Detach(p *guitex.Picture) {
	e.pictures = slices.DeleteFunc(e.pictures, func(q *guitex.Picture) bool { return q == p })
}

// Pictures returns the attached pictures in drawing order.
func (e *Engine) Pictures() []*guitex.Picture { return e.pictures }

// Send delivers ev to the input listeners in registration order and reports
// whether one of them consumed it.
func (e *Engine) Send(ev guitex.InputEvent) bool { return e.Dispatch(ev) }

// ApplyCursor implements guitex.CursorApplier.
func (e *Engine) ApplyCursor(c *guitex.Cursor) { e.cursor = c }

// Cursor returns the last applied cursor, or nil.
func (e *Engine) Cursor() *guitex.Cursor { return e.cursor }

// Uploads returns how many texture uploads Render performed.
func (e *Engine) Uploads() int { return e.uploads }
