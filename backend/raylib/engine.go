// Package raylib embeds guitex pictures into a raylib window. The thread
// that opened the window calls Update before drawing the world and Draw
// inside BeginDrawing/EndDrawing.
package raylib

import (
	"image/color"
	"log/slog"
	"slices"
	"sync"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/go-theft-auto/guitex"
)

// Engine is a guitex.Engine for raylib. All methods except Enqueue,
// SupportsFormat, FallbackFormat and the input listener methods must run on
// the raylib thread.
type Engine struct {
	guitex.InputBroadcaster

	tasks      *guitex.TaskQueue
	log        *slog.Logger
	decoration guitex.DecorationSource

	mu            sync.Mutex
	width, height int
	fullScreen    bool

	pictures []*guitex.Picture
	textures map[*guitex.Picture]*pictureTexture
	poller   guitex.InputPoller
	keys     keyTracker
}

// pictureTexture is the GPU copy of one picture's texture.
type pictureTexture struct {
	version uint64
	tex     rl.Texture2D
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithDecoration sets where the engine reads the window decoration offset
// from. Raylib does not report it.
func WithDecoration(src guitex.DecorationSource) Option {
	return func(e *Engine) { e.decoration = src }
}

// New creates an engine for the open raylib window.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:      guitex.Logger(),
		textures: make(map[*guitex.Picture]*pictureTexture),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.tasks = guitex.NewTaskQueue(e.log)
	e.refresh()
	return e
}

// refresh samples window state. Raylib calls are only valid on its thread,
// so other goroutines read these cached values.
func (e *Engine) refresh() {
	w, h := int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
	fs := rl.IsWindowFullscreen()
	e.mu.Lock()
	e.width, e.height, e.fullScreen = w, h, fs
	e.mu.Unlock()
}

// Update polls input, delivers it to the listeners and runs the queued
// engine tasks. Call it once per frame.
func (e *Engine) Update() {
	e.refresh()
	for _, ev := range e.poller.Poll(e.snapshot()) {
		e.Dispatch(ev)
	}
	e.tasks.Run()
}

// Draw draws every visible picture with premultiplied alpha blending.
func (e *Engine) Draw() {
	rl.BeginBlendMode(rl.BlendAlphaPremultiply)
	for _, p := range e.pictures {
		if !p.Visible() {
			continue
		}
		pt := e.upload(p)
		if pt == nil {
			continue
		}
		rl.DrawTexture(pt.tex, int32(p.Position.X), int32(p.Position.Y), rl.White)
	}
	rl.EndBlendMode()
}

func (e *Engine) upload(p *guitex.Picture) *pictureTexture {
	src := p.Texture.Image()
	if src == nil || src.Size.Empty() || src.Format != guitex.FormatRGBA8 {
		return nil
	}
	pt := e.textures[p]
	version := p.Texture.Version()
	if pt == nil || pt.version != version {
		if pt != nil {
			rl.UnloadTexture(pt.tex)
		}
		img := rl.GenImageColor(src.Size.Width, src.Size.Height, rl.Blank)
		pt = &pictureTexture{version: version, tex: rl.LoadTextureFromImage(img)}
		rl.UnloadImage(img)
		e.textures[p] = pt
		src.TakeUpdate()
		rl.UpdateTexture(pt.tex, rgbaPixels(src.Data))
	} else if src.TakeUpdate() {
		rl.UpdateTexture(pt.tex, rgbaPixels(src.Data))
	}
	return pt
}

// rgbaPixels views RGBA bytes as colors without copying.
func rgbaPixels(data []byte) []color.RGBA {
	if len(data) < 4 {
		return nil
	}
	return unsafe.Slice((*color.RGBA)(unsafe.Pointer(&data[0])), len(data)/4)
}

// Enqueue implements guitex.Enqueuer.
func (e *Engine) Enqueue(task func()) { e.tasks.Enqueue(task) }

// SupportsFormat implements guitex.FormatSupport. Textures are created
// as uncompressed R8G8B8A8.
func (e *Engine) SupportsFormat(f guitex.PixelFormat) bool { return f == guitex.FormatRGBA8 }

// FallbackFormat implements guitex.FormatSupport.
func (e *Engine) FallbackFormat() guitex.PixelFormat { return guitex.FormatRGBA8 }

// DisplaySize implements guitex.DisplaySizer.
func (e *Engine) DisplaySize() (width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width, e.height
}

// FullScreen implements guitex.Engine.
func (e *Engine) FullScreen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fullScreen
}

// DecorationOffset implements guitex.DecorationSource.
func (e *Engine) DecorationOffset() guitex.Point {
	if e.decoration == nil {
		return guitex.Point{}
	}
	return e.decoration.DecorationOffset()
}

// Attach implements guitex.Engine.
func (e *Engine) Attach(p *guitex.Picture) {
	if !slices.Contains(e.pictures, p) {
		e.pictures = append(e.pictures, p)
	}
}

// Detach implements guitex.Engine.
func (e *Engine) Detach(p *guitex.Picture) {
	e.pictures = slices.DeleteFunc(e.pictures, func(q *guitex.Picture) bool { return q == p })
	if pt, ok := e.textures[p]; ok {
		rl.UnloadTexture(pt.tex)
		delete(e.textures, p)
	}
}

// ApplyCursor implements guitex.CursorApplier. Raylib only offers system
// cursor shapes, so the kind picks the closest one.
func (e *Engine) ApplyCursor(c *guitex.Cursor) {
	kind := guitex.CursorDefault
	if c != nil {
		kind = c.Kind
	}
	if kind == guitex.CursorNone || kind == guitex.CursorDisappear {
		rl.HideCursor()
		return
	}
	rl.ShowCursor()
	rl.SetMouseCursor(mouseCursor(kind))
}

func mouseCursor(kind guitex.CursorKind) int32 {
	switch kind {
	case guitex.CursorText:
		return rl.MouseCursorIBeam
	case guitex.CursorCrosshair:
		return rl.MouseCursorCrosshair
	case guitex.CursorHand, guitex.CursorOpenHand, guitex.CursorClosedHand:
		return rl.MouseCursorPointingHand
	case guitex.CursorMove:
		return rl.MouseCursorResizeAll
	case guitex.CursorEResize, guitex.CursorWResize, guitex.CursorHResize:
		return rl.MouseCursorResizeEW
	case guitex.CursorNResize, guitex.CursorSResize, guitex.CursorVResize:
		return rl.MouseCursorResizeNS
	case guitex.CursorNEResize, guitex.CursorSWResize:
		return rl.MouseCursorResizeNESW
	case guitex.CursorNWResize, guitex.CursorSEResize:
		return rl.MouseCursorResizeNWSE
	default:
		return rl.MouseCursorDefault
	}
}

// Close releases every picture texture.
func (e *Engine) Close() {
	for p := range e.textures {
		e.Detach(p)
	}
}
