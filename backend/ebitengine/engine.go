// Package ebitengine embeds guitex pictures into an Ebitengine game.
//
// The game forwards its Update, Draw and Layout calls to the Engine:
//
//	func (g *Game) Update() error { g.gui.Update(); return nil }
//	func (g *Game) Draw(screen *ebiten.Image) { g.drawWorld(screen); g.gui.Draw(screen) }
//	func (g *Game) Layout(w, h int) (int, int) { return g.gui.Layout(w, h) }
package ebitengine

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/go-theft-auto/guitex"
)

// Engine is a guitex.Engine driven by an Ebitengine game loop. Update and
// Draw run on the game goroutine, which plays the engine thread.
type Engine struct {
	guitex.InputBroadcaster

	tasks *guitex.TaskQueue
	log   *slog.Logger

	mu     sync.Mutex
	width  int
	height int

	// Game goroutine only.
	pictures []*guitex.Picture
	images   map[*guitex.Picture]*pictureImage
	poller   guitex.InputPoller
}

// pictureImage is the GPU copy of one picture's texture.
type pictureImage struct {
	version uint64
	img     *ebiten.Image
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an engine. The display size is taken from the first Layout
// call; until then it follows the window size.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:    guitex.Logger(),
		images: make(map[*guitex.Picture]*pictureImage),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.width, e.height = ebiten.WindowSize()
	e.tasks = guitex.NewTaskQueue(e.log)
	return e
}

// Update polls input, delivers it to the listeners and runs the queued
// engine tasks. Call it from the game's Update.
func (e *Engine) Update() {
	for _, ev := range e.poller.Poll(snapshot()) {
		e.Dispatch(ev)
	}
	e.tasks.Run()
}

// Layout records the outside size as the display size and returns it
// unscaled.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	e.mu.Lock()
	e.width, e.height = outsideWidth, outsideHeight
	e.mu.Unlock()
	return outsideWidth, outsideHeight
}

// Draw draws every visible picture over screen.
func (e *Engine) Draw(screen *ebiten.Image) {
	for _, p := range e.pictures {
		if !p.Visible() {
			continue
		}
		img := e.upload(p)
		if img == nil {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(p.Position.X), float64(p.Position.Y))
		screen.DrawImage(img, op)
	}
}

func (e *Engine) upload(p *guitex.Picture) *ebiten.Image {
	src := p.Texture.Image()
	if src == nil || src.Size.Empty() || src.Format != guitex.FormatRGBA8 {
		return nil
	}
	pi := e.images[p]
	version := p.Texture.Version()
	if pi == nil || pi.version != version {
		if pi != nil {
			pi.img.Deallocate()
		}
		pi = &pictureImage{version: version, img: ebiten.NewImage(src.Size.Width, src.Size.Height)}
		e.images[p] = pi
		src.TakeUpdate()
		pi.img.WritePixels(src.Data)
	} else if src.TakeUpdate() {
		pi.img.WritePixels(src.Data)
	}
	return pi.img
}

// Enqueue implements guitex.Enqueuer.
func (e *Engine) Enqueue(task func()) { e.tasks.Enqueue(task) }

// SupportsFormat implements guitex.FormatSupport. Ebitengine images take
// premultiplied RGBA bytes only.
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
func (e *Engine) FullScreen() bool { return ebiten.IsFullscreen() }

// Attach implements guitex.Engine.
func (e *Engine) Attach(p *guitex.Picture) {
	if !slices.Contains(e.pictures, p) {
		e.pictures = append(e.pictures, p)
	}
}

// Detach implements guitex.Engine.
func (e *Engine) Detach(p *guitex.Picture) {
	e.pictures = slices.DeleteFunc(e.pictures, func(q *guitex.Picture) bool { return q == p })
	if pi, ok := e.images[p]; ok {
		pi.img.Deallocate()
		delete(e.images, p)
	}
}

// ApplyCursor implements guitex.CursorApplier. Ebitengine only offers system
// cursor shapes, so the kind picks the closest one and the image is unused.
func (e *Engine) ApplyCursor(c *guitex.Cursor) {
	kind := guitex.CursorDefault
	if c != nil {
		kind = c.Kind
	}
	if kind == guitex.CursorNone || kind == guitex.CursorDisappear {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
		return
	}
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
	ebiten.SetCursorShape(cursorShape(kind))
}

func cursorShape(kind guitex.CursorKind) ebiten.CursorShapeType {
	switch kind {
	case guitex.CursorText:
		return ebiten.CursorShapeText
	case guitex.CursorCrosshair:
		return ebiten.CursorShapeCrosshair
	case guitex.CursorHand, guitex.CursorOpenHand, guitex.CursorClosedHand:
		return ebiten.CursorShapePointer
	case guitex.CursorMove:
		return ebiten.CursorShapeMove
	case guitex.CursorEResize, guitex.CursorWResize, guitex.CursorHResize:
		return ebiten.CursorShapeEWResize
	case guitex.CursorNResize, guitex.CursorSResize, guitex.CursorVResize:
		return ebiten.CursorShapeNSResize
	case guitex.CursorNEResize, guitex.CursorSWResize:
		return ebiten.CursorShapeNESWResize
	case guitex.CursorNWResize, guitex.CursorSEResize:
		return ebiten.CursorShapeNWSEResize
	default:
		return ebiten.CursorShapeDefault
	}
}
