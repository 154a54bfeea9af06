package guitex

import (
	"embed"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CursorKind is the cursor shape the GUI asks for.
type CursorKind int

const (
	CursorDefault CursorKind = iota
	CursorCrosshair
	CursorText
	CursorWait
	CursorHand
	CursorMove
	CursorNResize
	CursorSResize
	CursorEResize
	CursorWResize
	CursorNEResize
	CursorNWResize
	CursorSEResize
	CursorSWResize
	CursorHResize
	CursorVResize
	CursorOpenHand
	CursorClosedHand
	CursorNone
	CursorDisappear
	CursorImage
)

var cursorKindNames = [...]string{
	CursorDefault:    "default",
	CursorCrosshair:  "crosshair",
	CursorText:       "text",
	CursorWait:       "wait",
	CursorHand:       "hand",
	CursorMove:       "move",
	CursorNResize:    "n-resize",
	CursorSResize:    "s-resize",
	CursorEResize:    "e-resize",
	CursorWResize:    "w-resize",
	CursorNEResize:   "ne-resize",
	CursorNWResize:   "nw-resize",
	CursorSEResize:   "se-resize",
	CursorSWResize:   "sw-resize",
	CursorHResize:    "h-resize",
	CursorVResize:    "v-resize",
	CursorOpenHand:   "open-hand",
	CursorClosedHand: "closed-hand",
	CursorNone:       "none",
	CursorDisappear:  "disappear",
	CursorImage:      "image",
}

func (k CursorKind) String() string {
	if k >= 0 && int(k) < len(cursorKindNames) {
		return cursorKindNames[k]
	}
	return fmt.Sprintf("CursorKind(%d)", int(k))
}

// cursorAssets maps each kind to its file in the asset store. Kinds without
// an entry always fall back to the default cursor.
var cursorAssets = map[CursorKind]string{
	CursorDefault:   "aero_arrow.cur",
	CursorCrosshair: "aero_cross.cur",
	CursorText:      "aero_text.cur",
	CursorWait:      "aero_busy.ani",
	CursorHand:      "aero_link.cur",
	CursorMove:      "aero_move.cur",
	CursorNResize:   "aero_ns.cur",
	CursorSResize:   "aero_ns.cur",
	CursorVResize:   "aero_ns.cur",
	CursorEResize:   "aero_ew.cur",
	CursorWResize:   "aero_ew.cur",
	CursorHResize:   "aero_ew.cur",
	CursorNEResize:  "aero_nesw.cur",
	CursorSWResize:  "aero_nesw.cur",
	CursorNWResize:  "aero_nwse.cur",
	CursorSEResize:  "aero_nwse.cur",
}

// CursorAsset returns the asset file name for kind and whether it has one.
func CursorAsset(kind CursorKind) (string, bool) {
	name, ok := cursorAssets[kind]
	return name, ok
}

//go:embed cursors
var cursorFS embed.FS

// DefaultCursorAssets returns the built-in cursor set.
func DefaultCursorAssets() fs.FS {
	sub, err := fs.Sub(cursorFS, "cursors")
	if err != nil {
		panic(err)
	}
	return sub
}

// Cursor is a decoded cursor image.
type Cursor struct {
	Kind    CursorKind
	Image   *image.NRGBA
	Hotspot image.Point
}

// CursorApplier is implemented by engines that can change the mouse
// cursor. ApplyCursor always runs on the engine thread.
type CursorApplier interface {
	ApplyCursor(c *Cursor)
}

// CursorResolver loads cursor images on first use and caches them per kind.
// Show is safe from any goroutine.
type CursorResolver struct {
	assets  fs.FS
	engine  Enqueuer
	applier CursorApplier
	log     *slog.Logger

	mu    sync.RWMutex
	cache map[CursorKind]*Cursor
	group singleflight.Group
}

// NewCursorResolver creates a resolver reading from assets. applier may be
// nil, in which case Show only resolves.
func NewCursorResolver(assets fs.FS, engine Enqueuer, applier CursorApplier, log *slog.Logger) *CursorResolver {
	if log == nil {
		log = Logger()
	}
	return &CursorResolver{
		assets:  assets,
		engine:  engine,
		applier: applier,
		log:     log,
		cache:   make(map[CursorKind]*Cursor),
	}
}

// Load returns the cursor for kind, loading it on first use. Concurrent
// loads of the same kind share one read. A failed load is not cached.
func (r *CursorResolver) Load(kind CursorKind) (*Cursor, error) {
	r.mu.RLock()
	c, ok := r.cache[kind]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	v, err, _ := r.group.Do(kind.String(), func() (any, error) {
		return r.load(kind)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Cursor), nil
}

func (r *CursorResolver) load(kind CursorKind) (*Cursor, error) {
	name, ok := cursorAssets[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no asset for %v", ErrCursorAssetMissing, kind)
	}
	data, err := fs.ReadFile(r.assets, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCursorAssetMissing, name, err)
	}
	img, hot, err := DecodeCursor(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCursorAssetMissing, name, err)
	}

	c := &Cursor{Kind: kind, Image: img, Hotspot: hot}
	r.mu.Lock()
	r.cache[kind] = c
	r.mu.Unlock()
	return c, nil
}

// Cached reports whether kind has been loaded.
func (r *CursorResolver) Cached(kind CursorKind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.cache[kind]
	return ok
}

// Show resolves kind, falling back to the default cursor, and applies it on
// the engine thread. It returns the cursor that will be applied, or nil if
// not even the default cursor could be loaded.
func (r *CursorResolver) Show(kind CursorKind) *Cursor {
	c, err := r.Load(kind)
	if err != nil {
		if _, listed := cursorAssets[kind]; listed && errors.Is(err, ErrCursorAssetMissing) {
			r.log.Warn("cursor asset missing, using default", "kind", kind, "err", err)
		} else {
			r.log.Debug("no cursor image for kind, using default", "kind", kind)
		}
		c, err = r.Load(CursorDefault)
		if err != nil {
			r.log.Warn("default cursor unavailable", "err", err)
			return nil
		}
	}
	if r.applier != nil {
		applier := r.applier
		r.engine.Enqueue(func() { applier.ApplyCursor(c) })
	}
	return c
}
