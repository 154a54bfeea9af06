package guitex

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// CopyBridge hands frames from the GUI paint loop to the engine tick.
//
// The GUI thread fills the staging buffer inside a shared section and then
// commits it into the surface buffer inside an exclusive section. The engine
// tick copies the surface into the texture buffer inside an exclusive
// section. Readers that only look at the texture (hit testing, frame dumps)
// use shared sections and run concurrently with each other and with the
// GUI fill.
//
// The producer never waits for the consumer: when the engine falls behind,
// the pending counter grows and the next Flush takes the newest frame.
type CopyBridge struct {
	mu      sync.RWMutex
	buffers *FrameBuffers
	reorder ReorderFunc
	gen     uint64 // bumped on every resize, guarded by mu

	pending atomic.Int64
	log     *slog.Logger
}

// NewCopyBridge creates a bridge with buffers for size. The reorder function
// is applied to every committed frame and may be nil.
func NewCopyBridge(size Size, reorder ReorderFunc, log *slog.Logger) *CopyBridge {
	if log == nil {
		log = Logger()
	}
	return &CopyBridge{
		buffers: NewFrameBuffers(size),
		reorder: reorder,
		log:     log,
	}
}

// Paint runs one GUI paint cycle. fill writes the frame into staging and
// reports whether it produced one; when it returns false the cycle is
// skipped and nothing changes. A committed frame increments the pending
// counter. Paint reports whether a frame was committed.
//
// A resize between the fill and the commit drops the frame, since staging
// was filled at the old size.
func (b *CopyBridge) Paint(fill func(staging []byte, size Size) bool) bool {
	gen, ok := b.fill(fill)
	if !ok {
		return false
	}
	return b.commit(gen)
}

func (b *CopyBridge) fill(fill func(staging []byte, size Size) bool) (gen uint64, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	defer b.recoverSection("fill", &ok)

	if !fill(b.buffers.Staging(), b.buffers.Size()) {
		return 0, false
	}
	return b.gen, true
}

func (b *CopyBridge) commit(gen uint64) (ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	defer b.recoverSection("commit", &ok)

	if gen != b.gen {
		b.log.Debug("frame dropped, buffers resized during paint")
		return false
	}

	surface := b.buffers.Surface()
	copy(surface, b.buffers.Staging())
	if b.reorder != nil {
		b.reorder(surface)
	}
	b.pending.Add(1)
	return true
}

// Flush copies the last committed frame into the texture buffer when at
// least one frame is pending. It consumes every pending frame at once and
// returns how many that was. done, if not nil, is called with the texture
// buffer before the exclusive section ends.
//
// Flush is a no-op returning (0, false) when nothing is pending.
func (b *CopyBridge) Flush(done func(texture []byte, size Size)) (consumed int64, ok bool) {
	if b.pending.Load() == 0 {
		return 0, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	defer b.recoverSection("flush", &ok)

	// Paints increment the counter inside the exclusive section, so the value
	// swapped out here is exactly the number of frames merged into surface.
	consumed = b.pending.Swap(0)
	if consumed == 0 {
		return 0, false
	}
	copy(b.buffers.Texture(), b.buffers.Surface())
	if done != nil {
		done(b.buffers.Texture(), b.buffers.Size())
	}
	b.log.Debug("frame flushed", "consumed", consumed)
	return consumed, true
}

// View calls fn with the texture buffer inside a shared section. fn must not
// modify or retain the buffer.
func (b *CopyBridge) View(fn func(texture []byte, size Size)) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	defer b.recoverSection("view", nil)

	fn(b.buffers.Texture(), b.buffers.Size())
}

// Resize reallocates the three buffers for size, clamped to MinDimension.
// Frames in flight are dropped and the pending counter is reset. rebuild, if
// not nil, runs inside the same exclusive section with the new texture
// buffer so the engine image can be rebound before anyone reads it.
func (b *CopyBridge) Resize(size Size, rebuild func(texture []byte, size Size)) (used Size) {
	b.mu.Lock()
	defer b.mu.Unlock()
	defer b.recoverSection("resize", nil)

	used = b.buffers.Resize(size)
	b.gen++
	b.pending.Store(0)
	if rebuild != nil {
		rebuild(b.buffers.Texture(), used)
	}
	return used
}

// Size returns the current frame size.
func (b *CopyBridge) Size() Size {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.buffers.Size()
}

// Pending returns the number of committed frames not yet flushed.
func (b *CopyBridge) Pending() int64 {
	return b.pending.Load()
}

// NeedsFlush reports whether the next Flush will copy a frame.
func (b *CopyBridge) NeedsFlush() bool {
	return b.pending.Load() > 0
}

// recoverSection turns a panic inside a locked section into a log entry.
// The deferred unlock still runs after it.
func (b *CopyBridge) recoverSection(section string, ok *bool) {
	if r := recover(); r != nil {
		b.log.Error("panic in frame copy", "section", section, "panic", r)
		if ok != nil {
			*ok = false
		}
	}
}
