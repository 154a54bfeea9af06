package guitex

// FrameBuffers holds the three pixel buffers a frame passes through:
//
//   - staging: written by the GUI thread's paint, read on commit
//   - surface: the last committed GUI frame, in the engine's format
//   - texture: the frame the engine uploads, written on flush
//
// All three always share the same Size. FrameBuffers has no locking of its
// own; CopyBridge guards it.
type FrameBuffers struct {
	size    Size
	staging []byte
	surface []byte
	texture []byte
}

// NewFrameBuffers allocates buffers for the given size after clamping it.
func NewFrameBuffers(size Size) *FrameBuffers {
	fb := &FrameBuffers{}
	fb.Resize(size)
	return fb
}

// Resize drops the current buffers and allocates three new ones for size,
// clamped to MinDimension on each side. It returns the size actually used.
func (fb *FrameBuffers) Resize(size Size) Size {
	size = ClampSize(size.Width, size.Height)
	n := size.Bytes()

	fb.size = size
	fb.staging = make([]byte, n)
	fb.surface = make([]byte, n)
	fb.texture = make([]byte, n)
	return size
}

// Size returns the current frame size.
func (fb *FrameBuffers) Size() Size { return fb.size }

// Staging returns the buffer the GUI paints into.
func (fb *FrameBuffers) Staging() []byte { return fb.staging }

// Surface returns the last committed frame.
func (fb *FrameBuffers) Surface() []byte { return fb.surface }

// Texture returns the buffer backing the engine image.
func (fb *FrameBuffers) Texture() []byte { return fb.texture }
