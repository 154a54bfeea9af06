package guitex

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// PixelFormat identifies the byte order of a 32-bit pixel in memory.
type PixelFormat int

const (
	FormatUnknown PixelFormat = iota
	FormatARGB8               // A, R, G, B
	FormatBGRA8               // B, G, R, A
	FormatABGR8               // A, B, G, R
	FormatRGBA8               // R, G, B, A
)

var formatChannels = [...]string{
	FormatUnknown: "",
	FormatARGB8:   "ARGB",
	FormatBGRA8:   "BGRA",
	FormatABGR8:   "ABGR",
	FormatRGBA8:   "RGBA",
}

// Channels returns the channel letters in memory order, or "" if unknown.
func (f PixelFormat) Channels() string {
	if f < 0 || int(f) >= len(formatChannels) {
		return ""
	}
	return formatChannels[f]
}

// AlphaIndex returns the byte offset of the alpha channel within a pixel,
// or -1 if the format is unknown.
func (f PixelFormat) AlphaIndex() int {
	return strings.IndexByte(f.Channels(), 'A')
}

func (f PixelFormat) String() string {
	if c := f.Channels(); c != "" {
		return c + "8"
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

// ReorderFunc rewrites a buffer of whole pixels in place.
type ReorderFunc func(data []byte)

// ReorderARGBToABGR converts ARGB pixels to ABGR by swapping R and B.
// It is its own inverse.
func ReorderARGBToABGR(data []byte) {
	for i := 0; i+3 < len(data); i += 4 {
		data[i+1], data[i+3] = data[i+3], data[i+1]
	}
}

// ReorderBGRAToABGR converts BGRA pixels to ABGR.
func ReorderBGRAToABGR(data []byte) {
	for i := 0; i+3 < len(data); i += 4 {
		b, g, r, a := data[i], data[i+1], data[i+2], data[i+3]
		data[i], data[i+1], data[i+2], data[i+3] = a, b, g, r
	}
}

// ReorderRGBAToABGR converts RGBA pixels to ABGR by reversing each pixel.
// It is its own inverse.
func ReorderRGBAToABGR(data []byte) {
	for i := 0; i+3 < len(data); i += 4 {
		data[i], data[i+1], data[i+2], data[i+3] = data[i+3], data[i+2], data[i+1], data[i]
	}
}

type formatPair struct{ from, to PixelFormat }

var fastReorders = map[formatPair]ReorderFunc{
	{FormatARGB8, FormatABGR8}: ReorderARGBToABGR,
	{FormatABGR8, FormatARGB8}: ReorderARGBToABGR,
	{FormatBGRA8, FormatABGR8}: ReorderBGRAToABGR,
	{FormatRGBA8, FormatABGR8}: ReorderRGBAToABGR,
	{FormatABGR8, FormatRGBA8}: ReorderRGBAToABGR,
	{FormatBGRA8, FormatARGB8}: ReorderRGBAToABGR,
	{FormatARGB8, FormatBGRA8}: ReorderRGBAToABGR,
}

// NewReorder returns the function converting pixels from one format to
// another. It returns nil when no conversion is needed and an error when
// either format is unknown.
func NewReorder(from, to PixelFormat) (ReorderFunc, error) {
	src, dst := from.Channels(), to.Channels()
	if src == "" || dst == "" {
		return nil, fmt.Errorf("%w: %v -> %v", ErrUnsupportedFormat, from, to)
	}
	if from == to {
		return nil, nil
	}
	if fn, ok := fastReorders[formatPair{from, to}]; ok {
		return fn, nil
	}

	// perm[i] is the source byte that lands at destination byte i.
	var perm [4]int
	for i := 0; i < 4; i++ {
		perm[i] = strings.IndexByte(src, dst[i])
	}
	return func(data []byte) {
		for i := 0; i+3 < len(data); i += 4 {
			p := [4]byte{data[i], data[i+1], data[i+2], data[i+3]}
			data[i] = p[perm[0]]
			data[i+1] = p[perm[1]]
			data[i+2] = p[perm[2]]
			data[i+3] = p[perm[3]]
		}
	}, nil
}

// FormatSupport describes which pixel formats the engine can upload.
type FormatSupport interface {
	SupportsFormat(f PixelFormat) bool
	// FallbackFormat is the format every device supports. Frames are
	// reordered into it when the native format has no direct equivalent.
	FallbackFormat() PixelFormat
}

// NativeFormatSource reports the byte order the toolkit renders in.
// It is queried once, on the GUI thread.
type NativeFormatSource interface {
	NativeFormat() (PixelFormat, error)
}

// Negotiation is the outcome of pixel format negotiation.
type Negotiation struct {
	Native  PixelFormat // format produced by the toolkit
	Engine  PixelFormat // format of the engine texture
	Reorder ReorderFunc // nil when Native == Engine
}

// Negotiate picks the engine format for frames rendered in native.
// An exact match is used when the engine supports it. Otherwise frames are
// reordered into the engine's fallback format. Unknown native formats are
// treated as ARGB8.
func Negotiate(native PixelFormat, engine FormatSupport) (Negotiation, error) {
	if native.Channels() == "" {
		native = FormatARGB8
	}
	if engine.SupportsFormat(native) {
		return Negotiation{Native: native, Engine: native}, nil
	}

	fallback := engine.FallbackFormat()
	if !engine.SupportsFormat(fallback) {
		return Negotiation{}, fmt.Errorf("%w: engine supports neither %v nor its fallback %v",
			ErrUnsupportedFormat, native, fallback)
	}
	reorder, err := NewReorder(native, fallback)
	if err != nil {
		return Negotiation{}, err
	}
	return Negotiation{Native: native, Engine: fallback, Reorder: reorder}, nil
}

// Negotiator runs Negotiate exactly once on the GUI thread and lets other
// components wait for the result.
type Negotiator struct {
	once   sync.Once
	done   chan struct{}
	result Negotiation
	err    error
	log    *slog.Logger
}

// NewNegotiator creates an unresolved negotiator.
func NewNegotiator(log *slog.Logger) *Negotiator {
	if log == nil {
		log = Logger()
	}
	return &Negotiator{done: make(chan struct{}), log: log}
}

// Start schedules the native format query on the GUI thread.
// Only the first call has any effect.
func (n *Negotiator) Start(gui GUIExecutor, native NativeFormatSource, engine FormatSupport) {
	n.once.Do(func() {
		gui.RunLater(func() {
			n.resolve(native, engine)
		})
	})
}

func (n *Negotiator) resolve(native NativeFormatSource, engine FormatSupport) {
	defer close(n.done)
	defer func() {
		if r := recover(); r != nil {
			n.err = fmt.Errorf("%w: native format query panicked: %v", ErrNegotiationFailed, r)
		}
	}()

	f, err := native.NativeFormat()
	if err != nil {
		n.err = fmt.Errorf("%w: %w", ErrNegotiationFailed, err)
		return
	}
	n.result, n.err = Negotiate(f, engine)
	if n.err != nil {
		n.err = fmt.Errorf("%w: %w", ErrNegotiationFailed, n.err)
		return
	}
	n.log.Info("pixel format negotiated",
		"native", n.result.Native, "engine", n.result.Engine, "reorder", n.result.Reorder != nil)
}

// Done is closed once the negotiation has resolved.
func (n *Negotiator) Done() <-chan struct{} {
	return n.done
}

// Await blocks until the negotiation resolves or ctx is done.
func (n *Negotiator) Await(ctx context.Context) (Negotiation, error) {
	select {
	case <-n.done:
		return n.result, n.err
	case <-ctx.Done():
		return Negotiation{}, fmt.Errorf("%w: %w", ErrNegotiationFailed, ctx.Err())
	}
}
