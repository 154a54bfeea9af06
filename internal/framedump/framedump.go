// Package framedump records flushed GUI frames to an LZ4 block stream and
// reads them back.
//
// A dump starts with the 5-byte header "GTXD" 0x01. Each frame follows as a
// 17-byte little-endian record header (format u8, width u32, height u32, raw
// length u32, compressed length u32) and its payload. A compressed length of
// zero means the payload is stored raw.
package framedump

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/go-theft-auto/guitex"
)

const (
	magic      = "GTXD"
	version    = 1
	headerSize = 17

	// maxDimension bounds the frame sides a reader accepts.
	maxDimension = 1 << 14
)

var (
	// ErrBadHeader is returned for streams that are not frame dumps.
	ErrBadHeader = errors.New("framedump: not a frame dump")
	// ErrCorrupt is returned for frames whose header or payload is invalid.
	ErrCorrupt = errors.New("framedump: corrupt frame")
)

// Recorder writes frames. It implements guitex.FrameRecorder and is safe for
// concurrent use.
type Recorder struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
	comp   lz4.Compressor
	buf    []byte
	frames int
	err    error
}

// NewRecorder writes the dump header to w.
func NewRecorder(w io.Writer) (*Recorder, error) {
	r := &Recorder{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	if _, err := r.w.WriteString(magic); err != nil {
		return nil, err
	}
	if err := r.w.WriteByte(version); err != nil {
		return nil, err
	}
	return r, nil
}

// Create creates or truncates the file at path and records into it.
func Create(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("framedump: %w", err)
	}
	r, err := NewRecorder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("framedump: %w", err)
	}
	return r, nil
}

// RecordFrame implements guitex.FrameRecorder. After the first write error
// every call returns that error.
func (r *Recorder) RecordFrame(format guitex.PixelFormat, size guitex.Size, data []byte) error {
	if len(data) != size.Bytes() {
		return fmt.Errorf("framedump: frame is %d bytes, want %d for %dx%d", len(data), size.Bytes(), size.Width, size.Height)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}

	if need := lz4.CompressBlockBound(len(data)); cap(r.buf) < need {
		r.buf = make([]byte, need)
	}
	buf := r.buf[:cap(r.buf)]
	n, err := r.comp.CompressBlock(data, buf)
	if err != nil {
		n = 0
	}
	payload := buf[:n]
	if n == 0 || n >= len(data) {
		n, payload = 0, data
	}

	var hdr [headerSize]byte
	hdr[0] = byte(format)
	binary.LittleEndian.PutUint32(hdr[1:], uint32(size.Width))
	binary.LittleEndian.PutUint32(hdr[5:], uint32(size.Height))
	binary.LittleEndian.PutUint32(hdr[9:], uint32(len(data)))
	binary.LittleEndian.PutUint32(hdr[13:], uint32(n))
	if _, err := r.w.Write(hdr[:]); err != nil {
		r.err = err
		return err
	}
	if _, err := r.w.Write(payload); err != nil {
		r.err = err
		return err
	}
	r.frames++
	return nil
}

// Frames returns how many frames were recorded.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Close flushes buffered frames and closes the underlying writer if it is
// an io.Closer.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.w.Flush()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	if r.err == nil {
		r.err = errors.New("framedump: recorder closed")
	}
	return err
}

// Frame is one decoded frame.
type Frame struct {
	Format guitex.PixelFormat
	Size   guitex.Size
	Data   []byte
}

// Image converts the frame to an RGBA image.
func (f *Frame) Image() (*image.RGBA, error) {
	reorder, err := guitex.NewReorder(f.Format, guitex.FormatRGBA8)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, f.Size.Width, f.Size.Height))
	copy(img.Pix, f.Data)
	if reorder != nil {
		reorder(img.Pix)
	}
	return img, nil
}

// Reader reads frames from a dump.
type Reader struct {
	r   *bufio.Reader
	buf []byte
}

// NewReader checks the dump header.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	var hdr [len(magic) + 1]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, ErrBadHeader
	}
	if string(hdr[:len(magic)]) != magic || hdr[len(magic)] != version {
		return nil, ErrBadHeader
	}
	return &Reader{r: br}, nil
}

// Next returns the next frame, or io.EOF after the last one.
func (r *Reader) Next() (*Frame, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r.r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	f := &Frame{
		Format: guitex.PixelFormat(hdr[0]),
		Size: guitex.Size{
			Width:  int(binary.LittleEndian.Uint32(hdr[1:])),
			Height: int(binary.LittleEndian.Uint32(hdr[5:])),
		},
	}
	raw := int(binary.LittleEndian.Uint32(hdr[9:]))
	compressed := int(binary.LittleEndian.Uint32(hdr[13:]))
	if f.Size.Width > maxDimension || f.Size.Height > maxDimension ||
		raw != f.Size.Bytes() || compressed > lz4.CompressBlockBound(raw) {
		return nil, ErrCorrupt
	}

	f.Data = make([]byte, raw)
	if compressed == 0 {
		if _, err := io.ReadFull(r.r, f.Data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return f, nil
	}

	if cap(r.buf) < compressed {
		r.buf = make([]byte, compressed)
	}
	block := r.buf[:compressed]
	if _, err := io.ReadFull(r.r, block); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	n, err := lz4.UncompressBlock(block, f.Data)
	if err != nil || n != raw {
		return nil, ErrCorrupt
	}
	return f, nil
}
