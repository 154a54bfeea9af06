package framedump

import (
	"bytes"
	"errors"
	"io"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/guitex"
)

func solid(size guitex.Size, px [4]byte) []byte {
	data := make([]byte, size.Bytes())
	for i := 0; i < len(data); i += 4 {
		copy(data[i:], px[:])
	}
	return data
}

func noise(size guitex.Size) []byte {
	rng := rand.New(rand.NewPCG(1, 2))
	data := make([]byte, size.Bytes())
	for i := range data {
		data[i] = byte(rng.Uint32())
	}
	return data
}

func TestRecordAndRead(t *testing.T) {
	var buf bytes.Buffer
	rec, err := NewRecorder(&buf)
	require.NoError(t, err)

	small := guitex.Size{Width: 64, Height: 64}
	flat := solid(small, [4]byte{10, 20, 30, 255})
	random := noise(guitex.Size{Width: 8, Height: 8})
	require.NoError(t, rec.RecordFrame(guitex.FormatRGBA8, small, flat))
	require.NoError(t, rec.RecordFrame(guitex.FormatARGB8, guitex.Size{Width: 8, Height: 8}, random))
	require.NoError(t, rec.Close())
	assert.Equal(t, 2, rec.Frames())
	assert.Less(t, buf.Len(), len(flat), "flat frames compress")

	r, err := NewReader(&buf)
	require.NoError(t, err)

	f, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, guitex.FormatRGBA8, f.Format)
	assert.Equal(t, small, f.Size)
	assert.Equal(t, flat, f.Data)

	f, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, guitex.FormatARGB8, f.Format)
	assert.Equal(t, random, f.Data)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFrameImageReorders(t *testing.T) {
	size := guitex.Size{Width: 2, Height: 1}
	f := &Frame{Format: guitex.FormatARGB8, Size: size, Data: solid(size, [4]byte{255, 1, 2, 3})}
	img, err := f.Image()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 255}, img.Pix[:4])
}

func TestRecordFrameRejectsShortData(t *testing.T) {
	rec, err := NewRecorder(io.Discard)
	require.NoError(t, err)
	err = rec.RecordFrame(guitex.FormatRGBA8, guitex.Size{Width: 4, Height: 4}, make([]byte, 10))
	assert.Error(t, err)
	assert.Zero(t, rec.Frames())
}

type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n+len(p) > 8 {
		return 0, errors.New("disk full")
	}
	w.n += len(p)
	return len(p), nil
}

func TestRecorderKeepsFirstError(t *testing.T) {
	rec, err := NewRecorder(&failingWriter{})
	require.NoError(t, err)
	size := guitex.Size{Width: 64, Height: 64}

	// bufio hides the failure until the buffer spills.
	var first error
	for range 64 {
		if first = rec.RecordFrame(guitex.FormatRGBA8, size, noise(size)); first != nil {
			break
		}
	}
	require.Error(t, first)
	assert.Equal(t, first, rec.RecordFrame(guitex.FormatRGBA8, size, noise(size)))
}

func TestReaderRejectsGarbage(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("PNG\x00\x01")))
	assert.ErrorIs(t, err, ErrBadHeader)
	_, err = NewReader(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrBadHeader)

	var buf bytes.Buffer
	rec, err := NewRecorder(&buf)
	require.NoError(t, err)
	size := guitex.Size{Width: 64, Height: 64}
	require.NoError(t, rec.RecordFrame(guitex.FormatRGBA8, size, solid(size, [4]byte{1, 2, 3, 4})))
	require.NoError(t, rec.Close())

	truncated := buf.Bytes()[:buf.Len()-3]
	r, err := NewReader(bytes.NewReader(truncated))
	require.NoError(t, err)
	_, err = r.Next()
	assert.ErrorIs(t, err, ErrCorrupt)
}
