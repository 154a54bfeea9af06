package guitex_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/guitex"
)

func fillWith(v byte) func([]byte, guitex.Size) bool {
	return func(staging []byte, _ guitex.Size) bool {
		for i := range staging {
			staging[i] = v
		}
		return true
	}
}

func TestFrameBuffersClamp(t *testing.T) {
	fb := guitex.NewFrameBuffers(guitex.Size{Width: 10, Height: 500})
	want := guitex.Size{Width: 64, Height: 500}
	assert.Equal(t, want, fb.Size())
	for _, buf := range [][]byte{fb.Staging(), fb.Surface(), fb.Texture()} {
		assert.Len(t, buf, want.Bytes())
	}

	assert.Equal(t, guitex.Size{Width: 64, Height: 64}, fb.Resize(guitex.Size{}))
	assert.Len(t, fb.Texture(), 64*64*4)
}

func TestBridgeReordersOnCommit(t *testing.T) {
	b := guitex.NewCopyBridge(guitex.Size{}, guitex.ReorderARGBToABGR, nil)
	ok := b.Paint(func(staging []byte, _ guitex.Size) bool {
		copy(staging, []byte{255, 10, 20, 30})
		return true
	})
	require.True(t, ok)

	var got []byte
	_, flushed := b.Flush(func(texture []byte, _ guitex.Size) {
		got = append([]byte(nil), texture[:4]...)
	})
	require.True(t, flushed)
	assert.Equal(t, []byte{255, 30, 20, 10}, got)
}

func TestBridgePendingCounter(t *testing.T) {
	b := guitex.NewCopyBridge(guitex.Size{Width: 64, Height: 64}, nil, nil)
	assert.False(t, b.NeedsFlush())

	require.True(t, b.Paint(fillWith(1)))
	require.True(t, b.Paint(fillWith(2)))
	assert.Equal(t, int64(2), b.Pending())

	var last byte
	consumed, ok := b.Flush(func(texture []byte, _ guitex.Size) { last = texture[0] })
	require.True(t, ok)
	assert.Equal(t, int64(2), consumed)
	assert.Equal(t, int64(0), b.Pending())
	assert.Equal(t, byte(2), last, "flush takes the newest frame")

	consumed, ok = b.Flush(nil)
	assert.False(t, ok)
	assert.Zero(t, consumed)
	assert.Equal(t, int64(0), b.Pending())
}

func TestBridgeSkippedPaint(t *testing.T) {
	b := guitex.NewCopyBridge(guitex.Size{}, nil, nil)
	require.True(t, b.Paint(fillWith(7)))
	b.Flush(nil)

	assert.False(t, b.Paint(func(staging []byte, _ guitex.Size) bool {
		staging[0] = 99
		return false
	}))
	assert.Equal(t, int64(0), b.Pending())

	b.View(func(texture []byte, _ guitex.Size) {
		assert.Equal(t, byte(7), texture[0])
	})
}

func TestBridgeResizeDropsFrameInFlight(t *testing.T) {
	b := guitex.NewCopyBridge(guitex.Size{Width: 100, Height: 100}, nil, nil)

	resized := make(chan struct{})
	b.Paint(func(staging []byte, size guitex.Size) bool {
		assert.Equal(t, guitex.Size{Width: 100, Height: 100}, size)
		// The engine resizes while the GUI is still painting.
		go func() {
			b.Resize(guitex.Size{Width: 200, Height: 100}, nil)
			close(resized)
		}()
		return true
	})
	<-resized

	// Whether the commit ran before the resize or was dropped after it, no
	// frame of the old size is left pending.
	assert.Equal(t, int64(0), b.Pending())
	assert.False(t, b.NeedsFlush())
	assert.Equal(t, guitex.Size{Width: 200, Height: 100}, b.Size())
}

func TestBridgeResizeResetsPending(t *testing.T) {
	b := guitex.NewCopyBridge(guitex.Size{}, nil, nil)
	require.True(t, b.Paint(fillWith(1)))

	var rebuilt guitex.Size
	used := b.Resize(guitex.Size{Width: 300, Height: 20}, func(texture []byte, size guitex.Size) {
		rebuilt = size
		assert.Len(t, texture, size.Bytes())
	})
	assert.Equal(t, guitex.Size{Width: 300, Height: 64}, used)
	assert.Equal(t, used, rebuilt)
	assert.Equal(t, int64(0), b.Pending())
	assert.Equal(t, used, b.Size())
}

func TestBridgePanicReleasesLock(t *testing.T) {
	b := guitex.NewCopyBridge(guitex.Size{}, func([]byte) { panic("bad reorder") }, nil)

	assert.False(t, b.Paint(fillWith(1)))
	assert.False(t, b.Paint(func([]byte, guitex.Size) bool { panic("bad fill") }))

	b.View(func([]byte, guitex.Size) { panic("bad view") })
	b.Flush(nil)

	// Neither lock was left held.
	done := make(chan struct{})
	go func() {
		b.Resize(guitex.Size{Width: 80, Height: 80}, nil)
		b.View(func([]byte, guitex.Size) {})
		close(done)
	}()
	<-done
	assert.Equal(t, guitex.Size{Width: 80, Height: 80}, b.Size())
}

// Every flushed texture must hold a single whole frame.
func TestBridgeNoTornFrames(t *testing.T) {
	b := guitex.NewCopyBridge(guitex.Size{Width: 64, Height: 64}, nil, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 200 {
			b.Paint(fillWith(byte(i)))
		}
	}()

	torn := 0
	for range 200 {
		b.Flush(func(texture []byte, _ guitex.Size) {
			for _, v := range texture {
				if v != texture[0] {
					torn++
					return
				}
			}
		})
		b.View(func(texture []byte, _ guitex.Size) {
			for _, v := range texture {
				if v != texture[0] {
					torn++
					return
				}
			}
		})
	}
	wg.Wait()
	assert.Zero(t, torn)
}
