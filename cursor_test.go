package guitex_test

import (
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"io/fs"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/guitex"
)

func readAsset(t *testing.T, name string) []byte {
	t.Helper()
	data, err := fs.ReadFile(guitex.DefaultCursorAssets(), name)
	require.NoError(t, err)
	return data
}

func TestDecodeBuiltinCursors(t *testing.T) {
	for kind := guitex.CursorDefault; kind <= guitex.CursorImage; kind++ {
		name, ok := guitex.CursorAsset(kind)
		if !ok {
			continue
		}
		t.Run(kind.String(), func(t *testing.T) {
			img, _, err := guitex.DecodeCursor(readAsset(t, name))
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
		})
	}
}

func TestDecodeCursorHotspots(t *testing.T) {
	_, hot, err := guitex.DecodeCursor(readAsset(t, "aero_arrow.cur"))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(1, 1), hot)

	_, hot, err = guitex.DecodeCursor(readAsset(t, "aero_link.cur"))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(13, 3), hot)

	_, hot, err = guitex.DecodeCursor(readAsset(t, "aero_busy.ani"))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(16, 16), hot)
}

// cur24 builds a 2x2 24-bit cursor: red, green / blue, white, with the
// green pixel masked out.
func cur24() []byte {
	le := binary.LittleEndian
	dib := make([]byte, 40)
	le.PutUint32(dib[0:], 40)
	le.PutUint32(dib[4:], 2)
	le.PutUint32(dib[8:], 4) // color rows plus mask rows
	le.PutUint16(dib[12:], 1)
	le.PutUint16(dib[14:], 24)

	// Bottom-up BGR rows padded to 4 bytes.
	dib = append(dib, 255, 0, 0, 255, 255, 255, 0, 0)
	dib = append(dib, 0, 0, 255, 0, 255, 0, 0, 0)
	// AND mask, bottom-up.
	dib = append(dib, 0x00, 0, 0, 0)
	dib = append(dib, 0x40, 0, 0, 0)

	file := make([]byte, 22)
	le.PutUint16(file[2:], 2)
	le.PutUint16(file[4:], 1)
	file[6], file[7] = 2, 2
	le.PutUint16(file[10:], 1)
	le.PutUint16(file[12:], 0)
	le.PutUint32(file[14:], uint32(len(dib)))
	le.PutUint32(file[18:], 22)
	return append(file, dib...)
}

func TestDecodeCursor24Bit(t *testing.T) {
	img, hot, err := guitex.DecodeCursor(cur24())
	require.NoError(t, err)
	assert.Equal(t, image.Pt(1, 0), hot)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, uint8(0), img.NRGBAAt(1, 0).A)
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, img.NRGBAAt(0, 1))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.NRGBAAt(1, 1))
}

func TestDecodeCursorInvalid(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":     nil,
		"garbage":   []byte("not a cursor at all"),
		"truncated": cur24()[:30],
		"ani":       []byte("RIFF\x04\x00\x00\x00ACON"),
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := guitex.DecodeCursor(data)
			assert.ErrorIs(t, err, guitex.ErrInvalidCursor)
		})
	}
}

type countingFS struct {
	fs.FS
	opens atomic.Int32
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.opens.Add(1)
	return c.FS.Open(name)
}

type taskRecorder struct {
	mu    sync.Mutex
	tasks []func()
}

func (r *taskRecorder) Enqueue(task func()) {
	r.mu.Lock()
	r.tasks = append(r.tasks, task)
	r.mu.Unlock()
}

func (r *taskRecorder) run() {
	r.mu.Lock()
	tasks := r.tasks
	r.tasks = nil
	r.mu.Unlock()
	for _, task := range tasks {
		task()
	}
}

type appliedCursors struct{ kinds []guitex.CursorKind }

func (a *appliedCursors) ApplyCursor(c *guitex.Cursor) { a.kinds = append(a.kinds, c.Kind) }

func TestCursorResolverCaches(t *testing.T) {
	assets := &countingFS{FS: guitex.DefaultCursorAssets()}
	r := guitex.NewCursorResolver(assets, &taskRecorder{}, nil, nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := r.Load(guitex.CursorHand)
			assert.NoError(t, err)
			assert.NotNil(t, c)
		}()
	}
	wg.Wait()

	assert.True(t, r.Cached(guitex.CursorHand))
	opens := assets.opens.Load()
	assert.LessOrEqual(t, opens, int32(8))

	_, err := r.Load(guitex.CursorHand)
	require.NoError(t, err)
	assert.Equal(t, opens, assets.opens.Load(), "cached cursors are not read again")
}

func TestCursorResolverFallback(t *testing.T) {
	engine := &taskRecorder{}
	applied := &appliedCursors{}
	r := guitex.NewCursorResolver(guitex.DefaultCursorAssets(), engine, applied, nil)

	c := r.Show(guitex.CursorOpenHand)
	require.NotNil(t, c)
	assert.Equal(t, guitex.CursorDefault, c.Kind)
	assert.False(t, r.Cached(guitex.CursorOpenHand))

	assert.Empty(t, applied.kinds, "cursors are applied on the engine thread")
	engine.run()
	assert.Equal(t, []guitex.CursorKind{guitex.CursorDefault}, applied.kinds)
}

func TestCursorResolverMissingAsset(t *testing.T) {
	assets := fstest.MapFS{
		"aero_arrow.cur": &fstest.MapFile{Data: readAsset(t, "aero_arrow.cur")},
		"aero_link.cur":  &fstest.MapFile{Data: []byte("broken")},
	}
	r := guitex.NewCursorResolver(assets, &taskRecorder{}, nil, nil)

	_, err := r.Load(guitex.CursorHand)
	assert.ErrorIs(t, err, guitex.ErrCursorAssetMissing)
	assert.False(t, r.Cached(guitex.CursorHand), "failed loads are retried")

	_, err = r.Load(guitex.CursorText)
	assert.ErrorIs(t, err, guitex.ErrCursorAssetMissing)

	c := r.Show(guitex.CursorHand)
	require.NotNil(t, c)
	assert.Equal(t, guitex.CursorDefault, c.Kind)

	empty := guitex.NewCursorResolver(fstest.MapFS{}, &taskRecorder{}, nil, nil)
	assert.Nil(t, empty.Show(guitex.CursorHand))
}

// levelLog records the level of every log record.
type levelLog struct {
	mu     sync.Mutex
	levels []slog.Level
}

func (l *levelLog) Enabled(context.Context, slog.Level) bool { return true }
func (l *levelLog) WithAttrs([]slog.Attr) slog.Handler       { return l }
func (l *levelLog) WithGroup(string) slog.Handler            { return l }

func (l *levelLog) Handle(_ context.Context, r slog.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.levels = append(l.levels, r.Level)
	return nil
}

func (l *levelLog) count(level slog.Level) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, lv := range l.levels {
		if lv == level {
			n++
		}
	}
	return n
}

func TestCursorResolverMissingAssetWarns(t *testing.T) {
	assets := fstest.MapFS{
		"aero_arrow.cur": &fstest.MapFile{Data: readAsset(t, "aero_arrow.cur")},
	}
	logs := &levelLog{}
	r := guitex.NewCursorResolver(assets, &taskRecorder{}, nil, slog.New(logs))

	require.NotNil(t, r.Show(guitex.CursorHand))
	assert.Equal(t, 1, logs.count(slog.LevelWarn), "listed asset that fails to load")

	require.NotNil(t, r.Show(guitex.CursorOpenHand))
	assert.Equal(t, 1, logs.count(slog.LevelWarn), "kinds without an asset are not warned about")
	assert.Equal(t, 1, logs.count(slog.LevelDebug))
}
