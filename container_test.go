package guitex_test

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/guitex"
	"github.com/go-theft-auto/guitex/backend/headless"
	"github.com/go-theft-auto/guitex/toolkit/ggkit"
)

type harness struct {
	t   *testing.T
	eng *headless.Engine
	kit *ggkit.Toolkit
	c   *guitex.Container
}

func install(t *testing.T, engOpts []headless.Option, opts ...guitex.Option) *harness {
	t.Helper()
	eng := headless.New(append([]headless.Option{headless.WithSize(320, 240)}, engOpts...)...)
	kit := ggkit.New()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := guitex.Install(ctx, eng, kit, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	eng.RunTasks()
	return &harness{t: t, eng: eng, kit: kit, c: c}
}

// settle waits until the GUI goroutine has handled everything queued so far,
// including the paints those tasks request.
func (h *harness) settle() {
	h.kit.Sync()
	h.kit.Sync()
}

// frame runs one engine tick and returns the composed screen.
func (h *harness) frame() *image.RGBA {
	h.settle()
	h.c.Update()
	h.eng.RunTasks()
	return h.eng.Render()
}

// onGUI runs fn on the GUI goroutine and waits for it.
func (h *harness) onGUI(fn func()) {
	done := make(chan struct{})
	h.kit.RunLater(func() {
		defer close(done)
		fn()
	})
	<-done
}

func (h *harness) click(x, y int) bool {
	pressed := h.eng.Send(&guitex.MouseButtonEvent{X: x, Y: y, Pressed: true})
	h.eng.Send(&guitex.MouseButtonEvent{X: x, Y: y})
	h.settle()
	return pressed
}

var (
	red   = [4]byte{255, 0, 0, 255}
	green = [4]byte{0, 255, 0, 255}
)

func rgbaAt(img *image.RGBA, x, y int) [4]byte {
	i := img.PixOffset(x, y)
	return [4]byte(img.Pix[i : i+4])
}

func TestContainerShowsScene(t *testing.T) {
	h := install(t, nil)
	assert.Len(t, h.eng.Pictures(), 1)
	assert.False(t, h.c.Picture().Visible(), "culled until a scene is set")

	h.c.SetScene(ggkit.NewScene(&ggkit.Panel{Rect: guitex.Rect{X: 10, Y: 10, W: 50, H: 50}, Fill: gg.RGBA{R: 1, A: 1}}))
	screen := h.frame()

	assert.True(t, h.c.Picture().Visible())
	assert.Equal(t, image.Rect(0, 0, 320, 240), screen.Bounds())
	assert.Equal(t, red, rgbaAt(screen, 30, 30))
	assert.Equal(t, byte(0), rgbaAt(screen, 200, 200)[3])
	assert.Equal(t, 1, h.eng.Uploads())

	// Nothing painted, nothing uploaded.
	h.frame()
	assert.Equal(t, 1, h.eng.Uploads())
}

func TestContainerReordersForEngine(t *testing.T) {
	h := install(t, []headless.Option{headless.WithFormats(guitex.FormatABGR8, guitex.FormatABGR8)})
	format := h.c.Format()
	assert.Equal(t, guitex.FormatRGBA8, format.Native)
	assert.Equal(t, guitex.FormatABGR8, format.Engine)
	require.NotNil(t, format.Reorder)

	h.c.SetScene(ggkit.NewScene(&ggkit.Panel{Rect: guitex.Rect{X: 0, Y: 0, W: 64, H: 64}, Fill: gg.RGBA{G: 1, A: 1}}))
	screen := h.frame()

	img := h.c.Texture().Image()
	assert.Equal(t, guitex.FormatABGR8, img.Format)
	off := (20*img.Size.Width + 20) * guitex.BytesPerPixel
	assert.Equal(t, []byte{255, 0, 255, 0}, img.Data[off:off+4])
	assert.Equal(t, green, rgbaAt(screen, 20, 20))
	assert.True(t, h.c.IsCovered(20, 20))
	assert.False(t, h.c.IsCovered(200, 200))
}

func TestContainerInput(t *testing.T) {
	h := install(t, nil)

	var clicks atomic.Int32
	field := &ggkit.TextField{Rect: guitex.Rect{X: 10, Y: 60, W: 120, H: 24}}
	h.c.SetScene(ggkit.NewScene(
		&ggkit.Button{Rect: guitex.Rect{X: 10, Y: 10, W: 80, H: 24}, Text: "OK", OnClick: func() { clicks.Add(1) }},
		field,
	))
	h.frame()

	var passed []guitex.InputEvent
	h.c.SetPassthrough(guitex.InputListenerFunc(func(ev guitex.InputEvent) { passed = append(passed, ev) }))

	assert.True(t, h.eng.Send(&guitex.MouseEvent{X: 20, Y: 20}))
	h.settle()
	h.eng.RunTasks()
	require.NotNil(t, h.eng.Cursor())
	assert.Equal(t, guitex.CursorHand, h.eng.Cursor().Kind)

	assert.True(t, h.click(20, 20))
	assert.Equal(t, int32(1), clicks.Load())
	assert.True(t, h.c.Focused())

	// Transparent pixels belong to the game.
	assert.False(t, h.click(250, 200))
	assert.False(t, h.c.Focused())
	assert.Len(t, passed, 2)

	assert.True(t, h.click(20, 70))
	for _, r := range "hi" {
		assert.True(t, h.eng.Send(&guitex.CharEvent{Char: r}))
	}
	h.settle()
	var text string
	h.onGUI(func() { text = field.Text })
	assert.Equal(t, "hi", text)
}

func TestContainerFullScreenPopup(t *testing.T) {
	h := install(t, []headless.Option{headless.WithFullScreen(true)})

	var chosen atomic.Value
	menu := &ggkit.Menu{
		Rect:     guitex.Rect{X: 10, Y: 10, W: 100, H: 24},
		Items:    []string{"Low", "High"},
		OnSelect: func(_ int, item string) { chosen.Store(item) },
	}
	h.c.SetScene(ggkit.NewScene(menu))
	h.frame()

	h.click(20, 20)
	screen := h.frame()

	var tracked int
	h.onGUI(func() { tracked = h.c.Popups().Len() })
	assert.Equal(t, 1, tracked)
	assert.NotZero(t, rgbaAt(screen, 50, 34+30)[3], "popup composited into the frame")

	// The popup covers its pixels, so the click goes to the GUI.
	h.frame()
	assert.True(t, h.click(50, 34+30))
	assert.Equal(t, "High", chosen.Load())

	h.onGUI(func() { tracked = h.c.Popups().Len() })
	assert.Zero(t, tracked)
}

func TestContainerWindowedPopupIsDrawnByToolkit(t *testing.T) {
	h := install(t, nil)
	menu := &ggkit.Menu{Rect: guitex.Rect{X: 10, Y: 10, W: 100, H: 24}, Items: []string{"a", "b"}}
	h.c.SetScene(ggkit.NewScene(menu))
	h.frame()

	h.click(20, 20)
	screen := h.frame()

	var tracked int
	h.onGUI(func() { tracked = h.c.Popups().Len() })
	assert.Zero(t, tracked)
	assert.NotZero(t, rgbaAt(screen, 50, 34+30)[3])
}

func TestContainerResize(t *testing.T) {
	h := install(t, nil)
	sc := ggkit.NewScene()
	h.c.SetScene(sc)
	h.frame()
	version := h.c.Texture().Version()

	h.eng.SetDisplaySize(400, 300)
	screen := h.frame()

	want := guitex.Size{Width: 400, Height: 300}
	assert.Equal(t, want, h.c.Bridge().Size())
	assert.Equal(t, want, h.c.Picture().Size)
	assert.Greater(t, h.c.Texture().Version(), version)
	assert.Equal(t, image.Rect(0, 0, 400, 300), screen.Bounds())

	var laidOut guitex.Size
	h.onGUI(func() { laidOut = sc.Size() })
	assert.Equal(t, want, laidOut)
}

func TestContainerClearScene(t *testing.T) {
	h := install(t, nil)
	h.c.SetScene(ggkit.NewScene(&ggkit.Panel{Rect: guitex.Rect{W: 50, H: 50}}))
	h.frame()
	require.True(t, h.c.Picture().Visible())

	h.c.SetScene(nil)
	screen := h.frame()
	assert.False(t, h.c.Picture().Visible())
	assert.Equal(t, byte(0), rgbaAt(screen, 10, 10)[3])
	assert.Nil(t, h.c.Scene())
}

type countingListener struct{ pre, post atomic.Int32 }

func (l *countingListener) PrePaint()  { l.pre.Add(1) }
func (l *countingListener) PostPaint() { l.post.Add(1) }

func TestContainerPaintListeners(t *testing.T) {
	h := install(t, nil)
	l := &countingListener{}
	h.c.AddPaintListener(l)

	h.c.SetScene(ggkit.NewScene())
	h.frame()
	pre := l.pre.Load()
	assert.Positive(t, pre)
	assert.Equal(t, pre, l.post.Load())

	h.c.RemovePaintListener(l)
	h.c.Repaint()
	h.frame()
	assert.Equal(t, pre, l.pre.Load())
}

// stubScene is a ScenePeer whose frames can be switched off.
type stubScene struct{ ready bool }

func (s *stubScene) GetPixels(dst []byte, width, height int) bool { return s.ready }
func (s *stubScene) SetSize(width, height int)                    {}
func (s *stubScene) DispatchInput(guitex.InputEvent)              {}

func TestContainerPaintWithoutPixelsSkipsPostPaint(t *testing.T) {
	h := install(t, nil)
	l := &countingListener{}
	h.c.AddPaintListener(l)

	scene := &stubScene{}
	var committed bool
	h.onGUI(func() {
		h.c.SetEmbeddedScene(scene)
		committed = h.c.Paint()
	})
	assert.False(t, committed)
	assert.Equal(t, int32(1), l.pre.Load())
	assert.Zero(t, l.post.Load())
	assert.Zero(t, h.c.Bridge().Pending())

	scene.ready = true
	h.onGUI(func() { committed = h.c.Paint() })
	assert.True(t, committed)
	assert.Equal(t, int32(2), l.pre.Load())
	assert.Equal(t, int32(1), l.post.Load())
	assert.Equal(t, int64(1), h.c.Bridge().Pending())
}

type frameLog struct {
	mu     sync.Mutex
	frames []guitex.Size
	format guitex.PixelFormat
}

func (f *frameLog) RecordFrame(format guitex.PixelFormat, size guitex.Size, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(data) != size.Bytes() {
		return errors.New("short frame")
	}
	f.format = format
	f.frames = append(f.frames, size)
	return nil
}

func TestContainerFrameDump(t *testing.T) {
	rec := &frameLog{}
	h := install(t, nil, guitex.WithFrameDump(rec))
	h.c.SetScene(ggkit.NewScene())
	h.frame()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []guitex.Size{{Width: 320, Height: 240}}, rec.frames)
	assert.Equal(t, guitex.FormatRGBA8, rec.format)
}

func TestContainerClose(t *testing.T) {
	h := install(t, nil)
	h.c.SetScene(ggkit.NewScene())
	h.frame()

	require.NoError(t, h.c.Close())
	assert.ErrorIs(t, h.c.Close(), guitex.ErrClosed)
	h.eng.RunTasks()
	assert.Empty(t, h.eng.Pictures())
	assert.False(t, h.c.Update())
	assert.False(t, h.eng.Send(&guitex.MouseEvent{X: 1, Y: 1}))

	select {
	case <-h.kit.Done():
	default:
		t.Fatal("toolkit still running after Close")
	}
}

type brokenToolkit struct{ inlineGUI }

func (brokenToolkit) Start() error                              { return nil }
func (brokenToolkit) NativeFormat() (guitex.PixelFormat, error) { return 0, errors.New("no display") }
func (brokenToolkit) NewWindow(guitex.Host) guitex.Window       { return nil }
func (brokenToolkit) Exit()                                     {}

func TestInstallNegotiationFailure(t *testing.T) {
	_, err := guitex.Install(context.Background(), headless.New(), brokenToolkit{})
	assert.ErrorIs(t, err, guitex.ErrNegotiationFailed)
}

func TestInstallStartFailure(t *testing.T) {
	kit := ggkit.New()
	kit.Exit()
	_, err := guitex.Install(context.Background(), headless.New(), kit)
	assert.ErrorIs(t, err, ggkit.ErrExited)
}
