package headless_test

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/guitex"
	"github.com/go-theft-auto/guitex/backend/headless"
)

func TestEngine_Defaults(t *testing.T) {
	e := headless.New()

	w, h := e.DisplaySize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, guitex.FormatABGR8, e.FallbackFormat())
	for _, f := range []guitex.PixelFormat{guitex.FormatARGB8, guitex.FormatBGRA8, guitex.FormatABGR8, guitex.FormatRGBA8} {
		assert.True(t, e.SupportsFormat(f), f.String())
	}
	assert.False(t, e.FullScreen())
}

func TestEngine_Options(t *testing.T) {
	e := headless.New(
		headless.WithSize(320, 200),
		headless.WithFullScreen(true),
		headless.WithFormats(guitex.FormatRGBA8, guitex.FormatRGBA8),
		headless.WithDecoration(guitex.Point{X: 4, Y: 22}),
	)

	w, h := e.DisplaySize()
	assert.Equal(t, 320, w)
	assert.Equal(t, 200, h)
	assert.True(t, e.FullScreen())
	assert.True(t, e.SupportsFormat(guitex.FormatRGBA8))
	assert.False(t, e.SupportsFormat(guitex.FormatARGB8))
	assert.Equal(t, guitex.Point{X: 4, Y: 22}, e.DecorationOffset())

	e.SetDisplaySize(100, 50)
	w, h = e.DisplaySize()
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
}

func TestEngine_RunTasks(t *testing.T) {
	e := headless.New()
	var ran []int
	e.Enqueue(func() { ran = append(ran, 1) })
	e.Enqueue(func() { ran = append(ran, 2) })

	assert.Equal(t, 2, e.RunTasks())
	assert.Equal(t, []int{1, 2}, ran)
	assert.Equal(t, 0, e.RunTasks())
}

// abgrPicture returns a visible picture filled with one ABGR8 color.
func abgrPicture(w, h int, c color.RGBA) *guitex.Picture {
	size := guitex.Size{Width: w, Height: h}
	data := make([]byte, size.Bytes())
	for i := 0; i < len(data); i += 4 {
		data[i], data[i+1], data[i+2], data[i+3] = c.A, c.B, c.G, c.R
	}
	img := guitex.NewImage(guitex.FormatABGR8, size, data)
	img.SetUpdateNeeded()
	p := guitex.NewPicture("gui", guitex.NewTexture(img), size)
	p.Cull = guitex.CullNever
	p.Attached = true
	return p
}

func TestEngine_RenderComposesPictures(t *testing.T) {
	e := headless.New(headless.WithSize(8, 6))
	p := abgrPicture(2, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	p.Position = guitex.Point{X: 3, Y: 1}
	e.Attach(p)

	canvas := e.Render()
	require.Equal(t, 8, canvas.Rect.Dx())
	require.Equal(t, 6, canvas.Rect.Dy())

	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, canvas.RGBAAt(3, 1))
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, canvas.RGBAAt(4, 2))
	assert.Equal(t, color.RGBA{}, canvas.RGBAAt(2, 1))
	assert.Equal(t, color.RGBA{}, canvas.RGBAAt(5, 2))
}

func TestEngine_RenderSkipsHiddenPictures(t *testing.T) {
	e := headless.New(headless.WithSize(4, 4))
	p := abgrPicture(4, 4, color.RGBA{R: 255, A: 255})
	p.Cull = guitex.CullAlways
	e.Attach(p)

	assert.Equal(t, color.RGBA{}, e.Render().RGBAAt(0, 0))
	assert.Equal(t, 0, e.Uploads())
}

func TestEngine_UploadsOnlyWhenChanged(t *testing.T) {
	e := headless.New(headless.WithSize(4, 4))
	p := abgrPicture(4, 4, color.RGBA{G: 255, A: 255})
	e.Attach(p)

	e.Render()
	assert.Equal(t, 1, e.Uploads())

	e.Render()
	assert.Equal(t, 1, e.Uploads(), "unchanged image is not uploaded again")

	p.Texture.Image().SetUpdateNeeded()
	e.Render()
	assert.Equal(t, 2, e.Uploads())

	size := guitex.Size{Width: 4, Height: 4}
	p.Texture.SetImage(guitex.NewImage(guitex.FormatABGR8, size, make([]byte, size.Bytes())))
	canvas := e.Render()
	assert.Equal(t, 3, e.Uploads(), "rebinding the image forces an upload")
	assert.Equal(t, color.RGBA{}, canvas.RGBAAt(0, 0))
}

func TestEngine_AttachDetach(t *testing.T) {
	e := headless.New()
	p := abgrPicture(1, 1, color.RGBA{A: 255})

	e.Attach(p)
	e.Attach(p)
	assert.Len(t, e.Pictures(), 1)

	e.Detach(p)
	assert.Empty(t, e.Pictures())
}

type consumer struct{ got []guitex.InputEvent }

func (c *consumer) OnInput(ev guitex.InputEvent) {
	c.got = append(c.got, ev)
	ev.Consume()
}

func TestEngine_SendAndCursor(t *testing.T) {
	e := headless.New()
	assert.False(t, e.Send(&guitex.MouseEvent{X: 1, Y: 2}))

	c := &consumer{}
	e.AddRawInputListener(c)
	assert.True(t, e.Send(&guitex.MouseEvent{X: 1, Y: 2}))
	assert.Len(t, c.got, 1)

	e.RemoveRawInputListener(c)
	assert.False(t, e.Send(&guitex.MouseEvent{X: 1, Y: 2}))

	assert.Nil(t, e.Cursor())
	cur := &guitex.Cursor{Kind: guitex.CursorHand}
	e.ApplyCursor(cur)
	assert.Same(t, cur, e.Cursor())
}
