package headless

import (
	"image"
	"image/draw"

	"github.com/go-theft-auto/guitex"
)

// upload is the engine-side copy of a picture's texture.
type upload struct {
	version uint64
	img     *image.RGBA
}

// Render composes every visible picture into the canvas over a transparent
// background and returns it. Textures are re-uploaded only when their image
// was flagged as updated or rebound.
func (e *Engine) Render() *image.RGBA {
	w, h := e.DisplaySize()
	if e.canvas == nil || e.canvas.Rect.Dx() != w || e.canvas.Rect.Dy() != h {
		e.canvas = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		clear(e.canvas.Pix)
	}

	for _, p := range e.pictures {
		if !p.Visible() {
			continue
		}
		up := e.upload(p)
		if up == nil {
			continue
		}
		at := image.Pt(p.Position.X, p.Position.Y)
		draw.Draw(e.canvas, up.img.Bounds().Add(at), up.img, image.Point{}, draw.Over)
	}
	return e.canvas
}

func (e *Engine) upload(p *guitex.Picture) *upload {
	if e.uploadsByPicture == nil {
		e.uploadsByPicture = make(map[*guitex.Picture]*upload)
	}
	up := e.uploadsByPicture[p]
	img := p.Texture.Image()
	if img == nil {
		return up
	}

	version := p.Texture.Version()
	stale := up == nil || up.version != version
	if !img.TakeUpdate() && !stale {
		return up
	}

	reorder, err := guitex.NewReorder(img.Format, guitex.FormatRGBA8)
	if err != nil {
		e.log.Warn("texture format not drawable", "format", img.Format, "err", err)
		return up
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Size.Width, img.Size.Height))
	copy(rgba.Pix, img.Data)
	if reorder != nil {
		reorder(rgba.Pix)
	}

	up = &upload{version: version, img: rgba}
	e.uploadsByPicture[p] = up
	e.uploads++
	return up
}
