package guitex

// CullHint controls whether the engine draws a node.
type CullHint int

const (
	CullDynamic CullHint = iota // engine decides from bounds
	CullAlways                  // never drawn
	CullNever                   // always drawn
)

func (h CullHint) String() string {
	switch h {
	case CullDynamic:
		return "dynamic"
	case CullAlways:
		return "always"
	case CullNever:
		return "never"
	}
	return "unknown"
}

// Picture is the screen-space quad that shows the GUI texture. It is owned
// by the engine thread: mutate it only from tasks run by the engine queue.
type Picture struct {
	Name     string
	Position Point
	Size     Size
	Cull     CullHint
	Texture  *Texture
	Attached bool
}

// NewPicture creates a detached picture covering size at the origin.
// It starts culled until a scene is shown.
func NewPicture(name string, tex *Texture, size Size) *Picture {
	return &Picture{Name: name, Texture: tex, Size: size, Cull: CullAlways}
}

// Bounds returns the screen rectangle covered by the picture.
func (p *Picture) Bounds() Rect {
	return Rect{X: p.Position.X, Y: p.Position.Y, W: p.Size.Width, H: p.Size.Height}
}

// Visible reports whether the engine should draw the picture.
func (p *Picture) Visible() bool {
	return p.Attached && p.Cull != CullAlways && p.Texture != nil
}
