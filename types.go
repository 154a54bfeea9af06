package guitex

// MinDimension is the smallest width or height a frame is allocated with.
const MinDimension = 64

// BytesPerPixel is the size of one pixel in every frame buffer.
const BytesPerPixel = 4

// Size is a frame size in pixels.
type Size struct {
	Width, Height int
}

// ClampSize returns the frame size for a display of w x h pixels.
// Each side is clamped to at least MinDimension.
func ClampSize(w, h int) Size {
	return Size{Width: max(w, MinDimension), Height: max(h, MinDimension)}
}

// Bytes returns the byte length of a buffer holding a frame of this size.
func (s Size) Bytes() int {
	return s.Width * s.Height * BytesPerPixel
}

// Stride returns the byte length of one row.
func (s Size) Stride() int {
	return s.Width * BytesPerPixel
}

// Empty reports whether the size has no pixels.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Point is an integer position in pixels.
type Point struct {
	X, Y int
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Rect is an integer rectangle with its top-left corner at X, Y.
type Rect struct {
	X, Y int
	W, H int
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Intersects returns true if two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.W && r.X+r.W > other.X &&
		r.Y < other.Y+other.H && r.Y+r.H > other.Y
}

// Intersect returns the overlapping part of two rectangles.
// The result is empty (zero W or H) when they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.X+r.W, other.X+other.W)
	y1 := min(r.Y+r.H, other.Y+other.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}
