// Package gfx implements the surface compositing core of the engine:
// axis-aligned rectangles with clip arithmetic, the Canvas contract shared
// by every drawable surface, and the generic blit algorithm built on it.
// It contains no rendering or IO so surface logic stays pure and testable.
package gfx

// Rect is an axis-aligned rectangle used for clipping and overlap math.
// It is a plain value type; operations return new rectangles.
type Rect struct {
	X, Y int // Top-left corner; may be negative or outside any surface
	W, H int // Width and height, never negative
}

// NewRect creates a rectangle with the given position and dimensions.
// Negative dimensions are clamped to zero, which yields an empty rectangle.
func NewRect(x, y, w, h int) Rect {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

// IsEmpty returns true if the rectangle covers no cells.
// An empty rectangle overlaps nothing, including itself.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Translate returns the rectangle shifted by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Intersect returns the maximal overlap of two rectangles, or the zero
// (empty) rectangle when they do not overlap. Either operand being empty
// makes the result empty.
func (r Rect) Intersect(other Rect) Rect {
	if r.IsEmpty() || other.IsEmpty() {
		return Rect{}
	}

	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	right := min(r.Right(), other.Right())
	bottom := min(r.Bottom(), other.Bottom())

	if right <= x || bottom <= y {
		return Rect{}
	}
	return Rect{X: x, Y: y, W: right - x, H: bottom - y}
}
