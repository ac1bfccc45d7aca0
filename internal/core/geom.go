// Package core provides fundamental geometry types shared by the world model,
// the collision engine and the spawn policy. It has no dependencies on the
// rest of the module so the simulation math stays pure and testable.
package core

// Point2D is a continuous position on a map.
type Point2D struct {
	X, Y float64
}

// Add returns the point translated by v.
func (p Point2D) Add(v Vec2D) Point2D {
	return Point2D{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from o to p.
func (p Point2D) Sub(o Point2D) Vec2D {
	return Vec2D{X: p.X - o.X, Y: p.Y - o.Y}
}

// ManhattanTo returns |dx| + |dy| between two points.
func (p Point2D) ManhattanTo(o Point2D) float64 {
	return absF(p.X-o.X) + absF(p.Y-o.Y)
}

// Vec2D is a displacement or a velocity (units per second).
type Vec2D struct {
	X, Y float64
}

// IsZero reports whether both components are zero.
func (v Vec2D) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Dot returns the dot product.
func (v Vec2D) Dot(o Vec2D) float64 {
	return v.X*o.X + v.Y*o.Y
}

// LenSq returns the squared length.
func (v Vec2D) LenSq() float64 {
	return v.Dot(v)
}

// Bounds is an axis-aligned rectangle with continuous, inclusive edges.
type Bounds struct {
	Min, Max Point2D
}

// NewBounds builds bounds from two opposite corners in any order.
func NewBounds(a, b Point2D) Bounds {
	return Bounds{
		Min: Point2D{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		Max: Point2D{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	}
}

// Expand grows the rectangle by d on every side.
func (b Bounds) Expand(d float64) Bounds {
	return Bounds{
		Min: Point2D{X: b.Min.X - d, Y: b.Min.Y - d},
		Max: Point2D{X: b.Max.X + d, Y: b.Max.Y + d},
	}
}

// Contains returns true if p lies inside or on the edge of the rectangle.
func (b Bounds) Contains(p Point2D) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Rect represents an integer axis-aligned box, used for static map geometry
// such as buildings.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
