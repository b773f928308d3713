// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PointInt represents a 2D point with integer coordinates.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ToFloat converts to Point2D.
func (p PointInt) ToFloat() Point2D {
	return Point2D{X: float64(p.X), Y: float64(p.Y)}
}

// RectInt represents a rectangle with integer coordinates.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the x coordinate just past the right edge.
func (r RectInt) Right() int {
	return r.X + r.Width
}

// Bottom returns the y coordinate just past the bottom edge.
func (r RectInt) Bottom() int {
	return r.Y + r.Height
}

// TopLeft returns the top-left corner.
func (r RectInt) TopLeft() PointInt {
	return PointInt{X: r.X, Y: r.Y}
}

// Aspect returns width divided by height. Height must be nonzero.
func (r RectInt) Aspect() float64 {
	return float64(r.Width) / float64(r.Height)
}

// StrictlyContains reports whether other lies strictly inside r on all
// four sides. Touching edges do not count.
func (r RectInt) StrictlyContains(other RectInt) bool {
	return other.X > r.X && other.Y > r.Y &&
		other.Right() < r.Right() && other.Bottom() < r.Bottom()
}

// ToFloat converts to Rect.
func (r RectInt) ToFloat() Rect {
	return Rect{X: float64(r.X), Y: float64(r.Y), Width: float64(r.Width), Height: float64(r.Height)}
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Size represents a 2D size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BoundingBoxInt computes the axis-aligned bounding box of a set of
// integer points.
func BoundingBoxInt(points []PointInt) RectInt {
	if len(points) == 0 {
		return RectInt{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return RectInt{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
