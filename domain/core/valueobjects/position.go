package valueobjects

import "math"

// Position is a value object for a point in scene coordinates
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPosition creates a position from scene coordinates
func NewPosition(x, y float64) Position {
	return Position{X: x, Y: y}
}

// Add returns the component-wise sum of two positions
func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the component-wise difference of two positions
func (p Position) Sub(other Position) Position {
	return Position{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns the position scaled by a factor
func (p Position) Scale(factor float64) Position {
	return Position{X: p.X * factor, Y: p.Y * factor}
}

// ManhattanLength returns |x| + |y|, the hit-test metric used for
// handle proximity checks
func (p Position) ManhattanLength() float64 {
	return math.Abs(p.X) + math.Abs(p.Y)
}

// Equals checks if two positions are equal
func (p Position) Equals(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// Size is a value object for a width/height pair
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle anchored at its top-left corner
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a rectangle from its top-left corner and size
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Contains reports whether the point lies inside the rectangle
func (r Rect) Contains(p Position) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// TopCenter returns the midpoint of the top edge
func (r Rect) TopCenter() Position {
	return Position{X: r.X + r.Width/2, Y: r.Y}
}

// BottomCenter returns the midpoint of the bottom edge
func (r Rect) BottomCenter() Position {
	return Position{X: r.X + r.Width/2, Y: r.Y + r.Height}
}

// Translated returns the rectangle shifted by the given offset
func (r Rect) Translated(offset Position) Rect {
	return Rect{X: r.X + offset.X, Y: r.Y + offset.Y, Width: r.Width, Height: r.Height}
}

// Union returns the smallest rectangle containing both rectangles
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.X+r.Width, other.X+other.Width)
	maxY := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
