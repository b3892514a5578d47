// Package geometry holds the coordinate types shared by the layout store,
// the interaction machine and the renderer.
//
// There are two spaces. Canvas space is the logical coordinate system of the
// strip (a fixed 240 units wide); slots and elements live there. Screen
// space is what the pointer reports. A [View] maps between them with a
// uniform scale and a pan offset, and is never written into slot or
// element geometry.
package geometry

import "math"

// Point is a position or a delta.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Div returns p with both components divided by k.
func (p Point) Div(k float64) Point { return Point{p.X / k, p.Y / k} }

// Round rounds both components to the nearest integer.
func (p Point) Round() Point { return Point{math.Round(p.X), math.Round(p.Y)} }

// Size is a width and height pair, used for intrinsic image dimensions.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Aspect returns H/W, or 0 for a degenerate size.
func (s Size) Aspect() float64 {
	if s.W <= 0 {
		return 0
	}
	return s.H / s.W
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool { return s.W > 0 && s.H > 0 }

// Rect is an axis-aligned rectangle.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Bottom returns Y+H.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Right returns X+W.
func (r Rect) Right() float64 { return r.X + r.W }

// Center returns the midpoint of r.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Contains reports whether p lies inside r. Edges on the right and bottom are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Overlaps reports whether r and o share any interior area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}
