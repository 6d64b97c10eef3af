// Package geom provides the 2D vector, axis-aligned rectangle, and RGBA
// color value types shared by every positioned or styled entity in the
// graph model. It stores positions and bounds only — no rendering, no
// transforms beyond translation/union/inflate, per the core's non-goal of
// floating-point geometry beyond storing positions and rectangles.
package geom

// Vec2 is a 2D point or size, in host-editor canvas units.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Rect is an axis-aligned rectangle with (X,Y) as its top-left corner.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Contains reports whether p lies within r (inclusive of edges).
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Union returns the smallest rectangle enclosing both r and o.
// Union does not special-case the zero value: a zero Rect is treated as a
// real degenerate rectangle at (0,0), so its union with o also encloses
// the origin. Callers folding Union across a slice start from the first
// element rather than from the zero value.
func (r Rect) Union(o Rect) Rect {
	minX := min(r.X, o.X)
	minY := min(r.Y, o.Y)
	maxX := max(r.X+r.W, o.X+o.W)
	maxY := max(r.Y+r.H, o.Y+o.H)

	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Inflate expands r by pad on every side and reserves titleBar additional
// height at the top, as used by container AutoFit.
func (r Rect) Inflate(pad, titleBar float64) Rect {
	return Rect{
		X: r.X - pad,
		Y: r.Y - pad - titleBar,
		W: r.W + 2*pad,
		H: r.H + 2*pad + titleBar,
	}
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// RGBA is an 8-bit-per-channel color used by groups, frames, and comments.
type RGBA struct {
	R uint8
	G uint8
	B uint8
	A uint8
}
