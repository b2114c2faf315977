package geom

import "math"

// Vec2 is a 2D vector in either design or surface coordinates.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalized returns the unit vector. A zero vector stays zero.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Rect is an axis-aligned rectangle. Top < Bottom (y grows downward).
type Rect struct {
	Left, Top, Right, Bottom float64
}

func (r Rect) Width() float64 {
	return r.Right - r.Left
}

func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Inflate grows the rectangle outward by m on every side.
func (r Rect) Inflate(m float64) Rect {
	return Rect{r.Left - m, r.Top - m, r.Right + m, r.Bottom + m}
}

// Contains reports whether p lies inside or on the boundary of r.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// ClosestPoint returns the point of r nearest to p. For a point inside
// the rectangle this is p itself.
func (r Rect) ClosestPoint(p Vec2) Vec2 {
	return Vec2{
		X: Clamp(p.X, r.Left, r.Right),
		Y: Clamp(p.Y, r.Top, r.Bottom),
	}
}

// ClosestPointOnSegment projects p onto the segment a-b, clamping the
// projection parameter to [0,1]. A zero-length segment returns a.
func ClosestPointOnSegment(a, b, p Vec2) Vec2 {
	ab := b.Sub(a)
	lenSq := ab.LenSq()
	if lenSq == 0 {
		return a
	}
	t := Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return a.Add(ab.Scale(t))
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates linearly from a to b by t in [0,1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
