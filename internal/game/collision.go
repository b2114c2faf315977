package game

import (
	"math"

	"github.com/okutan/tiltmaze/internal/geom"
)

// Fraction of velocity retained after reflection.
const (
	wallRestitution     = 0.5
	boundaryRestitution = 0.5
)

// wallHit describes one resolved wall collision, consumed by the
// rolling tracker and the haptic scaler.
type wallHit struct {
	Point  geom.Vec2 // contact point on the wall surface
	Normal geom.Vec2 // axis-aligned separation normal (unit)
	Impact float64   // approach speed along the reflected axis, pre-reflection
}

// resolveWalls pushes the ball out of every wall it penetrates and
// reflects velocity along the dominant separation axis. Walls must
// already be inflated by the visual margin. Returns the last hit.
//
// Reflection is axis-aligned rather than a true normal reflection; all
// walls in this game are axis-aligned rectangles, so the dominant axis
// of the separation vector is the collision normal in practice.
func resolveWalls(b *Ball, walls []geom.Rect, radius float64) (wallHit, bool) {
	var hit wallHit
	found := false

	for _, w := range walls {
		center := geom.Vec2{X: b.X, Y: b.Y}
		closest := w.ClosestPoint(center)
		delta := center.Sub(closest)
		distSq := delta.LenSq()
		if distSq >= radius*radius {
			continue
		}

		if distSq > 0 {
			dist := math.Sqrt(distSq)
			dir := delta.Scale(1 / dist)
			pen := radius - dist
			b.X += dir.X * pen
			b.Y += dir.Y * pen

			if math.Abs(delta.X) > math.Abs(delta.Y) {
				hit = wallHit{Point: closest, Normal: geom.Vec2{X: sign(delta.X)}, Impact: math.Abs(b.VX)}
				b.VX = -b.VX * wallRestitution
			} else {
				hit = wallHit{Point: closest, Normal: geom.Vec2{Y: sign(delta.Y)}, Impact: math.Abs(b.VY)}
				b.VY = -b.VY * wallRestitution
			}
		} else {
			// Ball center on or inside the rectangle. Eject through the
			// side the ball entered from (opposite its dominant velocity
			// axis); with no velocity, through the nearest edge.
			hit = ejectFromInside(b, w, radius)
		}
		found = true
	}

	return hit, found
}

// ejectFromInside handles the degenerate zero-distance case.
func ejectFromInside(b *Ball, w geom.Rect, radius float64) wallHit {
	if b.VX != 0 || b.VY != 0 {
		if math.Abs(b.VX) > math.Abs(b.VY) {
			impact := math.Abs(b.VX)
			var hit wallHit
			if b.VX > 0 {
				b.X = w.Left - radius
				hit = wallHit{Normal: geom.Vec2{X: -1}}
			} else {
				b.X = w.Right + radius
				hit = wallHit{Normal: geom.Vec2{X: 1}}
			}
			b.VX = -b.VX * wallRestitution
			hit.Impact = impact
			hit.Point = geom.Vec2{X: b.X + hit.Normal.X*-radius, Y: b.Y}
			return hit
		}

		impact := math.Abs(b.VY)
		var hit wallHit
		if b.VY > 0 {
			b.Y = w.Top - radius
			hit = wallHit{Normal: geom.Vec2{Y: -1}}
		} else {
			b.Y = w.Bottom + radius
			hit = wallHit{Normal: geom.Vec2{Y: 1}}
		}
		b.VY = -b.VY * wallRestitution
		hit.Impact = impact
		hit.Point = geom.Vec2{X: b.X, Y: b.Y + hit.Normal.Y*-radius}
		return hit
	}

	// Resting exactly inside: nearest edge wins.
	left := b.X - w.Left
	right := w.Right - b.X
	top := b.Y - w.Top
	bottom := w.Bottom - b.Y

	min := left
	normal := geom.Vec2{X: -1}
	if right < min {
		min = right
		normal = geom.Vec2{X: 1}
	}
	if top < min {
		min = top
		normal = geom.Vec2{Y: -1}
	}
	if bottom < min {
		normal = geom.Vec2{Y: 1}
	}

	point := geom.Vec2{X: b.X, Y: b.Y}
	switch {
	case normal.X < 0:
		b.X = w.Left - radius
		point.X = w.Left
	case normal.X > 0:
		b.X = w.Right + radius
		point.X = w.Right
	case normal.Y < 0:
		b.Y = w.Top - radius
		point.Y = w.Top
	default:
		b.Y = w.Bottom + radius
		point.Y = w.Bottom
	}
	return wallHit{Point: point, Normal: normal}
}

// resolveBoundaries clamps the ball center to the playable field and
// reflects velocity on each axis that clamps. Reflection only happens
// when the velocity sign indicates an actual approach, so a ball
// resting against an edge does not re-trigger. Returns the largest
// approach speed among the clamped axes.
func resolveBoundaries(b *Ball, bounds geom.Rect, radius float64) (float64, bool) {
	var impact float64
	hit := false

	if b.X < bounds.Left+radius {
		if b.VX < 0 {
			impact = math.Max(impact, -b.VX)
			b.VX = -b.VX * boundaryRestitution
			hit = true
		}
		b.X = bounds.Left + radius
	} else if b.X > bounds.Right-radius {
		if b.VX > 0 {
			impact = math.Max(impact, b.VX)
			b.VX = -b.VX * boundaryRestitution
			hit = true
		}
		b.X = bounds.Right - radius
	}

	if b.Y < bounds.Top+radius {
		if b.VY < 0 {
			impact = math.Max(impact, -b.VY)
			b.VY = -b.VY * boundaryRestitution
			hit = true
		}
		b.Y = bounds.Top + radius
	} else if b.Y > bounds.Bottom-radius {
		if b.VY > 0 {
			impact = math.Max(impact, b.VY)
			b.VY = -b.VY * boundaryRestitution
			hit = true
		}
		b.Y = bounds.Bottom - radius
	}

	return impact, hit
}

// detectHole reports the first hole whose capture radius contains the
// new ball position, or that the old→new movement segment passes
// through. The segment check catches fast frames where the discrete
// step would jump clean over a hole (tunneling).
func detectHole(oldPos, newPos geom.Vec2, holes []geom.Vec2, captureRadius float64) (geom.Vec2, bool) {
	rSq := captureRadius * captureRadius
	for _, h := range holes {
		if newPos.Sub(h).LenSq() < rSq {
			return h, true
		}
		closest := geom.ClosestPointOnSegment(oldPos, newPos, h)
		if closest.Sub(h).LenSq() < rSq {
			return h, true
		}
	}
	return geom.Vec2{}, false
}

// detectGoal reports whether the ball center is within the goal's
// capture radius.
func detectGoal(pos, goal geom.Vec2, captureRadius float64) bool {
	return pos.Sub(goal).LenSq() < captureRadius*captureRadius
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
