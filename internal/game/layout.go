package game

import (
	"github.com/okutan/tiltmaze/internal/geom"
	"github.com/okutan/tiltmaze/internal/level"
)

// Sizes in design units. Scaled by the layout when the surface changes.
const (
	ballRadiusDesign = 40.0
	holeRadiusDesign = 46.0
	goalRadiusDesign = 50.0

	// Walls are drawn slightly thicker than their logical rectangle, so
	// collision inflates each wall by the visual overhang (thickness
	// minus one).
	wallMarginDesign = 9.0

	// Hole capture uses half the ball radius so the ball visibly
	// overlaps the hole before falling. The goal uses a larger factor,
	// making the goal easier to enter than a trap.
	holeBallFactor = 0.5
	goalBallFactor = 1.152
	holeRimFactor  = 0.3
)

// Layout maps the fixed design space onto the current surface with a
// uniform scale and centering offsets. The non-dominant axis is
// letterboxed so aspect ratio is preserved.
type Layout struct {
	SurfaceW, SurfaceH float64
	Scale              float64
	OffsetX, OffsetY   float64

	BallRadius float64
	HoleRadius float64
	GoalRadius float64
	WallMargin float64
}

// NewLayout computes the layout for a surface of w×h units. A zero or
// negative size yields an invalid layout and the engine treats every
// physics step as a no-op until a real size arrives.
func NewLayout(w, h int) Layout {
	if w <= 0 || h <= 0 {
		return Layout{}
	}

	sw, sh := float64(w), float64(h)
	scale := sw / level.DesignWidth
	if s := sh / level.DesignHeight; s < scale {
		scale = s
	}

	return Layout{
		SurfaceW:   sw,
		SurfaceH:   sh,
		Scale:      scale,
		OffsetX:    (sw - level.DesignWidth*scale) / 2,
		OffsetY:    (sh - level.DesignHeight*scale) / 2,
		BallRadius: ballRadiusDesign * scale,
		HoleRadius: holeRadiusDesign * scale,
		GoalRadius: goalRadiusDesign * scale,
		WallMargin: wallMarginDesign * scale,
	}
}

// Valid reports whether the layout has a usable surface size.
func (l Layout) Valid() bool {
	return l.Scale > 0
}

// ToSurface converts a design-space point to surface coordinates.
func (l Layout) ToSurface(p level.Point) geom.Vec2 {
	return geom.Vec2{X: p.X*l.Scale + l.OffsetX, Y: p.Y*l.Scale + l.OffsetY}
}

// ToDesign converts a surface-space point back to design coordinates.
func (l Layout) ToDesign(p geom.Vec2) level.Point {
	return level.Point{X: (p.X - l.OffsetX) / l.Scale, Y: (p.Y - l.OffsetY) / l.Scale}
}

// WallRect converts a design-space wall to surface coordinates.
func (l Layout) WallRect(w level.Wall) geom.Rect {
	return geom.Rect{
		Left:   w.Left*l.Scale + l.OffsetX,
		Top:    w.Top*l.Scale + l.OffsetY,
		Right:  w.Right*l.Scale + l.OffsetX,
		Bottom: w.Bottom*l.Scale + l.OffsetY,
	}
}

// FieldBounds returns the playable area (the letterboxed design space)
// in surface coordinates.
func (l Layout) FieldBounds() geom.Rect {
	return geom.Rect{
		Left:   l.OffsetX,
		Top:    l.OffsetY,
		Right:  l.OffsetX + level.DesignWidth*l.Scale,
		Bottom: l.OffsetY + level.DesignHeight*l.Scale,
	}
}

// Hole capture radius: the ball falls when its center comes within this
// distance of a hole center.
func (l Layout) holeCaptureRadius() float64 {
	return l.BallRadius*holeBallFactor + l.HoleRadius*holeRimFactor
}

// Goal capture radius, intentionally more generous than the hole's.
func (l Layout) goalCaptureRadius() float64 {
	return l.BallRadius*goalBallFactor + l.GoalRadius*holeRimFactor
}
