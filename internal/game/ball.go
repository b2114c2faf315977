package game

import "math"

// Ball holds position and velocity. Three copies exist in the engine:
// the live simulation state, a snapshot taken on pause/save, and a
// persistent mirror (in design coordinates) that survives surface
// teardown, e.g. a terminal resize.
type Ball struct {
	X, Y   float64
	VX, VY float64
}

// Move advances the ball by its velocity.
func (b *Ball) Move() {
	b.X += b.VX
	b.Y += b.VY
}

// Stop zeroes the velocity, leaving position untouched.
func (b *Ball) Stop() {
	b.VX = 0
	b.VY = 0
}

// Speed returns the velocity magnitude.
func (b *Ball) Speed() float64 {
	return math.Sqrt(b.VX*b.VX + b.VY*b.VY)
}
