package game

import (
	"time"

	"github.com/okutan/tiltmaze/internal/geom"
)

// AnimKind identifies the active post-physics sequence.
type AnimKind int

const (
	AnimNone AnimKind = iota
	AnimFall
	AnimSuccess
)

const (
	fallDuration    = 600 * time.Millisecond
	successDuration = 1200 * time.Millisecond
)

// animation drives the fall-into-hole and reach-goal sequences. While
// one is active it owns the ball position; the physics step must not
// touch velocity or position until it resolves.
type animation struct {
	kind      AnimKind
	start     geom.Vec2
	target    geom.Vec2
	startTime time.Time

	// Guards the level-complete callback: it must fire exactly once per
	// level instance even if the update is re-entered.
	completionFired bool
}

func (a *animation) active() bool {
	return a.kind != AnimNone
}

func (a *animation) begin(kind AnimKind, start, target geom.Vec2, now time.Time) {
	a.kind = kind
	a.start = start
	a.target = target
	a.startTime = now
}

func (a *animation) duration() time.Duration {
	if a.kind == AnimSuccess {
		return successDuration
	}
	return fallDuration
}

func (a *animation) progress(now time.Time) float64 {
	d := a.duration()
	if d <= 0 {
		return 1
	}
	return geom.Clamp(float64(now.Sub(a.startTime))/float64(d), 0, 1)
}

// position returns where the ball should be at the given progress.
// Falling eases quadratically toward the hole so the drop visually
// accelerates; the success sequence parks the ball on the goal while
// the celebratory effects play.
func (a *animation) position(progress float64) geom.Vec2 {
	if a.kind == AnimSuccess {
		return a.target
	}
	eased := progress * progress
	return geom.Vec2{
		X: geom.Lerp(a.start.X, a.target.X, eased),
		Y: geom.Lerp(a.start.Y, a.target.Y, eased),
	}
}
