package game

import (
	"time"

	"github.com/okutan/tiltmaze/internal/geom"
)

const (
	// Same-contact classification: positional delta below this many
	// design units and near-parallel normals.
	rollingDistanceDesign = 5.0
	rollingNormalDot      = 0.8

	// Continuous same contact for this long confirms rolling.
	rollingConfirmWindow = 50 * time.Millisecond
	// No collision for this long resets the tracker.
	rollingExpireWindow = 100 * time.Millisecond
)

// rollingTracker decides whether a wall collision is a fresh impact or
// part of a sustained slide along the same surface. Sliding contact
// repeats the collision every frame; without this heuristic the haptic
// channel would buzz continuously.
type rollingTracker struct {
	lastNormal    geom.Vec2
	lastPoint     geom.Vec2
	lastTime      time.Time
	consecutive   int
	isRolling     bool
	rollingNormal geom.Vec2
	rollingStart  time.Time

	sameContactSince time.Time
}

func (t *rollingTracker) reset() {
	*t = rollingTracker{}
}

// observe records a wall collision at the given time and reports
// whether haptic feedback should be suppressed because the ball is
// rolling. distThreshold is the same-contact distance in surface units.
func (t *rollingTracker) observe(hit wallHit, now time.Time, distThreshold float64) bool {
	// A gap without collisions ends any rolling episode.
	if !t.lastTime.IsZero() && now.Sub(t.lastTime) > rollingExpireWindow {
		t.reset()
	}

	same := t.consecutive > 0 &&
		hit.Point.Sub(t.lastPoint).Len() < distThreshold &&
		hit.Normal.Dot(t.lastNormal) > rollingNormalDot

	if same {
		t.consecutive++
		if !t.isRolling && now.Sub(t.sameContactSince) > rollingConfirmWindow {
			t.isRolling = true
			t.rollingNormal = hit.Normal
			t.rollingStart = now
		}
	} else {
		// Fresh contact (or contact moved): restart classification.
		t.consecutive = 1
		t.isRolling = false
		t.sameContactSince = now
	}

	t.lastNormal = hit.Normal
	t.lastPoint = hit.Point
	t.lastTime = now

	return t.isRolling
}
