package game

import (
	"testing"
	"time"

	"github.com/okutan/tiltmaze/internal/geom"
)

var rollingBase = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func slideHit(x float64) wallHit {
	return wallHit{
		Point:  geom.Vec2{X: x, Y: 100},
		Normal: geom.Vec2{Y: -1},
		Impact: 3,
	}
}

func TestRollingTracker_ConfirmsAfterWindow(t *testing.T) {
	var tr rollingTracker

	// First contact is always a fresh impact.
	if tr.observe(slideHit(100), rollingBase, 5) {
		t.Error("expected first contact not to be rolling")
	}

	// Same contact within the confirm window: still not rolling.
	if tr.observe(slideHit(101), rollingBase.Add(20*time.Millisecond), 5) {
		t.Error("expected contact inside confirm window not to be rolling")
	}

	// Past the 50ms confirm window: rolling.
	if !tr.observe(slideHit(102), rollingBase.Add(70*time.Millisecond), 5) {
		t.Error("expected sustained contact to be classified as rolling")
	}
}

func TestRollingTracker_NewNormalBreaksRolling(t *testing.T) {
	var tr rollingTracker
	tr.observe(slideHit(100), rollingBase, 5)
	tr.observe(slideHit(101), rollingBase.Add(30*time.Millisecond), 5)
	if !tr.observe(slideHit(102), rollingBase.Add(70*time.Millisecond), 5) {
		t.Fatal("expected rolling")
	}

	// Hit with a perpendicular normal: fresh impact again.
	side := wallHit{Point: geom.Vec2{X: 102, Y: 100}, Normal: geom.Vec2{X: 1}}
	if tr.observe(side, rollingBase.Add(80*time.Millisecond), 5) {
		t.Error("expected normal change to break rolling")
	}
}

func TestRollingTracker_DistanceBreaksRolling(t *testing.T) {
	var tr rollingTracker
	tr.observe(slideHit(100), rollingBase, 5)
	if !tr.observe(slideHit(101), rollingBase.Add(60*time.Millisecond), 5) {
		t.Fatal("expected rolling")
	}

	// Contact jumped along the wall beyond the distance threshold.
	if tr.observe(slideHit(150), rollingBase.Add(70*time.Millisecond), 5) {
		t.Error("expected positional jump to break rolling")
	}
}

func TestRollingTracker_GapResets(t *testing.T) {
	var tr rollingTracker
	tr.observe(slideHit(100), rollingBase, 5)
	if !tr.observe(slideHit(101), rollingBase.Add(60*time.Millisecond), 5) {
		t.Fatal("expected rolling")
	}

	// More than 100ms without any collision: the episode is over, and
	// the next hit is a fresh impact.
	if tr.observe(slideHit(101), rollingBase.Add(300*time.Millisecond), 5) {
		t.Error("expected rolling to expire after the detection window")
	}
}
