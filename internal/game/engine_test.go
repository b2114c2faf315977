package game

import (
	"testing"
	"time"

	"github.com/okutan/tiltmaze/internal/geom"
	"github.com/okutan/tiltmaze/internal/level"
)

func testLevel() *level.Level {
	return &level.Level{
		Name:  "test",
		Start: level.Point{X: 200, Y: 360},
		Goal:  level.Point{X: 1100, Y: 360},
		Walls: []level.Wall{{Left: 600, Top: 0, Right: 640, Bottom: 500}},
		Holes: []level.Hole{{X: 400, Y: 600}},
	}
}

// newTestEngine builds an engine with a level and a 1:1 surface so all
// design-space constants apply unscaled. The loop goroutine is not
// started; tests drive step directly.
func newTestEngine(cb Callbacks) *Engine {
	e := New(NopSink{}, cb)
	e.SetLevel(testLevel())
	e.SurfaceChanged(1280, 720)
	return e
}

func runPending(pending []func()) {
	for _, fn := range pending {
		fn()
	}
}

func TestEngine_StepWithoutGeometryIsNoop(t *testing.T) {
	e := New(NopSink{}, Callbacks{})

	// No level, no surface: nothing to do, nothing to panic on.
	if pending := e.step(time.Now()); pending != nil {
		t.Error("expected no side effects without geometry")
	}

	e.SetLevel(testLevel())
	if pending := e.step(time.Now()); pending != nil {
		t.Error("expected no side effects without a surface size")
	}

	if e.Snapshot().Valid {
		t.Error("expected invalid snapshot without a surface size")
	}
}

func TestEngine_ForceResetBall(t *testing.T) {
	e := newTestEngine(Callbacks{})
	e.ball = Ball{X: 500, Y: 300, VX: 5, VY: -3}

	e.ForceResetBall()
	e.step(time.Now())

	if e.ball.VX != 0 || e.ball.VY != 0 {
		t.Errorf("expected zero velocity after reset+step, got (%f,%f)", e.ball.VX, e.ball.VY)
	}
	if e.ball.X != 200 || e.ball.Y != 360 {
		t.Errorf("expected ball at scaled start (200,360), got (%f,%f)", e.ball.X, e.ball.Y)
	}
}

func TestEngine_TiltAcceleratesBall(t *testing.T) {
	e := newTestEngine(Callbacks{})

	e.tilt.Submit(10, 0) // smoothed x = 2.0
	e.step(time.Now())

	// v = (0 + 2.0*0.5) * 0.98 = 0.98
	if e.ball.VX <= 0 {
		t.Errorf("expected positive VX from tilt, got %f", e.ball.VX)
	}
	if e.ball.X <= 200 {
		t.Errorf("expected ball to move right, got X=%f", e.ball.X)
	}
}

func TestEngine_VelocityClamp(t *testing.T) {
	e := newTestEngine(Callbacks{})
	e.ball = Ball{X: 200, Y: 100, VX: 500, VY: -500}

	e.step(time.Now())

	if e.ball.VX > maxVelocityDesign || e.ball.VY < -maxVelocityDesign {
		t.Errorf("expected velocity clamped to ±%f, got (%f,%f)",
			maxVelocityDesign, e.ball.VX, e.ball.VY)
	}
}

func TestEngine_HoleStartsFallAndStopsPhysics(t *testing.T) {
	fell := 0
	e := newTestEngine(Callbacks{OnFallInHole: func() { fell++ }})

	// Moving toward the hole at (400,600); capture radius is ~33.8.
	e.ball = Ball{X: 360, Y: 600, VX: 10, VY: 0}
	pending := e.step(time.Now())

	if e.anim.kind != AnimFall {
		t.Fatalf("expected fall animation, got kind %d", e.anim.kind)
	}
	if e.ball.VX != 0 || e.ball.VY != 0 {
		t.Errorf("expected velocity zeroed on fall, got (%f,%f)", e.ball.VX, e.ball.VY)
	}
	if len(pending) == 0 {
		t.Error("expected fall side effects")
	}
	if fell != 0 {
		t.Error("expected fall callback only after the animation completes")
	}
}

func TestEngine_FallAnimationResetsBall(t *testing.T) {
	fell := 0
	e := newTestEngine(Callbacks{OnFallInHole: func() { fell++ }})

	start := time.Now()
	e.anim.begin(AnimFall, geom.Vec2{X: 390, Y: 600}, geom.Vec2{X: 400, Y: 600}, start)

	// Mid-animation the ball is owned by the sequence.
	e.step(start.Add(fallDuration / 2))
	if e.anim.kind != AnimFall {
		t.Fatal("expected animation still active")
	}

	runPending(e.step(start.Add(2 * fallDuration)))

	if e.anim.kind != AnimNone {
		t.Error("expected animation resolved")
	}
	if e.ball.X != 200 || e.ball.Y != 360 {
		t.Errorf("expected ball reset to start, got (%f,%f)", e.ball.X, e.ball.Y)
	}
	if fell != 1 {
		t.Errorf("expected exactly one fall callback, got %d", fell)
	}
}

func TestEngine_GoalStartsSuccess(t *testing.T) {
	e := newTestEngine(Callbacks{})

	// Goal capture radius is 40*1.152 + 50*0.3 ≈ 61; park inside it.
	e.ball = Ball{X: 1060, Y: 360}
	e.step(time.Now())

	if e.anim.kind != AnimSuccess {
		t.Fatalf("expected success animation, got kind %d", e.anim.kind)
	}
}

func TestEngine_LevelCompleteFiresOnce(t *testing.T) {
	completed := 0
	e := newTestEngine(Callbacks{OnLevelComplete: func() { completed++ }})

	start := time.Now()
	pos := geom.Vec2{X: 1060, Y: 360}
	e.anim.begin(AnimSuccess, pos, e.goal, start)
	runPending(e.advanceAnimation(start.Add(2 * successDuration)))

	if !e.completed {
		t.Fatal("expected level marked completed")
	}

	// Re-entering the resolved sequence must not fire again.
	e.anim.begin(AnimSuccess, pos, e.goal, start)
	runPending(e.advanceAnimation(start.Add(2 * successDuration)))

	if completed != 1 {
		t.Errorf("expected exactly one completion callback, got %d", completed)
	}
}

func TestEngine_CompletedLevelStopsStepping(t *testing.T) {
	e := newTestEngine(Callbacks{})
	e.completed = true
	e.ball.VX = 5

	e.step(time.Now())

	if e.ball.X != 200 {
		t.Errorf("expected no physics after completion, ball moved to X=%f", e.ball.X)
	}
}

func TestEngine_SetLevelResetsCompletion(t *testing.T) {
	completed := 0
	e := newTestEngine(Callbacks{OnLevelComplete: func() { completed++ }})

	start := time.Now()
	e.anim.begin(AnimSuccess, geom.Vec2{X: 1060, Y: 360}, e.goal, start)
	runPending(e.advanceAnimation(start.Add(2 * successDuration)))

	// A fresh level instance may complete again.
	e.SetLevel(testLevel())
	e.anim.begin(AnimSuccess, geom.Vec2{X: 1060, Y: 360}, e.goal, start)
	runPending(e.advanceAnimation(start.Add(2 * successDuration)))

	if completed != 2 {
		t.Errorf("expected one completion per level instance, got %d", completed)
	}
}

func TestEngine_PauseDiscardsSensorSamples(t *testing.T) {
	e := newTestEngine(Callbacks{})
	e.Pause()

	e.SubmitTilt(10, 10)
	if x, y := e.tilt.Value(); x != 0 || y != 0 {
		t.Errorf("expected samples discarded while paused, got (%f,%f)", x, y)
	}

	// Paused engine does not step.
	e.ball.VX = 5
	e.step(time.Now())
	if e.ball.X != 200 {
		t.Errorf("expected no movement while paused, got X=%f", e.ball.X)
	}
}

func TestEngine_ResumeVariants(t *testing.T) {
	e := newTestEngine(Callbacks{})
	e.ball.VX = 8

	e.Pause()
	e.ball.Stop()
	e.Resume(true)
	if e.ball.VX != 8 {
		t.Errorf("expected restored velocity 8, got %f", e.ball.VX)
	}

	e.Pause()
	e.Resume(false)
	if e.ball.VX != 0 {
		t.Errorf("expected forced zero velocity, got %f", e.ball.VX)
	}
}

func TestEngine_PersistentStateSurvivesSurfaceChange(t *testing.T) {
	e := newTestEngine(Callbacks{})

	e.ball = Ball{X: 640, Y: 360, VX: 2, VY: 0}
	e.mirrorPersistent()

	// Surface shrinks to half size; the mirrored design-space state is
	// rescaled, not reset.
	e.SurfaceChanged(640, 360)

	if e.ball.X != 320 || e.ball.Y != 180 {
		t.Errorf("expected rescaled ball at (320,180), got (%f,%f)", e.ball.X, e.ball.Y)
	}
	if e.ball.VX != 1 {
		t.Errorf("expected rescaled VX=1, got %f", e.ball.VX)
	}
}

func TestEngine_SaveRestoreBallState(t *testing.T) {
	e := newTestEngine(Callbacks{})

	e.ball = Ball{X: 500, Y: 300, VX: 4, VY: -2}
	e.SaveBallState()

	e.ball = Ball{X: 100, Y: 100}
	e.RestoreBallState()

	if e.ball.X != 500 || e.ball.Y != 300 {
		t.Errorf("expected restored position (500,300), got (%f,%f)", e.ball.X, e.ball.Y)
	}
	if e.ball.VX != 4 || e.ball.VY != -2 {
		t.Errorf("expected restored velocity (4,-2), got (%f,%f)", e.ball.VX, e.ball.VY)
	}
}

func TestEngine_HiddenHolesDisableDetection(t *testing.T) {
	e := newTestEngine(Callbacks{})
	e.SetHolesVisible(false)

	// Sitting right on the hole: no fall while hidden.
	e.ball = Ball{X: 400, Y: 600}
	e.step(time.Now())
	if e.anim.kind != AnimNone {
		t.Error("expected no fall with holes hidden")
	}

	e.SetHolesVisible(true)
	e.step(time.Now())
	if e.anim.kind != AnimFall {
		t.Error("expected fall once holes are visible again")
	}
}

func TestEngine_WallsStillCollideWithHiddenHoles(t *testing.T) {
	e := newTestEngine(Callbacks{})
	e.SetHolesVisible(false)

	// Wall spans x 600..640 (inflated by 9). Ball approaching from the left.
	e.ball = Ball{X: 560, Y: 300, VX: 10, VY: 0}
	e.step(time.Now())

	if e.ball.VX >= 0 {
		t.Errorf("expected wall reflection regardless of hole visibility, got VX=%f", e.ball.VX)
	}
}

func TestEngine_Snapshot(t *testing.T) {
	e := newTestEngine(Callbacks{})
	snap := e.Snapshot()

	if !snap.Valid {
		t.Fatal("expected valid snapshot")
	}
	if snap.LevelName != "test" {
		t.Errorf("expected level name 'test', got %q", snap.LevelName)
	}
	if len(snap.Walls) != 1 || len(snap.Holes) != 1 {
		t.Errorf("expected 1 wall and 1 hole, got %d/%d", len(snap.Walls), len(snap.Holes))
	}
	if snap.BallRadius != 40 {
		t.Errorf("expected ball radius 40, got %f", snap.BallRadius)
	}
	if snap.Goal.X != 1100 || snap.Goal.Y != 360 {
		t.Errorf("unexpected goal position (%f,%f)", snap.Goal.X, snap.Goal.Y)
	}
}

func TestEngine_StartStop(t *testing.T) {
	e := newTestEngine(Callbacks{})

	e.Start()
	time.Sleep(50 * time.Millisecond)
	e.Stop()

	// Stop is idempotent and safe on a never-started engine.
	e.Stop()
	New(NopSink{}, Callbacks{}).Stop()
}
