package game

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/okutan/tiltmaze/internal/geom"
	"github.com/okutan/tiltmaze/internal/level"
)

const (
	// Target loop rate. A slow frame advances physics by exactly one
	// nominal step; there is no substepping and no real-time scaling.
	TickRate  = 60
	frameTime = time.Second / TickRate

	// Tilt-to-velocity gain, per-step friction, and the velocity clamp
	// in design units per step.
	accelFactor       = 0.5
	friction          = 0.98
	maxVelocityDesign = 20.0

	// One-shot vibration issued when the ball starts falling into a hole.
	fallPulseDuration  = 120 * time.Millisecond
	fallPulseAmplitude = 0.8
)

// Callbacks are invoked by the engine loop after it releases its lock,
// so a callback may safely call back into the engine. Which goroutine
// ultimately handles the event is the host's concern.
type Callbacks struct {
	OnFallInHole    func()
	OnLevelComplete func()
}

// Engine runs the maze simulation: a fixed-rate loop integrating
// tilt-driven ball motion, resolving collisions, driving the fall and
// success animations, and emitting feedback through the Sink.
//
// Three execution contexts touch the engine: the loop goroutine, the
// sensor path (SubmitTilt, lock-free), and the controlling host thread
// issuing the public operations. One coarse mutex guards all mutable
// simulation state; exported methods take it, unexported helpers assume
// it is held. The loop never holds the lock across a sink call or a
// sleep.
type Engine struct {
	mu sync.Mutex

	sink Sink
	cb   Callbacks

	tilt   tiltFilter
	paused atomic.Bool

	// Guarded by mu.
	level    *level.Level
	layout   Layout
	walls    []geom.Rect // surface space, inflated by the wall margin
	holes    []geom.Vec2 // surface space
	goal     geom.Vec2
	startPos geom.Vec2

	ball          Ball // live state, surface space
	saved         Ball // snapshot at last pause/save, design space
	hasSaved      bool
	persistent    Ball // mirrored every step, design space
	hasPersistent bool

	tracker      rollingTracker
	wallChan     hapticChannel
	boundaryChan hapticChannel
	anim         animation
	completed    bool
	completedAt  time.Time
	holesVisible bool

	levelStart  time.Time
	pausedAt    time.Time
	totalPaused time.Duration

	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
	wg       sync.WaitGroup
}

// New creates an engine. The sink must be non-nil; use NopSink when the
// host has no audio or haptic output.
func New(sink Sink, cb Callbacks) *Engine {
	return &Engine{
		sink:         sink,
		cb:           cb,
		holesVisible: true,
		stopChan:     make(chan struct{}),
	}
}

// Start launches the loop goroutine. Safe to call once.
func (e *Engine) Start() {
	if e.running.CompareAndSwap(false, true) {
		e.wg.Add(1)
		go e.run()
	}
}

// Stop cooperatively halts the loop and waits for it to exit.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stopChan)
	})
	if e.running.CompareAndSwap(true, false) {
		e.wg.Wait()
	}
}

// run is the fixed-rate loop: step under the lock, dispatch feedback
// and callbacks outside it, then sleep whatever remains of the frame
// budget.
func (e *Engine) run() {
	defer e.wg.Done()

	timer := time.NewTimer(frameTime)
	defer timer.Stop()

	for {
		select {
		case <-e.stopChan:
			return
		default:
		}

		start := time.Now()

		e.mu.Lock()
		pending := e.step(start)
		e.mu.Unlock()

		for _, fn := range pending {
			fn()
		}

		if d := frameTime - time.Since(start); d > 0 {
			timer.Reset(d)
			select {
			case <-e.stopChan:
				return
			case <-timer.C:
			}
		}
	}
}

// step advances the simulation by one nominal tick. Returns side
// effects (sink calls, callbacks) to run after the lock is released.
// With no level or no surface geometry the step is a no-op, not a
// fault.
func (e *Engine) step(now time.Time) []func() {
	if e.level == nil || !e.layout.Valid() {
		return nil
	}
	if e.paused.Load() || e.completed {
		return nil
	}

	var pending []func()
	if e.anim.active() {
		pending = e.advanceAnimation(now)
	} else {
		pending = e.stepPhysics(now)
	}

	e.mirrorPersistent()
	return pending
}

// stepPhysics applies tilt acceleration, friction and the velocity
// clamp, integrates position, then resolves collisions in fixed order:
// walls, boundaries, holes, goal. A hole or goal hit hands the ball to
// the animation machine and skips the rest of the step.
func (e *Engine) stepPhysics(now time.Time) []func() {
	s := e.layout.Scale
	tx, ty := e.tilt.Value()

	e.ball.VX = (e.ball.VX + tx*accelFactor*s) * friction
	e.ball.VY = (e.ball.VY + ty*accelFactor*s) * friction

	maxV := maxVelocityDesign * s
	e.ball.VX = geom.Clamp(e.ball.VX, -maxV, maxV)
	e.ball.VY = geom.Clamp(e.ball.VY, -maxV, maxV)

	oldPos := geom.Vec2{X: e.ball.X, Y: e.ball.Y}
	e.ball.Move()

	var pending []func()

	if hit, ok := resolveWalls(&e.ball, e.walls, e.layout.BallRadius); ok {
		rolling := e.tracker.observe(hit, now, rollingDistanceDesign*s)
		if !rolling {
			if d, amp, ok := e.wallChan.trigger(hit.Impact/s, now); ok {
				pending = append(pending, func() {
					e.sink.Vibrate(d, amp)
					e.sink.PlaySound(SoundWallHit)
				})
			}
		}
	}

	if impact, ok := resolveBoundaries(&e.ball, e.layout.FieldBounds(), e.layout.BallRadius); ok {
		if d, amp, ok := e.boundaryChan.trigger(impact/s, now); ok {
			pending = append(pending, func() {
				e.sink.Vibrate(d, amp)
				e.sink.PlaySound(SoundBoundaryHit)
			})
		}
	}

	if !e.holesVisible {
		return pending
	}

	pos := geom.Vec2{X: e.ball.X, Y: e.ball.Y}

	if hole, ok := detectHole(oldPos, pos, e.holes, e.layout.holeCaptureRadius()); ok {
		e.ball.Stop()
		e.anim.begin(AnimFall, pos, hole, now)
		return append(pending, func() {
			e.sink.PlaySound(SoundFall)
			e.sink.Vibrate(fallPulseDuration, fallPulseAmplitude)
		})
	}

	if detectGoal(pos, e.goal, e.layout.goalCaptureRadius()) {
		e.ball.Stop()
		e.anim.begin(AnimSuccess, pos, e.goal, now)
		// Success plays a jingle but no vibration.
		return append(pending, func() {
			e.sink.PlaySound(SoundSuccess)
		})
	}

	return pending
}

// advanceAnimation moves the ball along the active sequence and
// resolves it when progress reaches 1.
func (e *Engine) advanceAnimation(now time.Time) []func() {
	p := e.anim.progress(now)
	pos := e.anim.position(p)
	e.ball.X, e.ball.Y = pos.X, pos.Y

	if p < 1 {
		return nil
	}

	switch e.anim.kind {
	case AnimFall:
		e.anim.kind = AnimNone
		e.resetBallLocked()
		if e.cb.OnFallInHole != nil {
			return []func(){e.cb.OnFallInHole}
		}
	case AnimSuccess:
		e.anim.kind = AnimNone
		e.completed = true
		e.completedAt = now
		if !e.anim.completionFired && e.cb.OnLevelComplete != nil {
			e.anim.completionFired = true
			return []func(){e.cb.OnLevelComplete}
		}
	}
	return nil
}

// SetLevel installs a level and resets all transient state. The ball is
// positioned only when surface geometry is already known; otherwise it
// falls into place on the next SurfaceChanged.
func (e *Engine) SetLevel(l *level.Level) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.level = l
	e.completed = false
	e.completedAt = time.Time{}
	e.anim = animation{}
	e.tracker.reset()
	e.wallChan.reset()
	e.boundaryChan.reset()
	e.holesVisible = true
	e.tilt.Reset()
	e.hasSaved = false
	e.hasPersistent = false
	e.levelStart = time.Now()
	e.totalPaused = 0
	if e.paused.Load() {
		e.pausedAt = e.levelStart
	}

	e.rebuildGeometryLocked()
	if e.layout.Valid() {
		e.resetBallLocked()
	}
}

// SurfaceChanged installs a new surface size, rescales all geometry and
// restores the ball from the persistent mirror. The mirror is what lets
// the simulation survive a surface teardown without an explicit level
// event from the host.
func (e *Engine) SurfaceChanged(w, h int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.layout = NewLayout(w, h)
	e.rebuildGeometryLocked()

	if e.level == nil || !e.layout.Valid() {
		return
	}

	if e.hasPersistent {
		pos := e.layout.ToSurface(level.Point{X: e.persistent.X, Y: e.persistent.Y})
		e.ball = Ball{
			X:  pos.X,
			Y:  pos.Y,
			VX: e.persistent.VX * e.layout.Scale,
			VY: e.persistent.VY * e.layout.Scale,
		}
	} else {
		e.resetBallLocked()
	}
}

// ForceResetBall returns the ball to the level start with zero velocity
// and clears any running animation and collision tracking.
func (e *Engine) ForceResetBall() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.level == nil || !e.layout.Valid() {
		return
	}
	e.anim.kind = AnimNone
	e.resetBallLocked()
}

// SaveBallState snapshots the current ball, in design coordinates so
// the snapshot stays meaningful across surface changes.
func (e *Engine) SaveBallState() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.layout.Valid() {
		return
	}
	e.saved = e.designBallLocked()
	e.hasSaved = true
}

// RestoreBallState reinstates the last saved snapshot, if any.
func (e *Engine) RestoreBallState() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasSaved || !e.layout.Valid() {
		return
	}
	pos := e.layout.ToSurface(level.Point{X: e.saved.X, Y: e.saved.Y})
	e.ball = Ball{
		X:  pos.X,
		Y:  pos.Y,
		VX: e.saved.VX * e.layout.Scale,
		VY: e.saved.VY * e.layout.Scale,
	}
	e.mirrorPersistent()
}

// Pause freezes the simulation and snapshots the ball. Sensor samples
// are discarded while paused.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused.CompareAndSwap(false, true) {
		e.pausedAt = time.Now()
		if e.layout.Valid() {
			e.saved = e.designBallLocked()
			e.hasSaved = true
		}
	}
}

// Resume unfreezes the simulation. With restoreVelocity the ball picks
// up the velocity saved at pause time; without it the velocity is
// forced to zero, which hosts use after resets or backgrounding so the
// ball does not launch by surprise.
func (e *Engine) Resume(restoreVelocity bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused.CompareAndSwap(true, false) {
		e.totalPaused += time.Since(e.pausedAt)
	}

	if restoreVelocity {
		if e.hasSaved && e.layout.Valid() {
			e.ball.VX = e.saved.VX * e.layout.Scale
			e.ball.VY = e.saved.VY * e.layout.Scale
		}
	} else {
		e.ball.Stop()
	}
}

// Paused reports whether the simulation is frozen.
func (e *Engine) Paused() bool {
	return e.paused.Load()
}

// SetHolesVisible toggles hole and goal detection (and rendering).
// Wall collisions are unaffected.
func (e *Engine) SetHolesVisible(visible bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.holesVisible = visible
}

// HolesVisible reports the current visibility toggle.
func (e *Engine) HolesVisible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.holesVisible
}

// SubmitTilt feeds one raw accelerometer sample into the filter. Safe
// to call from any goroutine; never blocks on the engine lock. Samples
// arriving while paused are dropped.
func (e *Engine) SubmitTilt(rawX, rawY float64) {
	if e.paused.Load() {
		return
	}
	e.tilt.Submit(rawX, rawY)
}

// Snapshot returns a copy of the drawable state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.level == nil || !e.layout.Valid() {
		return Snapshot{}
	}

	snap := Snapshot{
		Valid:        true,
		SurfaceW:     int(e.layout.SurfaceW),
		SurfaceH:     int(e.layout.SurfaceH),
		Field:        e.layout.FieldBounds(),
		Scale:        e.layout.Scale,
		LevelName:    e.level.Name,
		Background:   e.level.Background,
		Ball:         geom.Vec2{X: e.ball.X, Y: e.ball.Y},
		BallRadius:   e.layout.BallRadius,
		Walls:        make([]geom.Rect, len(e.walls)),
		Holes:        make([]geom.Vec2, len(e.holes)),
		HoleRadius:   e.layout.HoleRadius,
		Goal:         e.goal,
		GoalRadius:   e.layout.GoalRadius,
		HolesVisible: e.holesVisible,
		Paused:       e.paused.Load(),
		Completed:    e.completed,
		Anim:         e.anim.kind,
		Elapsed:      e.elapsedLocked(),
	}
	copy(snap.Walls, e.walls)
	copy(snap.Holes, e.holes)
	if e.anim.active() {
		snap.AnimProgress = e.anim.progress(time.Now())
	}
	return snap
}

// rebuildGeometryLocked recomputes all surface-space geometry from the
// current level and layout.
func (e *Engine) rebuildGeometryLocked() {
	e.walls = e.walls[:0]
	e.holes = e.holes[:0]
	if e.level == nil || !e.layout.Valid() {
		return
	}

	for _, w := range e.level.Walls {
		e.walls = append(e.walls, e.layout.WallRect(w).Inflate(e.layout.WallMargin))
	}
	for _, h := range e.level.Holes {
		e.holes = append(e.holes, e.layout.ToSurface(level.Point{X: h.X, Y: h.Y}))
	}
	e.goal = e.layout.ToSurface(e.level.Goal)
	e.startPos = e.layout.ToSurface(e.level.Start)
}

// resetBallLocked places the ball at the level start with zero velocity.
func (e *Engine) resetBallLocked() {
	e.ball = Ball{X: e.startPos.X, Y: e.startPos.Y}
	e.tracker.reset()
	e.mirrorPersistent()
}

// mirrorPersistent writes the design-space copy that survives surface
// teardown. Written every step and on every explicit state change.
func (e *Engine) mirrorPersistent() {
	if !e.layout.Valid() {
		return
	}
	e.persistent = e.designBallLocked()
	e.hasPersistent = true
}

// designBallLocked converts the live ball to design coordinates.
func (e *Engine) designBallLocked() Ball {
	p := e.layout.ToDesign(geom.Vec2{X: e.ball.X, Y: e.ball.Y})
	return Ball{
		X:  p.X,
		Y:  p.Y,
		VX: e.ball.VX / e.layout.Scale,
		VY: e.ball.VY / e.layout.Scale,
	}
}

// elapsedLocked is the time spent in the current level, excluding time
// under pause. Frozen once the level is completed.
func (e *Engine) elapsedLocked() time.Duration {
	if e.levelStart.IsZero() {
		return 0
	}
	if e.completed && !e.completedAt.IsZero() {
		return e.completedAt.Sub(e.levelStart) - e.totalPaused
	}
	if e.paused.Load() {
		return e.pausedAt.Sub(e.levelStart) - e.totalPaused
	}
	return time.Since(e.levelStart) - e.totalPaused
}

// NopSink discards all feedback requests.
type NopSink struct{}

func (NopSink) PlaySound(SoundKind)            {}
func (NopSink) Vibrate(time.Duration, float64) {}
