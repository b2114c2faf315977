package game

import (
	"time"

	"github.com/okutan/tiltmaze/internal/geom"
)

// Snapshot is the renderable state the engine publishes once per frame.
// All positions and sizes are in surface coordinates. The renderer owns
// nothing of the simulation; it draws whatever the last snapshot says.
type Snapshot struct {
	Valid bool // false until a level and surface size are both known

	SurfaceW, SurfaceH int
	Field              geom.Rect // letterboxed playable area
	Scale              float64

	LevelName  string
	Background int

	Ball       geom.Vec2
	BallRadius float64

	Walls      []geom.Rect
	Holes      []geom.Vec2
	HoleRadius float64

	Goal       geom.Vec2
	GoalRadius float64

	HolesVisible bool
	Paused       bool
	Completed    bool

	Anim         AnimKind
	AnimProgress float64

	// Time spent in the level, excluding paused time.
	Elapsed time.Duration
}
