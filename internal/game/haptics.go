package game

import (
	"time"

	"github.com/okutan/tiltmaze/internal/geom"
)

// SoundKind identifies a one-shot sound effect requested from the sink.
type SoundKind int

const (
	SoundWallHit SoundKind = iota
	SoundBoundaryHit
	SoundFall
	SoundSuccess
)

// Sink receives sound and vibration requests from the engine. The
// engine performs no device I/O itself; the host decides what a
// "vibration" means on its platform. Implementations must not block:
// the engine calls the sink from its loop goroutine between frames.
type Sink interface {
	PlaySound(kind SoundKind)
	Vibrate(duration time.Duration, amplitude float64)
}

// Haptic intensity mapping, in design units per step and output ranges.
const (
	hapticMinVelocity = 2.0
	hapticMaxVelocity = 20.0

	hapticMinDuration = 20 * time.Millisecond
	hapticMaxDuration = 80 * time.Millisecond

	hapticMinAmplitude = 0.2
	hapticMaxAmplitude = 1.0

	hapticCooldown = 150 * time.Millisecond
)

// hapticChannel maps an impact speed to a (duration, amplitude) pair
// with a wall-clock cooldown. Wall and boundary impacts each own a
// channel so one cannot starve the other. Requests inside the cooldown
// window are dropped, not queued.
type hapticChannel struct {
	lastTrigger time.Time
}

// trigger computes the scaled feedback for an impact measured in design
// units per step. Returns false when the impact is below the trigger
// floor or the channel is cooling down.
func (c *hapticChannel) trigger(impact float64, now time.Time) (time.Duration, float64, bool) {
	if impact < hapticMinVelocity {
		return 0, 0, false
	}
	if !c.lastTrigger.IsZero() && now.Sub(c.lastTrigger) < hapticCooldown {
		return 0, 0, false
	}
	c.lastTrigger = now

	n := geom.Clamp((impact-hapticMinVelocity)/(hapticMaxVelocity-hapticMinVelocity), 0, 1)
	duration := time.Duration(geom.Lerp(float64(hapticMinDuration), float64(hapticMaxDuration), n))
	amplitude := geom.Lerp(hapticMinAmplitude, hapticMaxAmplitude, n)
	return duration, amplitude, true
}

func (c *hapticChannel) reset() {
	c.lastTrigger = time.Time{}
}
