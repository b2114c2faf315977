package audio

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/okutan/tiltmaze/internal/game"
)

const sampleRate = beep.SampleRate(44100)

// Player turns the engine's sound requests into generated tones. It
// performs no mixing of its own; the speaker handles that.
type Player struct {
	initialized bool
	muted       bool

	// The success jingle spans over a second; re-requests while it is
	// still sounding are ignored.
	successPlaying atomic.Bool
}

// New initializes the speaker. A failed init returns an error but the
// returned Player is still usable as a silent no-op, so the game works
// without sound.
func New(muted bool) (*Player, error) {
	p := &Player{muted: muted}
	if muted {
		return p, nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/30)); err != nil {
		return p, err
	}
	p.initialized = true
	return p, nil
}

// Close shuts down the speaker.
func (p *Player) Close() {
	if p.initialized {
		speaker.Close()
		p.initialized = false
	}
}

// PlaySound plays the one-shot effect for the given kind.
func (p *Player) PlaySound(kind game.SoundKind) {
	if !p.initialized || p.muted {
		return
	}

	switch kind {
	case game.SoundWallHit:
		speaker.Play(squareWave(880, 40*time.Millisecond))
	case game.SoundBoundaryHit:
		speaker.Play(squareWave(440, 40*time.Millisecond))
	case game.SoundFall:
		p.playFall()
	case game.SoundSuccess:
		p.playSuccess()
	}
}

// playFall plays a short descending slide as the ball drops.
func (p *Player) playFall() {
	go func() {
		for _, freq := range []float64{520, 390, 260, 180} {
			speaker.Play(squareWave(freq, 90*time.Millisecond))
			time.Sleep(90 * time.Millisecond)
		}
	}()
}

// playSuccess plays the level-complete jingle, at most one at a time.
func (p *Player) playSuccess() {
	if !p.successPlaying.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer p.successPlaying.Store(false)
		for _, freq := range []float64{523, 659, 784, 1047} {
			speaker.Play(tone(freq, 180*time.Millisecond))
			time.Sleep(150 * time.Millisecond)
		}
		time.Sleep(200 * time.Millisecond)
	}()
}

// tone generates a sine wave at the given frequency and duration.
func tone(freq float64, duration time.Duration) beep.Streamer {
	numSamples := sampleRate.N(duration)
	phase := 0.0
	phaseStep := 2 * math.Pi * freq / float64(sampleRate)

	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			if numSamples <= 0 {
				return i, false
			}
			val := math.Sin(phase) * 0.3
			samples[i][0] = val
			samples[i][1] = val
			phase += phaseStep
			numSamples--
		}
		return len(samples), true
	})
}

// squareWave generates a square wave tone (more retro feel).
func squareWave(freq float64, duration time.Duration) beep.Streamer {
	numSamples := sampleRate.N(duration)
	phase := 0.0
	phaseStep := freq / float64(sampleRate)

	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			if numSamples <= 0 {
				return i, false
			}
			val := 0.2
			if math.Mod(phase, 1.0) > 0.5 {
				val = -val
			}
			samples[i][0] = val
			samples[i][1] = val
			phase += phaseStep
			numSamples--
		}
		return len(samples), true
	})
}
