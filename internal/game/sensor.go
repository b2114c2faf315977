package game

import (
	"math"
	"sync/atomic"
)

// Exponential smoothing coefficient: the filtered value keeps 80% of
// its previous state per sample.
const tiltSmoothing = 0.8

// tiltFilter low-pass filters raw accelerometer samples into a smoothed
// 2D tilt vector. Samples arrive from an arbitrary goroutine at the
// sensor's own rate while the game loop reads the latest value, so both
// halves of the pair are packed into one atomic word: the writer never
// blocks and the reader never sees a torn pair.
type tiltFilter struct {
	packed atomic.Uint64
}

// Submit folds one raw sample into the smoothed state. Single writer.
func (f *tiltFilter) Submit(rawX, rawY float64) {
	x, y := f.Value()
	x = tiltSmoothing*x + (1-tiltSmoothing)*rawX
	y = tiltSmoothing*y + (1-tiltSmoothing)*rawY
	f.packed.Store(pack(x, y))
}

// Value returns the current smoothed tilt pair.
func (f *tiltFilter) Value() (float64, float64) {
	return unpack(f.packed.Load())
}

// Reset clears the smoothed state, used on level changes so a stale
// tilt cannot launch the freshly placed ball.
func (f *tiltFilter) Reset() {
	f.packed.Store(0)
}

func pack(x, y float64) uint64 {
	return uint64(math.Float32bits(float32(x)))<<32 | uint64(math.Float32bits(float32(y)))
}

func unpack(v uint64) (float64, float64) {
	return float64(math.Float32frombits(uint32(v >> 32))), float64(math.Float32frombits(uint32(v)))
}
