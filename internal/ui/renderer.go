package ui

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/okutan/tiltmaze/internal/game"
)

// Rows reserved above and below the play field.
const (
	topBarRows    = 1
	bottomBarRows = 1
	ChromeRows    = topBarRows + bottomBarRows

	// Where surface coordinate (0,0) lands on the terminal. One cell of
	// margin on every side leaves room for the field border.
	fieldOriginX = 1
	fieldOriginY = topBarRows + 1
)

// SurfaceSize converts a terminal size to the surface size handed to
// the engine, subtracting the bars and the border margin.
func SurfaceSize(w, h int) (int, int) {
	return w - 2*fieldOriginX, h - ChromeRows - 2
}

// Vibration pulses are stretched on screen so the shortest ones remain
// visible at 60 fps.
const flashStretch = 3

// Renderer draws engine snapshots onto the terminal. The engine knows
// nothing about cells or styles; it hands over surface-space geometry
// and the renderer does the rest.
type Renderer struct {
	screen *Screen
	bg     backgroundCache

	// Written from the engine loop via Flash, read by the render path.
	flashDeadline  atomic.Int64
	flashAmplitude atomic.Uint64
}

func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Flash schedules the visual stand-in for a vibration pulse: the field
// border lights up for the (stretched) pulse duration. Safe to call
// from any goroutine.
func (r *Renderer) Flash(d time.Duration, amplitude float64) {
	r.flashDeadline.Store(time.Now().Add(d * flashStretch).UnixNano())
	r.flashAmplitude.Store(math.Float64bits(amplitude))
}

// RenderGame draws one frame from the snapshot.
func (r *Renderer) RenderGame(snap game.Snapshot, best time.Duration, hasBest bool) {
	r.screen.Clear()
	screenW, screenH := r.screen.Size()

	if !snap.Valid {
		r.screen.DrawTextCentered(screenH/2, "Loading level...",
			tcell.StyleDefault.Foreground(tcell.ColorGray))
		r.screen.Show()
		return
	}

	r.renderTopBar(snap, best, hasBest, screenW)

	fieldX := int(snap.Field.Left)
	fieldY := int(snap.Field.Top)
	fieldW := int(snap.Field.Width())
	fieldH := int(snap.Field.Height())

	// Backdrop for the playable area; skipped while being prepared.
	if cells := r.bg.get(snap.Background, fieldW, fieldH); cells != nil {
		for y := 0; y < fieldH && y < len(cells); y++ {
			for x := 0; x < fieldW && x < len(cells[y]); x++ {
				c := cells[y][x]
				r.screen.SetCell(fieldOriginX+fieldX+x, fieldOriginY+fieldY+y, c.style, c.r)
			}
		}
	}

	r.renderBorder(snap, fieldX, fieldY, fieldW, fieldH)

	wallStyle := tcell.StyleDefault.Background(tcell.ColorSaddleBrown).Foreground(tcell.ColorRosyBrown)
	for _, w := range snap.Walls {
		r.screen.FillRect(fieldOriginX+int(w.Left), fieldOriginY+int(w.Top),
			int(w.Width())+1, int(w.Height())+1, wallStyle, '▒')
	}

	if snap.HolesVisible {
		holeStyle := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorDarkGray)
		for _, h := range snap.Holes {
			r.fillCircle(h.X, h.Y, snap.HoleRadius, holeStyle, '●')
		}

		goalStyle := tcell.StyleDefault.Background(tcell.ColorDarkGreen).Foreground(tcell.ColorGreen)
		r.fillCircle(snap.Goal.X, snap.Goal.Y, snap.GoalRadius, goalStyle, '◎')
	}

	// The ball shrinks as it falls into a hole.
	ballRadius := snap.BallRadius
	if snap.Anim == game.AnimFall {
		ballRadius *= 1 - snap.AnimProgress
	}
	ballStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	r.fillCircle(snap.Ball.X, snap.Ball.Y, ballRadius, ballStyle, '⬤')

	r.renderOverlays(snap, screenW, screenH)
	r.renderBottomBar(screenH, screenW)

	r.screen.Show()
}

// RenderError shows a message and waits for acknowledgement elsewhere.
func (r *Renderer) RenderError(msg string) {
	r.screen.Clear()
	_, h := r.screen.Size()
	r.screen.DrawTextCentered(h/2, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
	r.screen.DrawTextCentered(h/2+2, "Press any key to exit",
		tcell.StyleDefault.Foreground(tcell.ColorGray))
	r.screen.Show()
}

func (r *Renderer) renderTopBar(snap game.Snapshot, best time.Duration, hasBest bool, screenW int) {
	barStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	r.screen.DrawText(1, 0, snap.LevelName, barStyle)

	timeText := fmt.Sprintf("time %s", formatDuration(snap.Elapsed))
	if hasBest {
		timeText += fmt.Sprintf("  best %s", formatDuration(best))
	}
	r.screen.DrawText(screenW-len(timeText)-1, 0,
		timeText, tcell.StyleDefault.Foreground(tcell.ColorTeal))
}

func (r *Renderer) renderBorder(snap game.Snapshot, fieldX, fieldY, fieldW, fieldH int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)

	// An active vibration pulse lights the border up, brighter for
	// stronger pulses.
	if time.Now().UnixNano() < r.flashDeadline.Load() {
		amp := math.Float64frombits(r.flashAmplitude.Load())
		if amp > 0.6 {
			borderStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
		} else {
			borderStyle = tcell.StyleDefault.Foreground(tcell.ColorOlive)
		}
	}

	r.screen.DrawBox(fieldOriginX+fieldX-1, fieldOriginY+fieldY-1, fieldW+2, fieldH+2, borderStyle)
}

func (r *Renderer) renderOverlays(snap game.Snapshot, screenW, screenH int) {
	mid := screenH / 2
	switch {
	case snap.Paused:
		r.screen.DrawTextCentered(mid, " PAUSED ",
			tcell.StyleDefault.Background(tcell.ColorDarkBlue).Foreground(tcell.ColorWhite).Bold(true))
	case snap.Completed:
		r.screen.DrawTextCentered(mid, " LEVEL COMPLETE! ",
			tcell.StyleDefault.Background(tcell.ColorDarkGreen).Foreground(tcell.ColorWhite).Bold(true))
	case snap.Anim == game.AnimSuccess:
		r.screen.DrawTextCentered(mid, " GOAL! ",
			tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true))
	}
}

func (r *Renderer) renderBottomBar(screenH, screenW int) {
	hint := "arrows/wasd tilt · space center · p pause · r reset · h holes · q quit"
	if len(hint) > screenW-2 {
		hint = "arrows tilt · p pause · q quit"
	}
	r.screen.DrawText(1, screenH-1, hint, tcell.StyleDefault.Foreground(tcell.ColorGray))
}

// fillCircle draws every cell whose center lies within the circle, in
// surface coordinates. Tiny radii still draw the center cell so the
// ball never disappears on small terminals.
func (r *Renderer) fillCircle(cx, cy, radius float64, style tcell.Style, ch rune) {
	drawn := false
	minX, maxX := int(cx-radius), int(cx+radius)
	minY, maxY := int(cy-radius), int(cy+radius)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= radius*radius {
				r.screen.SetCell(fieldOriginX+x, fieldOriginY+y, style, ch)
				drawn = true
			}
		}
	}
	if !drawn && radius > 0 {
		r.screen.SetCell(fieldOriginX+int(cx), fieldOriginY+int(cy), style, ch)
	}
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	tenths := d.Milliseconds() / 100
	return fmt.Sprintf("%d:%02d.%d", tenths/600, (tenths/10)%60, tenths%10)
}
