package ui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

type bgCell struct {
	r     rune
	style tcell.Style
}

// Palettes for the level background variants.
var bgPalettes = []struct {
	base tcell.Color
	dot  tcell.Color
}{
	{tcell.ColorDarkSlateGray, tcell.ColorGray},
	{tcell.ColorDarkGreen, tcell.ColorDarkOliveGreen},
	{tcell.ColorDarkBlue, tcell.ColorSlateGray},
}

// backgroundCache prepares the field backdrop off the render path. The
// render loop asks for the current buffer every frame; a miss kicks off
// preparation in the background and the frame simply skips the layer.
// No frame ever waits for the buffer to exist.
type backgroundCache struct {
	mu        sync.Mutex
	variant   int
	w, h      int
	cells     [][]bgCell
	ready     bool
	preparing bool
}

// get returns the prepared buffer for the given variant and size, or
// nil while one is being (re)built.
func (c *backgroundCache) get(variant, w, h int) [][]bgCell {
	c.mu.Lock()
	defer c.mu.Unlock()

	match := c.variant == variant && c.w == w && c.h == h
	if c.ready && match {
		return c.cells
	}

	if !c.preparing || !match {
		c.variant, c.w, c.h = variant, w, h
		c.ready = false
		c.preparing = true
		go c.prepare(variant, w, h)
	}
	return nil
}

func (c *backgroundCache) prepare(variant, w, h int) {
	if w <= 0 || h <= 0 {
		c.mu.Lock()
		if c.variant == variant && c.w == w && c.h == h {
			c.preparing = false
		}
		c.mu.Unlock()
		return
	}

	p := bgPalettes[((variant%len(bgPalettes))+len(bgPalettes))%len(bgPalettes)]
	base := tcell.StyleDefault.Background(p.base)
	dot := tcell.StyleDefault.Background(p.base).Foreground(p.dot)

	cells := make([][]bgCell, h)
	for y := 0; y < h; y++ {
		row := make([]bgCell, w)
		for x := 0; x < w; x++ {
			// Sparse deterministic dot pattern.
			if (x*7+y*13+variant*5)%17 == 0 {
				row[x] = bgCell{r: '·', style: dot}
			} else {
				row[x] = bgCell{r: ' ', style: base}
			}
		}
		cells[y] = row
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A resize may have superseded this build while it ran.
	if c.variant == variant && c.w == w && c.h == h {
		c.cells = cells
		c.ready = true
		c.preparing = false
	}
}
