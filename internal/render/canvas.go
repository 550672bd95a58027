// ABOUTME: Braille-dot canvas adapter that strokes waveform geometry
// ABOUTME: Maps pixel-space polylines onto 2x4 dot terminal cells
package render

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/mirrorwave/mirrorwave-go/internal/wave"
)

// Layer selects which stroke pass a dot belongs to. Main dots win over
// glow dots when a cell holds both.
type Layer int

const (
	LayerGlow Layer = iota
	LayerMain
)

// Braille dot positions (col, row) -> bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// Canvas is a drawing surface backed by braille cells. Geometry coordinates
// are dot coordinates: width = cols*2, height = rows*4.
type Canvas struct {
	cols, rows int
	main       []uint8
	glow       []uint8
}

// NewCanvas creates a canvas of cols x rows terminal cells.
func NewCanvas(cols, rows int) *Canvas {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Canvas{
		cols: cols,
		rows: rows,
		main: make([]uint8, cols*rows),
		glow: make([]uint8, cols*rows),
	}
}

// DotWidth returns the horizontal dot resolution.
func (c *Canvas) DotWidth() int { return c.cols * 2 }

// DotHeight returns the vertical dot resolution.
func (c *Canvas) DotHeight() int { return c.rows * 4 }

// Plot sets a single dot. Out-of-range coordinates are ignored.
func (c *Canvas) Plot(x, y int, layer Layer) {
	if x < 0 || y < 0 || x >= c.DotWidth() || y >= c.DotHeight() {
		return
	}
	cell := (y/4)*c.cols + x/2
	bit := uint8(1) << brailleBits[x%2][y%4]
	if layer == LayerMain {
		c.main[cell] |= bit
	} else {
		c.glow[cell] |= bit
	}
}

// Disc stamps a filled circle of the given radius in dots.
func (c *Canvas) Disc(center wave.Point, radius float64, layer Layer) {
	cx := int(center.X + 0.5)
	cy := int(center.Y + 0.5)
	r := int(radius + 0.5)
	if r < 0 {
		r = 0
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Plot(cx+dx, cy+dy, layer)
			}
		}
	}
}

// Stroke draws a polyline with the given width by stamping discs along
// Bresenham segments between consecutive points.
func (c *Canvas) Stroke(points []wave.Point, width float64, layer Layer) {
	if len(points) == 0 {
		return
	}
	radius := width / 2
	if len(points) == 1 {
		c.Disc(points[0], radius, layer)
		return
	}
	for i := 1; i < len(points); i++ {
		c.segment(points[i-1], points[i], radius, layer)
	}
}

// StrokeShape renders a full waveform frame: optional glow pass, main
// stroke, and circular end caps.
func (c *Canvas) StrokeShape(s wave.Shape) {
	if len(s.Points) == 0 {
		return
	}
	if s.Glow {
		c.Stroke(s.Points, s.StrokeWidth*3, LayerGlow)
	}
	c.Stroke(s.Points, s.StrokeWidth, LayerMain)

	capRadius := s.StrokeWidth / 2
	c.Disc(s.Points[0], capRadius, LayerMain)
	c.Disc(s.Points[len(s.Points)-1], capRadius, LayerMain)
}

func (c *Canvas) segment(a, b wave.Point, radius float64, layer Layer) {
	x0, y0 := int(a.X+0.5), int(a.Y+0.5)
	x1, y1 := int(b.X+0.5), int(b.Y+0.5)

	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy

	for {
		c.Disc(wave.Point{X: float64(x0), Y: float64(y0)}, radius, layer)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Render emits the canvas as terminal lines. When colored is false the
// output is plain braille runes, which keeps tests deterministic.
func (c *Canvas) Render(mainColor, glowColor colorful.Color, colored bool) string {
	var out strings.Builder
	state := ansiState{}

	for row := 0; row < c.rows; row++ {
		if row > 0 {
			out.WriteByte('\n')
		}
		for col := 0; col < c.cols; col++ {
			cell := row*c.cols + col
			pattern := c.main[cell] | c.glow[cell]
			if pattern == 0 {
				out.WriteByte(' ')
				continue
			}
			if colored {
				if c.main[cell] != 0 {
					state.set(&out, mainColor)
				} else {
					state.set(&out, glowColor)
				}
			}
			out.WriteRune(rune(0x2800 + int(pattern)))
		}
		state.reset(&out)
	}

	return out.String()
}

// ansiState tracks the active foreground color to avoid redundant escapes.
type ansiState struct {
	active bool
	r      uint8
	g      uint8
	b      uint8
}

func (s *ansiState) set(out *strings.Builder, col colorful.Color) {
	r, g, b := col.Clamped().RGB255()
	if s.active && r == s.r && g == s.g && b == s.b {
		return
	}
	fmt.Fprintf(out, "\x1b[38;2;%d;%d;%dm", r, g, b)
	s.active = true
	s.r, s.g, s.b = r, g, b
}

func (s *ansiState) reset(out *strings.Builder) {
	if s.active {
		out.WriteString("\x1b[0m")
		s.active = false
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
