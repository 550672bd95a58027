// ABOUTME: Tests for the braille canvas adapter
// ABOUTME: Covers dot plotting, stroke rasterization, and layer priority
package render

import (
	"strings"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/mirrorwave/mirrorwave-go/internal/wave"
)

var noColor = colorful.Color{}

func TestPlotSetsDot(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Plot(0, 0, LayerMain)

	out := c.Render(noColor, noColor, false)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	// Dot (0,0) is braille bit 0 -> U+2801.
	if []rune(lines[0])[0] != '⠁' {
		t.Errorf("expected U+2801 in first cell, got %q", lines[0])
	}
}

func TestPlotIgnoresOutOfRange(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Plot(-1, 0, LayerMain)
	c.Plot(0, -1, LayerMain)
	c.Plot(100, 0, LayerMain)
	c.Plot(0, 100, LayerMain)

	out := c.Render(noColor, noColor, false)
	if strings.TrimSpace(out) != "" {
		t.Errorf("expected empty canvas, got %q", out)
	}
}

func TestStrokeConnectsPoints(t *testing.T) {
	c := NewCanvas(10, 2)
	points := []wave.Point{{X: 0, Y: 4}, {X: 19, Y: 4}}
	c.Stroke(points, 1, LayerMain)

	out := c.Render(noColor, noColor, false)
	lines := strings.Split(out, "\n")
	// A horizontal line at dot row 4 lives in cell row 1; every cell
	// along the way must hold at least one dot.
	for i, r := range []rune(lines[1]) {
		if r == ' ' {
			t.Fatalf("gap in stroke at cell %d: %q", i, lines[1])
		}
	}
}

func TestMainLayerWinsOverGlow(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Plot(0, 0, LayerGlow)
	c.Plot(0, 0, LayerMain)

	mainCol, _ := colorful.Hex("#ff0000")
	glowCol, _ := colorful.Hex("#0000ff")
	out := c.Render(mainCol, glowCol, true)
	if !strings.Contains(out, "38;2;255;0;0") {
		t.Errorf("expected main color escape in %q", out)
	}
	if strings.Contains(out, "38;2;0;0;255") {
		t.Errorf("glow color should not appear when main dots exist: %q", out)
	}
}

func TestStrokeShapeDrawsGlowPass(t *testing.T) {
	shape := wave.Polyline(0.8, 1.57, 40, 16)
	if !shape.Glow {
		t.Fatal("expected glow at amplitude 0.8")
	}

	c := NewCanvas(20, 4)
	c.StrokeShape(shape)

	glowDots := 0
	for _, p := range c.glow {
		if p != 0 {
			glowDots++
		}
	}
	if glowDots == 0 {
		t.Error("expected glow pass to set dots")
	}
}

func TestStrokeShapeNoGlowAtLowAmplitude(t *testing.T) {
	shape := wave.Polyline(0.1, 1.57, 40, 16)
	c := NewCanvas(20, 4)
	c.StrokeShape(shape)

	for i, p := range c.glow {
		if p != 0 {
			t.Fatalf("unexpected glow dot in cell %d at low amplitude", i)
		}
	}
}

func TestDegenerateCanvas(t *testing.T) {
	c := NewCanvas(1, 1)
	c.StrokeShape(wave.Polyline(0.5, 0, c.DotWidth(), c.DotHeight()))
	out := c.Render(noColor, noColor, false)
	if out == "" {
		t.Error("expected non-empty render for single-cell canvas")
	}
}
