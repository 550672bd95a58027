// ABOUTME: Tests for waveform polyline geometry
// ABOUTME: Covers determinism, sample count, margins, and glow threshold
package wave

import (
	"reflect"
	"testing"
)

func TestPolylineDeterministic(t *testing.T) {
	a := Polyline(0.6, 2.1, 480, 128)
	b := Polyline(0.6, 2.1, 480, 128)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different shapes")
	}
}

func TestSampleCount(t *testing.T) {
	cases := []struct {
		width int
		want  int
	}{
		{480, 200},
		{200, 200},
		{150, 150},
		{1, 1},
	}
	for _, c := range cases {
		shape := Polyline(0.5, 0, c.width, 100)
		if len(shape.Points) != c.want {
			t.Errorf("width %d: expected %d points, got %d", c.width, c.want, len(shape.Points))
		}
	}
}

func TestPointsRespectMargin(t *testing.T) {
	width := 480
	shape := Polyline(0.4, 1.0, width, 128)

	// amplitude 0.4 -> margin formula yields 8.4, floored at 12.
	margin := 12.0
	first := shape.Points[0]
	last := shape.Points[len(shape.Points)-1]
	if first.X != margin {
		t.Errorf("first point at x=%v, want %v", first.X, margin)
	}
	if last.X != float64(width)-margin {
		t.Errorf("last point at x=%v, want %v", last.X, float64(width)-margin)
	}
}

func TestStrokeWidthTracksAmplitude(t *testing.T) {
	thin := Polyline(0.0, 0, 480, 128)
	thick := Polyline(1.0, 0, 480, 128)
	if thin.StrokeWidth != 6 {
		t.Errorf("expected stroke width 6 at zero amplitude, got %v", thin.StrokeWidth)
	}
	if thick.StrokeWidth != 12 {
		t.Errorf("expected stroke width 12 at full amplitude, got %v", thick.StrokeWidth)
	}
}

func TestGlowThreshold(t *testing.T) {
	if Polyline(0.25, 0, 480, 128).Glow {
		t.Error("glow should be off at the threshold")
	}
	if !Polyline(0.26, 0, 480, 128).Glow {
		t.Error("glow should be on above the threshold")
	}
}

func TestVerticalExcursionBounded(t *testing.T) {
	height := 128
	shape := Polyline(1.0, 3.7, 480, height)

	// |w| <= 0.35+0.22+0.5 = 1.07, so excursion <= 1.07 * height * 0.28.
	mid := float64(height) / 2
	limit := 1.07 * float64(height) * 0.28
	for i, p := range shape.Points {
		if p.Y < mid-limit || p.Y > mid+limit {
			t.Fatalf("point %d at y=%v outside excursion bound %v", i, p.Y, limit)
		}
	}
}

func TestDegenerateWidth(t *testing.T) {
	shape := Polyline(0.5, 1.0, 1, 100)
	if len(shape.Points) != 1 {
		t.Fatalf("expected a single point for width 1, got %d", len(shape.Points))
	}
}
