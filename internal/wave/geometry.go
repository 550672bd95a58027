// ABOUTME: Pure waveform geometry computation
// ABOUTME: Turns amplitude and phase into a multi-harmonic polyline
package wave

import "math"

const (
	// maxSamples caps the polyline resolution regardless of surface width.
	maxSamples = 200

	// glowThreshold is the amplitude above which the glow pass is drawn.
	glowThreshold = 0.25

	// heightScale limits vertical excursion to a fraction of the surface.
	heightScale = 0.28
)

// Point is a position in pixel space.
type Point struct {
	X, Y float64
}

// Shape is one frame of waveform geometry, ready for a drawing adapter.
type Shape struct {
	Points      []Point
	StrokeWidth float64
	Glow        bool
}

// Polyline computes the waveform shape for one frame. It is deterministic:
// identical inputs produce identical point sequences. Valid for width >= 1.
func Polyline(amplitude, phase float64, width, height int) Shape {
	n := maxSamples
	if width < n {
		n = width
	}
	if n < 1 {
		n = 1
	}

	// Margin reserves space for the rounded end caps.
	margin := 6 + amplitude*6
	if margin < 12 {
		margin = 12
	}

	points := make([]Point, n)
	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}

		// Three incommensurate harmonics avoid visible periodicity.
		w := 0.35*math.Sin(phase+t*4*math.Pi) +
			0.22*math.Sin(1.7*phase+t*7*math.Pi) +
			0.5*math.Sin(0.8*phase+t*2*math.Pi)

		points[i] = Point{
			X: margin + t*(float64(width)-2*margin),
			Y: float64(height)/2 + w*amplitude*float64(height)*heightScale,
		}
	}

	return Shape{
		Points:      points,
		StrokeWidth: 6 + amplitude*6,
		Glow:        amplitude > glowThreshold,
	}
}
