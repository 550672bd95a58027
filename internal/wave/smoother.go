// ABOUTME: Exponential amplitude smoothing with idle-breathing fallback
// ABOUTME: Owns the current/target amplitude state advanced once per frame
package wave

import (
	"math"
	"time"
)

const (
	// smoothingFactor is the per-frame contraction toward the target.
	smoothingFactor = 0.18

	// idleThreshold is the sample gap after which the idle animation kicks in.
	idleThreshold = 250 * time.Millisecond

	// idleDecay drains the stale target while no samples arrive.
	idleDecay = 0.96
)

// Smoother interpolates a noisy amplitude signal into a displayed value.
// State is owned by the render loop; Ingest and Step must be called from
// the same goroutine.
type Smoother struct {
	current    float64
	target     float64
	phase      float64
	speed      float64
	idleAmp    float64
	lastSample time.Time
}

// NewSmoother creates a smoother with the configured idle amplitude and
// per-frame phase speed.
func NewSmoother(idleAmplitude, animationSpeed float64) *Smoother {
	return &Smoother{
		idleAmp: idleAmplitude,
		speed:   animationSpeed,
	}
}

// Ingest records an inbound sample. Amplitude is clamped to [0,1] here;
// upstream does not guarantee the range.
func (s *Smoother) Ingest(amplitude float64, at time.Time) {
	if amplitude < 0 {
		amplitude = 0
	}
	if amplitude > 1 {
		amplitude = 1
	}
	s.target = amplitude
	s.lastSample = at
}

// Step advances one frame and returns the effective display amplitude.
// The phase always advances, so the wave keeps moving while disconnected.
func (s *Smoother) Step(now time.Time) float64 {
	s.current += (s.target - s.current) * smoothingFactor

	effective := s.current
	if s.lastSample.IsZero() || now.Sub(s.lastSample) > idleThreshold {
		idle := s.idleAmp * (0.6 + 0.4*math.Sin(s.phase*0.6))
		if idle > effective {
			effective = idle
		}
		s.target *= idleDecay
	}

	s.phase += s.speed
	return effective
}

// Current returns the smoothed amplitude without the idle floor applied.
func (s *Smoother) Current() float64 { return s.current }

// Target returns the amplitude the smoother is converging toward.
func (s *Smoother) Target() float64 { return s.target }

// Phase returns the continuously advancing oscillation angle.
func (s *Smoother) Phase() float64 { return s.phase }
