// ABOUTME: Tests for the amplitude smoother
// ABOUTME: Covers contraction bounds, idle fallback, and phase advance
package wave

import (
	"testing"
	"time"
)

func TestContractionNeverOvershoots(t *testing.T) {
	s := NewSmoother(0.06, 0.35)
	now := time.Now()

	samples := []float64{0.2, 0.9, 0.5, 0.7, 1.0, 0.3}
	maxSample := 0.0
	for _, amp := range samples {
		if amp > maxSample {
			maxSample = amp
		}
		s.Ingest(amp, now)
		// Several frames between samples, all within the idle threshold.
		for i := 0; i < 5; i++ {
			now = now.Add(16 * time.Millisecond)
			s.Step(now)
		}
	}

	// current converges toward the last target from below its maximum;
	// it can never exceed the largest sample by more than one step.
	bound := maxSample + smoothingFactor
	if s.Current() > bound {
		t.Errorf("current %v exceeds bound %v", s.Current(), bound)
	}
}

func TestConvergesMonotonically(t *testing.T) {
	s := NewSmoother(0.06, 0.35)
	now := time.Now()

	prev := s.Current()
	for i := 0; i < 50; i++ {
		// Samples keep arriving, as they do while the backend is speaking.
		s.Ingest(0.8, now)
		now = now.Add(16 * time.Millisecond)
		s.Step(now)
		if s.Current() < prev {
			t.Fatalf("current decreased from %v to %v while converging up", prev, s.Current())
		}
		prev = s.Current()
	}

	if diff := 0.8 - s.Current(); diff > 0.001 {
		t.Errorf("expected convergence near 0.8, still %v away", diff)
	}
}

func TestClampsIngestToUnitRange(t *testing.T) {
	s := NewSmoother(0.06, 0.35)
	s.Ingest(3.5, time.Now())
	if s.Target() != 1.0 {
		t.Errorf("expected target clamped to 1.0, got %v", s.Target())
	}
	s.Ingest(-0.2, time.Now())
	if s.Target() != 0.0 {
		t.Errorf("expected target clamped to 0.0, got %v", s.Target())
	}
}

func TestIdleFallbackBounded(t *testing.T) {
	idleAmp := 0.06
	s := NewSmoother(idleAmp, 0.35)
	now := time.Now()

	// No samples at all: smoother should fall back to breathing.
	for i := 0; i < 200; i++ {
		now = now.Add(16 * time.Millisecond)
		eff := s.Step(now)
		if eff < 0 || eff > idleAmp {
			t.Fatalf("idle amplitude %v outside [0, %v] at frame %d", eff, idleAmp, i)
		}
	}
}

func TestIdleDecaysStaleTarget(t *testing.T) {
	s := NewSmoother(0.06, 0.35)
	start := time.Now()
	s.Ingest(0.9, start)

	// Step well past the idle threshold.
	now := start.Add(300 * time.Millisecond)
	before := s.Target()
	s.Step(now)
	if s.Target() >= before {
		t.Errorf("expected target to decay while idle, %v -> %v", before, s.Target())
	}
}

func TestTargetHeldWhileSamplesFresh(t *testing.T) {
	s := NewSmoother(0.06, 0.35)
	now := time.Now()
	s.Ingest(0.9, now)

	s.Step(now.Add(100 * time.Millisecond))
	if s.Target() != 0.9 {
		t.Errorf("target decayed within idle threshold: %v", s.Target())
	}
}

func TestPhaseAdvancesEveryFrame(t *testing.T) {
	speed := 0.35
	s := NewSmoother(0.06, speed)
	now := time.Now()

	for i := 1; i <= 10; i++ {
		now = now.Add(16 * time.Millisecond)
		s.Step(now)
		want := speed * float64(i)
		if diff := s.Phase() - want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("phase %v at frame %d, want %v", s.Phase(), i, want)
		}
	}
}
