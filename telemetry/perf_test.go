package telemetry

import (
	"testing"
	"time"
)

// steppedClock advances by the next duration on every call.
type steppedClock struct {
	now   time.Time
	steps []time.Duration
}

func (c *steppedClock) Now() time.Time {
	if len(c.steps) > 0 {
		c.now = c.now.Add(c.steps[0])
		c.steps = c.steps[1:]
	}
	return c.now
}

func TestPerfCollector_PhaseBreakdown(t *testing.T) {
	pc := NewPerfCollector(10)

	// Per frame: StartFrame, StartPhase(particles), StartPhase(overlay), EndFrame
	var steps []time.Duration
	for i := 0; i < 4; i++ {
		steps = append(steps, 0, 0, 3*time.Millisecond, time.Millisecond)
	}
	clock := &steppedClock{now: time.Unix(0, 0), steps: steps}
	pc.now = clock.Now

	for i := 0; i < 4; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseParticles)
		pc.StartPhase(PhaseOverlay)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.AvgFrameDuration != 4*time.Millisecond {
		t.Errorf("expected 4ms average frame, got %v", stats.AvgFrameDuration)
	}
	if stats.PhaseAvg[PhaseParticles] != 3*time.Millisecond {
		t.Errorf("expected 3ms particles phase, got %v", stats.PhaseAvg[PhaseParticles])
	}
	if pct := stats.PhasePct[PhaseParticles]; pct < 74.9 || pct > 75.1 {
		t.Errorf("expected particles at 75%%, got %v", pct)
	}
	if stats.Headroom < 249 || stats.Headroom > 251 {
		t.Errorf("expected ~250fps headroom, got %v", stats.Headroom)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseClear)
		time.Sleep(10 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration after window filled")
	}
	if stats.Headroom <= 0 {
		t.Error("expected positive headroom")
	}
}

func TestPerfCollector_Empty(t *testing.T) {
	pc := NewPerfCollector(0)
	stats := pc.Stats()

	if stats.AvgFrameDuration != 0 {
		t.Errorf("expected zero duration, got %v", stats.AvgFrameDuration)
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected initialized maps")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgFrameDuration: 2 * time.Millisecond,
		PhasePct:         map[string]float64{PhaseParticles: 60, PhaseRipples: 5},
	}

	row := s.ToCSV(300)
	if row.Frame != 300 {
		t.Errorf("expected frame 300, got %d", row.Frame)
	}
	if row.AvgFrameUS != 2000 {
		t.Errorf("expected 2000us, got %d", row.AvgFrameUS)
	}
	if row.ParticlesPct != 60 || row.RipplesPct != 5 {
		t.Errorf("unexpected phase percentages %+v", row)
	}
}
