package telemetry

import (
	"math"
	"time"

	"github.com/pthm-cable/versefx/config"
	"gonum.org/v1/gonum/stat"
)

// nominalFPS is reported for the first frame and for an empty window.
const nominalFPS = 60.0

// PerformanceMonitor turns frame timestamps into a sliding FPS average
// and recommends particle budget adjustments.
// It is owned by a single frame loop and is not safe for concurrent use.
type PerformanceMonitor struct {
	caps     DeviceCapabilities
	adaptive AdaptiveConfig
	th       config.MonitorConfig

	// Ring buffer of FPS samples with a parallel drop flag per sample
	samples    []float64
	drops      []bool
	writeIndex int
	count      int
	windowDrop int

	lastFrame    time.Time
	hasLast      bool
	lastFPS      float64
	totalFrames  int
	totalDropped int
}

// NewPerformanceMonitor creates a monitor for the given device and tier.
func NewPerformanceMonitor(caps DeviceCapabilities, adaptive AdaptiveConfig, th config.MonitorConfig) *PerformanceMonitor {
	size := th.WindowSize
	if size < 1 {
		size = 120
	}
	if th.MinParticles < 1 {
		th.MinParticles = 10
	}
	if adaptive.TargetFPS <= 0 {
		adaptive.TargetFPS = int(nominalFPS)
	}
	return &PerformanceMonitor{
		caps:     caps,
		adaptive: adaptive,
		th:       th,
		samples:  make([]float64, size),
		drops:    make([]bool, size),
		lastFPS:  nominalFPS,
	}
}

// Capabilities returns the device classification the monitor was built with.
func (m *PerformanceMonitor) Capabilities() DeviceCapabilities { return m.caps }

// Adaptive returns the tier configuration.
func (m *PerformanceMonitor) Adaptive() AdaptiveConfig { return m.adaptive }

// RecordFrame records a frame timestamp and returns the instantaneous FPS.
// The first call returns the nominal 60 and records no sample.
func (m *PerformanceMonitor) RecordFrame(now time.Time) float64 {
	if !m.hasLast {
		m.hasLast = true
		m.lastFrame = now
		m.lastFPS = nominalFPS
		return nominalFPS
	}

	delta := now.Sub(m.lastFrame)
	m.lastFrame = now
	if delta <= 0 {
		return m.lastFPS
	}

	fps := float64(time.Second) / float64(delta)
	dropped := fps < float64(m.adaptive.TargetFPS)*m.th.DropThreshold

	// Evict the oldest sample's drop flag once the window is full
	if m.count == len(m.samples) && m.drops[m.writeIndex] {
		m.windowDrop--
	}
	m.samples[m.writeIndex] = fps
	m.drops[m.writeIndex] = dropped
	m.writeIndex = (m.writeIndex + 1) % len(m.samples)
	if m.count < len(m.samples) {
		m.count++
	}
	if dropped {
		m.windowDrop++
		m.totalDropped++
	}

	m.totalFrames++
	m.lastFPS = fps
	return fps
}

// FPS returns the most recent instantaneous FPS.
func (m *PerformanceMonitor) FPS() float64 { return m.lastFPS }

// AverageFPS returns the mean of the sliding window, or 60 when empty.
func (m *PerformanceMonitor) AverageFPS() float64 {
	if m.count == 0 {
		return nominalFPS
	}
	return stat.Mean(m.samples[:m.count], nil)
}

// SampleCount returns the number of samples in the window.
func (m *PerformanceMonitor) SampleCount() int { return m.count }

// DropRatio returns the fraction of dropped frames in the current window.
func (m *PerformanceMonitor) DropRatio() float64 {
	if m.count == 0 {
		return 0
	}
	return float64(m.windowDrop) / float64(m.count)
}

// DroppedFrames returns the cumulative number of dropped frames.
func (m *PerformanceMonitor) DroppedFrames() int { return m.totalDropped }

// Frames returns the cumulative number of recorded frame intervals.
func (m *PerformanceMonitor) Frames() int { return m.totalFrames }

// ShouldReduceQuality reports a sustained frame rate problem.
func (m *PerformanceMonitor) ShouldReduceQuality() bool {
	target := float64(m.adaptive.TargetFPS)
	return m.AverageFPS() < target*m.th.ReduceBelow || m.DropRatio() > m.th.ReduceDropRatio
}

// ShouldIncreaseQuality reports sustained headroom.
// The minimum sample count keeps the controller still right after start-up.
func (m *PerformanceMonitor) ShouldIncreaseQuality() bool {
	target := float64(m.adaptive.TargetFPS)
	return m.count >= m.th.IncreaseMinSamples &&
		m.AverageFPS() > target*m.th.IncreaseAbove &&
		m.DropRatio() < m.th.IncreaseDropRatio
}

// AdaptiveParticleCount returns the recommended particle count.
func (m *PerformanceMonitor) AdaptiveParticleCount(current int) int {
	next := current
	switch {
	case m.ShouldReduceQuality():
		next = int(math.Round(float64(current) * m.th.ReduceFactor))
	case m.ShouldIncreaseQuality():
		next = int(math.Round(float64(current) * m.th.IncreaseFactor))
		if next > m.adaptive.MaxParticles {
			next = m.adaptive.MaxParticles
		}
	}
	if next < m.th.MinParticles {
		next = m.th.MinParticles
	}
	return next
}

// Resume restarts the frame clock after a pause. The next RecordFrame is
// treated as a first call; the sample window is kept.
func (m *PerformanceMonitor) Resume() {
	m.hasLast = false
}

// Reset clears the sliding window and frame clock.
func (m *PerformanceMonitor) Reset() {
	for i := range m.samples {
		m.samples[i] = 0
		m.drops[i] = false
	}
	m.writeIndex = 0
	m.count = 0
	m.windowDrop = 0
	m.hasLast = false
	m.lastFPS = nominalFPS
}
