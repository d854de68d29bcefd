package telemetry

// FrameSample is what the engine reports for one frame.
type FrameSample struct {
	FrameMs     float64
	Particles   int
	TargetCount int
	Ripples     int
}

// Collector accumulates frame events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStart   int
	windowElapsed float64
	totalElapsed  float64
	frame         int
	frameMs       []float64
	last          FrameSample

	// Event counters for current window
	spawned    int
	removed    int
	ripplesNew int
	reductions int
	increases  int
	failures   int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in wall-clock seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 5
	}
	return &Collector{
		windowDurationSec: windowDurationSec,
		frameMs:           make([]float64, 0, int(windowDurationSec*60)+1),
	}
}

// RecordFrame records one completed frame.
func (c *Collector) RecordFrame(s FrameSample) {
	c.frame++
	c.frameMs = append(c.frameMs, s.FrameMs)
	c.windowElapsed += s.FrameMs / 1000
	c.totalElapsed += s.FrameMs / 1000
	c.last = s
}

// RecordSpawn records n particles added to the pool.
func (c *Collector) RecordSpawn(n int) { c.spawned += n }

// RecordRemoval records n particles removed from the pool.
func (c *Collector) RecordRemoval(n int) { c.removed += n }

// RecordRipple records a spawned ripple.
func (c *Collector) RecordRipple() { c.ripplesNew++ }

// RecordQualityChange records a particle budget change in either direction.
func (c *Collector) RecordQualityChange(before, after int) {
	switch {
	case after < before:
		c.reductions++
	case after > before:
		c.increases++
	}
}

// RecordFailure records a frame that failed and was skipped.
func (c *Collector) RecordFailure() { c.failures++ }

// ShouldFlush returns true once the window duration has elapsed.
func (c *Collector) ShouldFlush() bool {
	return c.windowElapsed >= c.windowDurationSec
}

// Frame returns the number of frames recorded so far.
func (c *Collector) Frame() int { return c.frame }

// Flush produces a WindowStats and resets counters for the next window.
// theme and quality label the window; targetFPS defines a dropped frame.
func (c *Collector) Flush(theme, quality string, targetFPS int, dropThreshold float64) WindowStats {
	mean, std, p50, p95, maxVal := ComputeFrameStats(c.frameMs)

	var fpsMean, dropRatio float64
	if mean > 0 {
		fpsMean = 1000 / mean
	}
	if len(c.frameMs) > 0 && targetFPS > 0 {
		// A frame is dropped when its instantaneous fps is below target * threshold
		limitMs := 1000 / (float64(targetFPS) * dropThreshold)
		drops := 0
		for _, ms := range c.frameMs {
			if ms > limitMs {
				drops++
			}
		}
		dropRatio = float64(drops) / float64(len(c.frameMs))
	}

	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   c.frame,
		ElapsedSec:  c.totalElapsed,

		Theme:   theme,
		Quality: quality,

		Particles:   c.last.Particles,
		TargetCount: c.last.TargetCount,
		Ripples:     c.last.Ripples,

		Spawned:    c.spawned,
		Removed:    c.removed,
		RipplesNew: c.ripplesNew,
		Reductions: c.reductions,
		Increases:  c.increases,
		Failures:   c.failures,

		FrameMsMean: mean,
		FrameMsStd:  std,
		FrameMsP50:  p50,
		FrameMsP95:  p95,
		FrameMsMax:  maxVal,

		FPSMean:   fpsMean,
		DropRatio: dropRatio,
	}

	// Reset for next window
	c.windowStart = c.frame
	c.windowElapsed = 0
	c.frameMs = c.frameMs[:0]
	c.spawned = 0
	c.removed = 0
	c.ripplesNew = 0
	c.reductions = 0
	c.increases = 0
	c.failures = 0

	return stats
}
