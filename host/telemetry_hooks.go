package host

import (
	"time"

	"github.com/pthm-cable/versefx/telemetry"
)

// onWindow handles a flushed stats window: logs it when enabled and writes
// it with the current phase timings to CSV.
func (h *Host) onWindow(stats telemetry.WindowStats) {
	perfStats := h.perf.Stats()

	if h.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if h.output != nil {
		if err := h.output.WriteWindow(stats); err != nil {
			h.logger.Error("failed to write window stats", "error", err)
		}
		if err := h.output.WritePerf(perfStats, stats.WindowEnd); err != nil {
			h.logger.Error("failed to write perf", "error", err)
		}
	}
}

// maybeLogPerf logs phase timings every LogInterval seconds of wall time.
func (h *Host) maybeLogPerf(now time.Time) {
	interval := h.cfg.Telemetry.LogInterval
	if !h.opts.LogStats || interval <= 0 {
		return
	}
	if now.Sub(h.lastPerfLog) < time.Duration(interval*float64(time.Second)) {
		return
	}
	h.lastPerfLog = now
	if m, ok := h.manager.PerformanceMetrics(); ok {
		h.logger.Info("animation", "metrics", m, "perf", h.perf.Stats())
	}
}
