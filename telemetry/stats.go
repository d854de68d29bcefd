package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated frame statistics for a time window.
type WindowStats struct {
	WindowStart int     `csv:"-"`
	WindowEnd   int     `csv:"window_end"`
	ElapsedSec  float64 `csv:"elapsed_sec"`

	Theme   string `csv:"theme"`
	Quality string `csv:"quality"`

	// Pool state at window end
	Particles   int `csv:"particles"`
	TargetCount int `csv:"target_count"`
	Ripples     int `csv:"ripples"`

	// Events during window
	Spawned    int `csv:"spawned"`
	Removed    int `csv:"removed"`
	RipplesNew int `csv:"ripples_new"`
	Reductions int `csv:"reductions"`
	Increases  int `csv:"increases"`
	Failures   int `csv:"failures"`

	// Frame time distribution (ms)
	FrameMsMean float64 `csv:"frame_ms_mean"`
	FrameMsStd  float64 `csv:"frame_ms_std"`
	FrameMsP50  float64 `csv:"frame_ms_p50"`
	FrameMsP95  float64 `csv:"frame_ms_p95"`
	FrameMsMax  float64 `csv:"frame_ms_max"`

	FPSMean   float64 `csv:"fps_mean"`
	DropRatio float64 `csv:"drop_ratio"`
}

// Percentile returns the empirical p-quantile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeFrameStats calculates mean, std and percentiles of frame durations.
func ComputeFrameStats(values []float64) (mean, std, p50, p95, maxVal float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n > 1 {
		mean, std = stat.MeanStdDev(sorted, nil)
	} else {
		mean = sorted[0]
	}
	p50 = Percentile(sorted, 0.50)
	p95 = Percentile(sorted, 0.95)
	maxVal = sorted[n-1]
	return mean, std, p50, p95, maxVal
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStart),
		slog.Int("window_end", s.WindowEnd),
		slog.Float64("elapsed_sec", s.ElapsedSec),
		slog.String("theme", s.Theme),
		slog.String("quality", s.Quality),
		slog.Int("particles", s.Particles),
		slog.Int("target_count", s.TargetCount),
		slog.Int("ripples", s.Ripples),
		slog.Int("spawned", s.Spawned),
		slog.Int("removed", s.Removed),
		slog.Int("ripples_new", s.RipplesNew),
		slog.Int("reductions", s.Reductions),
		slog.Int("increases", s.Increases),
		slog.Int("failures", s.Failures),
		slog.Float64("frame_ms_mean", s.FrameMsMean),
		slog.Float64("frame_ms_p50", s.FrameMsP50),
		slog.Float64("frame_ms_p95", s.FrameMsP95),
		slog.Float64("frame_ms_max", s.FrameMsMax),
		slog.Float64("fps_mean", s.FPSMean),
		slog.Float64("drop_ratio", s.DropRatio),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
