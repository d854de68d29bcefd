package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p95", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.95, 10},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeFrameStats(t *testing.T) {
	values := []float64{20, 16, 17, 16, 18, 16, 17, 16, 19, 16}
	mean, std, p50, p95, maxVal := ComputeFrameStats(values)

	if math.Abs(mean-17.1) > 0.001 {
		t.Errorf("mean = %v, want 17.1", mean)
	}
	if std <= 0 {
		t.Errorf("expected positive std, got %v", std)
	}
	if p50 != 16 {
		t.Errorf("p50 = %v, want 16", p50)
	}
	if p95 != 20 || maxVal != 20 {
		t.Errorf("p95 = %v, max = %v, want 20", p95, maxVal)
	}

	// Input must not be reordered
	if values[0] != 20 {
		t.Error("expected input slice untouched")
	}
}

func TestComputeFrameStatsEmpty(t *testing.T) {
	mean, std, p50, p95, maxVal := ComputeFrameStats(nil)
	if mean != 0 || std != 0 || p50 != 0 || p95 != 0 || maxVal != 0 {
		t.Error("expected zeros for empty input")
	}
}

func TestComputeFrameStatsSingle(t *testing.T) {
	mean, std, _, _, _ := ComputeFrameStats([]float64{16.7})
	if mean != 16.7 || std != 0 {
		t.Errorf("expected mean 16.7 std 0, got %v %v", mean, std)
	}
}
