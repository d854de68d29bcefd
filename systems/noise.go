package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseField generates coherent noise in [-1, 1].
type NoiseField struct {
	noise opensimplex.Noise
}

// NewNoiseField creates a noise field from a seed.
func NewNoiseField(seed int64) *NoiseField {
	return &NoiseField{noise: opensimplex.New(seed)}
}

// At samples the field at (x, y).
func (n *NoiseField) At(x, y float64) float64 {
	return clampFloat(n.noise.Eval2(x, y), -1, 1)
}

// At3 samples the field at (x, y, z).
func (n *NoiseField) At3(x, y, z float64) float64 {
	return clampFloat(n.noise.Eval3(x, y, z), -1, 1)
}
