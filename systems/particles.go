package systems

import (
	"math"

	"github.com/pthm-cable/versefx/components"
)

// NewParticle is the default particle factory: uniform position over the
// canvas, small random velocity, and size/opacity/life sampled from config.
func NewParticle(sc *Scene) components.Particle {
	cfg := sc.Config
	rng := sc.Rng
	speed := sc.Speed()

	life := cfg.Life.Sample(rng)
	if life <= 0 {
		life = 1
	}

	return components.Particle{
		ID: sc.NextID(),
		Position: components.Vector2D{
			X: rng.Float64() * sc.Width,
			Y: rng.Float64() * sc.Height,
		},
		Velocity: components.Vector2D{
			X: (rng.Float64() - 0.5) * speed * 2,
			Y: (rng.Float64() - 0.5) * speed * 2,
		},
		Size:          cfg.Size.Sample(rng),
		Opacity:       clamp01(cfg.Opacity.Sample(rng)),
		Color:         cfg.PickColor(rng),
		Life:          life,
		MaxLife:       life,
		Rotation:      rng.Float64() * 2 * math.Pi,
		RotationSpeed: (rng.Float64() - 0.5) * 0.006,
	}
}

// Populate builds n particles with spawn, falling back to NewParticle.
func Populate(sc *Scene, n int, spawn func(*Scene) components.Particle) []components.Particle {
	if spawn == nil {
		spawn = NewParticle
	}
	if n < 0 {
		n = 0
	}
	out := make([]components.Particle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, spawn(sc))
	}
	return out
}

// Compact removes dead particles in place, preserving order, and calls
// onRemove for each one removed. It returns the shortened slice.
func Compact(ps []components.Particle, onRemove func(id uint64)) []components.Particle {
	alive := 0
	for i := range ps {
		if !ps[i].Alive() {
			if onRemove != nil {
				onRemove(ps[i].ID)
			}
			continue
		}
		ps[alive] = ps[i]
		alive++
	}
	return ps[:alive]
}
