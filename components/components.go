// Package components defines the value types shared by the animation engine and its strategies.
package components

import (
	"math"
	"math/rand"
)

// Vector2D is a 2D vector in canvas pixel space.
type Vector2D struct {
	X, Y float64
}

// Add returns v + o.
func (v Vector2D) Add(o Vector2D) Vector2D { return Vector2D{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vector2D) Sub(o Vector2D) Vector2D { return Vector2D{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vector2D) Scale(s float64) Vector2D { return Vector2D{v.X * s, v.Y * s} }

// Len returns the euclidean length of v.
func (v Vector2D) Len() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns v scaled to unit length, or the zero vector.
func (v Vector2D) Normalize() Vector2D {
	l := v.Len()
	if l == 0 {
		return Vector2D{}
	}
	return Vector2D{v.X / l, v.Y / l}
}

// Particle is the unit of simulation.
// Strategy-specific state lives outside the particle, keyed by ID.
type Particle struct {
	ID       uint64
	Position Vector2D
	Velocity Vector2D

	Size    float64
	Opacity float64 // 0..1
	Color   string  // #rrggbb

	Life    float64 // remaining ms
	MaxLife float64 // initial ms

	Rotation      float64 // radians
	RotationSpeed float64 // radians per ms
}

// LifeRatio returns remaining life as a fraction of MaxLife.
func (p *Particle) LifeRatio() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return p.Life / p.MaxLife
}

// Alive reports whether the particle still has life left.
func (p *Particle) Alive() bool {
	return p.Life > 0
}

// Clamp restores 0 <= Life <= MaxLife and 0 <= Opacity <= 1.
func (p *Particle) Clamp() {
	if p.MaxLife < 0 {
		p.MaxLife = 0
	}
	if p.Life > p.MaxLife {
		p.Life = p.MaxLife
	}
	if p.Life < 0 || math.IsNaN(p.Life) {
		p.Life = 0
	}
	if p.Opacity > 1 {
		p.Opacity = 1
	}
	if p.Opacity < 0 || math.IsNaN(p.Opacity) {
		p.Opacity = 0
	}
}

// Ripple is transient pointer feedback owned by the engine.
type Ripple struct {
	X, Y      float64
	Radius    float64
	MaxRadius float64
	Opacity   float64
}

// Advance grows the radius and decays the opacity linearly with elapsed time.
func (r *Ripple) Advance(dtMs, growthPerMs, decayPerMs float64) {
	r.Radius += growthPerMs * dtMs
	r.Opacity -= decayPerMs * dtMs
	if r.Opacity < 0 {
		r.Opacity = 0
	}
}

// Expired reports whether the ripple should be removed.
func (r *Ripple) Expired() bool {
	return r.Opacity <= 0 || r.Radius >= r.MaxRadius
}

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Sample returns a uniform value in the range. Inverted ranges are swapped.
func (r Range) Sample(rng *rand.Rand) float64 {
	lo, hi := r.Min, r.Max
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi == lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// Clamp limits v to the range.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}
