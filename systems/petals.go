package systems

import (
	"math"

	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/renderer"
)

const (
	petalPushRadius = 100.0
	petalOutline    = 10 // perimeter points per petal
)

type petal struct {
	SwayPhase float64
	SwaySpeed float64 // radians/ms
	Fall      float64
}

// Petals fall while swaying and spinning. The pointer pushes them aside.
type Petals struct {
	petals *Extras[petal]
	points []components.Vector2D // reused render scratch
}

// NewPetals creates a petals strategy.
func NewPetals() *Petals {
	return &Petals{
		petals: NewExtras[petal](),
		points: make([]components.Vector2D, 0, petalOutline+2),
	}
}

func (pe *Petals) Name() string { return "petals" }

func (pe *Petals) Init(sc *Scene) []components.Particle {
	return Populate(sc, sc.Config.ParticleCount, func(sc *Scene) components.Particle {
		p := pe.Spawn(sc)
		p.Position.Y = sc.Rng.Float64() * sc.Height
		return p
	})
}

// Spawn creates a petal just above the top edge.
func (pe *Petals) Spawn(sc *Scene) components.Particle {
	p := NewParticle(sc)
	pt := pe.petals.Set(p.ID, pe.newPetal(sc))
	pe.reset(&p, pt, sc)
	return p
}

func (pe *Petals) newPetal(sc *Scene) petal {
	return petal{
		SwayPhase: sc.Rng.Float64() * 2 * math.Pi,
		SwaySpeed: 0.0015 + sc.Rng.Float64()*0.0015,
		Fall:      0.6 + sc.Rng.Float64()*0.8,
	}
}

func (pe *Petals) reset(p *components.Particle, pt *petal, sc *Scene) {
	p.Position = components.Vector2D{
		X: sc.Rng.Float64() * sc.Width,
		Y: -p.Size - sc.Rng.Float64()*40,
	}
	p.Velocity = components.Vector2D{Y: pt.Fall * sc.Speed()}
}

func (pe *Petals) Update(p *components.Particle, dtMs float64, sc *Scene) {
	f := frames(dtMs)
	speed := sc.Speed()
	pt := pe.petals.Ensure(p.ID, func() petal { return pe.newPetal(sc) })

	pt.SwayPhase += pt.SwaySpeed * dtMs
	sway := math.Sin(pt.SwayPhase) * 1.2 * speed
	p.Velocity.X += (sway - p.Velocity.X) * 0.08 * f
	p.Velocity.Y += (pt.Fall*speed - p.Velocity.Y) * 0.05 * f

	if sc.Interacting() {
		d, dist := offset(p.Position, sc.Pointer.Position)
		if dist > 0 && dist < petalPushRadius {
			push := (1 - dist/petalPushRadius) * 0.6
			p.Velocity = p.Velocity.Add(d.Scale(push * f / dist))
		}
	}

	p.Position = p.Position.Add(p.Velocity.Scale(f))
	// Spin follows the sway
	p.Rotation += p.RotationSpeed*dtMs + math.Cos(pt.SwayPhase)*0.01*f
	p.Life -= dtMs

	if p.Position.Y > sc.Height+p.Size {
		pe.reset(p, pt, sc)
	}
	p.Position.X = wrap(p.Position.X, p.Size, sc.Width)
}

// Render draws a tapered petal as a triangle fan around the particle.
// The outline runs with decreasing angle to match raylib's fan winding.
func (pe *Petals) Render(p *components.Particle, s renderer.Surface) {
	pts := pe.points[:0]
	pts = append(pts, p.Position)
	for k := 0; k <= petalOutline; k++ {
		t := (1 - float64(k)/petalOutline) * 2 * math.Pi
		sin, cos := math.Sincos(t)
		// Narrower toward the tip at t = π
		lx := cos * p.Size
		ly := sin * p.Size * 0.55 * (0.7 + 0.3*cos)
		rx, ry := rotate(lx, ly, p.Rotation)
		pts = append(pts, components.Vector2D{X: p.Position.X + rx, Y: p.Position.Y + ry})
	}
	pe.points = pts
	s.Fan(pts, renderer.WithAlpha(renderer.ParseColor(p.Color), p.Opacity))
}

func (pe *Petals) Release(id uint64) { pe.petals.Delete(id) }
