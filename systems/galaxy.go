package systems

import (
	"math"

	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/renderer"
)

const (
	galaxyArms          = 3
	galaxyAttractRadius = 120.0
	galaxyHueInner      = 220.0 // blue
	galaxyHueOuter      = 280.0 // purple
)

// Galaxy seeds stars on a spiral disk around a slowly drifting center.
// Stars orbit the center, feel a sinusoidal spiral force, are attracted to
// the pointer and wrap at every edge.
type Galaxy struct {
	center components.Vector2D
	radius float64 // disk radius, for hue shift
	ready  bool
}

// NewGalaxy creates a galaxy strategy.
func NewGalaxy() *Galaxy {
	return &Galaxy{}
}

func (g *Galaxy) Name() string { return "galaxy" }

// Center returns the current galaxy center.
func (g *Galaxy) Center() components.Vector2D { return g.center }

func (g *Galaxy) Init(sc *Scene) []components.Particle {
	g.place(sc)
	return Populate(sc, sc.Config.ParticleCount, g.Spawn)
}

// BeginFrame drifts the center along a slow Lissajous path.
func (g *Galaxy) BeginFrame(dtMs float64, sc *Scene) {
	g.place(sc)
}

func (g *Galaxy) place(sc *Scene) {
	t := sc.TimeMs
	g.center = components.Vector2D{
		X: sc.Width/2 + math.Sin(t*0.0002)*sc.Width*0.05,
		Y: sc.Height/2 + math.Cos(t*0.00015)*sc.Height*0.05,
	}
	g.radius = math.Max(1, math.Min(sc.Width, sc.Height)/2)
	g.ready = true
}

// Spawn places a star on one of the spiral arms with orbital velocity.
func (g *Galaxy) Spawn(sc *Scene) components.Particle {
	if !g.ready {
		g.place(sc)
	}
	p := NewParticle(sc)
	rng := sc.Rng

	arm := rng.Intn(galaxyArms)
	r := math.Sqrt(rng.Float64()) * g.radius
	theta := float64(arm)*2*math.Pi/galaxyArms + r*0.015 + (rng.Float64()-0.5)*0.5

	p.Position = g.center.Add(components.Vector2D{X: math.Cos(theta) * r, Y: math.Sin(theta) * r})
	p.Velocity = components.Vector2D{X: -math.Sin(theta), Y: math.Cos(theta)}.Scale(g.orbitalSpeed(r, sc))
	return p
}

// orbitalSpeed is faster near the core.
func (g *Galaxy) orbitalSpeed(dist float64, sc *Scene) float64 {
	return 0.5 * sc.Speed() * (1 + 50/(dist+50))
}

func (g *Galaxy) Update(p *components.Particle, dtMs float64, sc *Scene) {
	f := frames(dtMs)

	rel := p.Position.Sub(g.center)
	dist := rel.Len()
	if dist > 0 {
		angle := math.Atan2(rel.Y, rel.X)
		sin, cos := math.Sincos(angle)
		tangent := components.Vector2D{X: -sin, Y: cos}.Scale(g.orbitalSpeed(dist, sc))
		spiral := math.Sin(dist*0.02-sc.TimeMs*0.001) * 0.3 * sc.Speed()
		radial := components.Vector2D{X: cos, Y: sin}.Scale(spiral)

		want := tangent.Add(radial)
		p.Velocity = p.Velocity.Add(want.Sub(p.Velocity).Scale(math.Min(1, 0.05*f)))
	}

	if sc.Interacting() {
		d, pd := offset(sc.Pointer.Position, p.Position)
		if pd > 0 && pd < galaxyAttractRadius {
			pull := (1 - pd/galaxyAttractRadius) * 0.3
			p.Velocity = p.Velocity.Add(d.Scale(pull * f / pd))
		}
	}

	p.Position = p.Position.Add(p.Velocity.Scale(f))
	p.Rotation += p.RotationSpeed * dtMs
	p.Life -= dtMs

	p.Position.X = wrap(p.Position.X, p.Size, sc.Width)
	p.Position.Y = wrap(p.Position.Y, p.Size, sc.Height)
}

// hue maps distance from the center onto blue→purple.
func (g *Galaxy) hue(p *components.Particle) float64 {
	if g.radius <= 0 {
		return galaxyHueInner
	}
	t := clamp01(p.Position.Sub(g.center).Len() / g.radius)
	return galaxyHueInner + (galaxyHueOuter-galaxyHueInner)*t
}

// Render draws a soft glow with four cross spikes.
func (g *Galaxy) Render(p *components.Particle, s renderer.Surface) {
	shift := renderer.HSL(g.hue(p), 0.7, 0.65)
	c := renderer.Blend(renderer.ParseColor(p.Color), shift, 0.6)
	x, y, r := p.Position.X, p.Position.Y, p.Size

	// Twinkle from rotation
	op := p.Opacity * (0.75 + 0.25*math.Sin(p.Rotation))

	s.RadialGradient(x, y, r*3, renderer.WithAlpha(c, op*0.6), renderer.WithAlpha(c, 0))
	spike := r * 2.5
	spikeColor := renderer.WithAlpha(c, op*0.7)
	s.Line(x-spike, y, x+spike, y, 1, spikeColor)
	s.Line(x, y-spike, x, y+spike, 1, spikeColor)
	s.Circle(x, y, math.Max(0.5, r*0.6), renderer.WithAlpha(c, op))
}
