package systems

import (
	"image/color"
	"math"

	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/renderer"
)

const fireGustRadius = 120.0

var emberCore = color.RGBA{255, 244, 214, 255}

type ember struct {
	Flicker     float64
	BaseSize    float64
	BaseOpacity float64
}

// Fire embers rise from the bottom edge, flicker and shrink as they burn out.
// The pointer acts as a gust pushing embers sideways.
type Fire struct {
	embers *Extras[ember]
}

// NewFire creates a fire strategy.
func NewFire() *Fire {
	return &Fire{embers: NewExtras[ember]()}
}

func (fi *Fire) Name() string { return "fire" }

// Init spreads embers over the canvas at random points in their life.
func (fi *Fire) Init(sc *Scene) []components.Particle {
	return Populate(sc, sc.Config.ParticleCount, func(sc *Scene) components.Particle {
		p := fi.Spawn(sc)
		p.Position.Y = sc.Height * (0.4 + sc.Rng.Float64()*0.6)
		p.Life = p.MaxLife * (0.2 + sc.Rng.Float64()*0.8)
		return p
	})
}

// Spawn creates an ember at the bottom edge.
func (fi *Fire) Spawn(sc *Scene) components.Particle {
	p := NewParticle(sc)
	p.Position = components.Vector2D{
		X: sc.Rng.Float64() * sc.Width,
		Y: sc.Height + sc.Rng.Float64()*10,
	}
	p.Velocity = components.Vector2D{
		X: (sc.Rng.Float64() - 0.5) * 0.5,
		Y: -(1 + sc.Rng.Float64()*2) * sc.Speed(),
	}
	fi.embers.Set(p.ID, fi.newEmber(&p, sc))
	return p
}

func (fi *Fire) newEmber(p *components.Particle, sc *Scene) ember {
	return ember{
		Flicker:     sc.Rng.Float64() * 2 * math.Pi,
		BaseSize:    p.Size,
		BaseOpacity: p.Opacity,
	}
}

func (fi *Fire) Update(p *components.Particle, dtMs float64, sc *Scene) {
	f := frames(dtMs)
	em := fi.embers.Ensure(p.ID, func() ember { return fi.newEmber(p, sc) })

	// Buoyancy and turbulence
	p.Velocity.Y -= 0.02 * sc.Speed() * f
	p.Velocity.X += (sc.Rng.Float64() - 0.5) * 0.2 * f
	p.Velocity.X = damp(p.Velocity.X, 0.97, f)

	if sc.Interacting() {
		d, dist := offset(p.Position, sc.Pointer.Position)
		if dist < fireGustRadius {
			side := 1.0
			if d.X < 0 {
				side = -1
			}
			p.Velocity.X += side * (1 - dist/fireGustRadius) * 0.6 * f
		}
	}

	p.Position = p.Position.Add(p.Velocity.Scale(f))
	p.Life -= dtMs

	em.Flicker += 0.02 * dtMs
	ratio := clamp01(p.LifeRatio())
	p.Size = math.Max(0.5, em.BaseSize*ratio)
	p.Opacity = em.BaseOpacity * ratio * (0.7 + 0.3*math.Sin(em.Flicker))

	if p.Position.Y < -p.Size {
		p.Life = 0
	}
	p.Position.X = wrap(p.Position.X, p.Size, sc.Width)
}

// Render draws a radial glow with a hot core.
func (fi *Fire) Render(p *components.Particle, s renderer.Surface) {
	c := renderer.ParseColor(p.Color)
	x, y, r := p.Position.X, p.Position.Y, p.Size

	s.RadialGradient(x, y, r*2, renderer.WithAlpha(c, p.Opacity), renderer.WithAlpha(c, 0))
	s.Circle(x, y, math.Max(0.5, r*0.5), renderer.WithAlpha(renderer.Blend(c, emberCore, 0.5), p.Opacity))
}

func (fi *Fire) Release(id uint64) { fi.embers.Delete(id) }
