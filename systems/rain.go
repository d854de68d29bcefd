package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/renderer"
)

const (
	rainGravity     = 0.15 // px/frame² before speed scaling
	rainMaxWind     = 2.0
	rainNudgeRadius = 100.0
)

type rainDrop struct {
	Length float64
}

// Rain drops fall under gravity with a drifting global wind.
// Drops that leave the bottom respawn above the top.
type Rain struct {
	drops *Extras[rainDrop]
	noise *NoiseField
	wind  float64
}

// NewRain creates a rain strategy. The wind noise is seeded from rng.
func NewRain(rng *rand.Rand) *Rain {
	return &Rain{
		drops: NewExtras[rainDrop](),
		noise: NewNoiseField(rng.Int63()),
	}
}

func (r *Rain) Name() string { return "rain" }

// Wind returns the current wind scalar in [-2, 2].
func (r *Rain) Wind() float64 { return r.wind }

func (r *Rain) Init(sc *Scene) []components.Particle {
	return Populate(sc, sc.Config.ParticleCount, func(sc *Scene) components.Particle {
		p := r.Spawn(sc)
		p.Position.Y = sc.Rng.Float64() * sc.Height
		return p
	})
}

// Spawn creates a drop just above the top edge.
func (r *Rain) Spawn(sc *Scene) components.Particle {
	p := NewParticle(sc)
	r.reset(&p, sc)
	r.drops.Set(p.ID, rainDrop{Length: 10 + sc.Rng.Float64()*20})
	return p
}

// BeginFrame perturbs the wind with a random kick plus a slow gust field.
func (r *Rain) BeginFrame(dtMs float64, sc *Scene) {
	f := frames(dtMs)
	gust := r.noise.At(sc.TimeMs*0.0003, 0)
	r.wind += ((sc.Rng.Float64()-0.5)*0.1 + gust*0.02) * f
	r.wind = clampFloat(r.wind, -rainMaxWind, rainMaxWind)
}

func (r *Rain) Update(p *components.Particle, dtMs float64, sc *Scene) {
	f := frames(dtMs)
	speed := sc.Speed()

	p.Velocity.Y += rainGravity * speed * f
	p.Velocity.Y = math.Min(p.Velocity.Y, 14*speed)
	// Ease horizontal velocity toward the wind
	p.Velocity.X += (r.wind*0.5 - p.Velocity.X) * 0.05 * f

	if sc.Interacting() {
		d, dist := offset(p.Position, sc.Pointer.Position)
		if dist < rainNudgeRadius {
			side := 1.0
			if d.X < 0 {
				side = -1
			}
			p.Velocity.X += side * (1 - dist/rainNudgeRadius) * 0.5 * f
		}
	}

	p.Position = p.Position.Add(p.Velocity.Scale(f))

	p.Life -= dtMs
	if p.Life <= 0 {
		p.Life = p.MaxLife
	}

	if p.Position.Y > sc.Height+p.Size {
		r.reset(p, sc)
	}
	p.Position.X = wrap(p.Position.X, p.Size, sc.Width)
}

// reset moves a drop back above the top edge with fresh fall speed.
func (r *Rain) reset(p *components.Particle, sc *Scene) {
	p.Position = components.Vector2D{
		X: sc.Rng.Float64() * sc.Width,
		Y: -p.Size - sc.Rng.Float64()*50,
	}
	p.Velocity = components.Vector2D{
		X: r.wind * 0.5,
		Y: (4 + sc.Rng.Float64()*3) * sc.Speed(),
	}
	p.Life = p.MaxLife
}

// Render draws an angled streak in three segments fading toward the tail.
func (r *Rain) Render(p *components.Particle, s renderer.Surface) {
	length := 15.0
	if d, ok := r.drops.Get(p.ID); ok {
		length = d.Length
	}
	dir := p.Velocity.Normalize()
	if dir == (components.Vector2D{}) {
		dir = components.Vector2D{Y: 1}
	}
	base := renderer.ParseColor(p.Color)
	width := math.Max(1, p.Size*0.6)

	seg := length / 3
	head := p.Position
	for _, fade := range [3]float64{1, 0.6, 0.3} {
		tail := head.Sub(dir.Scale(seg))
		s.Line(head.X, head.Y, tail.X, tail.Y, width, renderer.WithAlpha(base, p.Opacity*fade))
		head = tail
	}
}

func (r *Rain) Release(id uint64) { r.drops.Delete(id) }
