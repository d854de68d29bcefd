package systems

import (
	"math"

	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/renderer"
)

const snowSwirlRadius = 100.0

type flake struct {
	Phase      float64
	PhaseSpeed float64 // radians/ms
	Amplitude  float64
	Fall       float64 // resting fall speed, px/frame at speed 1
}

// Snow flakes drift down with a sinusoidal wobble. The pointer stirs a
// local swirl rather than pushing or pulling.
type Snow struct {
	flakes *Extras[flake]
}

// NewSnow creates a snow strategy.
func NewSnow() *Snow {
	return &Snow{flakes: NewExtras[flake]()}
}

func (s *Snow) Name() string { return "snow" }

func (s *Snow) Init(sc *Scene) []components.Particle {
	return Populate(sc, sc.Config.ParticleCount, func(sc *Scene) components.Particle {
		p := s.Spawn(sc)
		p.Position.Y = sc.Rng.Float64() * sc.Height
		return p
	})
}

// Spawn creates a flake just above the top edge.
func (s *Snow) Spawn(sc *Scene) components.Particle {
	p := NewParticle(sc)
	fl := s.flakes.Set(p.ID, s.newFlake(sc))
	s.reset(&p, fl, sc)
	return p
}

func (s *Snow) newFlake(sc *Scene) flake {
	return flake{
		Phase:      sc.Rng.Float64() * 2 * math.Pi,
		PhaseSpeed: 0.001 + sc.Rng.Float64()*0.002,
		Amplitude:  0.3 + sc.Rng.Float64()*0.7,
		Fall:       0.5 + sc.Rng.Float64(),
	}
}

func (s *Snow) Update(p *components.Particle, dtMs float64, sc *Scene) {
	f := frames(dtMs)
	speed := sc.Speed()
	fl := s.flakes.Ensure(p.ID, func() flake { return s.newFlake(sc) })

	fl.Phase += fl.PhaseSpeed * dtMs
	wobble := math.Sin(fl.Phase) * fl.Amplitude
	p.Velocity.X += (wobble*speed - p.Velocity.X) * 0.1 * f
	p.Velocity.Y += (fl.Fall*speed - p.Velocity.Y) * 0.05 * f

	if sc.Interacting() {
		d, dist := offset(p.Position, sc.Pointer.Position)
		if dist > 0 && dist < snowSwirlRadius {
			// Tangential push, counter-clockwise around the pointer
			strength := (1 - dist/snowSwirlRadius) * 0.8
			tangent := components.Vector2D{X: -d.Y / dist, Y: d.X / dist}
			p.Velocity = p.Velocity.Add(tangent.Scale(strength * f))
		}
	}

	p.Position = p.Position.Add(p.Velocity.Scale(f))
	p.Rotation += p.RotationSpeed * dtMs

	p.Life -= dtMs
	if p.Life <= 0 {
		p.Life = p.MaxLife
	}

	if p.Position.Y > sc.Height+p.Size {
		s.reset(p, fl, sc)
	}
	p.Position.X = wrap(p.Position.X, p.Size, sc.Width)
}

func (s *Snow) reset(p *components.Particle, fl *flake, sc *Scene) {
	p.Position = components.Vector2D{
		X: sc.Rng.Float64() * sc.Width,
		Y: -p.Size - sc.Rng.Float64()*40,
	}
	p.Velocity = components.Vector2D{Y: fl.Fall * sc.Speed()}
	p.Life = p.MaxLife
}

// Render draws a six-armed flake with two branches per arm.
func (s *Snow) Render(p *components.Particle, surf renderer.Surface) {
	c := renderer.WithAlpha(renderer.ParseColor(p.Color), p.Opacity)
	width := math.Max(1, p.Size*0.12)
	x, y := p.Position.X, p.Position.Y

	for i := 0; i < 6; i++ {
		a := p.Rotation + float64(i)*math.Pi/3
		ex, ey := rotate(p.Size, 0, a)
		surf.Line(x, y, x+ex, y+ey, width, c)

		// Branches sprout 60% along the arm
		bx, by := rotate(p.Size*0.6, 0, a)
		for _, side := range [2]float64{-1, 1} {
			tx, ty := rotate(p.Size*0.35, 0, a+side*math.Pi/4)
			surf.Line(x+bx, y+by, x+bx+tx, y+by+ty, width, c)
		}
	}
}

func (s *Snow) Release(id uint64) { s.flakes.Delete(id) }
