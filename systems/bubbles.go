package systems

import (
	"image/color"
	"math"

	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/renderer"
)

const bubbleRepelRadius = 100.0

type bubble struct {
	BaseOpacity float64
	Rise        float64 // resting rise speed, px/frame at speed 1
}

var bubbleHighlight = color.RGBA{255, 255, 255, 255}

// Bubbles rise from below the viewport and are pushed away by the pointer.
// Opacity fades with remaining life; bubbles leaving the top re-enter at the bottom.
type Bubbles struct {
	bubbles *Extras[bubble]
}

// NewBubbles creates a bubbles strategy.
func NewBubbles() *Bubbles {
	return &Bubbles{bubbles: NewExtras[bubble]()}
}

func (b *Bubbles) Name() string { return "bubbles" }

// Init scatters bubbles uniformly over the canvas.
func (b *Bubbles) Init(sc *Scene) []components.Particle {
	return Populate(sc, sc.Config.ParticleCount, func(sc *Scene) components.Particle {
		p := b.Spawn(sc)
		p.Position.Y = sc.Rng.Float64() * sc.Height
		return p
	})
}

// Spawn creates a bubble just below the bottom edge.
func (b *Bubbles) Spawn(sc *Scene) components.Particle {
	p := NewParticle(sc)
	bb := b.bubbles.Set(p.ID, b.newBubble(&p, sc))
	b.reset(&p, bb, sc)
	return p
}

func (b *Bubbles) newBubble(p *components.Particle, sc *Scene) bubble {
	return bubble{BaseOpacity: p.Opacity, Rise: 0.5 + sc.Rng.Float64()*1.5}
}

func (b *Bubbles) Update(p *components.Particle, dtMs float64, sc *Scene) {
	f := frames(dtMs)
	speed := sc.Speed()
	bb := b.bubbles.Ensure(p.ID, func() bubble { return b.newBubble(p, sc) })

	// Random lateral drift with damping
	p.Velocity.X += (sc.Rng.Float64() - 0.5) * 0.1 * f
	p.Velocity.X = damp(p.Velocity.X, 0.99, f)
	p.Velocity.Y += (-bb.Rise*speed - p.Velocity.Y) * 0.05 * f

	if sc.Interacting() {
		d, dist := offset(p.Position, sc.Pointer.Position)
		if dist > 0 && dist < bubbleRepelRadius {
			force := (bubbleRepelRadius - dist) / bubbleRepelRadius * 0.5
			p.Velocity = p.Velocity.Add(d.Scale(force * f / dist))
		}
	}

	p.Position = p.Position.Add(p.Velocity.Scale(f))

	p.Life -= dtMs
	p.Opacity = bb.BaseOpacity * clamp01(p.LifeRatio())

	if p.Position.Y < -p.Size {
		b.reset(p, bb, sc)
	}
	p.Position.X = wrap(p.Position.X, p.Size, sc.Width)
}

func (b *Bubbles) reset(p *components.Particle, bb *bubble, sc *Scene) {
	p.Position = components.Vector2D{
		X: sc.Rng.Float64() * sc.Width,
		Y: sc.Height + p.Size + sc.Rng.Float64()*20,
	}
	p.Velocity = components.Vector2D{
		X: (sc.Rng.Float64() - 0.5) * 0.5,
		Y: -bb.Rise * sc.Speed(),
	}
}

// Render draws a gradient body, a highlight dot and a faint outer ring.
func (b *Bubbles) Render(p *components.Particle, s renderer.Surface) {
	base := renderer.ParseColor(p.Color)
	x, y, r := p.Position.X, p.Position.Y, p.Size

	s.RadialGradient(x, y, r,
		renderer.WithAlpha(bubbleHighlight, p.Opacity*0.35),
		renderer.WithAlpha(base, p.Opacity*0.6))
	s.Circle(x-r*0.3, y-r*0.3, math.Max(1, r*0.2), renderer.WithAlpha(bubbleHighlight, p.Opacity*0.8))
	s.Ring(x, y, r, 1, renderer.WithAlpha(base, p.Opacity*0.3))
}

func (b *Bubbles) Release(id uint64) { b.bubbles.Delete(id) }
