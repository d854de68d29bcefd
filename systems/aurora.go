package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/renderer"
)

const (
	auroraHueGreen     = 120.0
	auroraHueViolet    = 270.0
	auroraBrightRadius = 150.0
)

type strand struct {
	BaseY     float64
	Phase     float64
	Amplitude float64
	Hue       float64
	Boost     float64 // pointer brightening, decays to 0
}

// Aurora draws vertical light strands drifting along a swaying baseline
// in the upper part of the canvas. Hue cycles between green and violet.
type Aurora struct {
	strands *Extras[strand]
	noise   *NoiseField
}

// NewAurora creates an aurora strategy. The sway noise is seeded from rng.
func NewAurora(rng *rand.Rand) *Aurora {
	return &Aurora{
		strands: NewExtras[strand](),
		noise:   NewNoiseField(rng.Int63()),
	}
}

func (a *Aurora) Name() string { return "aurora" }

func (a *Aurora) Init(sc *Scene) []components.Particle {
	return Populate(sc, sc.Config.ParticleCount, a.Spawn)
}

// Spawn places a strand somewhere along the curtain.
func (a *Aurora) Spawn(sc *Scene) components.Particle {
	p := NewParticle(sc)
	st := a.strands.Set(p.ID, a.newStrand(sc))
	p.Position = components.Vector2D{X: sc.Rng.Float64() * sc.Width, Y: st.BaseY}
	p.Velocity = components.Vector2D{X: (0.2 + sc.Rng.Float64()*0.4) * sc.Speed()}
	if sc.Rng.Intn(2) == 0 {
		p.Velocity.X = -p.Velocity.X
	}
	return p
}

func (a *Aurora) newStrand(sc *Scene) strand {
	return strand{
		BaseY:     sc.Height * (0.15 + sc.Rng.Float64()*0.25),
		Phase:     sc.Rng.Float64() * 2 * math.Pi,
		Amplitude: 10 + sc.Rng.Float64()*30,
		Hue:       auroraHueGreen,
	}
}

func (a *Aurora) Update(p *components.Particle, dtMs float64, sc *Scene) {
	f := frames(dtMs)
	st := a.strands.Ensure(p.ID, func() strand { return a.newStrand(sc) })
	t := sc.TimeMs

	p.Position.X += p.Velocity.X * f
	p.Position.X = wrap(p.Position.X, p.Size, sc.Width)

	sway := math.Sin(p.Position.X*0.01+st.Phase+t*0.0005) * st.Amplitude
	drift := a.noise.At(p.Position.X*0.003, t*0.0002) * 20
	p.Position.Y = st.BaseY + sway + drift

	cycle := 0.5 + 0.5*math.Sin(t*0.0003+st.Phase)
	st.Hue = auroraHueGreen + (auroraHueViolet-auroraHueGreen)*cycle

	st.Boost = damp(st.Boost, 0.95, f)
	if sc.Interacting() {
		_, dist := offset(p.Position, sc.Pointer.Position)
		if dist < auroraBrightRadius {
			st.Boost = math.Max(st.Boost, 1-dist/auroraBrightRadius)
		}
	}

	p.Life -= dtMs
	if p.Life <= 0 {
		p.Life = p.MaxLife
	}
}

// Render draws the strand as a vertical curtain fading downward.
func (a *Aurora) Render(p *components.Particle, s renderer.Surface) {
	hue, boost := auroraHueGreen, 0.0
	if st, ok := a.strands.Get(p.ID); ok {
		hue, boost = st.Hue, st.Boost
	}
	c := renderer.Blend(renderer.HSL(hue, 0.8, 0.6), renderer.ParseColor(p.Color), 0.3)
	op := clamp01(p.Opacity * (1 + boost))
	width := math.Max(2, p.Size*0.08)

	seg := p.Size / 3
	x, y := p.Position.X, p.Position.Y
	for i, fade := range [3]float64{1, 0.55, 0.2} {
		y0 := y + float64(i)*seg
		s.Line(x, y0, x, y0+seg, width, renderer.WithAlpha(c, op*fade))
	}
}

func (a *Aurora) Release(id uint64) { a.strands.Delete(id) }
