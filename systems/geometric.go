package systems

import (
	"image/color"
	"math"

	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/renderer"
)

// ShapeKind is the polygon a geometric particle is drawn as.
type ShapeKind uint8

const (
	ShapeTriangle ShapeKind = iota
	ShapeSquare
	ShapeDiamond
)

func (k ShapeKind) sides() int {
	if k == ShapeTriangle {
		return 3
	}
	return 4
}

const (
	geometricSector      = math.Pi / 3 // 60°
	geometricForceRadius = 150.0

	// Diamond half-axes as fractions of Size
	diamondHalfWidth  = 0.6
	diamondHalfHeight = 1.3
)

type shape struct {
	Kind        ShapeKind
	Filled      bool
	Echo        bool
	WavePhase   float64
	BaseOpacity float64
}

// Geometric drifts polygons on a slow wave and bounces them off the edges.
// Pointer forces act along the nearest 60° sector for a crystalline look.
type Geometric struct {
	shapes *Extras[shape]
	points []components.Vector2D // scratch for diamond outlines
}

// NewGeometric creates a geometric strategy.
func NewGeometric() *Geometric {
	return &Geometric{shapes: NewExtras[shape]()}
}

func (g *Geometric) Name() string { return "geometric" }

func (g *Geometric) Init(sc *Scene) []components.Particle {
	return Populate(sc, sc.Config.ParticleCount, g.Spawn)
}

// Spawn assigns a shape and fill flag that stay fixed for the particle's life.
func (g *Geometric) Spawn(sc *Scene) components.Particle {
	p := NewParticle(sc)
	p.Velocity = p.Velocity.Scale(0.4)
	g.shapes.Set(p.ID, g.newShape(&p, sc))
	return p
}

func (g *Geometric) newShape(p *components.Particle, sc *Scene) shape {
	return shape{
		Kind:        ShapeKind(sc.Rng.Intn(3)),
		Filled:      sc.Rng.Float64() < 0.5,
		Echo:        sc.Rng.Float64() < 0.4,
		WavePhase:   sc.Rng.Float64() * 2 * math.Pi,
		BaseOpacity: p.Opacity,
	}
}

func (g *Geometric) Update(p *components.Particle, dtMs float64, sc *Scene) {
	f := frames(dtMs)
	speed := sc.Speed()
	sh := g.shapes.Ensure(p.ID, func() shape { return g.newShape(p, sc) })

	wave := sc.TimeMs*0.001 + sh.WavePhase
	p.Velocity.X += math.Cos(wave) * 0.01 * f
	p.Velocity.Y += math.Sin(wave) * 0.01 * f

	if sc.Interacting() {
		d, dist := offset(sc.Pointer.Position, p.Position)
		if dist > 0 && dist < geometricForceRadius {
			angle := quantizeAngle(math.Atan2(d.Y, d.X), geometricSector)
			force := (1 - dist/geometricForceRadius) * 0.2
			sin, cos := math.Sincos(angle)
			p.Velocity = p.Velocity.Add(components.Vector2D{X: cos, Y: sin}.Scale(force * f))
		}
	}

	p.Velocity = limit(p.Velocity, 2*speed)
	p.Position = p.Position.Add(p.Velocity.Scale(f))
	p.Rotation += p.RotationSpeed * dtMs

	bounce(&p.Position.X, &p.Velocity.X, p.Size, sc.Width)
	bounce(&p.Position.Y, &p.Velocity.Y, p.Size, sc.Height)

	p.Life -= dtMs
	// Fade out over the last quarter of life
	p.Opacity = sh.BaseOpacity * clamp01(p.LifeRatio()*4)
}

// Render draws the outline with an optional faint fill and a half-size echo.
func (g *Geometric) Render(p *components.Particle, s renderer.Surface) {
	sh, ok := g.shapes.Get(p.ID)
	if !ok {
		return
	}
	c := renderer.ParseColor(p.Color)
	x, y, r := p.Position.X, p.Position.Y, p.Size
	rot := p.Rotation

	if sh.Kind == ShapeDiamond {
		g.renderDiamond(p.Position, r, rot, *sh, c, p.Opacity, s)
		return
	}

	sides := sh.Kind.sides()
	if sh.Filled {
		s.Polygon(x, y, sides, r, rot, renderer.WithAlpha(c, p.Opacity*0.15))
	}
	s.PolygonOutline(x, y, sides, r, rot, 1.5, renderer.WithAlpha(c, p.Opacity))
	if sh.Echo {
		s.PolygonOutline(x, y, sides, r*0.5, rot, 1, renderer.WithAlpha(c, p.Opacity*0.5))
	}
}

// renderDiamond draws a rhombus taller than it is wide, so it stays
// distinct from the square at any rotation.
func (g *Geometric) renderDiamond(center components.Vector2D, r, rot float64, sh shape, c color.RGBA, opacity float64, s renderer.Surface) {
	if sh.Filled {
		g.points = append(g.points[:0], center)
		g.points = diamondPoints(g.points, center, r, rot)
		// Close the fan on the first vertex
		g.points = append(g.points, g.points[1])
		s.Fan(g.points, renderer.WithAlpha(c, opacity*0.15))
	}
	g.outlineDiamond(center, r, rot, 1.5, renderer.WithAlpha(c, opacity), s)
	if sh.Echo {
		g.outlineDiamond(center, r*0.5, rot, 1, renderer.WithAlpha(c, opacity*0.5), s)
	}
}

func (g *Geometric) outlineDiamond(center components.Vector2D, r, rot, width float64, c color.RGBA, s renderer.Surface) {
	g.points = diamondPoints(g.points[:0], center, r, rot)
	for i, a := range g.points {
		b := g.points[(i+1)%len(g.points)]
		s.Line(a.X, a.Y, b.X, b.Y, width, c)
	}
}

// diamondPoints appends the four rhombus vertices in decreasing angle
// order (right, top, left, bottom), which raylib fans expect.
func diamondPoints(dst []components.Vector2D, center components.Vector2D, r, rot float64) []components.Vector2D {
	local := [4][2]float64{
		{diamondHalfWidth * r, 0},
		{0, -diamondHalfHeight * r},
		{-diamondHalfWidth * r, 0},
		{0, diamondHalfHeight * r},
	}
	for _, v := range local {
		x, y := rotate(v[0], v[1], rot)
		dst = append(dst, components.Vector2D{X: center.X + x, Y: center.Y + y})
	}
	return dst
}

func (g *Geometric) Release(id uint64) { g.shapes.Delete(id) }
