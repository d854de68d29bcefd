package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/renderer"
)

func testScene(count int) *Scene {
	cfg := components.AnimationConfig{
		ParticleCount: count,
		Colors:        []string{"#ff0000", "#00ff00"},
		Speed:         1,
		Size:          components.Range{Min: 2, Max: 6},
		Opacity:       components.Range{Min: 0.3, Max: 0.8},
		Life:          components.Range{Min: 2000, Max: 4000},
		Interactive:   true,
	}
	return NewScene(800, 600, cfg, rand.New(rand.NewSource(42)))
}

// step runs one engine-style frame without the engine.
func step(st Strategy, pool []components.Particle, sc *Scene, dtMs float64, s renderer.Surface) []components.Particle {
	sc.TimeMs += dtMs
	if fs, ok := st.(FrameStepper); ok {
		fs.BeginFrame(dtMs, sc)
	}
	for i := range pool {
		st.Update(&pool[i], dtMs, sc)
		pool[i].Clamp()
		st.Render(&pool[i], s)
	}
	var release func(uint64)
	if r, ok := st.(Releaser); ok {
		release = r.Release
	}
	return Compact(pool, release)
}

func TestInitPopulatesConfiguredCount(t *testing.T) {
	for _, theme := range components.AllThemes() {
		t.Run(theme.String(), func(t *testing.T) {
			sc := testScene(25)
			st := New(theme, rand.New(rand.NewSource(1)))
			pool := st.Init(sc)
			if len(pool) != 25 {
				t.Errorf("expected 25 particles, got %d", len(pool))
			}
			seen := make(map[uint64]bool)
			for _, p := range pool {
				if seen[p.ID] {
					t.Fatalf("duplicate particle ID %d", p.ID)
				}
				seen[p.ID] = true
			}
		})
	}
}

func TestStrategiesKeepStateFinite(t *testing.T) {
	for _, theme := range components.AllThemes() {
		t.Run(theme.String(), func(t *testing.T) {
			sc := testScene(40)
			sc.Pointer = Pointer{Position: components.Vector2D{X: 400, Y: 300}, Active: true}
			st := New(theme, rand.New(rand.NewSource(7)))
			pool := st.Init(sc)
			rec := renderer.NewRecorder(800, 600)

			for frame := 0; frame < 600; frame++ {
				rec.Clear()
				pool = step(st, pool, sc, FrameMs, rec)
				for len(pool) < 40 {
					if sp, ok := st.(Spawner); ok {
						pool = append(pool, sp.Spawn(sc))
					} else {
						pool = append(pool, NewParticle(sc))
					}
				}
			}

			for _, p := range pool {
				if math.IsNaN(p.Position.X) || math.IsNaN(p.Position.Y) ||
					math.IsInf(p.Position.X, 0) || math.IsInf(p.Position.Y, 0) {
					t.Fatalf("non-finite position %+v", p.Position)
				}
				if p.Opacity < 0 || p.Opacity > 1 {
					t.Errorf("opacity out of range: %f", p.Opacity)
				}
				if p.Life < 0 || p.Life > p.MaxLife {
					t.Errorf("life out of range: %f/%f", p.Life, p.MaxLife)
				}
			}
			if rec.Clears != 600 {
				t.Errorf("expected 600 clears, got %d", rec.Clears)
			}
			if total := len(rec.Totals); total == 0 {
				t.Error("expected strategy to draw something")
			}
		})
	}
}

func TestRainRespawnsBelowBottom(t *testing.T) {
	sc := testScene(1)
	rain := NewRain(rand.New(rand.NewSource(3)))
	p := rain.Spawn(sc)
	p.Position = components.Vector2D{X: 100, Y: sc.Height + p.Size + 1}
	p.Velocity = components.Vector2D{Y: 5}

	rain.Update(&p, FrameMs, sc)

	if p.Position.Y > 0 {
		t.Errorf("expected drop above top edge, got y=%f", p.Position.Y)
	}
	if p.Position.X < 0 || p.Position.X > sc.Width {
		t.Errorf("expected x within canvas, got %f", p.Position.X)
	}
	if p.Life != p.MaxLife {
		t.Errorf("expected life reset to %f, got %f", p.MaxLife, p.Life)
	}
}

func TestSnowRespawnsBelowBottom(t *testing.T) {
	sc := testScene(1)
	snow := NewSnow()
	p := snow.Spawn(sc)
	p.Position = components.Vector2D{X: 100, Y: sc.Height + p.Size + 0.5}

	snow.Update(&p, FrameMs, sc)

	if p.Position.Y > 0 || p.Position.Y < -p.Size-40 {
		t.Errorf("expected flake just above top edge, got y=%f", p.Position.Y)
	}
}

func TestRainWindStaysBounded(t *testing.T) {
	sc := testScene(0)
	rain := NewRain(rand.New(rand.NewSource(11)))
	for i := 0; i < 20000; i++ {
		sc.TimeMs += FrameMs
		rain.BeginFrame(FrameMs, sc)
		if w := rain.Wind(); w < -2 || w > 2 {
			t.Fatalf("wind %f escaped [-2, 2] at frame %d", w, i)
		}
	}
}

func TestRainPointerNudgesHorizontalOnly(t *testing.T) {
	sc := testScene(1)
	rain := NewRain(rand.New(rand.NewSource(5)))
	p := rain.Spawn(sc)
	p.Position = components.Vector2D{X: 420, Y: 300}
	p.Velocity = components.Vector2D{Y: 5}

	free := p
	rain.Update(&free, FrameMs, sc)

	sc.Pointer = Pointer{Position: components.Vector2D{X: 400, Y: 300}, Active: true}
	rain.Update(&p, FrameMs, sc)

	if p.Velocity.X <= free.Velocity.X {
		t.Errorf("expected pointer to push drop right: got vx=%f vs %f", p.Velocity.X, free.Velocity.X)
	}
	if p.Velocity.Y != free.Velocity.Y {
		t.Errorf("expected vertical velocity untouched: got %f vs %f", p.Velocity.Y, free.Velocity.Y)
	}
}

func TestBubblesRespawnAtBottom(t *testing.T) {
	sc := testScene(1)
	b := NewBubbles()
	p := b.Spawn(sc)
	p.Position = components.Vector2D{X: 200, Y: -p.Size - 5}

	b.Update(&p, FrameMs, sc)

	if p.Position.Y < sc.Height {
		t.Errorf("expected bubble below bottom edge, got y=%f", p.Position.Y)
	}
}

func TestBubblesRepelFromPointer(t *testing.T) {
	sc := testScene(1)
	sc.Pointer = Pointer{Position: components.Vector2D{X: 300, Y: 300}, Active: true}
	b := NewBubbles()
	p := b.Spawn(sc)
	p.Position = components.Vector2D{X: 350, Y: 300}
	p.Velocity = components.Vector2D{}

	b.Update(&p, FrameMs, sc)

	if p.Velocity.X <= 0 {
		t.Errorf("expected bubble pushed away (+x), got vx=%f", p.Velocity.X)
	}
}

func TestBubblesFadeWithLife(t *testing.T) {
	sc := testScene(1)
	b := NewBubbles()
	p := b.Spawn(sc)
	p.Position = components.Vector2D{X: 200, Y: 300}
	start := p.Opacity
	p.Life = p.MaxLife / 2

	b.Update(&p, FrameMs, sc)

	if p.Opacity >= start*0.51 {
		t.Errorf("expected opacity near half of %f, got %f", start, p.Opacity)
	}
}

func TestGalaxyWrapsEdges(t *testing.T) {
	sc := testScene(1)
	g := NewGalaxy()
	g.Init(sc)
	p := g.Spawn(sc)
	p.Position = components.Vector2D{X: -p.Size - 50, Y: -p.Size - 50}

	g.Update(&p, FrameMs, sc)

	if p.Position.X < sc.Width/2 || p.Position.Y < sc.Height/2 {
		t.Errorf("expected wrap to far edges, got %+v", p.Position)
	}
}

func TestGalaxyCenterDrifts(t *testing.T) {
	sc := testScene(0)
	g := NewGalaxy()
	g.Init(sc)
	start := g.Center()

	sc.TimeMs = 5000
	g.BeginFrame(FrameMs, sc)

	if g.Center() == start {
		t.Error("expected center to move over time")
	}
	if d := g.Center().Sub(components.Vector2D{X: 400, Y: 300}).Len(); d > 60 {
		t.Errorf("expected center near canvas middle, got %f away", d)
	}
}

func TestGalaxyHueShiftsOutward(t *testing.T) {
	sc := testScene(0)
	g := NewGalaxy()
	g.Init(sc)

	inner := components.Particle{Position: g.Center()}
	outer := components.Particle{Position: g.Center().Add(components.Vector2D{X: 1000})}

	if h := g.hue(&inner); h != galaxyHueInner {
		t.Errorf("expected inner hue %f, got %f", galaxyHueInner, h)
	}
	if h := g.hue(&outer); h != galaxyHueOuter {
		t.Errorf("expected outer hue %f, got %f", galaxyHueOuter, h)
	}
}

func TestGeometricBounces(t *testing.T) {
	sc := testScene(1)
	g := NewGeometric()
	p := g.Spawn(sc)
	p.Position = components.Vector2D{X: sc.Width + 5, Y: 300}
	p.Velocity = components.Vector2D{X: 1}

	g.Update(&p, FrameMs, sc)

	if p.Position.X > sc.Width-p.Size {
		t.Errorf("expected x inside right margin, got %f", p.Position.X)
	}
	if p.Velocity.X >= 0 {
		t.Errorf("expected reflected velocity, got %f", p.Velocity.X)
	}
}

func TestGeometricShapeFixedAtCreation(t *testing.T) {
	sc := testScene(1)
	g := NewGeometric()
	p := g.Spawn(sc)
	before, _ := g.shapes.Get(p.ID)
	kind, filled := before.Kind, before.Filled

	for i := 0; i < 100; i++ {
		g.Update(&p, FrameMs, sc)
	}
	after, _ := g.shapes.Get(p.ID)
	if after.Kind != kind || after.Filled != filled {
		t.Error("expected shape and fill flag to stay fixed")
	}
}

func TestDiamondIsNotARotatedSquare(t *testing.T) {
	center := components.Vector2D{X: 100, Y: 100}
	for _, rot := range []float64{0, math.Pi / 4, 1.3} {
		pts := diamondPoints(nil, center, 10, rot)
		if len(pts) != 4 {
			t.Fatalf("expected 4 vertices, got %d", len(pts))
		}
		// Opposite vertices span the two axes
		wide := pts[0].Sub(pts[2]).Len()
		tall := pts[1].Sub(pts[3]).Len()
		if math.Abs(wide-2*diamondHalfWidth*10) > 1e-9 || math.Abs(tall-2*diamondHalfHeight*10) > 1e-9 {
			t.Errorf("rot %v: expected axes %v and %v, got %v and %v",
				rot, 2*diamondHalfWidth*10, 2*diamondHalfHeight*10, wide, tall)
		}
	}
}

func TestGeometricShapesRenderDistinctly(t *testing.T) {
	tests := []struct {
		name     string
		kind     ShapeKind
		lines    int
		outlines int
		fans     int
	}{
		{"triangle", ShapeTriangle, 0, 1, 0},
		{"square", ShapeSquare, 0, 1, 0},
		{"diamond", ShapeDiamond, 4, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := testScene(1)
			g := NewGeometric()
			p := g.Spawn(sc)
			g.shapes.Set(p.ID, shape{Kind: tt.kind, Filled: true, BaseOpacity: 1})

			rec := renderer.NewRecorder(800, 600)
			g.Render(&p, rec)

			if got := rec.Count(renderer.OpLine); got != tt.lines {
				t.Errorf("expected %d lines, got %d", tt.lines, got)
			}
			if got := rec.Count(renderer.OpPolygonOutline); got != tt.outlines {
				t.Errorf("expected %d polygon outlines, got %d", tt.outlines, got)
			}
			if got := rec.Count(renderer.OpFan); got != tt.fans {
				t.Errorf("expected %d fans, got %d", tt.fans, got)
			}
		})
	}
}

func TestQuantizeAngle(t *testing.T) {
	deg := math.Pi / 180
	tests := []struct {
		in, want float64
	}{
		{50, 60},
		{10, 0},
		{-100, -120},
		{175, 180},
		{89, 60},
		{91, 120},
	}

	for _, tt := range tests {
		got := quantizeAngle(tt.in*deg, geometricSector) / deg
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("quantizeAngle(%v°) = %v°, want %v°", tt.in, got, tt.want)
		}
	}
}

func TestFireEmbersBurnOut(t *testing.T) {
	sc := testScene(1)
	fi := NewFire()
	p := fi.Spawn(sc)
	p.Position.Y = 300

	for p.Alive() {
		fi.Update(&p, FrameMs, sc)
	}
	if p.Size > 0.5+1e-9 && p.Position.Y >= -p.Size {
		t.Errorf("expected ember to shrink as it dies, size %f", p.Size)
	}
}

func TestPetalsRespawnBelowBottom(t *testing.T) {
	sc := testScene(1)
	pe := NewPetals()
	p := pe.Spawn(sc)
	p.Position = components.Vector2D{X: 100, Y: sc.Height + p.Size + 1}

	pe.Update(&p, FrameMs, sc)

	if p.Position.Y > 0 {
		t.Errorf("expected petal above top edge, got %f", p.Position.Y)
	}
}

func TestPetalRenderDrawsFan(t *testing.T) {
	sc := testScene(1)
	pe := NewPetals()
	p := pe.Spawn(sc)
	rec := renderer.NewRecorder(800, 600)

	pe.Render(&p, rec)

	if rec.Count(renderer.OpFan) != 1 {
		t.Errorf("expected one fan, got %d", rec.Count(renderer.OpFan))
	}
}

func TestAuroraStaysInUpperBand(t *testing.T) {
	sc := testScene(10)
	a := NewAurora(rand.New(rand.NewSource(9)))
	pool := a.Init(sc)

	for frame := 0; frame < 120; frame++ {
		sc.TimeMs += FrameMs
		for i := range pool {
			a.Update(&pool[i], FrameMs, sc)
		}
	}
	for _, p := range pool {
		if p.Position.Y > sc.Height*0.7 {
			t.Errorf("expected strand in upper band, got y=%f", p.Position.Y)
		}
		st, _ := a.strands.Get(p.ID)
		if st.Hue < auroraHueGreen || st.Hue > auroraHueViolet {
			t.Errorf("hue %f outside green..violet", st.Hue)
		}
	}
}

func TestReleaseDropsExtensions(t *testing.T) {
	sc := testScene(10)
	snow := NewSnow()
	pool := snow.Init(sc)
	if snow.flakes.Len() != 10 {
		t.Fatalf("expected 10 flakes, got %d", snow.flakes.Len())
	}

	pool[0].Life = 0
	pool[3].Life = 0
	pool = Compact(pool, snow.Release)

	if len(pool) != 8 || snow.flakes.Len() != 8 {
		t.Errorf("expected 8 particles and flakes, got %d and %d", len(pool), snow.flakes.Len())
	}
}

func TestRegistryFallsBackToBubbles(t *testing.T) {
	st := New(components.Theme(200), nil)
	if st.Name() != "bubbles" {
		t.Errorf("expected bubbles fallback, got %s", st.Name())
	}
	if len(Strategies()) != len(components.AllThemes()) {
		t.Errorf("expected a strategy per theme, got %d", len(Strategies()))
	}
}

func TestNewParticleSamplesConfig(t *testing.T) {
	sc := testScene(1)
	for i := 0; i < 100; i++ {
		p := NewParticle(sc)
		if p.Size < 2 || p.Size > 6 {
			t.Errorf("size %f outside range", p.Size)
		}
		if p.Life != p.MaxLife || p.Life < 2000 || p.Life > 4000 {
			t.Errorf("unexpected life %f/%f", p.Life, p.MaxLife)
		}
		if p.Color != "#ff0000" && p.Color != "#00ff00" {
			t.Errorf("color %s not from palette", p.Color)
		}
	}
}
