package animation

import (
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/pthm-cable/versefx/camera"
	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/config"
	"github.com/pthm-cable/versefx/renderer"
	"github.com/pthm-cable/versefx/systems"
	"github.com/pthm-cable/versefx/telemetry"
)

var (
	highCaps   = telemetry.DeviceCapabilities{GPUTier: telemetry.GPUTierHigh, MemoryGB: 16, Cores: 8}
	mobileCaps = telemetry.DeviceCapabilities{GPUTier: telemetry.GPUTierHigh, MemoryGB: 16, Cores: 8, IsMobile: true}
)

const frameStep = 16 * time.Millisecond

// stubStrategy draws circles only, so ripple rings are easy to count.
type stubStrategy struct {
	panics   int // BeginFrame panics while non-zero; negative means always
	frames   int
	released int
	pointer  systems.Pointer
}

func (s *stubStrategy) Name() string { return "stub" }

func (s *stubStrategy) Init(sc *systems.Scene) []components.Particle {
	return systems.Populate(sc, sc.Config.ParticleCount, nil)
}

func (s *stubStrategy) BeginFrame(dtMs float64, sc *systems.Scene) {
	s.frames++
	s.pointer = sc.Pointer
	if s.panics != 0 {
		if s.panics > 0 {
			s.panics--
		}
		panic("boom")
	}
}

func (s *stubStrategy) Update(p *components.Particle, dtMs float64, sc *systems.Scene) {
	p.Position = p.Position.Add(p.Velocity)
	p.Life -= dtMs
}

func (s *stubStrategy) Render(p *components.Particle, surf renderer.Surface) {
	surf.Circle(p.Position.X, p.Position.Y, p.Size, renderer.ParseColor(p.Color))
}

func (s *stubStrategy) Release(id uint64) { s.released++ }

func testConfig(count int) components.AnimationConfig {
	return components.AnimationConfig{
		ParticleCount: count,
		Colors:        []string{"#ffffff"},
		Speed:         1,
		Size:          components.Range{Min: 2, Max: 4},
		Opacity:       components.Range{Min: 0.5, Max: 1},
		Life:          components.Range{Min: 5000, Max: 5000},
		Interactive:   true,
		WebGL:         true,
	}
}

type harness struct {
	loop   *FrameLoop
	rec    *renderer.Recorder
	el     *StaticElement
	clock  time.Time
	engine *Engine
}

func quietLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func newHarness(t *testing.T, st systems.Strategy, caps telemetry.DeviceCapabilities, cfg components.AnimationConfig, collector *telemetry.Collector, onWindow func(telemetry.WindowStats)) *harness {
	t.Helper()
	settings := config.Default()
	adaptive := telemetry.GenerateAdaptiveConfig(caps, settings.Quality)
	h := &harness{
		loop:  NewFrameLoop(),
		rec:   renderer.NewRecorder(0, 0),
		el:    &StaticElement{Rect: camera.Rect{Width: 800, Height: 600}, DPR: 1},
		clock: time.Unix(1000, 0),
	}
	e, err := NewEngine(st, EngineOptions{
		Surface:   h.rec,
		Element:   h.el,
		Scheduler: h.loop,
		Monitor:   telemetry.NewPerformanceMonitor(caps, adaptive, settings.Monitor),
		Config:    cfg,
		Settings:  settings,
		Rng:       rand.New(rand.NewSource(1)),
		Logger:    quietLogger(),
		Collector: collector,
		OnWindow:  onWindow,
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	h.engine = e
	return h
}

func (h *harness) tick(n int) {
	for i := 0; i < n; i++ {
		h.clock = h.clock.Add(frameStep)
		h.loop.Tick(h.clock)
	}
}

func TestConstructionClampsToDeviceTier(t *testing.T) {
	h := newHarness(t, &stubStrategy{}, mobileCaps, testConfig(200), nil, nil)

	cfg := h.engine.Config()
	if cfg.ParticleCount > 30 {
		t.Errorf("expected particle count <= 30, got %d", cfg.ParticleCount)
	}
	if cfg.WebGL {
		t.Error("expected webgl disabled on low tier")
	}
	if n := len(h.engine.Particles()); n > 30 {
		t.Errorf("expected pool <= 30, got %d", n)
	}
}

func TestNewEngineRequiresCollaborators(t *testing.T) {
	if _, err := NewEngine(&stubStrategy{}, EngineOptions{}); err == nil {
		t.Error("expected error without surface, element and scheduler")
	}
	if _, err := NewEngine(nil, EngineOptions{}); err == nil {
		t.Error("expected error for nil strategy")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	st := &stubStrategy{}
	h := newHarness(t, st, highCaps, testConfig(20), nil, nil)

	h.engine.Start()
	h.engine.Start()
	if got := h.loop.Pending(); got != 1 {
		t.Fatalf("expected 1 pending frame, got %d", got)
	}

	h.tick(1)
	if st.frames != 1 {
		t.Errorf("expected 1 frame, got %d", st.frames)
	}
	if got := h.loop.Pending(); got != 1 {
		t.Errorf("expected next frame scheduled once, got %d", got)
	}
}

func TestStopCancelsPendingFrame(t *testing.T) {
	st := &stubStrategy{}
	h := newHarness(t, st, highCaps, testConfig(20), nil, nil)

	h.engine.Start()
	h.tick(2)
	h.engine.Stop()

	if h.engine.Running() {
		t.Error("expected engine stopped")
	}
	if got := h.loop.Pending(); got != 0 {
		t.Errorf("expected no pending frame, got %d", got)
	}
	h.tick(3)
	if st.frames != 2 {
		t.Errorf("expected no frames after stop, got %d", st.frames)
	}
}

func TestPoolNeverExceedsTierCeiling(t *testing.T) {
	tests := []struct {
		name string
		caps telemetry.DeviceCapabilities
		max  int
	}{
		{"high", highCaps, 200},
		{"mobile", mobileCaps, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, &stubStrategy{}, tt.caps, testConfig(500), nil, nil)
			h.engine.Start()

			for i := 0; i < 150; i++ {
				if i == 50 {
					h.engine.UpdateConfig(components.ConfigPatch{ParticleCount: components.Ptr(1000)})
				}
				h.tick(1)
				if n := len(h.engine.Particles()); n > tt.max {
					t.Fatalf("frame %d: pool %d exceeds ceiling %d", i, n, tt.max)
				}
			}
			if got := h.engine.Config().ParticleCount; got > tt.max {
				t.Errorf("expected config count <= %d, got %d", tt.max, got)
			}
		})
	}
}

func TestParticleInvariantsHoldEveryFrame(t *testing.T) {
	for _, theme := range components.AllThemes() {
		t.Run(theme.String(), func(t *testing.T) {
			cfg := TuneConfig(config.Default(), components.ThemeConfig{Theme: theme, Intensity: components.IntensityHigh})
			h := newHarness(t, systems.New(theme, rand.New(rand.NewSource(3))), highCaps, cfg, nil, nil)
			h.engine.Start()
			h.engine.PointerMove(400, 300)

			for i := 0; i < 240; i++ {
				h.tick(1)
				for _, p := range h.engine.Particles() {
					if p.Opacity < 0 || p.Opacity > 1 {
						t.Fatalf("frame %d: opacity %f out of range", i, p.Opacity)
					}
					if p.Life < 0 || p.Life > p.MaxLife {
						t.Fatalf("frame %d: life %f/%f out of range", i, p.Life, p.MaxLife)
					}
				}
			}
		})
	}
}

func TestDeadParticlesAreReplenished(t *testing.T) {
	st := &stubStrategy{}
	cfg := testConfig(20)
	cfg.Life = components.Range{Min: 40, Max: 40}
	h := newHarness(t, st, highCaps, cfg, nil, nil)
	h.engine.Start()

	h.tick(6)

	if st.released == 0 {
		t.Error("expected expired particles to be released")
	}
	if n := len(h.engine.Particles()); n != 20 {
		t.Errorf("expected pool topped up to 20, got %d", n)
	}
}

func TestRippleLifecycle(t *testing.T) {
	h := newHarness(t, &stubStrategy{}, highCaps, testConfig(5), nil, nil)
	h.engine.Start()

	h.engine.PointerDown(100, 100)
	h.tick(1)
	if got := h.engine.RippleCount(); got != 1 {
		t.Fatalf("expected 1 ripple, got %d", got)
	}
	if got := h.rec.Count(renderer.OpRing); got != 1 {
		t.Fatalf("expected ripple drawn once, got %d", got)
	}

	frames := 0
	for h.engine.RippleCount() > 0 {
		h.tick(1)
		frames++
		if frames > 40 {
			t.Fatal("ripple did not expire within 40 frames")
		}
	}
	if got := h.rec.Count(renderer.OpRing); got != 0 {
		t.Errorf("expected expired ripple absent from render pass, got %d rings", got)
	}
}

func TestRippleRequiresInteractive(t *testing.T) {
	cfg := testConfig(5)
	cfg.Interactive = false
	h := newHarness(t, &stubStrategy{}, highCaps, cfg, nil, nil)
	h.engine.Start()

	h.engine.PointerDown(100, 100)
	h.engine.TouchStart(120, 100)
	h.tick(1)

	if got := h.engine.RippleCount(); got != 0 {
		t.Errorf("expected no ripples when not interactive, got %d", got)
	}
}

func TestPointerMappedToCanvasSpace(t *testing.T) {
	st := &stubStrategy{}
	h := newHarness(t, st, highCaps, testConfig(5), nil, nil)
	h.el.Rect = camera.Rect{X: 100, Y: 50, Width: 400, Height: 300}
	h.el.DPR = 2
	h.engine.Start()

	h.engine.PointerMove(150, 80)
	h.tick(1)
	if !st.pointer.Active || st.pointer.Position.X != 100 || st.pointer.Position.Y != 60 {
		t.Errorf("expected active pointer at (100, 60), got %+v", st.pointer)
	}

	h.engine.PointerLeave()
	h.tick(1)
	if st.pointer.Active {
		t.Error("expected pointer inactive after leave")
	}

	h.engine.TouchMove(300, 200)
	h.engine.TouchEnd()
	h.tick(1)
	if st.pointer.Active {
		t.Error("expected pointer inactive after touch end")
	}
}

func TestResizeOnlyWhenElementChanges(t *testing.T) {
	h := newHarness(t, &stubStrategy{}, highCaps, testConfig(5), nil, nil)
	h.engine.Start()

	h.tick(5)
	if h.rec.Resizes != 1 {
		t.Errorf("expected only the initial resize, got %d", h.rec.Resizes)
	}

	h.el.Rect.Width = 1024
	h.el.DPR = 2
	h.tick(1)
	if h.rec.Resizes != 2 {
		t.Errorf("expected one more resize, got %d", h.rec.Resizes)
	}
	if w, hh := h.rec.Size(); w != 2048 || hh != 1200 {
		t.Errorf("expected backing 2048x1200, got %dx%d", w, hh)
	}
}

func TestUpdateConfigKeepsPool(t *testing.T) {
	h := newHarness(t, &stubStrategy{}, highCaps, testConfig(20), nil, nil)
	h.engine.Start()
	h.tick(2)

	before := h.engine.Particles()
	cfg := h.engine.UpdateConfig(components.ConfigPatch{Speed: components.Ptr(3.0)})

	if cfg.Speed != 3 || h.engine.Config().Speed != 3 {
		t.Errorf("expected speed 3, got %f", h.engine.Config().Speed)
	}
	after := h.engine.Particles()
	if len(after) != len(before) {
		t.Fatalf("expected pool size kept, got %d vs %d", len(after), len(before))
	}
	for i := range before {
		if before[i].ID != after[i].ID {
			t.Fatal("expected the same particles after a config update")
		}
	}
	if !h.engine.Running() {
		t.Error("expected engine still running")
	}
}

func TestResumeAfterPauseKeepsBudget(t *testing.T) {
	h := newHarness(t, &stubStrategy{}, highCaps, testConfig(100), nil, nil)
	h.engine.Start()
	h.tick(5)

	h.engine.Stop()
	h.clock = h.clock.Add(5 * time.Second)
	h.engine.Start()

	h.tick(1)
	if got := h.engine.Config().ParticleCount; got != 100 {
		t.Errorf("expected budget 100 after resume, got %d", got)
	}
	h.tick(5)
	if got := h.engine.Config().ParticleCount; got != 100 {
		t.Errorf("expected budget 100 after 6 frames, got %d", got)
	}
	if got := h.engine.Metrics().DroppedFrames; got != 0 {
		t.Errorf("expected no dropped frames from the pause, got %d", got)
	}
}

// faultyStrategy kills the 4th particle and panics on the 7th during its
// first frame.
type faultyStrategy struct {
	stubStrategy
	frame int
	index int
}

func (f *faultyStrategy) BeginFrame(dtMs float64, sc *systems.Scene) {
	f.frame++
	f.index = 0
}

func (f *faultyStrategy) Update(p *components.Particle, dtMs float64, sc *systems.Scene) {
	i := f.index
	f.index++
	if f.frame == 1 {
		switch i {
		case 3:
			p.Life = 0
			return
		case 6:
			panic("boom")
		}
	}
	f.stubStrategy.Update(p, dtMs, sc)
}

func TestPanicAfterDeathLeavesNoDuplicates(t *testing.T) {
	st := &faultyStrategy{}
	h := newHarness(t, st, highCaps, testConfig(10), nil, nil)
	h.engine.Start()

	h.tick(1)
	pool := h.engine.Particles()
	if len(pool) != 9 {
		t.Errorf("expected 9 particles after the failed frame, got %d", len(pool))
	}
	seen := make(map[uint64]int)
	for _, p := range pool {
		seen[p.ID]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("expected particle %d once, got %d copies", id, n)
		}
	}
	if st.released != 1 {
		t.Errorf("expected 1 release, got %d", st.released)
	}

	h.tick(1)
	pool = h.engine.Particles()
	seen = make(map[uint64]int)
	for _, p := range pool {
		seen[p.ID]++
	}
	if len(pool) != 10 || len(seen) != 10 {
		t.Errorf("expected 10 unique particles after replenish, got %d (%d unique)", len(pool), len(seen))
	}
}

func TestPanicGuardStopsAfterRepeatedFailures(t *testing.T) {
	st := &stubStrategy{panics: -1}
	h := newHarness(t, st, highCaps, testConfig(5), nil, nil)
	h.engine.Start()

	h.tick(2)
	if !h.engine.Running() {
		t.Fatal("expected loop to survive two failing frames")
	}
	h.tick(1)
	if h.engine.Running() {
		t.Error("expected loop stopped after three failing frames")
	}
	if got := h.loop.Pending(); got != 0 {
		t.Errorf("expected no pending frame, got %d", got)
	}
}

func TestPanicGuardSkipsSingleFailure(t *testing.T) {
	st := &stubStrategy{panics: 1}
	collector := telemetry.NewCollector(60)
	h := newHarness(t, st, highCaps, testConfig(5), collector, nil)
	h.engine.Start()

	h.tick(5)

	if !h.engine.Running() {
		t.Error("expected loop to keep running after one failure")
	}
	if st.frames != 5 {
		t.Errorf("expected 5 frames attempted, got %d", st.frames)
	}
}

func TestDestroyEmptiesPool(t *testing.T) {
	st := &stubStrategy{}
	h := newHarness(t, st, highCaps, testConfig(12), nil, nil)
	h.engine.Start()
	h.engine.PointerDown(10, 10)
	h.tick(1)

	h.engine.Destroy()

	if len(h.engine.Particles()) != 0 || h.engine.RippleCount() != 0 {
		t.Error("expected empty pool and ripples")
	}
	if st.released != 12 {
		t.Errorf("expected 12 releases, got %d", st.released)
	}
	h.engine.Start()
	if h.loop.Pending() != 0 {
		t.Error("expected Start to be a no-op after Destroy")
	}
}

func TestWindowTelemetryFlushes(t *testing.T) {
	var windows []telemetry.WindowStats
	collector := telemetry.NewCollector(1)
	h := newHarness(t, &stubStrategy{}, highCaps, testConfig(10), collector, func(s telemetry.WindowStats) {
		windows = append(windows, s)
	})
	h.engine.Start()

	// First frame has zero delta; 63 frames of 16ms exceed one second
	h.tick(65)

	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	w := windows[0]
	if w.Theme != "stub" || w.Quality != "high" {
		t.Errorf("unexpected labels %s/%s", w.Theme, w.Quality)
	}
	if w.Particles != 10 {
		t.Errorf("expected 10 particles, got %d", w.Particles)
	}
}

func TestMetrics(t *testing.T) {
	h := newHarness(t, &stubStrategy{}, highCaps, testConfig(10), nil, nil)
	h.engine.Start()
	h.tick(10)

	m := h.engine.Metrics()
	if m.ParticleCount != 10 || m.TargetParticles != 10 {
		t.Errorf("unexpected counts %+v", m)
	}
	if m.TargetFPS != 60 || m.QualityLevel != telemetry.QualityHigh {
		t.Errorf("unexpected tier in %+v", m)
	}
	if m.FPS < 62 || m.FPS > 63 {
		t.Errorf("expected ~62.5 fps, got %f", m.FPS)
	}
	if !m.Running {
		t.Error("expected running")
	}
}
