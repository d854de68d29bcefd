// Package animation runs the shared per-frame particle loop and the manager
// that maps a theme triple onto a running strategy.
package animation

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/versefx/camera"
	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/config"
	"github.com/pthm-cable/versefx/renderer"
	"github.com/pthm-cable/versefx/systems"
	"github.com/pthm-cable/versefx/telemetry"
)

// Overlay is an optional GPU pass drawn over the particle layer.
type Overlay interface {
	Draw(w, h int, t float64)
	Unload()
}

// EngineOptions configures an Engine. Surface, Element, Scheduler and
// Monitor are required.
type EngineOptions struct {
	Surface   renderer.Surface
	Element   Element
	Scheduler FrameScheduler
	Monitor   *telemetry.PerformanceMonitor

	// Config is the requested animation config before the tier clamp.
	Config components.AnimationConfig
	// Settings supplies interaction constants and loop limits; defaults when nil.
	Settings *config.Config

	Overlay   Overlay
	Rng       *rand.Rand
	Logger    *slog.Logger
	Perf      *telemetry.PerfCollector
	Collector *telemetry.Collector
	// OnWindow receives each flushed telemetry window.
	OnWindow func(telemetry.WindowStats)
}

// Metrics is a snapshot of the loop's performance state.
type Metrics struct {
	FPS             float64
	AverageFPS      float64
	DropRatio       float64
	ParticleCount   int
	TargetParticles int
	RippleCount     int
	TargetFPS       int
	QualityLevel    telemetry.QualityLevel
	DroppedFrames   int
	Frames          int
	Running         bool
}

// LogValue implements slog.LogValuer for structured logging.
func (m Metrics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("fps", m.FPS),
		slog.Float64("avg_fps", m.AverageFPS),
		slog.Float64("drop_ratio", m.DropRatio),
		slog.Int("particles", m.ParticleCount),
		slog.Int("target", m.TargetParticles),
		slog.Int("ripples", m.RippleCount),
		slog.String("quality", string(m.QualityLevel)),
		slog.Int("dropped", m.DroppedFrames),
	)
}

// Engine owns the particle pool, ripples and the frame loop, and delegates
// physics and drawing to a strategy.
type Engine struct {
	strategy  systems.Strategy
	surface   renderer.Surface
	element   Element
	scheduler FrameScheduler
	monitor   *telemetry.PerformanceMonitor
	overlay   Overlay
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	onWindow  func(telemetry.WindowStats)
	logger    *slog.Logger

	interaction config.InteractionConfig
	rippleColor color.RGBA
	maxDeltaMs  float64
	maxFailures int
	dropLimit   float64

	cfg atomic.Pointer[components.AnimationConfig]

	scene     *systems.Scene
	viewport  *camera.Viewport
	particles []components.Particle
	ripples   *rippleStore
	input     inputQueue
	inputBuf  []inputEvent

	// Lifecycle, guarded by mu
	mu        sync.Mutex
	running   bool
	destroyed bool
	frameID   FrameID

	lastTime time.Time
	hasLast  bool
	failures int
}

// NewEngine creates an engine for strategy. The requested particle count is
// clamped to the device tier ceiling and WebGL is disabled when the tier
// forbids it. The initial pool is populated immediately.
func NewEngine(strategy systems.Strategy, opts EngineOptions) (*Engine, error) {
	if strategy == nil {
		return nil, fmt.Errorf("animation: nil strategy")
	}
	if opts.Surface == nil || opts.Element == nil || opts.Scheduler == nil || opts.Monitor == nil {
		return nil, fmt.Errorf("animation: surface, element, scheduler and monitor are required")
	}
	settings := opts.Settings
	if settings == nil {
		settings = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rng := opts.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	e := &Engine{
		strategy:    strategy,
		surface:     opts.Surface,
		element:     opts.Element,
		scheduler:   opts.Scheduler,
		monitor:     opts.Monitor,
		overlay:     opts.Overlay,
		perf:        opts.Perf,
		collector:   opts.Collector,
		onWindow:    opts.OnWindow,
		logger:      logger.With("strategy", strategy.Name()),
		interaction: settings.Interaction,
		rippleColor: renderer.ParseColor(settings.Interaction.RippleColor),
		maxDeltaMs:  settings.Engine.MaxDeltaMs,
		maxFailures: settings.Engine.MaxFailures,
		dropLimit:   settings.Monitor.DropThreshold,
		ripples:     newRippleStore(),
	}
	if e.maxFailures < 1 {
		e.maxFailures = 3
	}

	cfg := e.clamp(opts.Config)
	e.cfg.Store(&cfg)

	e.viewport = camera.New(e.element.BoundingRect(), e.element.DevicePixelRatio())
	w, h := e.viewport.BackingSize()
	e.surface.Resize(w, h)

	e.scene = systems.NewScene(float64(w), float64(h), cfg, rng)
	e.particles = strategy.Init(e.scene)
	e.trim(cfg.ParticleCount)

	e.logger.Info("engine created",
		"particles", len(e.particles),
		"requested", opts.Config.ParticleCount,
		"adaptive", e.monitor.Adaptive(),
	)
	return e, nil
}

// clamp applies the device tier to a config.
func (e *Engine) clamp(cfg components.AnimationConfig) components.AnimationConfig {
	adaptive := e.monitor.Adaptive()
	out := cfg.Clone()
	if adaptive.MaxParticles > 0 && out.ParticleCount > adaptive.MaxParticles {
		out.ParticleCount = adaptive.MaxParticles
	}
	if out.ParticleCount < 0 {
		out.ParticleCount = 0
	}
	if !adaptive.EnableWebGL {
		out.WebGL = false
	}
	return out
}

// Config returns the current effective configuration.
func (e *Engine) Config() components.AnimationConfig {
	return e.cfg.Load().Clone()
}

// UpdateConfig merges patch into the running configuration without
// restarting; the pool and strategy state are kept. Safe for concurrent use.
func (e *Engine) UpdateConfig(patch components.ConfigPatch) components.AnimationConfig {
	return e.swapConfig(func(c components.AnimationConfig) components.AnimationConfig {
		return e.clamp(c.Merge(patch))
	})
}

// swapConfig publishes fn(current) as a new immutable value.
func (e *Engine) swapConfig(fn func(components.AnimationConfig) components.AnimationConfig) components.AnimationConfig {
	for {
		old := e.cfg.Load()
		next := fn(*old)
		if e.cfg.CompareAndSwap(old, &next) {
			return next
		}
	}
}

// StrategyName returns the active strategy's name.
func (e *Engine) StrategyName() string { return e.strategy.Name() }

// Start schedules the frame loop. It is a no-op while running or after Destroy.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running || e.destroyed {
		return
	}
	e.running = true
	e.hasLast = false
	e.failures = 0
	// The pause must not count as one long frame
	e.monitor.Resume()
	e.frameID = e.scheduler.RequestFrame(e.Animate)
	e.logger.Debug("engine started")
}

// Stop cancels the pending frame. It takes effect before the next frame runs.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.running = false
	e.scheduler.CancelFrame(e.frameID)
	e.logger.Debug("engine stopped")
}

// Running reports whether the loop is scheduled.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Destroy stops the loop and empties the pool and ripples.
func (e *Engine) Destroy() {
	e.Stop()
	e.mu.Lock()
	e.destroyed = true
	e.mu.Unlock()

	e.release(e.particles)
	e.particles = e.particles[:0]
	e.ripples.Reset()
}

// Particles returns a copy of the pool.
func (e *Engine) Particles() []components.Particle {
	out := make([]components.Particle, len(e.particles))
	copy(out, e.particles)
	return out
}

// RippleCount returns the number of live ripples.
func (e *Engine) RippleCount() int { return e.ripples.Len() }

// Metrics returns a snapshot of the loop's performance state.
// Call it from the loop goroutine.
func (e *Engine) Metrics() Metrics {
	adaptive := e.monitor.Adaptive()
	return Metrics{
		FPS:             e.monitor.FPS(),
		AverageFPS:      e.monitor.AverageFPS(),
		DropRatio:       e.monitor.DropRatio(),
		ParticleCount:   len(e.particles),
		TargetParticles: e.cfg.Load().ParticleCount,
		RippleCount:     e.ripples.Len(),
		TargetFPS:       adaptive.TargetFPS,
		QualityLevel:    adaptive.QualityLevel,
		DroppedFrames:   e.monitor.DroppedFrames(),
		Frames:          e.monitor.Frames(),
		Running:         e.Running(),
	}
}

// Animate runs one frame and schedules the next. A panicking frame is
// skipped; after MaxFailures consecutive failures the loop stops.
func (e *Engine) Animate(now time.Time) {
	if !e.Running() {
		return
	}

	if err := e.safeFrame(now); err != nil {
		e.failures++
		if e.collector != nil {
			e.collector.RecordFailure()
		}
		e.logger.Error("frame failed", "error", err, "consecutive", e.failures)
		if e.failures >= e.maxFailures {
			e.logger.Error("stopping animation after repeated failures", "failures", e.failures)
			e.Stop()
			return
		}
	} else {
		e.failures = 0
	}

	e.mu.Lock()
	if e.running {
		e.frameID = e.scheduler.RequestFrame(e.Animate)
	}
	e.mu.Unlock()
}

func (e *Engine) safeFrame(now time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	e.frame(now)
	return nil
}

// frame runs the phases of one animation frame.
func (e *Engine) frame(now time.Time) {
	dtMs := 0.0
	if e.hasLast {
		dtMs = float64(now.Sub(e.lastTime)) / float64(time.Millisecond)
		if dtMs < 0 {
			dtMs = 0
		}
		if e.maxDeltaMs > 0 && dtMs > e.maxDeltaMs {
			dtMs = e.maxDeltaMs
		}
	}
	e.lastTime = now
	e.hasLast = true

	if e.perf != nil {
		e.perf.StartFrame()
	}

	// Quality control
	e.monitor.RecordFrame(now)
	before := e.cfg.Load().ParticleCount
	cfg := e.swapConfig(func(c components.AnimationConfig) components.AnimationConfig {
		c = c.Clone()
		c.ParticleCount = e.monitor.AdaptiveParticleCount(c.ParticleCount)
		return e.clamp(c)
	})
	if cfg.ParticleCount != before {
		e.logger.Debug("particle budget adjusted",
			"from", before,
			"to", cfg.ParticleCount,
			"avg_fps", e.monitor.AverageFPS(),
		)
		if e.collector != nil {
			e.collector.RecordQualityChange(before, cfg.ParticleCount)
		}
	}

	e.phase(telemetry.PhaseResize)
	if e.viewport.Update(e.element.BoundingRect(), e.element.DevicePixelRatio()) {
		w, h := e.viewport.BackingSize()
		e.surface.Resize(w, h)
		e.scene.Width, e.scene.Height = float64(w), float64(h)
		e.logger.Debug("canvas resized", "width", w, "height", h, "dpr", e.viewport.DPR)
	}

	e.phase(telemetry.PhaseInput)
	e.applyInput(cfg.Interactive)
	e.scene.Config = cfg
	e.scene.TimeMs += dtMs

	e.phase(telemetry.PhaseClear)
	e.surface.Clear()

	e.phase(telemetry.PhaseRipples)
	e.ripples.Step(dtMs, e.interaction.RippleGrowth, e.interaction.RippleDecay)

	e.phase(telemetry.PhaseParticles)
	removed := e.stepParticles(dtMs)

	e.phase(telemetry.PhaseReplenish)
	spawned := e.replenish(cfg.ParticleCount)
	removed += e.trim(cfg.ParticleCount)

	e.phase(telemetry.PhaseOverlay)
	e.drawRipples()
	if e.overlay != nil {
		w, h := e.surface.Size()
		e.overlay.Draw(w, h, e.scene.TimeMs/1000)
	}

	if e.perf != nil {
		e.perf.EndFrame()
	}
	e.record(dtMs, cfg, spawned, removed)
}

func (e *Engine) phase(name string) {
	if e.perf != nil {
		e.perf.StartPhase(name)
	}
}

// stepParticles updates and draws every particle, compacting dead ones out
// of the pool in place. It returns the number removed.
func (e *Engine) stepParticles(dtMs float64) int {
	if fs, ok := e.strategy.(systems.FrameStepper); ok {
		fs.BeginFrame(dtMs, e.scene)
	}
	releaser, _ := e.strategy.(systems.Releaser)

	n := len(e.particles)
	alive, i := 0, 0
	// Runs on panic too: the unvisited tail moves down behind the
	// survivors so no particle is left duplicated in the pool.
	defer func() {
		tail := copy(e.particles[alive:], e.particles[i:])
		e.particles = e.particles[:alive+tail]
	}()

	for ; i < n; i++ {
		p := &e.particles[i]
		e.strategy.Update(p, dtMs, e.scene)
		p.Clamp()
		if !p.Alive() {
			if releaser != nil {
				releaser.Release(p.ID)
			}
			continue
		}
		e.strategy.Render(p, e.surface)
		e.particles[alive] = *p
		alive++
	}
	return n - alive
}

// replenish tops the pool up to target and returns the number spawned.
func (e *Engine) replenish(target int) int {
	spawner, _ := e.strategy.(systems.Spawner)
	spawned := 0
	for len(e.particles) < target {
		var p components.Particle
		if spawner != nil {
			p = spawner.Spawn(e.scene)
		} else {
			p = systems.NewParticle(e.scene)
		}
		e.particles = append(e.particles, p)
		spawned++
	}
	return spawned
}

// trim drops particles above target and returns the number removed.
func (e *Engine) trim(target int) int {
	if target < 0 {
		target = 0
	}
	if len(e.particles) <= target {
		return 0
	}
	excess := e.particles[target:]
	e.release(excess)
	e.particles = e.particles[:target]
	return len(excess)
}

func (e *Engine) release(ps []components.Particle) {
	if r, ok := e.strategy.(systems.Releaser); ok {
		for i := range ps {
			r.Release(ps[i].ID)
		}
	}
}

func (e *Engine) spawnRipple(x, y float64) {
	e.ripples.Spawn(components.Ripple{
		X:         x,
		Y:         y,
		MaxRadius: e.interaction.RippleMaxRadius,
		Opacity:   e.interaction.RippleOpacity,
	})
	if e.collector != nil {
		e.collector.RecordRipple()
	}
}

// drawRipples strokes each ripple once, over the particles.
func (e *Engine) drawRipples() {
	width := e.interaction.RippleWidth
	if width <= 0 {
		width = 2
	}
	e.ripples.Each(func(r *components.Ripple) {
		e.surface.Ring(r.X, r.Y, r.Radius, width, renderer.WithAlpha(e.rippleColor, r.Opacity))
	})
}

// record feeds the window collector and flushes completed windows.
func (e *Engine) record(dtMs float64, cfg components.AnimationConfig, spawned, removed int) {
	if e.collector == nil {
		return
	}
	e.collector.RecordSpawn(spawned)
	e.collector.RecordRemoval(removed)
	e.collector.RecordFrame(telemetry.FrameSample{
		FrameMs:     dtMs,
		Particles:   len(e.particles),
		TargetCount: cfg.ParticleCount,
		Ripples:     e.ripples.Len(),
	})
	if !e.collector.ShouldFlush() {
		return
	}
	adaptive := e.monitor.Adaptive()
	stats := e.collector.Flush(e.strategy.Name(), string(adaptive.QualityLevel), adaptive.TargetFPS, e.dropLimit)
	if e.onWindow != nil {
		e.onWindow(stats)
	}
}
