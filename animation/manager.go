package animation

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/config"
	"github.com/pthm-cable/versefx/renderer"
	"github.com/pthm-cable/versefx/systems"
	"github.com/pthm-cable/versefx/telemetry"
)

// OverlayFactory builds the GPU overlay for a config. Errors and panics
// disable the GPU path for that theme.
type OverlayFactory func(cfg components.AnimationConfig) (Overlay, error)

// ManagerOptions configures a Manager. Surface, Element and Scheduler are required.
type ManagerOptions struct {
	Surface   renderer.Surface
	Element   Element
	Scheduler FrameScheduler

	Settings *config.Config
	// Capabilities are detected with the system probe when nil.
	Capabilities *telemetry.DeviceCapabilities
	NewOverlay   OverlayFactory
	Registry     *systems.Registry

	Rng       *rand.Rand
	Logger    *slog.Logger
	Perf      *telemetry.PerfCollector
	Collector *telemetry.Collector
	OnWindow  func(telemetry.WindowStats)
}

// Manager maps a theme triple onto a running engine and brokers the
// optional GPU overlay. It is driven from the host's loop goroutine.
type Manager struct {
	opts     ManagerOptions
	settings *config.Config
	logger   *slog.Logger
	registry *systems.Registry
	rng      *rand.Rand

	caps     telemetry.DeviceCapabilities
	adaptive telemetry.AdaptiveConfig
	monitor  *telemetry.PerformanceMonitor

	engine  *Engine
	overlay Overlay
	config  components.AnimationConfig
	theme   components.ThemeConfig
	started bool
}

// NewManager creates a manager with its own performance monitor.
func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Surface == nil || opts.Element == nil || opts.Scheduler == nil {
		return nil, fmt.Errorf("animation: surface, element and scheduler are required")
	}
	settings := opts.Settings
	if settings == nil {
		settings = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = systems.NewRegistry()
	}
	rng := opts.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var caps telemetry.DeviceCapabilities
	if opts.Capabilities != nil {
		caps = *opts.Capabilities
	} else {
		caps = telemetry.DetectDeviceCapabilities(telemetry.NewSystemProbe(settings.Device, nil))
	}
	adaptive := telemetry.GenerateAdaptiveConfig(caps, settings.Quality)

	m := &Manager{
		opts:     opts,
		settings: settings,
		logger:   logger,
		registry: registry,
		rng:      rng,
		caps:     caps,
		adaptive: adaptive,
		monitor:  telemetry.NewPerformanceMonitor(caps, adaptive, settings.Monitor),
		config:   settings.Engine.Base.Clone(),
	}
	logger.Info("animation manager ready", "device", caps, "adaptive", adaptive)
	return m, nil
}

// SetTheme replaces the running strategy with the one for the triple.
// Unknown themes fall back to bubbles. The new engine starts if the
// manager was started.
func (m *Manager) SetTheme(theme components.Theme, mood components.Mood, intensity components.Intensity) error {
	m.teardown()

	tc := components.ThemeConfig{Theme: theme, Mood: mood, Intensity: intensity}
	cfg := TuneConfig(m.settings, tc)

	if cfg.WebGL {
		if m.adaptive.EnableWebGL && m.opts.NewOverlay != nil {
			ov, err := m.buildOverlay(cfg)
			if err != nil {
				m.logger.Warn("gpu overlay unavailable, using cpu path", "error", err)
				cfg.WebGL = false
			} else {
				m.overlay = ov
			}
		} else {
			cfg.WebGL = false
		}
	}

	strategy := m.registry.New(theme, m.rng)
	engine, err := NewEngine(strategy, EngineOptions{
		Surface:   m.opts.Surface,
		Element:   m.opts.Element,
		Scheduler: m.opts.Scheduler,
		Monitor:   m.monitor,
		Config:    cfg,
		Settings:  m.settings,
		Overlay:   m.overlay,
		Rng:       m.rng,
		Logger:    m.logger,
		Perf:      m.opts.Perf,
		Collector: m.opts.Collector,
		OnWindow:  m.opts.OnWindow,
	})
	if err != nil {
		m.unloadOverlay()
		return fmt.Errorf("creating engine for %s: %w", tc, err)
	}

	m.engine = engine
	m.config = engine.Config()
	m.theme = tc
	m.logger.Info("theme set", "theme", tc.String(), "strategy", strategy.Name(),
		"particles", m.config.ParticleCount, "webgl", m.config.WebGL)

	if m.started {
		engine.Start()
	}
	return nil
}

// SetThemeFromText detects the triple from text and applies it.
func (m *Manager) SetThemeFromText(text string) (components.ThemeConfig, error) {
	tc := DetectThemeFromText(text)
	return tc, m.SetTheme(tc.Theme, tc.Mood, tc.Intensity)
}

// buildOverlay calls the factory, turning a panic into an error.
func (m *Manager) buildOverlay(cfg components.AnimationConfig) (ov Overlay, err error) {
	defer func() {
		if r := recover(); r != nil {
			ov, err = nil, fmt.Errorf("overlay panic: %v", r)
		}
	}()
	ov, err = m.opts.NewOverlay(cfg)
	if err == nil && ov == nil {
		err = fmt.Errorf("overlay factory returned nil")
	}
	return ov, err
}

// Start starts the active engine.
func (m *Manager) Start() {
	m.started = true
	if m.engine != nil {
		m.engine.Start()
	}
}

// Stop stops the active engine.
func (m *Manager) Stop() {
	m.started = false
	if m.engine != nil {
		m.engine.Stop()
	}
}

// UpdateConfig merges patch into the manager's config and the running
// engine's config without restarting it.
func (m *Manager) UpdateConfig(patch components.ConfigPatch) {
	m.config = m.config.Merge(patch)
	if m.engine != nil {
		m.config = m.engine.UpdateConfig(patch)
	}
}

// Config returns the manager's current config.
func (m *Manager) Config() components.AnimationConfig { return m.config.Clone() }

// PerformanceMetrics returns the active engine's metrics; false when none runs.
func (m *Manager) PerformanceMetrics() (Metrics, bool) {
	if m.engine == nil {
		return Metrics{}, false
	}
	return m.engine.Metrics(), true
}

// Theme returns the active triple; false before the first SetTheme.
func (m *Manager) Theme() (components.ThemeConfig, bool) {
	return m.theme, m.engine != nil
}

// Engine returns the active engine, or nil.
func (m *Manager) Engine() *Engine { return m.engine }

// Capabilities returns the device classification.
func (m *Manager) Capabilities() telemetry.DeviceCapabilities { return m.caps }

// Adaptive returns the device tier configuration.
func (m *Manager) Adaptive() telemetry.AdaptiveConfig { return m.adaptive }

// Destroy tears down the engine and any overlay.
func (m *Manager) Destroy() {
	m.started = false
	m.teardown()
}

func (m *Manager) teardown() {
	if m.engine != nil {
		m.engine.Destroy()
		m.engine = nil
	}
	m.unloadOverlay()
}

func (m *Manager) unloadOverlay() {
	if m.overlay != nil {
		m.overlay.Unload()
		m.overlay = nil
	}
}
