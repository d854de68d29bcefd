// Package host runs the animation manager inside a raylib window, or
// headless against a recording surface and a synthetic clock.
package host

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/versefx/animation"
	"github.com/pthm-cable/versefx/camera"
	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/config"
	"github.com/pthm-cable/versefx/renderer"
	"github.com/pthm-cable/versefx/telemetry"
	"github.com/pthm-cable/versefx/ui"
	"github.com/pthm-cable/versefx/upstream"
)

var background = color.RGBA{R: 10, G: 12, B: 24, A: 255}

// Options configures a Host.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string

	// Theme is applied at start unless Text is set, in which case the
	// theme is detected from Text.
	Theme components.ThemeConfig
	Text  string

	// API fetches a poem from the upstream service and themes from it.
	API   bool
	Words upstream.PoemInputs
}

// Host owns the frame loop, the manager and the host-side UI.
type Host struct {
	cfg    *config.Config
	opts   Options
	logger *slog.Logger

	loop     *animation.FrameLoop
	manager  *animation.Manager
	surface  *renderer.RaylibSurface // nil when headless
	recorder *renderer.Recorder      // nil when graphical

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager

	clock       time.Time
	frame       int
	paused      bool
	lastPerfLog time.Time

	// Pointer state forwarded to the engine
	pointerInside bool
	touching      bool
	lastPointer   [2]float32

	// UI, graphical only
	panels    *ui.PanelRegistry
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel
	help      *ui.HelpPanel

	client *upstream.Client
	poems  chan poemResult
	cancel context.CancelFunc
	status string
}

// New creates a host. Graphical hosts must be created after the raylib
// window is open.
func New(cfg *config.Config, opts Options) (*Host, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	windowSec := opts.StatsWindowSec
	if windowSec <= 0 {
		windowSec = cfg.Telemetry.StatsWindow
	}

	h := &Host{
		cfg:       cfg,
		opts:      opts,
		logger:    slog.Default(),
		loop:      animation.NewFrameLoop(),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector: telemetry.NewCollector(windowSec),
		clock:     time.Unix(0, 0),
		poems:     make(chan poemResult, 1),
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	h.output = output
	if output != nil {
		if err := output.WriteConfig(cfg); err != nil {
			output.Close()
			return nil, fmt.Errorf("writing config snapshot: %w", err)
		}
	}

	mopts := animation.ManagerOptions{
		Settings:  cfg,
		Rng:       rand.New(rand.NewSource(seed)),
		Logger:    h.logger,
		Perf:      h.perf,
		Collector: h.collector,
		OnWindow:  h.onWindow,
	}
	var caps telemetry.DeviceCapabilities
	if opts.Headless {
		h.recorder = renderer.NewRecorder(cfg.Screen.Width, cfg.Screen.Height)
		mopts.Surface = h.recorder
		mopts.Element = &animation.StaticElement{
			Rect: camera.Rect{Width: float64(cfg.Screen.Width), Height: float64(cfg.Screen.Height)},
			DPR:  1,
		}
		caps = telemetry.DetectDeviceCapabilities(telemetry.NewSystemProbe(cfg.Device, nil))
	} else {
		h.surface = renderer.NewRaylibSurface(background)
		mopts.Surface = h.surface
		mopts.Element = windowElement{}
		mopts.NewOverlay = newGlowOverlay
		caps = telemetry.DetectDeviceCapabilities(telemetry.NewSystemProbe(cfg.Device, renderer.GLRenderer))
		h.initUI()
	}
	mopts.Scheduler = h.loop
	mopts.Capabilities = &caps

	manager, err := animation.NewManager(mopts)
	if err != nil {
		output.Close()
		return nil, fmt.Errorf("creating manager: %w", err)
	}
	h.manager = manager

	if opts.Text != "" {
		if _, err := manager.SetThemeFromText(opts.Text); err != nil {
			h.Unload()
			return nil, err
		}
	} else if err := manager.SetTheme(opts.Theme.Theme, opts.Theme.Mood, opts.Theme.Intensity); err != nil {
		h.Unload()
		return nil, err
	}
	manager.Start()

	if opts.API {
		h.client = upstream.NewClient(cfg)
		h.startPoemFetch()
	}
	return h, nil
}

// newGlowOverlay builds the GPU overlay tinted by the theme's first color.
func newGlowOverlay(cfg components.AnimationConfig) (animation.Overlay, error) {
	tint := background
	if len(cfg.Colors) > 0 {
		tint = renderer.ParseColor(cfg.Colors[0])
	}
	ov, err := renderer.NewGlowOverlay(tint, 0.6)
	if err != nil {
		return nil, err
	}
	return ov, nil
}

// UpdateHeadless advances the synthetic clock by one frame budget and runs
// one frame.
func (h *Host) UpdateHeadless() {
	h.applyPoem()
	step := h.cfg.Derived.FrameBudget
	if step <= 0 {
		step = time.Second / 60
	}
	h.clock = h.clock.Add(step)
	h.loop.Tick(h.clock)
	h.frame++
}

// Frame returns the number of host frames run.
func (h *Host) Frame() int { return h.frame }

// Manager returns the animation manager.
func (h *Host) Manager() *animation.Manager { return h.manager }

// Recorder returns the headless surface, or nil.
func (h *Host) Recorder() *renderer.Recorder { return h.recorder }

// Status returns the host status line.
func (h *Host) Status() string { return h.status }

// Unload stops the loop, cancels pending requests and closes outputs.
func (h *Host) Unload() {
	if h.cancel != nil {
		h.cancel()
	}
	h.manager.Destroy()
	if err := h.output.Close(); err != nil {
		h.logger.Error("failed to close output", "error", err)
	}
}
