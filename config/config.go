// Package config provides configuration loading and access for the animation engine.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pthm-cable/versefx/components"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Screen      ScreenConfig               `yaml:"screen"`
	Engine      EngineConfig               `yaml:"engine"`
	Quality     QualityConfig              `yaml:"quality"`
	Monitor     MonitorConfig              `yaml:"monitor"`
	Interaction InteractionConfig          `yaml:"interaction"`
	Device      DeviceConfig               `yaml:"device"`
	Themes      map[string]ThemePreset     `yaml:"themes"`
	Intensity   map[string]IntensityConfig `yaml:"intensity"`
	Moods       map[string]MoodConfig      `yaml:"moods"`
	Upstream    UpstreamConfig             `yaml:"upstream"`
	Telemetry   TelemetryConfig            `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings for the demo host.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// EngineConfig holds the base animation configuration every theme preset is merged over.
type EngineConfig struct {
	Base        components.AnimationConfig `yaml:"base"`
	MaxDeltaMs  float64                    `yaml:"max_delta_ms"` // Clamp for frame delta after stalls
	MaxFailures int                        `yaml:"max_failures"` // Consecutive failing frames before the loop stops
}

// TierConfig fixes the particle budget for one quality level.
type TierConfig struct {
	MaxParticles int  `yaml:"max_particles"`
	TargetFPS    int  `yaml:"target_fps"`
	EnableGPU    bool `yaml:"enable_gpu"`
}

// QualityConfig holds the three quality tiers and the device classification thresholds.
type QualityConfig struct {
	Low    TierConfig `yaml:"low"`
	Medium TierConfig `yaml:"medium"`
	High   TierConfig `yaml:"high"`

	HighMinMemoryGB float64 `yaml:"high_min_memory_gb"` // Memory required for the high tier
	HighMinCores    int     `yaml:"high_min_cores"`     // Cores required for the high tier
	LowMaxMemoryGB  float64 `yaml:"low_max_memory_gb"`  // Known memory below this forces low
	LowMaxCores     int     `yaml:"low_max_cores"`      // Known core count below this forces low
}

// MonitorConfig holds the frame-rate controller thresholds.
type MonitorConfig struct {
	WindowSize         int     `yaml:"window_size"`          // Sliding window of FPS samples
	DropThreshold      float64 `yaml:"drop_threshold"`       // Sample is a drop below target * this
	ReduceBelow        float64 `yaml:"reduce_below"`         // Reduce when avg < target * this
	ReduceDropRatio    float64 `yaml:"reduce_drop_ratio"`    // ...or drop ratio exceeds this
	IncreaseAbove      float64 `yaml:"increase_above"`       // Increase when avg > target * this
	IncreaseDropRatio  float64 `yaml:"increase_drop_ratio"`  // ...and drop ratio is below this
	IncreaseMinSamples int     `yaml:"increase_min_samples"` // ...and the window holds at least this many
	ReduceFactor       float64 `yaml:"reduce_factor"`
	IncreaseFactor     float64 `yaml:"increase_factor"`
	MinParticles       int     `yaml:"min_particles"`
}

// InteractionConfig holds pointer and ripple parameters.
type InteractionConfig struct {
	RippleMaxRadius float64 `yaml:"ripple_max_radius"`
	RippleGrowth    float64 `yaml:"ripple_growth"` // px per ms
	RippleDecay     float64 `yaml:"ripple_decay"`  // opacity per ms
	RippleOpacity   float64 `yaml:"ripple_opacity"`
	RippleWidth     float64 `yaml:"ripple_width"`
	RippleColor     string  `yaml:"ripple_color"`
}

// DeviceConfig forces device capability signals that cannot be probed portably.
type DeviceConfig struct {
	Renderer      string  `yaml:"renderer"`       // Overrides the probed GPU renderer string
	MemoryGB      float64 `yaml:"memory_gb"`      // 0 = probe
	Cores         int     `yaml:"cores"`          // 0 = probe
	Mobile        bool    `yaml:"mobile"`
	ReducedMotion bool    `yaml:"reduced_motion"`
	LowPower      bool    `yaml:"low_power"`
}

// ThemePreset is the per-theme fragment merged over Engine.Base.
type ThemePreset struct {
	ParticleCount int              `yaml:"particle_count"`
	Colors        []string         `yaml:"colors"`
	Speed         float64          `yaml:"speed"`
	Size          components.Range `yaml:"size"`
	Opacity       components.Range `yaml:"opacity"`
	Life          components.Range `yaml:"life"`
}

// IntensityConfig scales a preset for one intensity level.
type IntensityConfig struct {
	Particles float64 `yaml:"particles"`
	Speed     float64 `yaml:"speed"`
}

// MoodConfig holds mood-driven adjustments.
type MoodConfig struct {
	Speed float64 `yaml:"speed"`
}

// UpstreamConfig holds the poem backend client settings.
type UpstreamConfig struct {
	BaseURL       string `yaml:"base_url"`
	TimeoutMs     int    `yaml:"timeout_ms"`
	MaxRetries    int    `yaml:"max_retries"`
	BaseBackoffMs int    `yaml:"base_backoff_ms"`
	MaxBackoffMs  int    `yaml:"max_backoff_ms"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds of frames per CSV window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Frames in the phase timing window
	LogInterval         float64 `yaml:"log_interval"`          // Seconds between perf log lines (0 = off)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Timeout     time.Duration
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	FrameBudget time.Duration // 1s / Screen.TargetFPS
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived validates the loaded config and fills computed values.
func (c *Config) computeDerived() error {
	for _, tier := range []struct {
		name string
		t    TierConfig
	}{{"low", c.Quality.Low}, {"medium", c.Quality.Medium}, {"high", c.Quality.High}} {
		if tier.t.MaxParticles <= 0 {
			return fmt.Errorf("quality.%s.max_particles must be positive", tier.name)
		}
		if tier.t.TargetFPS <= 0 {
			return fmt.Errorf("quality.%s.target_fps must be positive", tier.name)
		}
	}

	if c.Monitor.WindowSize < 1 {
		c.Monitor.WindowSize = 120
	}
	if c.Monitor.MinParticles < 1 {
		c.Monitor.MinParticles = 10
	}
	if c.Engine.MaxFailures < 1 {
		c.Engine.MaxFailures = 3
	}

	// Normalise theme keys so lookups by Theme.String() work for user files too
	themes := make(map[string]ThemePreset, len(c.Themes))
	for name, preset := range c.Themes {
		key := strings.ToLower(name)
		if _, err := components.ParseTheme(key); err != nil {
			return fmt.Errorf("themes: %w", err)
		}
		themes[key] = preset
	}
	c.Themes = themes

	c.Derived.Timeout = time.Duration(c.Upstream.TimeoutMs) * time.Millisecond
	c.Derived.BaseBackoff = time.Duration(c.Upstream.BaseBackoffMs) * time.Millisecond
	c.Derived.MaxBackoff = time.Duration(c.Upstream.MaxBackoffMs) * time.Millisecond
	if c.Screen.TargetFPS > 0 {
		c.Derived.FrameBudget = time.Second / time.Duration(c.Screen.TargetFPS)
	}
	return nil
}

// Tier returns the tier configuration for a quality level name.
func (c *Config) Tier(level string) TierConfig {
	switch level {
	case "low":
		return c.Quality.Low
	case "high":
		return c.Quality.High
	default:
		return c.Quality.Medium
	}
}

// Preset returns the preset for a theme, falling back to bubbles.
func (c *Config) Preset(theme components.Theme) ThemePreset {
	if p, ok := c.Themes[theme.String()]; ok {
		return p
	}
	return c.Themes[components.ThemeBubbles.String()]
}

// IntensityScale returns the multipliers for an intensity level (1, 1 when unset).
func (c *Config) IntensityScale(i components.Intensity) IntensityConfig {
	if s, ok := c.Intensity[i.String()]; ok {
		return s
	}
	return IntensityConfig{Particles: 1, Speed: 1}
}

// MoodSpeed returns the speed multiplier for a mood (1 when unset).
func (c *Config) MoodSpeed(m components.Mood) float64 {
	if s, ok := c.Moods[m.String()]; ok && s.Speed > 0 {
		return s.Speed
	}
	return 1
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
