package telemetry

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/pthm-cable/versefx/config"
)

// GPUTier is a coarse classification of the GPU renderer string.
type GPUTier string

const (
	GPUTierHigh    GPUTier = "high"
	GPUTierMedium  GPUTier = "medium"
	GPUTierLow     GPUTier = "low"
	GPUTierUnknown GPUTier = "unknown"
)

// DeviceCapabilities is the one-time device classification.
// It is computed once and passed by value to every monitor.
type DeviceCapabilities struct {
	GPUTier       GPUTier
	Renderer      string
	MemoryGB      float64 // 0 = unknown
	Cores         int     // 0 = unknown
	IsMobile      bool
	IsLowPower    bool
	LowPowerKnown bool // false when no power-state signal exists on this platform
	ReducedMotion bool
}

// LogValue implements slog.LogValuer for structured logging.
func (c DeviceCapabilities) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("gpu_tier", string(c.GPUTier)),
		slog.String("renderer", c.Renderer),
		slog.Float64("memory_gb", c.MemoryGB),
		slog.Int("cores", c.Cores),
		slog.Bool("mobile", c.IsMobile),
		slog.Bool("low_power", c.IsLowPower),
		slog.Bool("low_power_known", c.LowPowerKnown),
		slog.Bool("reduced_motion", c.ReducedMotion),
	)
}

// DeviceProbe supplies the raw signals device classification is built from.
// Any method may fail or panic; DetectDeviceCapabilities absorbs both.
type DeviceProbe interface {
	Renderer() (string, error)
	MemoryGB() float64
	Cores() int
	Mobile() bool
	ReducedMotion() bool
	LowPower() (on, known bool)
}

// Renderer pattern classes, checked high then low then medium.
var (
	highRenderer   = regexp.MustCompile(`(?i)(nvidia|geforce|rtx|quadro|radeon\s*(rx|pro|vii)|apple\s*m[1-9]|intel.*\barc\b)`)
	lowRenderer    = regexp.MustCompile(`(?i)(llvmpipe|softpipe|swiftshader|software|gdi generic|powervr|mali-[4t]|adreno[^0-9]*[1-4]\d\d\b|intel.*hd\s*graphics\s*[2-5]\d{3})`)
	mediumRenderer = regexp.MustCompile(`(?i)(intel|iris|uhd|adreno|mali|radeon|amd|apple|opengl)`)
	mobileAgent    = regexp.MustCompile(`(?i)(android|iphone|ipad|ipod|blackberry|iemobile|opera mini|mobile)`)
)

// ClassifyRenderer maps a GPU renderer string to a tier.
func ClassifyRenderer(renderer string) GPUTier {
	r := strings.TrimSpace(renderer)
	switch {
	case r == "":
		return GPUTierUnknown
	case highRenderer.MatchString(r):
		return GPUTierHigh
	case lowRenderer.MatchString(r):
		return GPUTierLow
	case mediumRenderer.MatchString(r):
		return GPUTierMedium
	default:
		return GPUTierUnknown
	}
}

// DetectDeviceCapabilities probes the device once.
// Probe failures degrade to unknown values and are never returned.
func DetectDeviceCapabilities(probe DeviceProbe) DeviceCapabilities {
	caps := DeviceCapabilities{GPUTier: GPUTierUnknown}
	if probe == nil {
		return caps
	}

	guard(func() {
		renderer, err := probe.Renderer()
		if err != nil {
			slog.Debug("gpu probe failed", "error", err)
			return
		}
		caps.Renderer = renderer
		caps.GPUTier = ClassifyRenderer(renderer)
	})
	guard(func() { caps.MemoryGB = probe.MemoryGB() })
	guard(func() { caps.Cores = probe.Cores() })
	guard(func() { caps.IsMobile = probe.Mobile() })
	guard(func() { caps.ReducedMotion = probe.ReducedMotion() })
	guard(func() { caps.IsLowPower, caps.LowPowerKnown = probe.LowPower() })

	return caps
}

func guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("device probe panicked", "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

// SystemProbe reads device signals from the host OS.
// Config overrides take precedence over probed values.
type SystemProbe struct {
	Overrides config.DeviceConfig

	// RendererFunc returns the GPU renderer string, typically from the graphics context.
	// Nil means no GPU context is available.
	RendererFunc func() (string, error)

	UserAgent   string
	GOOS        string // defaults to runtime.GOOS
	MeminfoPath string // defaults to /proc/meminfo
	Getenv      func(string) string
}

// NewSystemProbe creates a probe for the running process.
func NewSystemProbe(overrides config.DeviceConfig, rendererFunc func() (string, error)) *SystemProbe {
	return &SystemProbe{
		Overrides:    overrides,
		RendererFunc: rendererFunc,
		GOOS:         runtime.GOOS,
		MeminfoPath:  "/proc/meminfo",
		Getenv:       os.Getenv,
	}
}

// Renderer implements DeviceProbe.
func (p *SystemProbe) Renderer() (string, error) {
	if p.Overrides.Renderer != "" {
		return p.Overrides.Renderer, nil
	}
	if p.RendererFunc == nil {
		return "", fmt.Errorf("no graphics context")
	}
	return p.RendererFunc()
}

// MemoryGB implements DeviceProbe. Returns 0 when unknown.
func (p *SystemProbe) MemoryGB() float64 {
	if p.Overrides.MemoryGB > 0 {
		return p.Overrides.MemoryGB
	}
	if p.MeminfoPath == "" {
		return 0
	}
	kb, err := readMemTotalKB(p.MeminfoPath)
	if err != nil {
		return 0
	}
	return float64(kb) / (1024 * 1024)
}

// Cores implements DeviceProbe.
func (p *SystemProbe) Cores() int {
	if p.Overrides.Cores > 0 {
		return p.Overrides.Cores
	}
	return runtime.NumCPU()
}

// Mobile implements DeviceProbe.
func (p *SystemProbe) Mobile() bool {
	if p.Overrides.Mobile {
		return true
	}
	switch p.GOOS {
	case "android", "ios":
		return true
	}
	return p.UserAgent != "" && mobileAgent.MatchString(p.UserAgent)
}

// ReducedMotion implements DeviceProbe.
// VERSEFX_REDUCED_MOTION=1 in the environment enables it.
func (p *SystemProbe) ReducedMotion() bool {
	if p.Overrides.ReducedMotion {
		return true
	}
	if p.Getenv == nil {
		return false
	}
	v, err := strconv.ParseBool(p.Getenv("VERSEFX_REDUCED_MOTION"))
	return err == nil && v
}

// LowPower implements DeviceProbe. There is no portable power-state signal,
// so the value is only known when forced through config.
func (p *SystemProbe) LowPower() (on, known bool) {
	if p.Overrides.LowPower {
		return true, true
	}
	return false, false
}

func readMemTotalKB(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == "MemTotal:" {
			return strconv.ParseInt(fields[1], 10, 64)
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("MemTotal not found in %s", path)
}
