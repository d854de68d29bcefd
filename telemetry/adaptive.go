package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/versefx/config"
)

// QualityLevel is one of the three adaptive tiers.
type QualityLevel string

const (
	QualityLow    QualityLevel = "low"
	QualityMedium QualityLevel = "medium"
	QualityHigh   QualityLevel = "high"
)

// AdaptiveConfig is the particle budget derived from device capabilities.
type AdaptiveConfig struct {
	MaxParticles int
	TargetFPS    int
	EnableWebGL  bool
	QualityLevel QualityLevel
}

// LogValue implements slog.LogValuer for structured logging.
func (a AdaptiveConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("quality", string(a.QualityLevel)),
		slog.Int("max_particles", a.MaxParticles),
		slog.Int("target_fps", a.TargetFPS),
		slog.Bool("webgl", a.EnableWebGL),
	)
}

// ClassifyQuality applies the device rule table.
// Mobile, low-power and reduced-motion devices always get the low tier.
func ClassifyQuality(caps DeviceCapabilities, q config.QualityConfig) QualityLevel {
	if caps.IsMobile || caps.IsLowPower || caps.ReducedMotion {
		return QualityLow
	}

	memKnown := caps.MemoryGB > 0
	coresKnown := caps.Cores > 0

	if caps.GPUTier == GPUTierLow {
		return QualityLow
	}
	if memKnown && caps.MemoryGB < q.LowMaxMemoryGB {
		return QualityLow
	}
	if coresKnown && caps.Cores < q.LowMaxCores {
		return QualityLow
	}

	if caps.GPUTier == GPUTierHigh &&
		memKnown && caps.MemoryGB >= q.HighMinMemoryGB &&
		coresKnown && caps.Cores >= q.HighMinCores {
		return QualityHigh
	}

	return QualityMedium
}

// GenerateAdaptiveConfig maps device capabilities onto a quality tier.
func GenerateAdaptiveConfig(caps DeviceCapabilities, q config.QualityConfig) AdaptiveConfig {
	level := ClassifyQuality(caps, q)

	var tier config.TierConfig
	switch level {
	case QualityLow:
		tier = q.Low
	case QualityHigh:
		tier = q.High
	default:
		tier = q.Medium
	}

	return AdaptiveConfig{
		MaxParticles: tier.MaxParticles,
		TargetFPS:    tier.TargetFPS,
		EnableWebGL:  tier.EnableGPU,
		QualityLevel: level,
	}
}
