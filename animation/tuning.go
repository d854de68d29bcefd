package animation

import (
	"math"

	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/config"
)

// TuneConfig derives the animation config for a theme triple. The theme
// preset is merged over the base config. Particle count is scaled by the
// intensity multiplier, speed by the mood and intensity multipliers.
func TuneConfig(settings *config.Config, tc components.ThemeConfig) components.AnimationConfig {
	if settings == nil {
		settings = config.Default()
	}
	base := settings.Engine.Base
	preset := settings.Preset(tc.Theme)
	scale := settings.IntensityScale(tc.Intensity)

	count := preset.ParticleCount
	if count <= 0 {
		count = base.ParticleCount
	}
	count = int(math.Round(float64(count) * scale.Particles))

	speed := preset.Speed
	if speed <= 0 {
		speed = base.Speed
	}
	speed *= settings.MoodSpeed(tc.Mood) * scale.Speed

	patch := components.ConfigPatch{
		ParticleCount: &count,
		Speed:         &speed,
	}
	if len(preset.Colors) > 0 {
		patch.Colors = preset.Colors
	}
	if preset.Size.Max > 0 {
		patch.Size = components.Ptr(preset.Size)
	}
	if preset.Opacity.Max > 0 {
		patch.Opacity = components.Ptr(preset.Opacity)
	}
	if preset.Life.Max > 0 {
		patch.Life = components.Ptr(preset.Life)
	}
	return base.Merge(patch)
}
