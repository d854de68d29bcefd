package components

import "math/rand"

// AnimationConfig is the tuning shared by all strategies.
// Values are treated as immutable; use Merge to derive a new one.
type AnimationConfig struct {
	ParticleCount int      `yaml:"particle_count"`
	Colors        []string `yaml:"colors"`
	Speed         float64  `yaml:"speed"`
	Size          Range    `yaml:"size"`
	Opacity       Range    `yaml:"opacity"`
	Life          Range    `yaml:"life"` // ms
	Interactive   bool     `yaml:"interactive"`
	WebGL         bool     `yaml:"webgl"`
}

// ConfigPatch is a partial AnimationConfig. Nil fields are left unchanged.
type ConfigPatch struct {
	ParticleCount *int     `yaml:"particle_count,omitempty"`
	Colors        []string `yaml:"colors,omitempty"`
	Speed         *float64 `yaml:"speed,omitempty"`
	Size          *Range   `yaml:"size,omitempty"`
	Opacity       *Range   `yaml:"opacity,omitempty"`
	Life          *Range   `yaml:"life,omitempty"`
	Interactive   *bool    `yaml:"interactive,omitempty"`
	WebGL         *bool    `yaml:"webgl,omitempty"`
}

// Clone returns a deep copy of c.
func (c AnimationConfig) Clone() AnimationConfig {
	out := c
	if c.Colors != nil {
		out.Colors = append([]string(nil), c.Colors...)
	}
	return out
}

// Merge returns a new config with the non-nil fields of p applied over c.
// c itself is not modified.
func (c AnimationConfig) Merge(p ConfigPatch) AnimationConfig {
	out := c.Clone()
	if p.ParticleCount != nil {
		out.ParticleCount = *p.ParticleCount
	}
	if p.Colors != nil {
		out.Colors = append([]string(nil), p.Colors...)
	}
	if p.Speed != nil {
		out.Speed = *p.Speed
	}
	if p.Size != nil {
		out.Size = *p.Size
	}
	if p.Opacity != nil {
		out.Opacity = *p.Opacity
	}
	if p.Life != nil {
		out.Life = *p.Life
	}
	if p.Interactive != nil {
		out.Interactive = *p.Interactive
	}
	if p.WebGL != nil {
		out.WebGL = *p.WebGL
	}
	return out
}

// PickColor samples one palette entry. Falls back to white on an empty palette.
func (c AnimationConfig) PickColor(rng *rand.Rand) string {
	if len(c.Colors) == 0 {
		return "#ffffff"
	}
	return c.Colors[rng.Intn(len(c.Colors))]
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }
