package renderer

import (
	"errors"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const glowFragmentShader = `#version 330
in vec2 fragTexCoord;
in vec4 fragColor;
out vec4 finalColor;

uniform vec2 resolution;
uniform float time;
uniform vec3 tint;
uniform float intensity;

void main() {
    vec2 uv = gl_FragCoord.xy / resolution;
    vec2 c = uv - vec2(0.5);
    float d = length(c * vec2(resolution.x / resolution.y, 1.0));

    // Slow breathing halo around the centre, darker towards the corners
    float pulse = 0.85 + 0.15 * sin(time * 0.6);
    float halo = smoothstep(0.75, 0.0, d) * pulse;
    float vignette = smoothstep(0.45, 0.95, d);

    vec3 col = tint * halo * intensity;
    float a = clamp(halo * intensity * 0.5 + vignette * 0.35, 0.0, 1.0);
    finalColor = vec4(mix(col, vec3(0.0), vignette), a);
}
`

// ErrShaderUnavailable is returned when the GPU overlay shader cannot be compiled.
var ErrShaderUnavailable = errors.New("glow shader unavailable")

// GlowOverlay is the optional GPU pass drawn over the particle layer.
// It must be created after the raylib window exists.
type GlowOverlay struct {
	shader        rl.Shader
	resolutionLoc int32
	timeLoc       int32
	tintLoc       int32
	intensityLoc  int32
	tint          [3]float32
	intensity     float32
	loaded        bool
}

// NewGlowOverlay compiles the overlay shader. Returns ErrShaderUnavailable when
// the context has no usable GPU pipeline.
func NewGlowOverlay(tint color.RGBA, intensity float64) (*GlowOverlay, error) {
	if !rl.IsWindowReady() || rl.GetVersion() == rl.Opengl11 {
		return nil, ErrShaderUnavailable
	}

	shader := rl.LoadShaderFromMemory("", glowFragmentShader)
	if !rl.IsShaderValid(shader) {
		return nil, ErrShaderUnavailable
	}

	g := &GlowOverlay{
		shader:        shader,
		resolutionLoc: rl.GetShaderLocation(shader, "resolution"),
		timeLoc:       rl.GetShaderLocation(shader, "time"),
		tintLoc:       rl.GetShaderLocation(shader, "tint"),
		intensityLoc:  rl.GetShaderLocation(shader, "intensity"),
		intensity:     float32(intensity),
		loaded:        true,
	}
	g.SetTint(tint)
	return g, nil
}

// SetTint changes the halo color.
func (g *GlowOverlay) SetTint(c color.RGBA) {
	g.tint = [3]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

// Draw renders the overlay across a w x h backing store at time t (seconds).
func (g *GlowOverlay) Draw(w, h int, t float64) {
	if !g.loaded {
		return
	}
	rl.SetShaderValue(g.shader, g.resolutionLoc, []float32{float32(w), float32(h)}, rl.ShaderUniformVec2)
	rl.SetShaderValue(g.shader, g.timeLoc, []float32{float32(t)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(g.shader, g.tintLoc, g.tint[:], rl.ShaderUniformVec3)
	rl.SetShaderValue(g.shader, g.intensityLoc, []float32{g.intensity}, rl.ShaderUniformFloat)

	rl.BeginBlendMode(rl.BlendAlpha)
	rl.BeginShaderMode(g.shader)
	rl.DrawRectangle(0, 0, int32(w), int32(h), rl.White)
	rl.EndShaderMode()
	rl.EndBlendMode()
}

// Unload frees GPU resources.
func (g *GlowOverlay) Unload() {
	if g.loaded {
		rl.UnloadShader(g.shader)
		g.loaded = false
	}
}
