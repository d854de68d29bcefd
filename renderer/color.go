package renderer

import (
	"image/color"
	"math"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	colorCacheMu sync.RWMutex
	colorCache   = make(map[string]color.RGBA)
)

// ParseColor parses a #rrggbb palette entry. Invalid entries render white.
// Results are cached since palettes are sampled every frame.
func ParseColor(hex string) color.RGBA {
	colorCacheMu.RLock()
	c, ok := colorCache[hex]
	colorCacheMu.RUnlock()
	if ok {
		return c
	}

	parsed, err := colorful.Hex(hex)
	if err != nil {
		c = color.RGBA{255, 255, 255, 255}
	} else {
		r, g, b := parsed.Clamped().RGB255()
		c = color.RGBA{r, g, b, 255}
	}

	colorCacheMu.Lock()
	colorCache[hex] = c
	colorCacheMu.Unlock()
	return c
}

// WithAlpha returns c with alpha set from an opacity in [0, 1].
func WithAlpha(c color.RGBA, opacity float64) color.RGBA {
	c.A = alpha8(opacity)
	return c
}

// HSL returns an opaque color from hue in degrees, saturation and lightness in [0, 1].
func HSL(h, s, l float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return color.RGBA{r, g, b, 255}
}

// Blend mixes two colors in CIE-Lab space; t=0 gives a, t=1 gives b.
// Alpha is interpolated linearly.
func Blend(a, b color.RGBA, t float64) color.RGBA {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	r, g, bl := ca.BlendLab(cb, t).Clamped().RGB255()
	alpha := float64(a.A) + (float64(b.A)-float64(a.A))*t
	return color.RGBA{r, g, bl, uint8(math.Round(alpha))}
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

func alpha8(opacity float64) uint8 {
	if opacity <= 0 || math.IsNaN(opacity) {
		return 0
	}
	if opacity >= 1 {
		return 255
	}
	return uint8(math.Round(opacity * 255))
}
