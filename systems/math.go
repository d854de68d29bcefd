package systems

import (
	"math"

	"github.com/pthm-cable/versefx/components"
)

// clampFloat clamps v between minVal and maxVal.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	return clampFloat(v, 0, 1)
}

// frames converts elapsed ms into reference frames.
func frames(dtMs float64) float64 {
	return dtMs / FrameMs
}

// damp applies a per-frame decay factor over f frames.
func damp(v, perFrame, f float64) float64 {
	return v * math.Pow(perFrame, f)
}

// wrap moves a coordinate that left [-margin, extent+margin] to the opposite edge.
func wrap(v, margin, extent float64) float64 {
	if v < -margin {
		return extent + margin
	}
	if v > extent+margin {
		return -margin
	}
	return v
}

// bounce reflects a coordinate and velocity off [margin, extent-margin].
func bounce(pos, vel *float64, margin, extent float64) {
	lo, hi := margin, extent-margin
	if hi < lo {
		lo, hi = extent/2, extent/2
	}
	if *pos < lo {
		*pos = lo
		*vel = math.Abs(*vel)
	} else if *pos > hi {
		*pos = hi
		*vel = -math.Abs(*vel)
	}
}

// offset returns the vector from the pointer to p and its length.
func offset(p components.Vector2D, ptr components.Vector2D) (components.Vector2D, float64) {
	d := p.Sub(ptr)
	return d, d.Len()
}

// quantizeAngle snaps an angle to the nearest multiple of sector.
func quantizeAngle(angle, sector float64) float64 {
	return math.Round(angle/sector) * sector
}

// limit scales v down to at most maxLen.
func limit(v components.Vector2D, maxLen float64) components.Vector2D {
	l := v.Len()
	if l <= maxLen || l == 0 {
		return v
	}
	return v.Scale(maxLen / l)
}

// rotate turns a local point by angle around the origin.
func rotate(x, y, angle float64) (float64, float64) {
	s, c := math.Sincos(angle)
	return x*c - y*s, x*s + y*c
}
