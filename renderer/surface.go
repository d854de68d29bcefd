// Package renderer provides the drawing surfaces the animation engine renders into.
package renderer

import (
	"image/color"

	"github.com/pthm-cable/versefx/components"
)

// Surface is a 2D drawing target in backing-store pixel coordinates.
// Angles are in radians.
type Surface interface {
	// Size returns the backing store dimensions.
	Size() (w, h int)
	// Resize sets the backing store dimensions.
	Resize(w, h int)
	// Clear erases the whole surface.
	Clear()

	Line(x1, y1, x2, y2, width float64, c color.RGBA)
	Circle(x, y, r float64, c color.RGBA)
	Ring(x, y, r, width float64, c color.RGBA)
	RadialGradient(x, y, r float64, inner, outer color.RGBA)
	Polygon(x, y float64, sides int, r, rotation float64, c color.RGBA)
	PolygonOutline(x, y float64, sides int, r, rotation, width float64, c color.RGBA)
	// Fan fills a triangle fan; points[0] is the hub.
	Fan(points []components.Vector2D, c color.RGBA)
}
