// Package camera maps host element coordinates onto the canvas backing store.
package camera

import "math"

// Rect is an element's bounding box in client (CSS) pixels.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Viewport tracks the canvas element's on-screen box and device pixel ratio.
// The backing store is Width*DPR by Height*DPR device pixels.
type Viewport struct {
	Rect Rect
	DPR  float64

	valid bool
}

// New creates a viewport for an element box.
func New(rect Rect, dpr float64) *Viewport {
	v := &Viewport{}
	v.Update(rect, dpr)
	return v
}

// Update records the element box and DPR. It reports whether anything changed,
// so callers only resize the backing store when needed.
func (v *Viewport) Update(rect Rect, dpr float64) bool {
	if dpr <= 0 || math.IsNaN(dpr) {
		dpr = 1
	}
	if v.valid && v.Rect == rect && v.DPR == dpr {
		return false
	}
	v.Rect = rect
	v.DPR = dpr
	v.valid = true
	return true
}

// BackingSize returns the canvas backing store size in device pixels.
func (v *Viewport) BackingSize() (w, h int) {
	return int(math.Round(v.Rect.Width * v.DPR)), int(math.Round(v.Rect.Height * v.DPR))
}

// ClientToCanvas converts a client-space point to canvas pixel space.
func (v *Viewport) ClientToCanvas(cx, cy float64) (x, y float64) {
	return (cx - v.Rect.X) * v.DPR, (cy - v.Rect.Y) * v.DPR
}

// CanvasToClient converts a canvas pixel point back to client space.
func (v *Viewport) CanvasToClient(x, y float64) (cx, cy float64) {
	return x/v.DPR + v.Rect.X, y/v.DPR + v.Rect.Y
}

// Contains reports whether a client-space point is inside the element.
func (v *Viewport) Contains(cx, cy float64) bool {
	return cx >= v.Rect.X && cx < v.Rect.X+v.Rect.Width &&
		cy >= v.Rect.Y && cy < v.Rect.Y+v.Rect.Height
}
