package renderer

import (
	"fmt"
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/versefx/components"
)

// RaylibSurface draws into the current raylib frame.
// Backing-store coordinates are mapped onto the window through a 2D camera,
// so a HiDPI backing store still fills the logical window.
type RaylibSurface struct {
	w, h       int
	background rl.Color
	camera     rl.Camera2D
	inMode     bool
}

// NewRaylibSurface creates a surface with the given background color.
func NewRaylibSurface(background color.RGBA) *RaylibSurface {
	return &RaylibSurface{
		w:          rl.GetRenderWidth(),
		h:          rl.GetRenderHeight(),
		background: background,
		camera:     rl.Camera2D{Zoom: 1},
	}
}

func (s *RaylibSurface) Size() (int, int) { return s.w, s.h }

// Resize records the backing size and rescales the camera onto the window.
func (s *RaylibSurface) Resize(w, h int) {
	s.w, s.h = w, h
	screenW := rl.GetScreenWidth()
	if w > 0 && screenW > 0 {
		s.camera.Zoom = float32(screenW) / float32(w)
	}
}

// Begin starts drawing in backing-store coordinates. Pair with End.
func (s *RaylibSurface) Begin() {
	rl.BeginMode2D(s.camera)
	s.inMode = true
}

// End finishes a Begin block.
func (s *RaylibSurface) End() {
	if s.inMode {
		rl.EndMode2D()
		s.inMode = false
	}
}

func (s *RaylibSurface) Clear() {
	rl.ClearBackground(s.background)
}

func (s *RaylibSurface) Line(x1, y1, x2, y2, width float64, c color.RGBA) {
	rl.DrawLineEx(vec(x1, y1), vec(x2, y2), float32(width), c)
}

func (s *RaylibSurface) Circle(x, y, r float64, c color.RGBA) {
	rl.DrawCircleV(vec(x, y), float32(r), c)
}

func (s *RaylibSurface) Ring(x, y, r, width float64, c color.RGBA) {
	inner := float32(r - width/2)
	if inner < 0 {
		inner = 0
	}
	rl.DrawRing(vec(x, y), inner, float32(r+width/2), 0, 360, ringSegments(r), c)
}

func (s *RaylibSurface) RadialGradient(x, y, r float64, inner, outer color.RGBA) {
	rl.DrawCircleGradient(int32(x), int32(y), float32(r), inner, outer)
}

func (s *RaylibSurface) Polygon(x, y float64, sides int, r, rotation float64, c color.RGBA) {
	rl.DrawPoly(vec(x, y), int32(sides), float32(r), degrees(rotation), c)
}

func (s *RaylibSurface) PolygonOutline(x, y float64, sides int, r, rotation, width float64, c color.RGBA) {
	rl.DrawPolyLinesEx(vec(x, y), int32(sides), float32(r), degrees(rotation), float32(width), c)
}

func (s *RaylibSurface) Fan(points []components.Vector2D, c color.RGBA) {
	if len(points) < 3 {
		return
	}
	pts := make([]rl.Vector2, len(points))
	for i, p := range points {
		pts[i] = vec(p.X, p.Y)
	}
	rl.DrawTriangleFan(pts, c)
}

func vec(x, y float64) rl.Vector2 {
	return rl.Vector2{X: float32(x), Y: float32(y)}
}

func degrees(rad float64) float32 {
	return float32(rad * 180 / math.Pi)
}

// ringSegments scales tessellation with radius.
func ringSegments(r float64) int32 {
	n := int32(r / 2)
	if n < 16 {
		return 16
	}
	if n > 96 {
		return 96
	}
	return n
}

// GLRenderer describes the active GL context for device classification.
// It must be called after the window is created.
func GLRenderer() (string, error) {
	if !rl.IsWindowReady() {
		return "", fmt.Errorf("window not initialised")
	}
	switch rl.GetVersion() {
	case rl.Opengl11:
		return "software OpenGL 1.1", nil
	case rl.Opengl21:
		return "OpenGL 2.1", nil
	case rl.Opengl33:
		return "OpenGL 3.3", nil
	case rl.Opengl43:
		return "OpenGL 4.3", nil
	case rl.OpenglEs20:
		return "OpenGL ES 2.0", nil
	default:
		return "", fmt.Errorf("unknown GL version %d", rl.GetVersion())
	}
}
